package event

import "errors"

var (
	// ErrEventAlreadyPlanning is returned by CreateEvent while the group
	// still has an open planning event.
	ErrEventAlreadyPlanning = errors.New("a planning event already exists for this group chat")

	// ErrAttendeeNotFound is returned when no attendee matches the
	// normalized form of the given name.
	ErrAttendeeNotFound = errors.New("attendee not found")

	// ErrProtectedOwner is returned when a removal batch targets nothing
	// but the event owner.
	ErrProtectedOwner = errors.New("the event owner cannot be removed")
)
