package event

import (
	"context"
	"time"
)

// Store is the persistence collaborator. internal/db implements it over
// Postgres; tests use the in-memory implementation in eventtest.
//
// CreateEvent must be atomic: the sequence allocation for the draft's
// (group chat, owner) pair, the planning-event uniqueness check, the event
// insert and the owner's attendee row all happen in one transaction, so
// concurrent creations never collide. It returns ErrEventAlreadyPlanning when
// the group already has an open event. Lookups returning a single row yield
// (nil, nil) when nothing matches.
type Store interface {
	UpsertGroupChat(ctx context.Context, chat GroupChat) error

	CreateEvent(ctx context.Context, draft EventDraft) (*Event, error)
	PlanningEvent(ctx context.Context, groupChatID string) (*Event, error)
	LatestEvent(ctx context.Context, groupChatID string) (*Event, error)
	SetEventDate(ctx context.Context, eventID string, date time.Time) error
	SetEventVenue(ctx context.Context, eventID, venueURL string) error
	EndEvent(ctx context.Context, eventID string) error

	UpsertAttendee(ctx context.Context, a Attendee) error
	SetAttendeeGoing(ctx context.Context, eventID, normalizedName string, going bool) (bool, error)
	// DeleteAttendee removes the attendee row and every payment recorded
	// under the same normalized name for the event, in one transaction.
	DeleteAttendee(ctx context.Context, eventID, normalizedName string) (bool, error)

	InsertPayment(ctx context.Context, p Payment) (*Payment, error)

	EventSnapshot(ctx context.Context, eventID string) (*Snapshot, error)
}
