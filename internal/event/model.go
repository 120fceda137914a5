// Package event owns the meetup lifecycle: group chats, events, attendees and
// payments, and the rules for mutating them. Persistence lives behind the
// Store interface.
package event

import (
	"fmt"
	"time"
)

type Status string

const (
	StatusPlanning Status = "planning"
	StatusEnded    Status = "ended"
)

type GroupChat struct {
	ID          string
	DisplayName string
}

type Event struct {
	ID          string
	GroupChatID string
	OwnerID     string
	OwnerName   string
	OwnerSlug   string
	Sequence    int
	Status      Status
	Date        *time.Time
	VenueURL    string
	CreatedAt   time.Time
}

type Attendee struct {
	EventID        string
	Name           string
	NormalizedName string
	Going          bool
}

type Payment struct {
	ID             int64
	EventID        string
	PayerName      string
	NormalizedName string
	Amount         int64
	Note           string
}

// EventDraft is what the lifecycle hands to the store for creation; the store
// allocates the sequence and derives the final ID inside one transaction.
type EventDraft struct {
	GroupChatID string
	OwnerID     string
	OwnerName   string
	OwnerSlug   string
	CreatedAt   time.Time
}

// Snapshot is the read-only view the settlement engine works from.
type Snapshot struct {
	Event     Event
	Attendees []Attendee
	Payments  []Payment
}

// EventID derives the deterministic event identifier.
func EventID(groupChatID, ownerSlug string, sequence int) string {
	return fmt.Sprintf("%s:%s:%d", groupChatID, ownerSlug, sequence)
}

// IsCourtName reports whether a normalized payer name is the reserved court
// token. Court payments are shared facility cost, not a personal prepaid.
func IsCourtName(normalized string) bool {
	return normalized == "san" || normalized == "court"
}
