package event

import (
	"context"
	"time"

	"github.com/hainm/keobot/internal/text"
)

// Service is the sole writer of event state. Every operation is one atomic
// unit against the store and fails fast with a typed error.
type Service struct {
	store Store
	now   func() time.Time
}

// NewService wires the lifecycle over a store. now may be nil, in which case
// time.Now is used; tests pass a fixed clock.
func NewService(store Store, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{store: store, now: now}
}

// EnsureGroupChat upserts the group chat row. The display name is overwritten
// on every call so renames are picked up lazily.
func (s *Service) EnsureGroupChat(ctx context.Context, id, displayName string) error {
	return s.store.UpsertGroupChat(ctx, GroupChat{ID: id, DisplayName: displayName})
}

// CreateEvent opens a new planning event owned by the sender and auto-adds
// the owner as a going attendee. Fails with ErrEventAlreadyPlanning while the
// group still has an open event.
func (s *Service) CreateEvent(ctx context.Context, groupChatID, ownerID, ownerName string) (*Event, error) {
	existing, err := s.store.PlanningEvent(ctx, groupChatID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEventAlreadyPlanning
	}

	// The store re-checks inside its transaction; this pre-check only
	// gives callers the common-case error without a write attempt.
	return s.store.CreateEvent(ctx, EventDraft{
		GroupChatID: groupChatID,
		OwnerID:     ownerID,
		OwnerName:   ownerName,
		OwnerSlug:   text.Slugify(ownerName),
		CreatedAt:   s.now(),
	})
}

// AddAttendees upserts each name. Duplicate spellings of the same person
// collapse to one row keyed by normalized name; re-adding resets the going
// flag. Returns the deduplicated display names in input order.
func (s *Service) AddAttendees(ctx context.Context, eventID string, names []string) ([]string, error) {
	seen := make(map[string]struct{}, len(names))
	var added []string
	for _, name := range names {
		normalized := text.NormalizeName(name)
		if normalized == "" {
			continue
		}
		if _, dup := seen[normalized]; dup {
			continue
		}
		seen[normalized] = struct{}{}

		if err := s.store.UpsertAttendee(ctx, Attendee{
			EventID:        eventID,
			Name:           name,
			NormalizedName: normalized,
			Going:          true,
		}); err != nil {
			return nil, err
		}
		added = append(added, name)
	}
	return added, nil
}

// SetAttendeeGoing flips the going flag without deleting history.
func (s *Service) SetAttendeeGoing(ctx context.Context, eventID, name string, going bool) error {
	found, err := s.store.SetAttendeeGoing(ctx, eventID, text.NormalizeName(name), going)
	if err != nil {
		return err
	}
	if !found {
		return ErrAttendeeNotFound
	}
	return nil
}

// RemovalResult reports the three disjoint outcomes of a removal batch.
type RemovalResult struct {
	Removed   []string
	Missing   []string
	Protected []string
}

// RemoveAttendees deletes each named attendee together with their payments.
// The owner is protected and reported, not removed. When nothing was removed
// the whole call fails: ErrProtectedOwner if any target was the owner,
// ErrAttendeeNotFound otherwise.
func (s *Service) RemoveAttendees(ctx context.Context, ev *Event, names []string) (RemovalResult, error) {
	ownerNormalized := text.NormalizeName(ev.OwnerName)

	var res RemovalResult
	for _, name := range names {
		if text.NormalizeName(name) == ownerNormalized {
			res.Protected = append(res.Protected, name)
			continue
		}
		deleted, err := s.store.DeleteAttendee(ctx, ev.ID, text.NormalizeName(name))
		if err != nil {
			return res, err
		}
		if deleted {
			res.Removed = append(res.Removed, name)
		} else {
			res.Missing = append(res.Missing, name)
		}
	}

	if len(res.Removed) == 0 {
		if len(res.Protected) > 0 {
			return res, ErrProtectedOwner
		}
		return res, ErrAttendeeNotFound
	}
	return res, nil
}

// SetEventDate overwrites the event date unconditionally.
func (s *Service) SetEventDate(ctx context.Context, eventID string, date time.Time) error {
	return s.store.SetEventDate(ctx, eventID, date)
}

// SetEventVenue overwrites the venue URL unconditionally.
func (s *Service) SetEventVenue(ctx context.Context, eventID, venueURL string) error {
	return s.store.SetEventVenue(ctx, eventID, venueURL)
}

// EndEvent closes the event. The transition is one-way; callers are expected
// to have resolved the planning event first.
func (s *Service) EndEvent(ctx context.Context, eventID string) error {
	return s.store.EndEvent(ctx, eventID)
}

// RecordPayment logs a prepaid amount against the event. The payer is
// auto-enrolled as an attendee unless the name is the reserved court token:
// court money is shared facility cost, not a person.
func (s *Service) RecordPayment(ctx context.Context, eventID, payerName string, amount int64, note string) (*Payment, error) {
	normalized := text.NormalizeName(payerName)

	if !IsCourtName(normalized) {
		if err := s.store.UpsertAttendee(ctx, Attendee{
			EventID:        eventID,
			Name:           payerName,
			NormalizedName: normalized,
			Going:          true,
		}); err != nil {
			return nil, err
		}
	}

	return s.store.InsertPayment(ctx, Payment{
		EventID:        eventID,
		PayerName:      payerName,
		NormalizedName: normalized,
		Amount:         amount,
		Note:           note,
	})
}

// PlanningEvent returns the group's open event, or nil.
func (s *Service) PlanningEvent(ctx context.Context, groupChatID string) (*Event, error) {
	return s.store.PlanningEvent(ctx, groupChatID)
}

// LatestEvent returns the most recently created event, ended or not, or nil.
func (s *Service) LatestEvent(ctx context.Context, groupChatID string) (*Event, error) {
	return s.store.LatestEvent(ctx, groupChatID)
}

// Snapshot loads the read-only view used for settlement.
func (s *Service) Snapshot(ctx context.Context, eventID string) (*Snapshot, error) {
	return s.store.EventSnapshot(ctx, eventID)
}
