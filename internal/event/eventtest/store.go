// Package eventtest provides an in-memory event.Store for tests. It mirrors
// the Postgres store's semantics, including atomic sequence allocation and
// the cascade from attendee removal to payments.
package eventtest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/hainm/keobot/internal/event"
	"github.com/hainm/keobot/internal/text"
)

type Store struct {
	mu         sync.Mutex
	groupChats map[string]event.GroupChat
	events     map[string]*event.Event
	attendees  map[string][]event.Attendee // by event ID, insertion order
	payments   map[string][]event.Payment
	nextPayID  int64
}

func NewStore() *Store {
	return &Store{
		groupChats: make(map[string]event.GroupChat),
		events:     make(map[string]*event.Event),
		attendees:  make(map[string][]event.Attendee),
		payments:   make(map[string][]event.Payment),
	}
}

func (s *Store) UpsertGroupChat(_ context.Context, chat event.GroupChat) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.groupChats[chat.ID] = chat
	return nil
}

func (s *Store) CreateEvent(_ context.Context, draft event.EventDraft) (*event.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	maxSeq := 0
	for _, ev := range s.events {
		if ev.GroupChatID == draft.GroupChatID && ev.Status == event.StatusPlanning {
			return nil, event.ErrEventAlreadyPlanning
		}
		if ev.GroupChatID == draft.GroupChatID && ev.OwnerID == draft.OwnerID && ev.Sequence > maxSeq {
			maxSeq = ev.Sequence
		}
	}

	ev := &event.Event{
		ID:          event.EventID(draft.GroupChatID, draft.OwnerSlug, maxSeq+1),
		GroupChatID: draft.GroupChatID,
		OwnerID:     draft.OwnerID,
		OwnerName:   draft.OwnerName,
		OwnerSlug:   draft.OwnerSlug,
		Sequence:    maxSeq + 1,
		Status:      event.StatusPlanning,
		CreatedAt:   draft.CreatedAt,
	}
	s.events[ev.ID] = ev
	s.attendees[ev.ID] = append(s.attendees[ev.ID], event.Attendee{
		EventID:        ev.ID,
		Name:           draft.OwnerName,
		NormalizedName: text.NormalizeName(draft.OwnerName),
		Going:          true,
	})

	out := *ev
	return &out, nil
}

func (s *Store) PlanningEvent(_ context.Context, groupChatID string) (*event.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var latest *event.Event
	for _, ev := range s.events {
		if ev.GroupChatID != groupChatID || ev.Status != event.StatusPlanning {
			continue
		}
		if latest == nil || ev.CreatedAt.After(latest.CreatedAt) {
			latest = ev
		}
	}
	if latest == nil {
		return nil, nil
	}
	out := *latest
	return &out, nil
}

func (s *Store) LatestEvent(_ context.Context, groupChatID string) (*event.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var candidates []*event.Event
	for _, ev := range s.events {
		if ev.GroupChatID == groupChatID {
			candidates = append(candidates, ev)
		}
	}
	if len(candidates) == 0 {
		return nil, nil
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].CreatedAt.Equal(candidates[j].CreatedAt) {
			return candidates[i].Sequence > candidates[j].Sequence
		}
		return candidates[i].CreatedAt.After(candidates[j].CreatedAt)
	})
	out := *candidates[0]
	return &out, nil
}

func (s *Store) SetEventDate(_ context.Context, eventID string, date time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ev, ok := s.events[eventID]; ok {
		d := date
		ev.Date = &d
	}
	return nil
}

func (s *Store) SetEventVenue(_ context.Context, eventID, venueURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ev, ok := s.events[eventID]; ok {
		ev.VenueURL = venueURL
	}
	return nil
}

func (s *Store) EndEvent(_ context.Context, eventID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ev, ok := s.events[eventID]; ok {
		ev.Status = event.StatusEnded
	}
	return nil
}

func (s *Store) UpsertAttendee(_ context.Context, a event.Attendee) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := s.attendees[a.EventID]
	for i, row := range rows {
		if row.NormalizedName == a.NormalizedName {
			rows[i].Name = a.Name
			rows[i].Going = a.Going
			return nil
		}
	}
	s.attendees[a.EventID] = append(rows, a)
	return nil
}

func (s *Store) SetAttendeeGoing(_ context.Context, eventID, normalizedName string, going bool) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := s.attendees[eventID]
	for i, row := range rows {
		if row.NormalizedName == normalizedName {
			rows[i].Going = going
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) DeleteAttendee(_ context.Context, eventID, normalizedName string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := s.attendees[eventID]
	for i, row := range rows {
		if row.NormalizedName == normalizedName {
			s.attendees[eventID] = append(rows[:i:i], rows[i+1:]...)
			var kept []event.Payment
			for _, p := range s.payments[eventID] {
				if p.NormalizedName != normalizedName {
					kept = append(kept, p)
				}
			}
			s.payments[eventID] = kept
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) InsertPayment(_ context.Context, p event.Payment) (*event.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextPayID++
	p.ID = s.nextPayID
	s.payments[p.EventID] = append(s.payments[p.EventID], p)
	out := p
	return &out, nil
}

func (s *Store) EventSnapshot(_ context.Context, eventID string) (*event.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ev, ok := s.events[eventID]
	if !ok {
		return nil, nil
	}
	snap := &event.Snapshot{Event: *ev}
	snap.Attendees = append(snap.Attendees, s.attendees[eventID]...)
	snap.Payments = append(snap.Payments, s.payments[eventID]...)
	return snap, nil
}
