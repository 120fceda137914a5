package db

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/hainm/keobot/internal/event"
	"github.com/hainm/keobot/internal/text"
)

const eventColumns = `id, group_chat_id, owner_id, owner_name, owner_slug, sequence, status, event_date, COALESCE(venue_url, ''), created_at`

func scanEvent(row pgx.Row) (*event.Event, error) {
	var ev event.Event
	var status string
	var date *time.Time
	if err := row.Scan(&ev.ID, &ev.GroupChatID, &ev.OwnerID, &ev.OwnerName, &ev.OwnerSlug,
		&ev.Sequence, &status, &date, &ev.VenueURL, &ev.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	ev.Status = event.Status(status)
	ev.Date = date
	return &ev, nil
}

// CreateEvent allocates the next sequence for the owner, inserts the event in
// planning state and auto-adds the owner as a going attendee, all in one
// transaction. The advisory lock serializes creations per group so the
// planning check and the sequence allocation cannot race.
func (db *DB) CreateEvent(ctx context.Context, draft event.EventDraft) (*event.Event, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, draft.GroupChatID); err != nil {
		return nil, err
	}

	var open bool
	if err := tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM events WHERE group_chat_id = $1 AND status = 'planning')`,
		draft.GroupChatID,
	).Scan(&open); err != nil {
		return nil, err
	}
	if open {
		return nil, event.ErrEventAlreadyPlanning
	}

	var maxSeq int
	if err := tx.QueryRow(ctx,
		`SELECT COALESCE(MAX(sequence), 0) FROM events WHERE group_chat_id = $1 AND owner_id = $2`,
		draft.GroupChatID, draft.OwnerID,
	).Scan(&maxSeq); err != nil {
		return nil, err
	}
	sequence := maxSeq + 1

	ev := event.Event{
		ID:          event.EventID(draft.GroupChatID, draft.OwnerSlug, sequence),
		GroupChatID: draft.GroupChatID,
		OwnerID:     draft.OwnerID,
		OwnerName:   draft.OwnerName,
		OwnerSlug:   draft.OwnerSlug,
		Sequence:    sequence,
		Status:      event.StatusPlanning,
		CreatedAt:   draft.CreatedAt,
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO events (id, group_chat_id, owner_id, owner_name, owner_slug, sequence, status, created_at, updated_at)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)`,
		ev.ID, ev.GroupChatID, ev.OwnerID, ev.OwnerName, ev.OwnerSlug, ev.Sequence, string(ev.Status), ev.CreatedAt,
	); err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO event_attendees (event_id, name, normalized_name, go_flag)
         VALUES ($1, $2, $3, TRUE)
         ON CONFLICT (event_id, normalized_name) DO UPDATE SET name = EXCLUDED.name, go_flag = TRUE`,
		ev.ID, ev.OwnerName, text.NormalizeName(ev.OwnerName),
	); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &ev, nil
}

// PlanningEvent returns the group's open event, or nil when there is none.
func (db *DB) PlanningEvent(ctx context.Context, groupChatID string) (*event.Event, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+eventColumns+` FROM events
         WHERE group_chat_id = $1 AND status = 'planning'
         ORDER BY created_at DESC LIMIT 1`,
		groupChatID,
	)
	return scanEvent(row)
}

// LatestEvent returns the most recently created event including ended ones.
func (db *DB) LatestEvent(ctx context.Context, groupChatID string) (*event.Event, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+eventColumns+` FROM events
         WHERE group_chat_id = $1
         ORDER BY created_at DESC LIMIT 1`,
		groupChatID,
	)
	return scanEvent(row)
}

func (db *DB) SetEventDate(ctx context.Context, eventID string, date time.Time) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE events SET event_date = $2, updated_at = now() WHERE id = $1`,
		eventID, date,
	)
	return err
}

func (db *DB) SetEventVenue(ctx context.Context, eventID, venueURL string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE events SET venue_url = $2, updated_at = now() WHERE id = $1`,
		eventID, venueURL,
	)
	return err
}

func (db *DB) EndEvent(ctx context.Context, eventID string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE events SET status = 'ended', updated_at = now() WHERE id = $1`,
		eventID,
	)
	return err
}

// EventSnapshot loads the event with its attendee and payment sets.
func (db *DB) EventSnapshot(ctx context.Context, eventID string) (*event.Snapshot, error) {
	ev, err := scanEvent(db.pool.QueryRow(ctx,
		`SELECT `+eventColumns+` FROM events WHERE id = $1`, eventID,
	))
	if err != nil || ev == nil {
		return nil, err
	}

	attendees, err := db.eventAttendees(ctx, eventID)
	if err != nil {
		return nil, err
	}
	payments, err := db.eventPayments(ctx, eventID)
	if err != nil {
		return nil, err
	}

	return &event.Snapshot{Event: *ev, Attendees: attendees, Payments: payments}, nil
}
