package db

import (
	"context"

	"github.com/hainm/keobot/internal/event"
)

// UpsertAttendee adds or updates an attendee keyed by normalized name. The
// display name and going flag take the incoming values; no duplicate row is
// ever created for the same person.
func (db *DB) UpsertAttendee(ctx context.Context, a event.Attendee) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO event_attendees (event_id, name, normalized_name, go_flag)
         VALUES ($1, $2, $3, $4)
         ON CONFLICT (event_id, normalized_name) DO UPDATE SET name = EXCLUDED.name, go_flag = EXCLUDED.go_flag`,
		a.EventID, a.Name, a.NormalizedName, a.Going,
	)
	return err
}

// SetAttendeeGoing flips the going flag. Returns false when no row matched.
func (db *DB) SetAttendeeGoing(ctx context.Context, eventID, normalizedName string, going bool) (bool, error) {
	ct, err := db.pool.Exec(ctx,
		`UPDATE event_attendees SET go_flag = $3 WHERE event_id = $1 AND normalized_name = $2`,
		eventID, normalizedName, going,
	)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

// DeleteAttendee removes the attendee row and every payment recorded under
// the same normalized name in one transaction. Returns false when the
// attendee did not exist; payments are left untouched in that case.
func (db *DB) DeleteAttendee(ctx context.Context, eventID, normalizedName string) (bool, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	ct, err := tx.Exec(ctx,
		`DELETE FROM event_attendees WHERE event_id = $1 AND normalized_name = $2`,
		eventID, normalizedName,
	)
	if err != nil {
		return false, err
	}
	if ct.RowsAffected() == 0 {
		return false, nil
	}

	if _, err := tx.Exec(ctx,
		`DELETE FROM event_payments WHERE event_id = $1 AND normalized_name = $2`,
		eventID, normalizedName,
	); err != nil {
		return false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return false, err
	}
	return true, nil
}

func (db *DB) eventAttendees(ctx context.Context, eventID string) ([]event.Attendee, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT event_id, name, normalized_name, go_flag
         FROM event_attendees WHERE event_id = $1 ORDER BY created_at, normalized_name`,
		eventID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []event.Attendee
	for rows.Next() {
		var a event.Attendee
		if err := rows.Scan(&a.EventID, &a.Name, &a.NormalizedName, &a.Going); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
