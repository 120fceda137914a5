package db

import (
	"context"

	"github.com/hainm/keobot/internal/event"
)

// InsertPayment records one ledger line. Payments are never merged.
func (db *DB) InsertPayment(ctx context.Context, p event.Payment) (*event.Payment, error) {
	err := db.pool.QueryRow(ctx,
		`INSERT INTO event_payments (event_id, payer_name, normalized_name, amount, note)
         VALUES ($1, $2, $3, $4, NULLIF($5, ''))
         RETURNING id`,
		p.EventID, p.PayerName, p.NormalizedName, p.Amount, p.Note,
	).Scan(&p.ID)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (db *DB) eventPayments(ctx context.Context, eventID string) ([]event.Payment, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, event_id, payer_name, normalized_name, amount, COALESCE(note, '')
         FROM event_payments WHERE event_id = $1 ORDER BY id`,
		eventID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []event.Payment
	for rows.Next() {
		var p event.Payment
		if err := rows.Scan(&p.ID, &p.EventID, &p.PayerName, &p.NormalizedName, &p.Amount, &p.Note); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
