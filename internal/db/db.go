// Package db implements event.Store over Postgres.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type DB struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

func (db *DB) Close() {
	db.pool.Close()
}

// RunMigrations runs database migrations
func (db *DB) RunMigrations(ctx context.Context) error {
	_, err := db.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS group_chats (
			id TEXT PRIMARY KEY,
			name TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);

		CREATE TABLE IF NOT EXISTS events (
			id TEXT PRIMARY KEY,
			group_chat_id TEXT NOT NULL REFERENCES group_chats(id) ON DELETE CASCADE,
			owner_id TEXT NOT NULL,
			owner_name TEXT NOT NULL,
			owner_slug TEXT NOT NULL,
			sequence INTEGER NOT NULL,
			status TEXT NOT NULL DEFAULT 'planning',
			event_date DATE,
			venue_url TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			CONSTRAINT events_owner_sequence_unique UNIQUE (group_chat_id, owner_id, sequence)
		);
		CREATE INDEX IF NOT EXISTS idx_events_group_status ON events(group_chat_id, status);

		CREATE TABLE IF NOT EXISTS event_attendees (
			event_id TEXT NOT NULL REFERENCES events(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			normalized_name TEXT NOT NULL,
			go_flag BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (event_id, normalized_name)
		);

		CREATE TABLE IF NOT EXISTS event_payments (
			id BIGSERIAL PRIMARY KEY,
			event_id TEXT NOT NULL REFERENCES events(id) ON DELETE CASCADE,
			payer_name TEXT NOT NULL,
			normalized_name TEXT NOT NULL,
			amount BIGINT NOT NULL,
			note TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS idx_event_payments_event ON event_payments(event_id);
	`)
	return err
}
