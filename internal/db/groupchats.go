package db

import (
	"context"

	"github.com/hainm/keobot/internal/event"
)

// UpsertGroupChat inserts the chat or refreshes its display name.
func (db *DB) UpsertGroupChat(ctx context.Context, chat event.GroupChat) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO group_chats (id, name)
         VALUES ($1, NULLIF($2, ''))
         ON CONFLICT (id) DO UPDATE SET name = COALESCE(EXCLUDED.name, group_chats.name), updated_at = now()`,
		chat.ID, chat.DisplayName,
	)
	return err
}
