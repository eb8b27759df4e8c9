package store

import (
	"context"
	"database/sql"
	"fmt"
)

const upsertSQL = `
	INSERT INTO kv (key, value) VALUES (?, ?)
	ON CONFLICT(key) DO UPDATE SET value = excluded.value
`

// Set implements Adapter. Existing values are replaced.
func (s *Store) Set(ctx context.Context, key, value string) error {
	if _, err := s.db.ExecContext(ctx, upsertSQL, key, value); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Remove implements Adapter.
func (s *Store) Remove(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

// SetMany implements Batcher.
// All writes are applied in a single transaction - if any write fails, none persist.
func (s *Store) SetMany(ctx context.Context, writes []Write) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, w := range writes {
		if err = applyTx(ctx, tx, w); err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func applyTx(ctx context.Context, tx *sql.Tx, w Write) error {
	if w.Delete {
		if _, err := tx.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, w.Key); err != nil {
			return fmt.Errorf("remove %s: %w", w.Key, err)
		}
		return nil
	}
	if _, err := tx.ExecContext(ctx, upsertSQL, w.Key, w.Value); err != nil {
		return fmt.Errorf("set %s: %w", w.Key, err)
	}
	return nil
}
