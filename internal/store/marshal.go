package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
)

// ReadCollection loads the JSON array stored under key.
//
// Absent keys, adapter read errors, corrupted JSON, and a literal null all
// yield an empty (non-nil) slice. Failures are logged at Warn and never
// returned; a corrupted blob from an older version must not break the session.
func ReadCollection[T any](ctx context.Context, a Adapter, key string, logger *slog.Logger) []T {
	var out []T
	if !ReadJSON(ctx, a, key, &out, logger) || out == nil {
		return []T{}
	}
	return out
}

// ReadJSON decodes the value stored under key into v.
// Returns false when the key is absent or unreadable; v is left untouched
// in that case. Decode failures are logged, not returned.
func ReadJSON(ctx context.Context, a Adapter, key string, v any, logger *slog.Logger) bool {
	raw, ok, err := a.Get(ctx, key)
	if err != nil {
		loggerOrDefault(logger).Warn("store read failed", "key", key, "error", err)
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		loggerOrDefault(logger).Warn("discarding corrupted payload", "key", key, "error", err)
		return false
	}
	return true
}

// WriteCollection stores items under key as a JSON array. A nil slice is
// written as [] so readers never see null.
func WriteCollection[T any](ctx context.Context, a Adapter, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	return WriteJSON(ctx, a, key, items)
}

// EncodeJSON serializes v for storage.
func EncodeJSON(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal: %w", err)
	}
	return string(data), nil
}

// WriteJSON serializes v and stores it under key, replacing any previous value.
func WriteJSON(ctx context.Context, a Adapter, key string, v any) error {
	raw, err := EncodeJSON(v)
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := a.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func loggerOrDefault(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}
