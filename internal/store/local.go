package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/abhisek/lingua/internal/progress"
	"github.com/abhisek/lingua/internal/streak"
)

const (
	streakKey      = "streakData"
	accuracyPrefix = "accuracyCache:"
)

// LocalState is the key-value repository for per-user client state. It
// satisfies streak.Repo and progress.LocalState.
type LocalState struct {
	db *sqlx.DB
}

// SaveStreak upserts the streak record.
func (l *LocalState) SaveStreak(ctx context.Context, rec streak.Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode streak record: %w", err)
	}
	return l.put(ctx, streakKey, data)
}

// LoadStreak returns the persisted streak record, or nil when none
// exists.
func (l *LocalState) LoadStreak(ctx context.Context) (*streak.Record, error) {
	data, err := l.get(ctx, streakKey)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}
	var rec streak.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode streak record: %w", err)
	}
	return &rec, nil
}

// DeleteStreak removes the streak record. Part of the logout clear path.
func (l *LocalState) DeleteStreak(ctx context.Context) error {
	_, err := l.db.ExecContext(ctx, `DELETE FROM local_state WHERE key = ?`, streakKey)
	if err != nil {
		return fmt.Errorf("delete streak record: %w", err)
	}
	return nil
}

// AddSessionMinutes accumulates practice minutes under a UTC day key and
// returns the day's new total.
func (l *LocalState) AddSessionMinutes(ctx context.Context, day string, minutes int) (int, error) {
	_, err := l.db.ExecContext(ctx, `
		INSERT INTO session_minutes (day, minutes) VALUES (?, ?)
		ON CONFLICT(day) DO UPDATE SET minutes = minutes + excluded.minutes`,
		day, minutes)
	if err != nil {
		return 0, fmt.Errorf("accumulate session minutes: %w", err)
	}

	var total int
	if err := l.db.GetContext(ctx, &total, `SELECT minutes FROM session_minutes WHERE day = ?`, day); err != nil {
		return 0, fmt.Errorf("read session minutes: %w", err)
	}
	return total, nil
}

// SessionMinutes returns the accumulated minutes for a UTC day key.
func (l *LocalState) SessionMinutes(ctx context.Context, day string) (int, error) {
	var total int
	err := l.db.GetContext(ctx, &total, `SELECT minutes FROM session_minutes WHERE day = ?`, day)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read session minutes: %w", err)
	}
	return total, nil
}

// SaveMessageAccuracy caches a per-message accuracy result for the chat
// UI.
func (l *LocalState) SaveMessageAccuracy(ctx context.Context, messageID string, acc progress.Accuracy) error {
	data, err := json.Marshal(acc)
	if err != nil {
		return fmt.Errorf("encode accuracy result: %w", err)
	}
	return l.put(ctx, accuracyPrefix+messageID, data)
}

// MessageAccuracy returns a cached per-message accuracy result, or nil
// when absent.
func (l *LocalState) MessageAccuracy(ctx context.Context, messageID string) (*progress.Accuracy, error) {
	data, err := l.get(ctx, accuracyPrefix+messageID)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}
	var acc progress.Accuracy
	if err := json.Unmarshal(data, &acc); err != nil {
		return nil, fmt.Errorf("decode accuracy result: %w", err)
	}
	return &acc, nil
}

// ClearAccuracyCache bulk-deletes every cached per-message accuracy
// result. Part of the logout clear path.
func (l *LocalState) ClearAccuracyCache(ctx context.Context) error {
	_, err := l.db.ExecContext(ctx, `DELETE FROM local_state WHERE key LIKE ?`, accuracyPrefix+"%")
	if err != nil {
		return fmt.Errorf("clear accuracy cache: %w", err)
	}
	return nil
}

func (l *LocalState) put(ctx context.Context, key string, value []byte) error {
	_, err := l.db.ExecContext(ctx, `
		INSERT INTO local_state (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, string(value), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func (l *LocalState) get(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := l.db.GetContext(ctx, &value, `SELECT value FROM local_state WHERE key = ?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return []byte(value), nil
}
