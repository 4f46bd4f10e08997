package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// SQLiteBackend stores sessions in the sessions table created by package db.
type SQLiteBackend struct {
	db  *sql.DB
	ttl time.Duration
}

// NewSQLiteBackend uses an already migrated database. Sessions idle longer
// than ttl are treated as gone.
func NewSQLiteBackend(db *sql.DB, ttl time.Duration) *SQLiteBackend {
	return &SQLiteBackend{db: db, ttl: ttl}
}

func (b *SQLiteBackend) Load(ctx context.Context, id string) (State, error) {
	var raw string
	err := b.db.QueryRowContext(ctx,
		`SELECT state FROM sessions WHERE id = ? AND expires_at > ?`,
		id, time.Now().Unix(),
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return State{}, ErrNotFound
	}
	if err != nil {
		return State{}, err
	}
	var st State
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		return State{}, err
	}
	return st, nil
}

func (b *SQLiteBackend) Save(ctx context.Context, id string, st State) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return err
	}
	now := time.Now()
	_, err = b.db.ExecContext(ctx, `
INSERT INTO sessions (id, state, updated_at, expires_at)
VALUES (?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    state = excluded.state,
    updated_at = excluded.updated_at,
    expires_at = excluded.expires_at;`,
		id, string(raw), now.Unix(), now.Add(b.ttl).Unix(),
	)
	return err
}

func (b *SQLiteBackend) Delete(ctx context.Context, id string) error {
	_, err := b.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	return err
}

// Purge removes expired rows and reports how many went.
func (b *SQLiteBackend) Purge(ctx context.Context) (int64, error) {
	res, err := b.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= ?`, time.Now().Unix())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// StartCleanup purges expired rows every interval until the returned stop
// function is called.
func (b *SQLiteBackend) StartCleanup(interval time.Duration) func() {
	done := make(chan struct{})
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				n, err := b.Purge(context.Background())
				if err != nil {
					slog.Error("purge sessions", "error", err)
					continue
				}
				if n > 0 {
					slog.Debug("purged sessions", "count", n)
				}
			case <-done:
				return
			}
		}
	}()
	var once sync.Once
	return func() { once.Do(func() { close(done) }) }
}

func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}
