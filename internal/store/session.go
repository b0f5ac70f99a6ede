package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Session is one keyboard run.
type Session struct {
	ID        string
	StartedAt time.Time
	// EndedAt is zero while the session is open.
	EndedAt time.Time
	Keys    int
}

// Duration returns the session length, measured to now if it is still open.
func (s *Session) Duration(now time.Time) time.Duration {
	end := s.EndedAt
	if end.IsZero() {
		end = now
	}
	return end.Sub(s.StartedAt)
}

// SessionRepository records sessions and key presses.
type SessionRepository struct {
	db *sql.DB
}

// Sessions returns the session repository for this store.
func (s *Store) Sessions() *SessionRepository {
	return &SessionRepository{db: s.db}
}

// Start opens a new session.
func (r *SessionRepository) Start(at time.Time) (*Session, error) {
	sess := &Session{ID: uuid.NewString(), StartedAt: at.UTC()}
	_, err := r.db.Exec(
		`INSERT INTO sessions (id, started_at, keys) VALUES (?, ?, 0)`,
		sess.ID, sess.StartedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}
	return sess, nil
}

// End closes the session.
func (r *SessionRepository) End(id string, at time.Time) error {
	result, err := r.db.Exec(`UPDATE sessions SET ended_at = ? WHERE id = ?`, at.UTC(), id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// RecordKey counts one press of label in the session and in the lifetime
// totals, atomically.
func (r *SessionRepository) RecordKey(sessionID, label string, at time.Time) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.Exec(`UPDATE sessions SET keys = keys + 1 WHERE id = ?`, sessionID)
	if err != nil {
		return err
	}
	if rows, err := result.RowsAffected(); err != nil {
		return err
	} else if rows == 0 {
		return ErrNotFound
	}

	if _, err := tx.Exec(
		`INSERT INTO session_keys (session_id, label, count) VALUES (?, ?, 1)
		 ON CONFLICT(session_id, label) DO UPDATE SET count = count + 1`,
		sessionID, label,
	); err != nil {
		return err
	}

	if _, err := tx.Exec(
		`INSERT INTO key_stats (label, count, last_pressed) VALUES (?, 1, ?)
		 ON CONFLICT(label) DO UPDATE SET count = count + 1, last_pressed = excluded.last_pressed`,
		label, at.UTC(),
	); err != nil {
		return err
	}

	return tx.Commit()
}

// GetByID retrieves a session by its ID.
func (r *SessionRepository) GetByID(id string) (*Session, error) {
	row := r.db.QueryRow(`SELECT id, started_at, ended_at, keys FROM sessions WHERE id = ?`, id)
	sess, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return sess, err
}

// Recent returns up to limit sessions, newest first.
func (r *SessionRepository) Recent(limit int) ([]*Session, error) {
	rows, err := r.db.Query(
		`SELECT id, started_at, ended_at, keys FROM sessions
		 ORDER BY started_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

// KeyCounts returns the per-label press counts of one session.
func (r *SessionRepository) KeyCounts(sessionID string) (map[string]int, error) {
	rows, err := r.db.Query(`SELECT label, count FROM session_keys WHERE session_id = ?`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var label string
		var count int
		if err := rows.Scan(&label, &count); err != nil {
			return nil, err
		}
		counts[label] = count
	}
	return counts, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (*Session, error) {
	sess := &Session{}
	var ended sql.NullTime
	if err := row.Scan(&sess.ID, &sess.StartedAt, &ended, &sess.Keys); err != nil {
		return nil, err
	}
	if ended.Valid {
		sess.EndedAt = ended.Time
	}
	return sess, nil
}
