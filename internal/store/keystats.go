package store

import (
	"database/sql"
	"errors"
	"time"
)

// KeyStat is the lifetime usage of one key label.
type KeyStat struct {
	Label       string
	Count       int
	LastPressed time.Time
}

// KeyStatsRepository reads lifetime key usage.
type KeyStatsRepository struct {
	db *sql.DB
}

// KeyStats returns the key statistics repository for this store.
func (s *Store) KeyStats() *KeyStatsRepository {
	return &KeyStatsRepository{db: s.db}
}

// List returns every key stat, most pressed first, ties broken by label.
func (r *KeyStatsRepository) List() ([]KeyStat, error) {
	rows, err := r.db.Query(
		`SELECT label, count, last_pressed FROM key_stats ORDER BY count DESC, label ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []KeyStat
	for rows.Next() {
		var st KeyStat
		if err := rows.Scan(&st.Label, &st.Count, &st.LastPressed); err != nil {
			return nil, err
		}
		stats = append(stats, st)
	}
	return stats, rows.Err()
}

// Get returns the stat for one label, or ErrNotFound.
func (r *KeyStatsRepository) Get(label string) (KeyStat, error) {
	st := KeyStat{}
	err := r.db.QueryRow(
		`SELECT label, count, last_pressed FROM key_stats WHERE label = ?`, label,
	).Scan(&st.Label, &st.Count, &st.LastPressed)
	if errors.Is(err, sql.ErrNoRows) {
		return KeyStat{}, ErrNotFound
	}
	return st, err
}

// Total returns the lifetime number of key presses.
func (r *KeyStatsRepository) Total() (int, error) {
	var total int
	err := r.db.QueryRow(`SELECT COALESCE(SUM(count), 0) FROM key_stats`).Scan(&total)
	return total, err
}
