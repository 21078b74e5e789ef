package store

import (
	"database/sql"
	"time"
)

// EventRecord is a logged gesture event.
type EventRecord struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Hand      int       `json:"hand"`
	Mode      string    `json:"mode"`
	TimeMs    int64     `json:"time_ms"`
	CreatedAt time.Time `json:"created_at"`
}

// EventRepository appends to and reads the event log.
type EventRepository struct {
	db *sql.DB
}

// Events returns the event log repository for this store.
func (s *Store) Events() *EventRepository {
	return &EventRepository{db: s.db}
}

// Record appends events in a single transaction.
func (r *EventRepository) Record(events []EventRecord) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO events (type, hand, mode, time_ms) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range events {
		if _, err := stmt.Exec(e.Type, e.Hand, e.Mode, e.TimeMs); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Recent returns up to limit events, newest first.
func (r *EventRepository) Recent(limit int) ([]EventRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.Query(
		`SELECT id, type, hand, mode, time_ms, created_at
		 FROM events
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []EventRecord
	for rows.Next() {
		var e EventRecord
		if err := rows.Scan(&e.ID, &e.Type, &e.Hand, &e.Mode, &e.TimeMs, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// CountByType returns how many events of each type were logged.
func (r *EventRepository) CountByType() (map[string]int, error) {
	rows, err := r.db.Query(`SELECT type, COUNT(*) FROM events GROUP BY type`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var t string
		var n int
		if err := rows.Scan(&t, &n); err != nil {
			return nil, err
		}
		counts[t] = n
	}
	return counts, rows.Err()
}

// Clear deletes every logged event.
func (r *EventRepository) Clear() error {
	_, err := r.db.Exec(`DELETE FROM events`)
	return err
}
