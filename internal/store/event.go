package store

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Event is a journaled mode, color, or canvas change.
type Event struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Seq       int64     `json:"seq"`
	Kind      string    `json:"kind"`
	ModeFrom  string    `json:"mode_from"`
	ModeTo    string    `json:"mode_to"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"created_at"`
}

// EventRepository provides access to the event journal.
type EventRepository struct {
	db *sql.DB
}

// Events returns the event repository for this store.
func (s *Store) Events() *EventRepository {
	return &EventRepository{db: s.db}
}

// Append adds an event at the end of its session's journal. ID, sequence
// number, and creation time are filled in when empty.
func (r *EventRepository) Append(e *Event) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := tx.QueryRow(
		`SELECT COALESCE(MAX(seq), 0) + 1 FROM events WHERE session_id = ?`,
		e.SessionID,
	).Scan(&e.Seq); err != nil {
		return err
	}

	_, err = tx.Exec(
		`INSERT INTO events (id, session_id, seq, kind, mode_from, mode_to, color, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.SessionID, e.Seq, e.Kind, e.ModeFrom, e.ModeTo, e.Color, e.CreatedAt,
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// ListBySession returns a session's events in journal order. A limit of 0 or
// less returns all of them.
func (r *EventRepository) ListBySession(sessionID string, limit int) ([]*Event, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := r.db.Query(
		`SELECT id, session_id, seq, kind, mode_from, mode_to, color, created_at
		 FROM events WHERE session_id = ? ORDER BY seq LIMIT ?`,
		sessionID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		e := &Event{}
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Seq, &e.Kind, &e.ModeFrom, &e.ModeTo, &e.Color, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}

	return events, rows.Err()
}

// CountBySession returns how many events a session has.
func (r *EventRepository) CountBySession(sessionID string) (int, error) {
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM events WHERE session_id = ?`, sessionID).Scan(&n)
	return n, err
}
