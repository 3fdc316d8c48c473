package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Session is one run of the capture pipeline.
type Session struct {
	ID        string     `json:"id"`
	Camera    int        `json:"camera"`
	Width     int        `json:"width"`
	Height    int        `json:"height"`
	Backend   string     `json:"backend"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
}

// SessionRepository provides access to sessions.
type SessionRepository struct {
	db *sql.DB
}

// Sessions returns the session repository for this store.
func (s *Store) Sessions() *SessionRepository {
	return &SessionRepository{db: s.db}
}

// Create inserts a session, assigning an ID and start time when they are empty.
func (r *SessionRepository) Create(sess *Session) error {
	if sess.ID == "" {
		sess.ID = uuid.New().String()
	}
	if sess.StartedAt.IsZero() {
		sess.StartedAt = time.Now()
	}
	if sess.Backend == "" {
		sess.Backend = "mat"
	}

	_, err := r.db.Exec(
		`INSERT INTO sessions (id, camera, width, height, backend, started_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		sess.ID, sess.Camera, sess.Width, sess.Height, sess.Backend, sess.StartedAt,
	)
	return err
}

// End stamps the session's end time.
func (r *SessionRepository) End(id string, at time.Time) error {
	result, err := r.db.Exec(`UPDATE sessions SET ended_at = ? WHERE id = ?`, at, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// GetByID retrieves a session.
func (r *SessionRepository) GetByID(id string) (*Session, error) {
	sess := &Session{}
	var ended sql.NullTime

	err := r.db.QueryRow(
		`SELECT id, camera, width, height, backend, started_at, ended_at
		 FROM sessions WHERE id = ?`,
		id,
	).Scan(&sess.ID, &sess.Camera, &sess.Width, &sess.Height, &sess.Backend, &sess.StartedAt, &ended)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if ended.Valid {
		sess.EndedAt = &ended.Time
	}
	return sess, nil
}

// List returns the most recent sessions first. A limit of 0 or less returns all.
func (r *SessionRepository) List(limit int) ([]*Session, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := r.db.Query(
		`SELECT id, camera, width, height, backend, started_at, ended_at
		 FROM sessions ORDER BY started_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		sess := &Session{}
		var ended sql.NullTime
		if err := rows.Scan(&sess.ID, &sess.Camera, &sess.Width, &sess.Height, &sess.Backend, &sess.StartedAt, &ended); err != nil {
			return nil, err
		}
		if ended.Valid {
			sess.EndedAt = &ended.Time
		}
		sessions = append(sessions, sess)
	}

	return sessions, rows.Err()
}
