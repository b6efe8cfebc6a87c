package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"fleetrent/internal/db"
)

type SessionRepository struct {
	DB *sql.DB
}

func NewSessionRepository(database *sql.DB) *SessionRepository {
	return &SessionRepository{DB: database}
}

func (r *SessionRepository) Create(s *db.Session) error {
	return r.DB.QueryRow(
		`INSERT INTO sessions (id, user_id, expires_at) VALUES ($1, $2, $3) RETURNING created_at`,
		s.ID, s.UserID, s.ExpiresAt,
	).Scan(&s.CreatedAt)
}

// Exists reports whether the session is still live; expired rows are treated
// as gone even before the cleanup job removes them.
func (r *SessionRepository) Exists(id string) (bool, error) {
	var exists bool
	err := r.DB.QueryRow(`SELECT EXISTS(SELECT 1 FROM sessions WHERE id = $1 AND expires_at > NOW())`, id).
		Scan(&exists)
	return exists, err
}

func (r *SessionRepository) Delete(id string) error {
	result, err := r.DB.Exec(`DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting session: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SessionRepository) DeleteExpired() (int64, error) {
	result, err := r.DB.Exec(`DELETE FROM sessions WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, fmt.Errorf("error deleting expired sessions: %w", err)
	}
	return result.RowsAffected()
}

func (r *SessionRepository) GetUser(sessionID string) (*db.User, error) {
	u, err := scanUser(r.DB.QueryRow(
		`SELECT u.id, u.name, u.email, u.password_hash, u.role, u.created_at, u.updated_at
		 FROM sessions s JOIN users u ON u.id = s.user_id
		 WHERE s.id = $1 AND s.expires_at > NOW()`, sessionID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error querying session user: %w", err)
	}
	return u, nil
}
