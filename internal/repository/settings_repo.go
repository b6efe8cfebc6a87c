package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

type SettingsRepository struct {
	DB *sql.DB
}

func NewSettingsRepository(database *sql.DB) *SettingsRepository {
	return &SettingsRepository{DB: database}
}

// Get returns the value for key, or nil when the key is absent or null.
func (r *SettingsRepository) Get(key string) (*string, *time.Time, error) {
	var value *string
	var updatedAt time.Time
	err := r.DB.QueryRow(`SELECT value, updated_at FROM settings WHERE key = $1`, key).
		Scan(&value, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("error querying setting %s: %w", key, err)
	}
	return value, &updatedAt, nil
}

func (r *SettingsRepository) Set(key string, value *string) error {
	_, err := r.DB.Exec(
		`INSERT INTO settings (key, value, updated_at) VALUES ($1, $2, NOW())
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("error setting %s: %w", key, err)
	}
	return nil
}
