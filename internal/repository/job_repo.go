package repository

import (
	"database/sql"
	"fmt"
)

type JobRepository struct {
	DB *sql.DB
}

func NewJobRepository(database *sql.DB) *JobRepository {
	return &JobRepository{DB: database}
}

// GetStalePendingBookingIDs finds Pending bookings whose start date has
// already passed. They were never approved in time and get expired by the
// cron job.
func (r *JobRepository) GetStalePendingBookingIDs() ([]int, error) {
	rows, err := r.DB.Query(`SELECT id FROM bookings WHERE status = 'Pending' AND start_date < CURRENT_DATE`)
	if err != nil {
		return nil, fmt.Errorf("error querying stale pending bookings: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning booking ID: %w", err)
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating rows: %w", err)
	}
	return ids, nil
}
