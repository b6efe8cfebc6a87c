package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"fleetrent/internal/entities"
)

// DashboardRepository serves the read-only rollups. No method here writes.
type DashboardRepository struct {
	DB *sql.DB
}

func NewDashboardRepository(database *sql.DB) *DashboardRepository {
	return &DashboardRepository{DB: database}
}

const revenueStatuses = `('Confirmed', 'CheckedOut', 'Returned')`

func (r *DashboardRepository) AdminSummary() (*entities.AdminSummary, error) {
	var s entities.AdminSummary
	err := r.DB.QueryRow(`
		SELECT
			(SELECT COUNT(*) FROM vehicles),
			(SELECT COUNT(*) FROM bookings),
			(SELECT COUNT(*) FROM vehicles WHERE status = 'Available'),
			(SELECT COUNT(*) FROM rentals WHERE status = 'Active'),
			(SELECT COUNT(*) FROM bookings WHERE status = 'Pending'),
			(SELECT COUNT(*) FROM customers)`,
	).Scan(&s.TotalVehicles, &s.TotalBookings, &s.AvailableVehicles, &s.ActiveRentals, &s.PendingBookings, &s.TotalCustomers)
	if err != nil {
		return nil, fmt.Errorf("error querying admin summary: %w", err)
	}
	return &s, nil
}

func (r *DashboardRepository) Revenue() (*entities.Revenue, error) {
	var rev entities.Revenue
	err := r.DB.QueryRow(`
		SELECT
			COALESCE(SUM(total_price), 0),
			COALESCE(SUM(total_price) FILTER (WHERE date_trunc('month', created_at) = date_trunc('month', NOW())), 0),
			COALESCE(SUM(total_price) FILTER (WHERE created_at::date = CURRENT_DATE), 0)
		FROM bookings
		WHERE status IN ` + revenueStatuses,
	).Scan(&rev.Total, &rev.Monthly, &rev.Today)
	if err != nil {
		return nil, fmt.Errorf("error querying revenue: %w", err)
	}
	return &rev, nil
}

func (r *DashboardRepository) TodayRevenue() (float64, error) {
	var total float64
	err := r.DB.QueryRow(
		`SELECT COALESCE(SUM(total_price), 0) FROM bookings
		 WHERE status IN ` + revenueStatuses + ` AND created_at::date = CURRENT_DATE`,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("error querying today revenue: %w", err)
	}
	return total, nil
}

func (r *DashboardRepository) RecentBookings(limit int) ([]entities.BookingResponse, error) {
	return queryJoinedBookings(r.DB, bookingJoinQuery+` ORDER BY b.created_at DESC LIMIT $1`, limit)
}

func (r *DashboardRepository) VehicleStatusBreakdown() ([]entities.StatusCount, error) {
	return r.statusCounts(`
		SELECT status, COUNT(*) FROM vehicles
		WHERE status IN ('Available', 'Rented', 'Maintenance', 'Reserved')
		GROUP BY status ORDER BY status`)
}

func (r *DashboardRepository) BookingStatusBreakdown() ([]entities.StatusCount, error) {
	return r.statusCounts(`SELECT status, COUNT(*) FROM bookings GROUP BY status ORDER BY status`)
}

func (r *DashboardRepository) statusCounts(query string) ([]entities.StatusCount, error) {
	rows, err := r.DB.Query(query)
	if err != nil {
		return nil, fmt.Errorf("error querying status counts: %w", err)
	}
	defer rows.Close()

	counts := []entities.StatusCount{}
	for rows.Next() {
		var c entities.StatusCount
		if err := rows.Scan(&c.Status, &c.Total); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

func (r *DashboardRepository) TopCustomers(limit int) ([]entities.TopCustomer, error) {
	rows, err := r.DB.Query(`
		SELECT c.id, c.full_name, COALESCE(c.email, ''), COUNT(*) AS booking_count, COALESCE(SUM(b.total_price), 0) AS total_spent
		FROM bookings b
		JOIN customers c ON c.id = b.customer_id
		GROUP BY c.id, c.full_name, c.email
		ORDER BY booking_count DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying top customers: %w", err)
	}
	defer rows.Close()

	customers := []entities.TopCustomer{}
	for rows.Next() {
		var c entities.TopCustomer
		if err := rows.Scan(&c.ID, &c.FullName, &c.Email, &c.BookingCount, &c.TotalSpent); err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

// TodayPickups lists bookings starting today that are still Pending or
// Confirmed.
func (r *DashboardRepository) TodayPickups() ([]entities.BookingResponse, error) {
	return queryJoinedBookings(r.DB, bookingJoinQuery+`
		WHERE b.start_date = CURRENT_DATE AND b.status IN ('Pending', 'Confirmed')
		ORDER BY b.start_date`)
}

// TodayReturns lists active rentals whose booking ends today.
func (r *DashboardRepository) TodayReturns() ([]entities.RentalResponse, error) {
	return queryJoinedRentals(r.DB, rentalJoinQuery+`
		WHERE r.status = 'Active' AND b.end_date = CURRENT_DATE
		ORDER BY r.checkout_time`)
}

// OverdueRentals lists active rentals whose booking ended before today.
func (r *DashboardRepository) OverdueRentals() ([]entities.RentalResponse, error) {
	return queryJoinedRentals(r.DB, rentalJoinQuery+`
		WHERE r.status = 'Active' AND b.end_date < CURRENT_DATE
		ORDER BY r.checkout_time`)
}

func (r *DashboardRepository) PendingBookingsCount() (int, error) {
	var count int
	err := r.DB.QueryRow(`SELECT COUNT(*) FROM bookings WHERE status = 'Pending'`).Scan(&count)
	return count, err
}

// ActiveBookingForCustomer returns the customer's most relevant booking:
// Pending, Confirmed or CheckedOut, latest start date first.
func (r *DashboardRepository) ActiveBookingForCustomer(customerID int) (*entities.BookingResponse, error) {
	b, err := scanBookingJoin(r.DB.QueryRow(bookingJoinQuery+`
		WHERE b.customer_id = $1 AND b.status IN ('Pending', 'Confirmed', 'CheckedOut')
		ORDER BY b.start_date DESC
		LIMIT 1`, customerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying active booking: %w", err)
	}
	return b, nil
}

func (r *DashboardRepository) BookingHistoryForCustomer(customerID, limit int) ([]entities.BookingResponse, error) {
	return queryJoinedBookings(r.DB, bookingJoinQuery+`
		WHERE b.customer_id = $1
		ORDER BY b.created_at DESC
		LIMIT $2`, customerID, limit)
}

func queryJoinedBookings(database *sql.DB, query string, args ...any) ([]entities.BookingResponse, error) {
	rows, err := database.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying bookings: %w", err)
	}
	defer rows.Close()

	bookings := []entities.BookingResponse{}
	for rows.Next() {
		b, err := scanBookingJoin(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning booking: %w", err)
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

func queryJoinedRentals(database *sql.DB, query string, args ...any) ([]entities.RentalResponse, error) {
	rows, err := database.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying rentals: %w", err)
	}
	defer rows.Close()

	rentals := []entities.RentalResponse{}
	for rows.Next() {
		rental, err := scanRentalJoin(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning rental: %w", err)
		}
		rentals = append(rentals, *rental)
	}
	return rentals, rows.Err()
}
