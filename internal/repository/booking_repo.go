package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"fleetrent/internal/db"
	"fleetrent/internal/entities"
)

// ErrStaleStatus is returned when a conditional booking status write matched
// zero rows: the booking moved out of the expected status between the service
// precondition check and the write.
var ErrStaleStatus = errors.New("booking is no longer in an eligible status")

type BookingRepository struct {
	DB *sql.DB
}

func NewBookingRepository(database *sql.DB) *BookingRepository {
	return &BookingRepository{DB: database}
}

const bookingJoinQuery = `
	SELECT
		b.id, b.customer_id, b.vehicle_id, b.start_date, b.end_date,
		COALESCE(b.total_price, 0), b.status, b.created_at, b.updated_at,
		v.id, v.plate_number, v.brand, v.model, v.year, v.rental_price, v.image, v.status, v.created_at, v.updated_at,
		c.id, c.full_name, COALESCE(c.email, ''), COALESCE(c.phone, '')
	FROM bookings b
	JOIN vehicles v ON v.id = b.vehicle_id
	JOIN customers c ON c.id = b.customer_id`

func scanBookingJoin(row interface{ Scan(...any) error }) (*entities.BookingResponse, error) {
	var resp entities.BookingResponse
	var v db.Vehicle
	var c entities.CustomerSummary
	err := row.Scan(
		&resp.ID, &resp.CustomerID, &resp.VehicleID, &resp.StartDate, &resp.EndDate,
		&resp.TotalPrice, &resp.Status, &resp.CreatedAt, &resp.UpdatedAt,
		&v.ID, &v.PlateNumber, &v.Brand, &v.Model, &v.Year, &v.RentalPrice, &v.Image, &v.Status, &v.CreatedAt, &v.UpdatedAt,
		&c.ID, &c.FullName, &c.Email, &c.Phone,
	)
	if err != nil {
		return nil, err
	}
	resp.Vehicle = &v
	resp.Customer = &c
	return &resp, nil
}

func (r *BookingRepository) List() ([]entities.BookingResponse, error) {
	return queryJoinedBookings(r.DB, bookingJoinQuery+` ORDER BY b.created_at DESC`)
}

func (r *BookingRepository) ListForCustomerIDs(ids []int) ([]entities.BookingResponse, error) {
	return queryJoinedBookings(r.DB, bookingJoinQuery+` WHERE b.customer_id = ANY($1) ORDER BY b.created_at DESC`, pq.Array(ids))
}

func (r *BookingRepository) GetResponseByID(id int) (*entities.BookingResponse, error) {
	b, err := scanBookingJoin(r.DB.QueryRow(bookingJoinQuery+` WHERE b.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error querying booking %d: %w", id, err)
	}
	return b, nil
}

func (r *BookingRepository) GetByID(id int) (*db.Booking, error) {
	var b db.Booking
	err := r.DB.QueryRow(
		`SELECT id, customer_id, vehicle_id, start_date, end_date, COALESCE(total_price, 0), status, created_at, updated_at
		 FROM bookings WHERE id = $1`, id,
	).Scan(&b.ID, &b.CustomerID, &b.VehicleID, &b.StartDate, &b.EndDate, &b.TotalPrice, &b.Status, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error querying booking %d: %w", id, err)
	}
	return &b, nil
}

// CreateWithReservation performs the booking-creation atomic unit: reserve
// the vehicle with a conditional write, resolve or create the customer row,
// and insert the booking. Any failure rolls the whole unit back.
func (r *BookingRepository) CreateWithReservation(b *db.Booking, info entities.CustomerInfo) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return fmt.Errorf("error beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := reserveVehicleTx(tx, b.VehicleID); err != nil {
		return err
	}

	customerID, err := resolveOrCreateCustomerTx(tx, struct{ FullName, Email, Phone string }{
		FullName: info.FullName,
		Email:    info.Email,
		Phone:    info.Phone,
	})
	if err != nil {
		return err
	}
	b.CustomerID = customerID

	err = tx.QueryRow(
		`INSERT INTO bookings (customer_id, vehicle_id, start_date, end_date, total_price, status)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at`,
		b.CustomerID, b.VehicleID, b.StartDate, b.EndDate, b.TotalPrice, b.Status,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error inserting booking: %w", err)
	}

	return tx.Commit()
}

// Approve moves a Pending booking to Confirmed and reaffirms the vehicle
// reservation, in one transaction.
func (r *BookingRepository) Approve(id int) error {
	return r.transition(id, db.BookingPending, db.BookingConfirmed, func(tx *sql.Tx, vehicleID int) error {
		return setVehicleStatusTx(tx, vehicleID, db.VehicleReserved)
	})
}

// Cancel moves a Pending or Confirmed booking to Cancelled. A Reserved
// vehicle is released; a vehicle in any other status is left untouched.
func (r *BookingRepository) Cancel(id int) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return fmt.Errorf("error beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var vehicleID int
	err = tx.QueryRow(
		`UPDATE bookings SET status = $1, updated_at = NOW()
		 WHERE id = $2 AND status IN ($3, $4)
		 RETURNING vehicle_id`,
		db.BookingCancelled, id, db.BookingPending, db.BookingConfirmed,
	).Scan(&vehicleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrStaleStatus
		}
		return fmt.Errorf("error cancelling booking %d: %w", id, err)
	}

	if err := setVehicleStatusIfTx(tx, vehicleID, db.VehicleReserved, db.VehicleAvailable); err != nil {
		return err
	}

	return tx.Commit()
}

// Expire moves a Pending booking to Expired and releases a Reserved vehicle.
func (r *BookingRepository) Expire(id int) error {
	return r.transition(id, db.BookingPending, db.BookingExpired, func(tx *sql.Tx, vehicleID int) error {
		return setVehicleStatusIfTx(tx, vehicleID, db.VehicleReserved, db.VehicleAvailable)
	})
}

// transition applies a conditional from -> to status write plus a vehicle
// side effect atomically.
func (r *BookingRepository) transition(id int, from, to db.BookingStatus, vehicleEffect func(*sql.Tx, int) error) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return fmt.Errorf("error beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var vehicleID int
	err = tx.QueryRow(
		`UPDATE bookings SET status = $1, updated_at = NOW()
		 WHERE id = $2 AND status = $3
		 RETURNING vehicle_id`,
		to, id, from,
	).Scan(&vehicleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrStaleStatus
		}
		return fmt.Errorf("error updating booking %d status to %s: %w", id, to, err)
	}

	if err := vehicleEffect(tx, vehicleID); err != nil {
		return err
	}

	return tx.Commit()
}

// Update patches status and dates directly. Deliberately does not consult the
// transition table or re-synchronize the vehicle; this mirrors the generic
// administrative update endpoint, which sits outside state-machine control.
func (r *BookingRepository) Update(b *db.Booking) error {
	result, err := r.DB.Exec(
		`UPDATE bookings SET status = $1, start_date = $2, end_date = $3, updated_at = NOW() WHERE id = $4`,
		b.Status, b.StartDate, b.EndDate, b.ID,
	)
	if err != nil {
		return fmt.Errorf("error updating booking %d: %w", b.ID, err)
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

// Delete removes a booking and its rentals, and resets the linked vehicle to
// Available regardless of the vehicle's current status.
func (r *BookingRepository) Delete(id int) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return fmt.Errorf("error beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var vehicleID int
	err = tx.QueryRow(`SELECT vehicle_id FROM bookings WHERE id = $1`, id).Scan(&vehicleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("error querying booking %d: %w", id, err)
	}

	if err := setVehicleStatusTx(tx, vehicleID, db.VehicleAvailable); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM rentals WHERE booking_id = $1`, id); err != nil {
		return fmt.Errorf("error deleting rentals for booking %d: %w", id, err)
	}
	if _, err := tx.Exec(`DELETE FROM bookings WHERE id = $1`, id); err != nil {
		return fmt.Errorf("error deleting booking %d: %w", id, err)
	}

	return tx.Commit()
}
