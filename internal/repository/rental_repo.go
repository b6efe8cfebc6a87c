package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fleetrent/internal/db"
	"fleetrent/internal/entities"
)

// ErrRentalNotActive is returned when a return targets a rental that is not
// Active anymore.
var ErrRentalNotActive = errors.New("rental is not active")

type RentalRepository struct {
	DB *sql.DB
}

func NewRentalRepository(database *sql.DB) *RentalRepository {
	return &RentalRepository{DB: database}
}

const rentalJoinQuery = `
	SELECT
		r.id, r.booking_id, r.checkout_time, r.return_time,
		r.odometer_out, r.odometer_in, r.fuel_out, r.fuel_in,
		r.status, r.created_at, r.updated_at,
		b.id, b.customer_id, b.vehicle_id, b.start_date, b.end_date,
		COALESCE(b.total_price, 0), b.status, b.created_at, b.updated_at,
		v.id, v.plate_number, v.brand, v.model, v.year, v.rental_price, v.image, v.status, v.created_at, v.updated_at,
		c.id, c.full_name, COALESCE(c.email, ''), COALESCE(c.phone, '')
	FROM rentals r
	JOIN bookings b ON b.id = r.booking_id
	JOIN vehicles v ON v.id = b.vehicle_id
	JOIN customers c ON c.id = b.customer_id`

func scanRentalJoin(row interface{ Scan(...any) error }) (*entities.RentalResponse, error) {
	var resp entities.RentalResponse
	var b entities.BookingResponse
	var v db.Vehicle
	var c entities.CustomerSummary
	err := row.Scan(
		&resp.ID, &resp.BookingID, &resp.CheckoutTime, &resp.ReturnTime,
		&resp.OdometerOut, &resp.OdometerIn, &resp.FuelOut, &resp.FuelIn,
		&resp.Status, &resp.CreatedAt, &resp.UpdatedAt,
		&b.ID, &b.CustomerID, &b.VehicleID, &b.StartDate, &b.EndDate,
		&b.TotalPrice, &b.Status, &b.CreatedAt, &b.UpdatedAt,
		&v.ID, &v.PlateNumber, &v.Brand, &v.Model, &v.Year, &v.RentalPrice, &v.Image, &v.Status, &v.CreatedAt, &v.UpdatedAt,
		&c.ID, &c.FullName, &c.Email, &c.Phone,
	)
	if err != nil {
		return nil, err
	}
	b.Vehicle = &v
	b.Customer = &c
	resp.Booking = &b
	return &resp, nil
}

func (r *RentalRepository) List() ([]entities.RentalResponse, error) {
	return queryJoinedRentals(r.DB, rentalJoinQuery+` ORDER BY r.created_at DESC`)
}

func (r *RentalRepository) GetResponseByID(id int) (*entities.RentalResponse, error) {
	rental, err := scanRentalJoin(r.DB.QueryRow(rentalJoinQuery+` WHERE r.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error querying rental %d: %w", id, err)
	}
	return rental, nil
}

func (r *RentalRepository) GetByID(id int) (*db.Rental, error) {
	var rental db.Rental
	err := r.DB.QueryRow(
		`SELECT id, booking_id, checkout_time, return_time, odometer_out, odometer_in, fuel_out, fuel_in, status, created_at, updated_at
		 FROM rentals WHERE id = $1`, id,
	).Scan(&rental.ID, &rental.BookingID, &rental.CheckoutTime, &rental.ReturnTime,
		&rental.OdometerOut, &rental.OdometerIn, &rental.FuelOut, &rental.FuelIn,
		&rental.Status, &rental.CreatedAt, &rental.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error querying rental %d: %w", id, err)
	}
	return &rental, nil
}

// Checkout performs the checkout atomic unit: move the booking from
// Pending/Confirmed to CheckedOut, insert exactly one Active rental, and set
// the vehicle to Rented. The conditional booking write makes re-checkout of
// an already-checked-out booking impossible.
func (r *RentalRepository) Checkout(bookingID int, odometerOut, fuelOut *int) (*db.Rental, error) {
	tx, err := r.DB.Begin()
	if err != nil {
		return nil, fmt.Errorf("error beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var vehicleID int
	err = tx.QueryRow(
		`UPDATE bookings SET status = $1, updated_at = NOW()
		 WHERE id = $2 AND status IN ($3, $4)
		 RETURNING vehicle_id`,
		db.BookingCheckedOut, bookingID, db.BookingPending, db.BookingConfirmed,
	).Scan(&vehicleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStaleStatus
		}
		return nil, fmt.Errorf("error checking out booking %d: %w", bookingID, err)
	}

	now := time.Now().UTC()
	rental := &db.Rental{
		BookingID:    bookingID,
		CheckoutTime: &now,
		OdometerOut:  odometerOut,
		FuelOut:      fuelOut,
		Status:       db.RentalActive,
	}
	err = tx.QueryRow(
		`INSERT INTO rentals (booking_id, checkout_time, odometer_out, fuel_out, status)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		rental.BookingID, rental.CheckoutTime, rental.OdometerOut, rental.FuelOut, rental.Status,
	).Scan(&rental.ID, &rental.CreatedAt, &rental.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("error inserting rental: %w", err)
	}

	if err := setVehicleStatusTx(tx, vehicleID, db.VehicleRented); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return rental, nil
}

// Return closes an Active rental: rental -> Returned with return_time,
// booking -> Returned, vehicle -> Available, in one transaction. A second
// return of the same rental fails the conditional write.
func (r *RentalRepository) Return(rentalID int, odometerIn, fuelIn *int) (*db.Rental, error) {
	tx, err := r.DB.Begin()
	if err != nil {
		return nil, fmt.Errorf("error beginning transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	var rental db.Rental
	err = tx.QueryRow(
		`UPDATE rentals SET status = $1, return_time = $2,
		        odometer_in = COALESCE($3, odometer_in), fuel_in = COALESCE($4, fuel_in),
		        updated_at = NOW()
		 WHERE id = $5 AND status = $6
		 RETURNING id, booking_id, checkout_time, return_time, odometer_out, odometer_in, fuel_out, fuel_in, status, created_at, updated_at`,
		db.RentalReturned, now, odometerIn, fuelIn, rentalID, db.RentalActive,
	).Scan(&rental.ID, &rental.BookingID, &rental.CheckoutTime, &rental.ReturnTime,
		&rental.OdometerOut, &rental.OdometerIn, &rental.FuelOut, &rental.FuelIn,
		&rental.Status, &rental.CreatedAt, &rental.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRentalNotActive
		}
		return nil, fmt.Errorf("error returning rental %d: %w", rentalID, err)
	}

	var vehicleID int
	err = tx.QueryRow(
		`UPDATE bookings SET status = $1, updated_at = NOW() WHERE id = $2 RETURNING vehicle_id`,
		db.BookingReturned, rental.BookingID,
	).Scan(&vehicleID)
	if err != nil {
		return nil, fmt.Errorf("error updating booking %d on return: %w", rental.BookingID, err)
	}

	if err := setVehicleStatusTx(tx, vehicleID, db.VehicleAvailable); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &rental, nil
}

// UpdateTelemetry patches odometer and fuel readings on an existing rental.
func (r *RentalRepository) UpdateTelemetry(id int, req entities.UpdateRentalRequest) error {
	result, err := r.DB.Exec(
		`UPDATE rentals SET
			odometer_out = COALESCE($1, odometer_out),
			odometer_in  = COALESCE($2, odometer_in),
			fuel_out     = COALESCE($3, fuel_out),
			fuel_in      = COALESCE($4, fuel_in),
			updated_at   = NOW()
		 WHERE id = $5`,
		req.OdometerOut, req.OdometerIn, req.FuelOut, req.FuelIn, id,
	)
	if err != nil {
		return fmt.Errorf("error updating rental %d: %w", id, err)
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

func (r *RentalRepository) Delete(id int) error {
	result, err := r.DB.Exec(`DELETE FROM rentals WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting rental %d: %w", id, err)
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
