package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"fleetrent/internal/db"
)

// ErrNotFound is returned when a referenced row does not exist.
var ErrNotFound = errors.New("not found")

// ErrVehicleUnavailable is returned when a conditional vehicle status write
// matched zero rows, meaning another request won the race.
var ErrVehicleUnavailable = errors.New("vehicle is not available")

type VehicleRepository struct {
	DB *sql.DB
}

func NewVehicleRepository(database *sql.DB) *VehicleRepository {
	return &VehicleRepository{DB: database}
}

const vehicleColumns = `id, plate_number, brand, model, year, rental_price, image, status, created_at, updated_at`

func scanVehicle(row interface{ Scan(...any) error }) (*db.Vehicle, error) {
	var v db.Vehicle
	err := row.Scan(&v.ID, &v.PlateNumber, &v.Brand, &v.Model, &v.Year, &v.RentalPrice, &v.Image, &v.Status, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *VehicleRepository) List() ([]db.Vehicle, error) {
	return r.listWhere("")
}

func (r *VehicleRepository) ListAvailable() ([]db.Vehicle, error) {
	return r.listWhere(`WHERE status = 'Available'`)
}

func (r *VehicleRepository) listWhere(where string) ([]db.Vehicle, error) {
	query := fmt.Sprintf(`SELECT %s FROM vehicles %s ORDER BY created_at DESC`, vehicleColumns, where)
	rows, err := r.DB.Query(query)
	if err != nil {
		return nil, fmt.Errorf("error querying vehicles: %w", err)
	}
	defer rows.Close()

	vehicles := []db.Vehicle{}
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning vehicle: %w", err)
		}
		vehicles = append(vehicles, *v)
	}
	return vehicles, rows.Err()
}

func (r *VehicleRepository) GetByID(id int) (*db.Vehicle, error) {
	query := fmt.Sprintf(`SELECT %s FROM vehicles WHERE id = $1`, vehicleColumns)
	v, err := scanVehicle(r.DB.QueryRow(query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error querying vehicle %d: %w", id, err)
	}
	return v, nil
}

func (r *VehicleRepository) Create(v *db.Vehicle) error {
	query := `
		INSERT INTO vehicles (plate_number, brand, model, year, rental_price, image, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`
	return r.DB.QueryRow(query, v.PlateNumber, v.Brand, v.Model, v.Year, v.RentalPrice, v.Image, v.Status).
		Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt)
}

func (r *VehicleRepository) Update(v *db.Vehicle) error {
	query := `
		UPDATE vehicles
		SET plate_number = $1, brand = $2, model = $3, year = $4, rental_price = $5, image = $6, status = $7, updated_at = NOW()
		WHERE id = $8
		RETURNING updated_at`
	err := r.DB.QueryRow(query, v.PlateNumber, v.Brand, v.Model, v.Year, v.RentalPrice, v.Image, v.Status, v.ID).
		Scan(&v.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func (r *VehicleRepository) Delete(id int) error {
	result, err := r.DB.Exec(`DELETE FROM vehicles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting vehicle %d: %w", id, err)
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

func (r *VehicleRepository) PlateExists(plate string, excludeID int) (bool, error) {
	var exists bool
	err := r.DB.QueryRow(`SELECT EXISTS(SELECT 1 FROM vehicles WHERE plate_number = $1 AND id <> $2)`, plate, excludeID).
		Scan(&exists)
	return exists, err
}

// reserveVehicleTx moves a vehicle Available -> Reserved as a single
// conditional write. Zero rows affected means the vehicle was not Available,
// so two concurrent bookings can never both reserve it.
func reserveVehicleTx(tx *sql.Tx, vehicleID int) error {
	result, err := tx.Exec(
		`UPDATE vehicles SET status = 'Reserved', updated_at = NOW() WHERE id = $1 AND status = 'Available'`,
		vehicleID,
	)
	if err != nil {
		return fmt.Errorf("error reserving vehicle %d: %w", vehicleID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrVehicleUnavailable
	}
	return nil
}

// setVehicleStatusTx overwrites the vehicle status unconditionally.
func setVehicleStatusTx(tx *sql.Tx, vehicleID int, status db.VehicleStatus) error {
	_, err := tx.Exec(`UPDATE vehicles SET status = $1, updated_at = NOW() WHERE id = $2`, status, vehicleID)
	if err != nil {
		return fmt.Errorf("error setting vehicle %d status to %s: %w", vehicleID, status, err)
	}
	return nil
}

// setVehicleStatusIfTx writes the status only when the vehicle currently has
// the expected one; used by cancel to release a Reserved vehicle without
// touching a vehicle already Rented under a different booking.
func setVehicleStatusIfTx(tx *sql.Tx, vehicleID int, from, to db.VehicleStatus) error {
	_, err := tx.Exec(
		`UPDATE vehicles SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3`,
		to, vehicleID, from,
	)
	if err != nil {
		return fmt.Errorf("error updating vehicle %d status %s -> %s: %w", vehicleID, from, to, err)
	}
	return nil
}
