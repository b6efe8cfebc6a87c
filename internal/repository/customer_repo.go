package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"fleetrent/internal/db"
)

type CustomerRepository struct {
	DB *sql.DB
}

func NewCustomerRepository(database *sql.DB) *CustomerRepository {
	return &CustomerRepository{DB: database}
}

const customerColumns = `id, full_name, email, phone, user_id, created_at`

func scanCustomer(row interface{ Scan(...any) error }) (*db.Customer, error) {
	var c db.Customer
	// email and phone are nullable; account-linked rows are created without
	// a phone (ResolveForUser).
	var email, phone sql.NullString
	err := row.Scan(&c.ID, &c.FullName, &email, &phone, &c.UserID, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	c.Email = email.String
	c.Phone = phone.String
	return &c, nil
}

func (r *CustomerRepository) List() ([]db.Customer, error) {
	rows, err := r.DB.Query(`SELECT ` + customerColumns + ` FROM customers ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("error querying customers: %w", err)
	}
	defer rows.Close()

	customers := []db.Customer{}
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning customer: %w", err)
		}
		customers = append(customers, *c)
	}
	return customers, rows.Err()
}

func (r *CustomerRepository) GetByID(id int) (*db.Customer, error) {
	c, err := scanCustomer(r.DB.QueryRow(`SELECT `+customerColumns+` FROM customers WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error querying customer %d: %w", id, err)
	}
	return c, nil
}

func (r *CustomerRepository) Create(c *db.Customer) error {
	query := `
		INSERT INTO customers (full_name, email, phone, user_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`
	return r.DB.QueryRow(query, c.FullName, c.Email, c.Phone, c.UserID).Scan(&c.ID, &c.CreatedAt)
}

func (r *CustomerRepository) Update(c *db.Customer) error {
	result, err := r.DB.Exec(
		`UPDATE customers SET full_name = $1, email = $2, phone = $3 WHERE id = $4`,
		c.FullName, c.Email, c.Phone, c.ID,
	)
	if err != nil {
		return fmt.Errorf("error updating customer %d: %w", c.ID, err)
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

func (r *CustomerRepository) Delete(id int) error {
	result, err := r.DB.Exec(`DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting customer %d: %w", id, err)
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

func (r *CustomerRepository) HasBookings(id int) (bool, error) {
	var exists bool
	err := r.DB.QueryRow(`SELECT EXISTS(SELECT 1 FROM bookings WHERE customer_id = $1)`, id).Scan(&exists)
	return exists, err
}

// IDsForUser gathers every customer row linked to the user, by user_id or by
// email. A guest checkout followed by registration can leave several rows
// for the same person.
func (r *CustomerRepository) IDsForUser(userID int, email string) ([]int, error) {
	rows, err := r.DB.Query(
		`SELECT id FROM customers WHERE user_id = $1 OR email = $2 ORDER BY id`,
		userID, email,
	)
	if err != nil {
		return nil, fmt.Errorf("error querying customer ids for user %d: %w", userID, err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ResolveForUser maps a logged-in customer to their customer row, falling
// back to an email match and creating the row on first access.
func (r *CustomerRepository) ResolveForUser(user *db.User) (int, error) {
	var id int
	err := r.DB.QueryRow(`SELECT id FROM customers WHERE user_id = $1`, user.ID).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("error resolving customer for user %d: %w", user.ID, err)
	}

	err = r.DB.QueryRow(`SELECT id FROM customers WHERE email = $1 ORDER BY id LIMIT 1`, user.Email).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("error resolving customer by email %s: %w", user.Email, err)
	}

	err = r.DB.QueryRow(
		`INSERT INTO customers (full_name, email, user_id) VALUES ($1, $2, $3) RETURNING id`,
		user.Name, user.Email, user.ID,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("error creating customer for user %d: %w", user.ID, err)
	}
	return id, nil
}

// resolveOrCreateCustomerTx finds an existing customer row by email, linking
// it to a registered user with the same email when the row has no user yet,
// or inserts a new row. Runs inside the booking-creation transaction.
func resolveOrCreateCustomerTx(tx *sql.Tx, info struct{ FullName, Email, Phone string }) (int, error) {
	var userID *int
	var uid int
	err := tx.QueryRow(`SELECT id FROM users WHERE email = $1`, info.Email).Scan(&uid)
	if err == nil {
		userID = &uid
	} else if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("error looking up user by email: %w", err)
	}

	var customerID int
	var existingUserID *int
	err = tx.QueryRow(`SELECT id, user_id FROM customers WHERE email = $1 ORDER BY id LIMIT 1`, info.Email).
		Scan(&customerID, &existingUserID)
	if err == nil {
		if userID != nil && existingUserID == nil {
			if _, err := tx.Exec(`UPDATE customers SET user_id = $1 WHERE id = $2`, *userID, customerID); err != nil {
				return 0, fmt.Errorf("error linking customer %d to user: %w", customerID, err)
			}
		}
		return customerID, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("error looking up customer by email: %w", err)
	}

	err = tx.QueryRow(
		`INSERT INTO customers (full_name, email, phone, user_id) VALUES ($1, $2, $3, $4) RETURNING id`,
		info.FullName, info.Email, info.Phone, userID,
	).Scan(&customerID)
	if err != nil {
		return 0, fmt.Errorf("error inserting customer: %w", err)
	}
	return customerID, nil
}
