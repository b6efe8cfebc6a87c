package db

import "time"

type User struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Customer struct {
	ID        int       `json:"id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	UserID    *int      `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

type Vehicle struct {
	ID          int           `json:"id"`
	PlateNumber string        `json:"plate_number"`
	Brand       string        `json:"brand"`
	Model       string        `json:"model"`
	Year        int           `json:"year"`
	RentalPrice float64       `json:"rental_price"`
	Image       *string       `json:"image"`
	Status      VehicleStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

type Booking struct {
	ID         int           `json:"id"`
	CustomerID int           `json:"customer_id"`
	VehicleID  int           `json:"vehicle_id"`
	StartDate  time.Time     `json:"start_date"`
	EndDate    time.Time     `json:"end_date"`
	TotalPrice float64       `json:"total_price"`
	Status     BookingStatus `json:"status"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

type Rental struct {
	ID           int          `json:"id"`
	BookingID    int          `json:"booking_id"`
	CheckoutTime *time.Time   `json:"checkout_time"`
	ReturnTime   *time.Time   `json:"return_time"`
	OdometerOut  *int         `json:"odometer_out"`
	OdometerIn   *int         `json:"odometer_in"`
	FuelOut      *int         `json:"fuel_out"`
	FuelIn       *int         `json:"fuel_in"`
	Status       RentalStatus `json:"status"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// Session backs one issued bearer token; deleting the row revokes the token.
type Session struct {
	ID        string    `json:"id"`
	UserID    int       `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

type Setting struct {
	Key       string    `json:"key"`
	Value     *string   `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}
