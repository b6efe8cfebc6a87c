package entities

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CustomerInfo struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	City     string `json:"city"`
	State    string `json:"state"`
	ZipCode  string `json:"zip_code"`
}

// CreateBookingRequest is the public checkout payload. Dates arrive as
// YYYY-MM-DD strings. Client-supplied payment fields are ignored.
type CreateBookingRequest struct {
	VehicleID    int          `json:"vehicle_id"`
	StartDate    string       `json:"start_date"`
	EndDate      string       `json:"end_date"`
	TotalPrice   float64      `json:"total_price"`
	CustomerInfo CustomerInfo `json:"customer_info"`
}

type UpdateBookingRequest struct {
	Status    *string `json:"status"`
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
}

type CreateVehicleRequest struct {
	PlateNumber string  `json:"plate_number"`
	Brand       string  `json:"brand"`
	Model       string  `json:"model"`
	Year        int     `json:"year"`
	RentalPrice float64 `json:"rental_price"`
	Status      *string `json:"status"`
	Image       *string `json:"image"`
}

type UpdateVehicleRequest struct {
	PlateNumber *string  `json:"plate_number"`
	Brand       *string  `json:"brand"`
	Model       *string  `json:"model"`
	Year        *int     `json:"year"`
	RentalPrice *float64 `json:"rental_price"`
	Status      *string  `json:"status"`
	Image       *string  `json:"image"`
}

type CustomerRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type UpdateUserRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Role     *string `json:"role"`
}

type UpdateRentalRequest struct {
	OdometerOut *int `json:"odometer_out"`
	OdometerIn  *int `json:"odometer_in"`
	FuelOut     *int `json:"fuel_out"`
	FuelIn      *int `json:"fuel_in"`
}
