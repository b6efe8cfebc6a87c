package entities

import (
	"time"

	"fleetrent/internal/db"
)

type MessageResponse struct {
	Message string `json:"message"`
}

type LoginResponse struct {
	Token string  `json:"token"`
	User  db.User `json:"user"`
}

// CustomerSummary is the customer shape embedded in booking listings.
type CustomerSummary struct {
	ID       int    `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

// VehicleSummary is the trimmed vehicle shape used by dashboards.
type VehicleSummary struct {
	ID          int    `json:"id"`
	Brand       string `json:"brand"`
	Model       string `json:"model"`
	PlateNumber string `json:"plate_number,omitempty"`
}

// BookingResponse joins a booking with its vehicle and customer.
type BookingResponse struct {
	db.Booking
	Vehicle  *db.Vehicle      `json:"vehicle,omitempty"`
	Customer *CustomerSummary `json:"customer,omitempty"`
}

// RentalResponse joins a rental with its booking chain.
type RentalResponse struct {
	db.Rental
	Booking *BookingResponse `json:"booking,omitempty"`
}

type SettingsResponse struct {
	HeroImage          *string    `json:"hero_image"`
	HeroImageUpdatedAt *time.Time `json:"hero_image_updated_at"`
}
