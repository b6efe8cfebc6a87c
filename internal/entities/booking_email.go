package entities

// BookingEmailData carries the fields rendered into lifecycle notifications.
type BookingEmailData struct {
	CustomerName       string
	CustomerEmail      string
	CustomerPhone      string
	BookingID          int
	VehicleLabel       string
	StartDateFormatted string
	EndDateFormatted   string
	TotalPrice         float64
	Status             string
}
