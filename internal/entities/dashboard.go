package entities

type StatusCount struct {
	Status string `json:"status"`
	Total  int    `json:"total"`
}

type TopCustomer struct {
	ID           int     `json:"id"`
	FullName     string  `json:"full_name"`
	Email        string  `json:"email"`
	BookingCount int     `json:"booking_count"`
	TotalSpent   float64 `json:"total_spent"`
}

type AdminSummary struct {
	TotalVehicles     int `json:"total_vehicles"`
	TotalBookings     int `json:"total_bookings"`
	AvailableVehicles int `json:"available_vehicles"`
	ActiveRentals     int `json:"active_rentals"`
	PendingBookings   int `json:"pending_bookings"`
	TotalCustomers    int `json:"total_customers"`
}

type Revenue struct {
	Total   float64 `json:"total"`
	Monthly float64 `json:"monthly"`
	Today   float64 `json:"today"`
}

type AdminDashboard struct {
	Role           string            `json:"role"`
	Summary        AdminSummary      `json:"summary"`
	Revenue        Revenue           `json:"revenue"`
	RecentBookings []BookingResponse `json:"recent_bookings"`
	VehicleStatus  []StatusCount     `json:"vehicle_status"`
	BookingStatus  []StatusCount     `json:"booking_status"`
	TopCustomers   []TopCustomer     `json:"top_customers"`
}

type StaffCounts struct {
	TodayPickups    int `json:"today_pickups"`
	TodayReturns    int `json:"today_returns"`
	OverdueRentals  int `json:"overdue_rentals"`
	PendingBookings int `json:"pending_bookings"`
}

type StaffDashboard struct {
	Role           string            `json:"role"`
	TodayPickups   []BookingResponse `json:"today_pickups"`
	TodayReturns   []RentalResponse  `json:"today_returns"`
	OverdueRentals []RentalResponse  `json:"overdue_rentals"`
	Counts         StaffCounts       `json:"counts"`
	TodayRevenue   float64           `json:"today_revenue"`
}

type CustomerDashboard struct {
	Role           string            `json:"role"`
	ActiveBooking  *BookingResponse  `json:"active_booking"`
	BookingHistory []BookingResponse `json:"booking_history"`
}
