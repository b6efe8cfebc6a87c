package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"fleetrent/internal/auth"
)

// Handlers bundles every HTTP handler the router mounts.
type Handlers struct {
	Auth      *AuthHandler
	Vehicles  *VehicleHandler
	Bookings  *BookingHandler
	Rentals   *RentalHandler
	Customers *CustomerHandler
	Users     *UserHandler
	Dashboard *DashboardHandler
	Settings  *SettingsHandler
}

// NewRouter assembles the full route table: public endpoints, a bearer-token
// protected subrouter, the metrics endpoint and static uploads.
func NewRouter(h Handlers, resolver auth.UserResolver, logger *zap.Logger, uploadDir string) *mux.Router {
	r := mux.NewRouter()
	r.Use(Recover(logger))
	r.Use(RequestID)
	r.Use(Observability(logger))

	r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeMessage(w, http.StatusOK, "ok")
	}).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	// Public endpoints
	api.HandleFunc("/register", h.Auth.Register).Methods("POST")
	api.HandleFunc("/login", h.Auth.Login).Methods("POST")
	api.HandleFunc("/vehicles", h.Vehicles.List).Methods("GET")
	api.HandleFunc("/vehicles/available", h.Vehicles.ListAvailable).Methods("GET")
	api.HandleFunc("/vehicles/{id:[0-9]+}", h.Vehicles.Get).Methods("GET")
	api.HandleFunc("/bookings/public", h.Bookings.Create).Methods("POST")
	api.HandleFunc("/settings", h.Settings.Get).Methods("GET")

	// Authenticated endpoints
	protected := api.PathPrefix("").Subrouter()
	protected.Use(auth.Middleware(resolver))

	protected.HandleFunc("/logout", h.Auth.Logout).Methods("POST")
	protected.HandleFunc("/me", h.Auth.Me).Methods("GET")
	protected.HandleFunc("/dashboard", h.Dashboard.Get).Methods("GET")

	protected.HandleFunc("/vehicles", h.Vehicles.Create).Methods("POST")
	protected.HandleFunc("/vehicles/{id:[0-9]+}", h.Vehicles.Update).Methods("PUT")
	protected.HandleFunc("/vehicles/{id:[0-9]+}", h.Vehicles.Delete).Methods("DELETE")

	protected.HandleFunc("/bookings", h.Bookings.List).Methods("GET")
	protected.HandleFunc("/bookings", h.Bookings.Create).Methods("POST")
	protected.HandleFunc("/bookings/mine", h.Bookings.Mine).Methods("GET")
	protected.HandleFunc("/bookings/{id:[0-9]+}", h.Bookings.Get).Methods("GET")
	protected.HandleFunc("/bookings/{id:[0-9]+}", h.Bookings.Update).Methods("PUT")
	protected.HandleFunc("/bookings/{id:[0-9]+}", h.Bookings.Delete).Methods("DELETE")
	protected.HandleFunc("/bookings/{id:[0-9]+}/approve", h.Bookings.Approve).Methods("POST")
	protected.HandleFunc("/bookings/{id:[0-9]+}/cancel", h.Bookings.Cancel).Methods("POST")
	protected.HandleFunc("/bookings/{id:[0-9]+}/checkout", h.Rentals.Checkout).Methods("POST")

	protected.HandleFunc("/rentals", h.Rentals.List).Methods("GET")
	protected.HandleFunc("/rentals/{id:[0-9]+}", h.Rentals.Get).Methods("GET")
	protected.HandleFunc("/rentals/{id:[0-9]+}", h.Rentals.Update).Methods("PUT")
	protected.HandleFunc("/rentals/{id:[0-9]+}", h.Rentals.Delete).Methods("DELETE")
	protected.HandleFunc("/rentals/{id:[0-9]+}/return", h.Rentals.Return).Methods("POST")

	protected.HandleFunc("/customers", h.Customers.List).Methods("GET")
	protected.HandleFunc("/customers", h.Customers.Create).Methods("POST")
	protected.HandleFunc("/customers/{id:[0-9]+}", h.Customers.Get).Methods("GET")
	protected.HandleFunc("/customers/{id:[0-9]+}", h.Customers.Update).Methods("PUT")
	protected.HandleFunc("/customers/{id:[0-9]+}", h.Customers.Delete).Methods("DELETE")

	protected.HandleFunc("/users", h.Users.List).Methods("GET")
	protected.HandleFunc("/users", h.Users.Create).Methods("POST")
	protected.HandleFunc("/users/{id:[0-9]+}", h.Users.Get).Methods("GET")
	protected.HandleFunc("/users/{id:[0-9]+}", h.Users.Update).Methods("PUT")
	protected.HandleFunc("/users/{id:[0-9]+}", h.Users.Delete).Methods("DELETE")

	protected.HandleFunc("/settings/hero-image", h.Settings.SetHeroImage).Methods("POST")
	protected.HandleFunc("/settings/hero-image", h.Settings.DeleteHeroImage).Methods("DELETE")

	r.PathPrefix("/uploads/").Handler(
		http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploadDir))))

	return r
}
