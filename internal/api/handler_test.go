package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"fleetrent/internal/db"
	"fleetrent/internal/entities"
	"fleetrent/internal/repository"
	"fleetrent/internal/service"
)

// memStore backs the booking and rental services with map state, mirroring
// the conditional-write behavior of the SQL repositories.
type memStore struct {
	vehicles    map[int]*db.Vehicle
	bookings    map[int]*db.Booking
	rentals     map[int]*db.Rental
	nextBooking int
	nextRental  int
}

func newMemStore() *memStore {
	return &memStore{
		vehicles:    map[int]*db.Vehicle{},
		bookings:    map[int]*db.Booking{},
		rentals:     map[int]*db.Rental{},
		nextBooking: 1,
		nextRental:  1,
	}
}

func (m *memStore) GetByID(id int) (*db.Vehicle, error) {
	v, ok := m.vehicles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *v
	return &copied, nil
}

func (m *memStore) IDsForUser(userID int, email string) ([]int, error) { return nil, nil }

type memBookings struct{ *memStore }

func (m memBookings) List() ([]entities.BookingResponse, error) {
	out := []entities.BookingResponse{}
	for _, b := range m.bookings {
		out = append(out, entities.BookingResponse{Booking: *b})
	}
	return out, nil
}

func (m memBookings) ListForCustomerIDs(ids []int) ([]entities.BookingResponse, error) {
	return []entities.BookingResponse{}, nil
}

func (m memBookings) GetResponseByID(id int) (*entities.BookingResponse, error) {
	b, ok := m.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &entities.BookingResponse{Booking: *b}, nil
}

func (m memBookings) GetByID(id int) (*db.Booking, error) {
	b, ok := m.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *b
	return &copied, nil
}

func (m memBookings) CreateWithReservation(b *db.Booking, info entities.CustomerInfo) error {
	v, ok := m.vehicles[b.VehicleID]
	if !ok || v.Status != db.VehicleAvailable {
		return repository.ErrVehicleUnavailable
	}
	v.Status = db.VehicleReserved
	b.ID = m.nextBooking
	b.CustomerID = 1
	m.nextBooking++
	copied := *b
	m.bookings[b.ID] = &copied
	return nil
}

func (m memBookings) Approve(id int) error {
	b, ok := m.bookings[id]
	if !ok {
		return repository.ErrNotFound
	}
	if b.Status != db.BookingPending {
		return repository.ErrStaleStatus
	}
	b.Status = db.BookingConfirmed
	return nil
}

func (m memBookings) Cancel(id int) error {
	b, ok := m.bookings[id]
	if !ok {
		return repository.ErrNotFound
	}
	if b.Status != db.BookingPending && b.Status != db.BookingConfirmed {
		return repository.ErrStaleStatus
	}
	b.Status = db.BookingCancelled
	if v, ok := m.vehicles[b.VehicleID]; ok && v.Status == db.VehicleReserved {
		v.Status = db.VehicleAvailable
	}
	return nil
}

func (m memBookings) Expire(id int) error { return repository.ErrStaleStatus }

func (m memBookings) Update(b *db.Booking) error {
	copied := *b
	m.bookings[b.ID] = &copied
	return nil
}

func (m memBookings) Delete(id int) error {
	if _, ok := m.bookings[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.bookings, id)
	return nil
}

type memRentals struct{ *memStore }

func (m memRentals) List() ([]entities.RentalResponse, error) {
	return []entities.RentalResponse{}, nil
}

func (m memRentals) GetResponseByID(id int) (*entities.RentalResponse, error) {
	r, ok := m.rentals[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &entities.RentalResponse{Rental: *r}, nil
}

func (m memRentals) GetByID(id int) (*db.Rental, error) {
	r, ok := m.rentals[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *r
	return &copied, nil
}

func (m memRentals) Checkout(bookingID int, odometerOut, fuelOut *int) (*db.Rental, error) {
	b, ok := m.bookings[bookingID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if b.Status != db.BookingPending && b.Status != db.BookingConfirmed {
		return nil, repository.ErrStaleStatus
	}
	b.Status = db.BookingCheckedOut
	now := time.Now().UTC()
	r := &db.Rental{ID: m.nextRental, BookingID: bookingID, CheckoutTime: &now, Status: db.RentalActive}
	m.nextRental++
	m.rentals[r.ID] = r
	if v, ok := m.vehicles[b.VehicleID]; ok {
		v.Status = db.VehicleRented
	}
	copied := *r
	return &copied, nil
}

func (m memRentals) Return(rentalID int, odometerIn, fuelIn *int) (*db.Rental, error) {
	r, ok := m.rentals[rentalID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if r.Status != db.RentalActive {
		return nil, repository.ErrRentalNotActive
	}
	now := time.Now().UTC()
	r.Status = db.RentalReturned
	r.ReturnTime = &now
	if b, ok := m.bookings[r.BookingID]; ok {
		b.Status = db.BookingReturned
		if v, ok := m.vehicles[b.VehicleID]; ok {
			v.Status = db.VehicleAvailable
		}
	}
	copied := *r
	return &copied, nil
}

func (m memRentals) UpdateTelemetry(id int, req entities.UpdateRentalRequest) error { return nil }

func (m memRentals) Delete(id int) error { return nil }

// tokenResolver maps static bearer tokens to users.
type tokenResolver map[string]*db.User

func (r tokenResolver) UserForToken(token string) (*db.User, string, error) {
	if u, ok := r[token]; ok {
		return u, "session-" + token, nil
	}
	return nil, "", fmt.Errorf("unknown token")
}

func newTestServer(t *testing.T, store *memStore) *httptest.Server {
	t.Helper()
	logger := zap.NewNop()
	bookingSvc := service.NewBookingService(memBookings{store}, store, store, nil, false, logger)
	rentalSvc := service.NewRentalService(memRentals{store}, memBookings{store}, nil, logger)

	resolver := tokenResolver{
		"staff-token":    {ID: 2, Name: "Staff", Role: db.RoleStaff},
		"customer-token": {ID: 3, Name: "Customer", Role: db.RoleCustomer},
	}

	router := NewRouter(Handlers{
		Bookings: NewBookingHandler(bookingSvc),
		Rentals:  NewRentalHandler(rentalSvc),
	}, resolver, logger, t.TempDir())

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func doRequest(t *testing.T, method, url, token, body string) (*http.Response, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	var payload map[string]any
	json.NewDecoder(resp.Body).Decode(&payload)
	return resp, payload
}

func publicBookingBody(vehicleID int) string {
	start := time.Now().UTC().AddDate(0, 0, 1).Format("2006-01-02")
	end := time.Now().UTC().AddDate(0, 0, 3).Format("2006-01-02")
	return fmt.Sprintf(`{
		"vehicle_id": %d,
		"start_date": %q,
		"end_date": %q,
		"total_price": 150,
		"customer_info": {
			"full_name": "Jane Doe",
			"email": "jane@example.com",
			"phone": "555-0100",
			"address": "1 Main St",
			"city": "Springfield",
			"state": "IL",
			"zip_code": "62701"
		}
	}`, vehicleID, start, end)
}

func TestPublicBookingScenario(t *testing.T) {
	store := newMemStore()
	store.vehicles[1] = &db.Vehicle{ID: 1, Status: db.VehicleAvailable}
	srv := newTestServer(t, store)

	resp, payload := doRequest(t, "POST", srv.URL+"/api/bookings/public", "", publicBookingBody(1))
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}
	if payload["status"] != "Pending" {
		t.Errorf("booking status = %v, want Pending", payload["status"])
	}
	if store.vehicles[1].Status != db.VehicleReserved {
		t.Errorf("vehicle status = %s, want Reserved", store.vehicles[1].Status)
	}

	resp, payload = doRequest(t, "POST", srv.URL+"/api/bookings/public", "", publicBookingBody(1))
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if payload["message"] != "Vehicle is not available for booking" {
		t.Errorf("message = %v", payload["message"])
	}
}

func TestBookingMalformedBody(t *testing.T) {
	store := newMemStore()
	srv := newTestServer(t, store)

	resp, payload := doRequest(t, "POST", srv.URL+"/api/bookings/public", "", "{not json")
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", resp.StatusCode)
	}
	if payload["message"] == nil {
		t.Error("error envelope should carry a message field")
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	store := newMemStore()
	srv := newTestServer(t, store)

	resp, payload := doRequest(t, "GET", srv.URL+"/api/bookings", "", "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
	if payload["message"] != "Unauthorized" {
		t.Errorf("message = %v", payload["message"])
	}

	resp, _ = doRequest(t, "GET", srv.URL+"/api/bookings", "bogus-token", "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("bogus token: status = %d, want 401", resp.StatusCode)
	}
}

func TestApproveScenario(t *testing.T) {
	store := newMemStore()
	store.vehicles[1] = &db.Vehicle{ID: 1, Status: db.VehicleAvailable}
	srv := newTestServer(t, store)

	if resp, _ := doRequest(t, "POST", srv.URL+"/api/bookings/public", "", publicBookingBody(1)); resp.StatusCode != http.StatusCreated {
		t.Fatalf("create failed: %d", resp.StatusCode)
	}

	resp, _ := doRequest(t, "POST", srv.URL+"/api/bookings/1/approve", "customer-token", "")
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("customer approve: status = %d, want 403", resp.StatusCode)
	}

	resp, payload := doRequest(t, "POST", srv.URL+"/api/bookings/1/approve", "staff-token", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("approve: status = %d, want 200", resp.StatusCode)
	}
	if payload["status"] != "Confirmed" {
		t.Errorf("booking status = %v, want Confirmed", payload["status"])
	}

	resp, payload = doRequest(t, "POST", srv.URL+"/api/bookings/1/approve", "staff-token", "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("second approve: status = %d, want 400", resp.StatusCode)
	}
	if payload["message"] != "Only pending bookings can be approved" {
		t.Errorf("message = %v", payload["message"])
	}
}

func TestCheckoutReturnScenario(t *testing.T) {
	store := newMemStore()
	store.vehicles[1] = &db.Vehicle{ID: 1, Status: db.VehicleAvailable}
	srv := newTestServer(t, store)

	doRequest(t, "POST", srv.URL+"/api/bookings/public", "", publicBookingBody(1))
	doRequest(t, "POST", srv.URL+"/api/bookings/1/approve", "staff-token", "")

	resp, payload := doRequest(t, "POST", srv.URL+"/api/bookings/1/checkout", "staff-token", "")
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("checkout: status = %d, want 201", resp.StatusCode)
	}
	if payload["status"] != "Active" {
		t.Errorf("rental status = %v, want Active", payload["status"])
	}
	if store.vehicles[1].Status != db.VehicleRented {
		t.Errorf("vehicle status = %s, want Rented", store.vehicles[1].Status)
	}
	if store.bookings[1].Status != db.BookingCheckedOut {
		t.Errorf("booking status = %s, want CheckedOut", store.bookings[1].Status)
	}

	resp, _ = doRequest(t, "POST", srv.URL+"/api/rentals/1/return", "staff-token", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("return: status = %d, want 200", resp.StatusCode)
	}
	if store.vehicles[1].Status != db.VehicleAvailable {
		t.Errorf("vehicle status = %s, want Available", store.vehicles[1].Status)
	}
	if store.bookings[1].Status != db.BookingReturned {
		t.Errorf("booking status = %s, want Returned", store.bookings[1].Status)
	}

	resp, payload = doRequest(t, "POST", srv.URL+"/api/rentals/1/return", "staff-token", "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("double return: status = %d, want 400", resp.StatusCode)
	}
	if payload["message"] != "Only active rentals can be returned" {
		t.Errorf("message = %v", payload["message"])
	}
}
