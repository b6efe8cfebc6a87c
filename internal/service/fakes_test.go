package service

import (
	"time"

	"fleetrent/internal/db"
	"fleetrent/internal/entities"
	"fleetrent/internal/repository"
)

// fakeStore is an in-memory stand-in for the booking, vehicle and rental
// repositories. Its transition methods enforce the same conditional-write
// semantics the SQL layer does, so the state-machine tests exercise the full
// cycle without a database.
type fakeStore struct {
	vehicles     map[int]*db.Vehicle
	bookings     map[int]*db.Booking
	rentals      map[int]*db.Rental
	nextBooking  int
	nextRental   int
	customerIDs  map[int][]int
	failNextCall error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		vehicles:    map[int]*db.Vehicle{},
		bookings:    map[int]*db.Booking{},
		rentals:     map[int]*db.Rental{},
		nextBooking: 1,
		nextRental:  1,
		customerIDs: map[int][]int{},
	}
}

func (f *fakeStore) addVehicle(id int, status db.VehicleStatus) *db.Vehicle {
	v := &db.Vehicle{ID: id, PlateNumber: "ABC-123", Brand: "Toyota", Model: "Corolla", Year: 2022, RentalPrice: 50, Status: status}
	f.vehicles[id] = v
	return v
}

func (f *fakeStore) takeFailure() error {
	err := f.failNextCall
	f.failNextCall = nil
	return err
}

// VehicleStore

func (f *fakeStore) GetByID(id int) (*db.Vehicle, error) {
	v, ok := f.vehicles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *v
	return &copied, nil
}

// CustomerLinkStore

func (f *fakeStore) IDsForUser(userID int, email string) ([]int, error) {
	return f.customerIDs[userID], nil
}

// BookingStore

func (f *fakeStore) List() ([]entities.BookingResponse, error) {
	out := []entities.BookingResponse{}
	for _, b := range f.bookings {
		out = append(out, entities.BookingResponse{Booking: *b})
	}
	return out, nil
}

func (f *fakeStore) ListForCustomerIDs(ids []int) ([]entities.BookingResponse, error) {
	out := []entities.BookingResponse{}
	for _, b := range f.bookings {
		for _, id := range ids {
			if b.CustomerID == id {
				out = append(out, entities.BookingResponse{Booking: *b})
			}
		}
	}
	return out, nil
}

func (f *fakeStore) GetResponseByID(id int) (*entities.BookingResponse, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	resp := entities.BookingResponse{Booking: *b}
	if v, ok := f.vehicles[b.VehicleID]; ok {
		copied := *v
		resp.Vehicle = &copied
	}
	return &resp, nil
}

func (f *fakeStore) GetBookingByID(id int) (*db.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *b
	return &copied, nil
}

func (f *fakeStore) CreateWithReservation(b *db.Booking, info entities.CustomerInfo) error {
	if err := f.takeFailure(); err != nil {
		return err
	}
	v, ok := f.vehicles[b.VehicleID]
	if !ok || v.Status != db.VehicleAvailable {
		return repository.ErrVehicleUnavailable
	}
	v.Status = db.VehicleReserved
	b.ID = f.nextBooking
	b.CustomerID = 1
	f.nextBooking++
	copied := *b
	f.bookings[b.ID] = &copied
	return nil
}

func (f *fakeStore) Approve(id int) error {
	b, ok := f.bookings[id]
	if !ok {
		return repository.ErrNotFound
	}
	if b.Status != db.BookingPending {
		return repository.ErrStaleStatus
	}
	b.Status = db.BookingConfirmed
	if v, ok := f.vehicles[b.VehicleID]; ok {
		v.Status = db.VehicleReserved
	}
	return nil
}

func (f *fakeStore) Cancel(id int) error {
	b, ok := f.bookings[id]
	if !ok {
		return repository.ErrNotFound
	}
	if b.Status != db.BookingPending && b.Status != db.BookingConfirmed {
		return repository.ErrStaleStatus
	}
	b.Status = db.BookingCancelled
	if v, ok := f.vehicles[b.VehicleID]; ok && v.Status == db.VehicleReserved {
		v.Status = db.VehicleAvailable
	}
	return nil
}

func (f *fakeStore) Expire(id int) error {
	b, ok := f.bookings[id]
	if !ok {
		return repository.ErrNotFound
	}
	if b.Status != db.BookingPending {
		return repository.ErrStaleStatus
	}
	b.Status = db.BookingExpired
	if v, ok := f.vehicles[b.VehicleID]; ok && v.Status == db.VehicleReserved {
		v.Status = db.VehicleAvailable
	}
	return nil
}

func (f *fakeStore) Update(b *db.Booking) error {
	if _, ok := f.bookings[b.ID]; !ok {
		return repository.ErrNotFound
	}
	copied := *b
	f.bookings[b.ID] = &copied
	return nil
}

func (f *fakeStore) Delete(id int) error {
	b, ok := f.bookings[id]
	if !ok {
		return repository.ErrNotFound
	}
	if v, ok := f.vehicles[b.VehicleID]; ok {
		v.Status = db.VehicleAvailable
	}
	delete(f.bookings, id)
	return nil
}

// RentalStore

func (f *fakeStore) ListRentals() ([]entities.RentalResponse, error) {
	out := []entities.RentalResponse{}
	for _, r := range f.rentals {
		out = append(out, entities.RentalResponse{Rental: *r})
	}
	return out, nil
}

func (f *fakeStore) GetRentalResponseByID(id int) (*entities.RentalResponse, error) {
	r, ok := f.rentals[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &entities.RentalResponse{Rental: *r}, nil
}

func (f *fakeStore) GetRentalByID(id int) (*db.Rental, error) {
	r, ok := f.rentals[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *r
	return &copied, nil
}

func (f *fakeStore) Checkout(bookingID int, odometerOut, fuelOut *int) (*db.Rental, error) {
	if err := f.takeFailure(); err != nil {
		return nil, err
	}
	b, ok := f.bookings[bookingID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if b.Status != db.BookingPending && b.Status != db.BookingConfirmed {
		return nil, repository.ErrStaleStatus
	}
	b.Status = db.BookingCheckedOut
	now := time.Now().UTC()
	r := &db.Rental{
		ID:           f.nextRental,
		BookingID:    bookingID,
		CheckoutTime: &now,
		OdometerOut:  odometerOut,
		FuelOut:      fuelOut,
		Status:       db.RentalActive,
	}
	f.nextRental++
	f.rentals[r.ID] = r
	if v, ok := f.vehicles[b.VehicleID]; ok {
		v.Status = db.VehicleRented
	}
	copied := *r
	return &copied, nil
}

func (f *fakeStore) Return(rentalID int, odometerIn, fuelIn *int) (*db.Rental, error) {
	if err := f.takeFailure(); err != nil {
		return nil, err
	}
	r, ok := f.rentals[rentalID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if r.Status != db.RentalActive {
		return nil, repository.ErrRentalNotActive
	}
	now := time.Now().UTC()
	r.Status = db.RentalReturned
	r.ReturnTime = &now
	r.OdometerIn = odometerIn
	r.FuelIn = fuelIn
	if b, ok := f.bookings[r.BookingID]; ok {
		b.Status = db.BookingReturned
		if v, ok := f.vehicles[b.VehicleID]; ok {
			v.Status = db.VehicleAvailable
		}
	}
	copied := *r
	return &copied, nil
}

func (f *fakeStore) UpdateTelemetry(id int, req entities.UpdateRentalRequest) error {
	r, ok := f.rentals[id]
	if !ok {
		return repository.ErrNotFound
	}
	if req.OdometerOut != nil {
		r.OdometerOut = req.OdometerOut
	}
	if req.OdometerIn != nil {
		r.OdometerIn = req.OdometerIn
	}
	if req.FuelOut != nil {
		r.FuelOut = req.FuelOut
	}
	if req.FuelIn != nil {
		r.FuelIn = req.FuelIn
	}
	return nil
}

func (f *fakeStore) DeleteRental(id int) error {
	if _, ok := f.rentals[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.rentals, id)
	return nil
}

// Interface adapters. The three store interfaces reuse method names with
// different signatures, so each view shadows the clashing ones.

type fakeBookings struct{ *fakeStore }

func (f fakeBookings) GetByID(id int) (*db.Booking, error) { return f.GetBookingByID(id) }

type fakeRentals struct{ *fakeStore }

func (f fakeRentals) List() ([]entities.RentalResponse, error) { return f.ListRentals() }
func (f fakeRentals) GetResponseByID(id int) (*entities.RentalResponse, error) {
	return f.GetRentalResponseByID(id)
}
func (f fakeRentals) GetByID(id int) (*db.Rental, error) { return f.GetRentalByID(id) }
func (f fakeRentals) Delete(id int) error                { return f.DeleteRental(id) }

// fakeNotifier records status notifications.
type fakeNotifier struct {
	notified []db.BookingStatus
}

func (f *fakeNotifier) BookingStatusChanged(_ *entities.BookingResponse, status db.BookingStatus) {
	f.notified = append(f.notified, status)
}
