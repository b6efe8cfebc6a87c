package service

import (
	"net/http"
	"testing"

	"go.uber.org/zap"

	"fleetrent/internal/db"
	"fleetrent/internal/entities"
	apperrors "fleetrent/internal/errors"
)

func newRentalService(t *testing.T, store *fakeStore) (*RentalService, *fakeNotifier) {
	t.Helper()
	notifier := &fakeNotifier{}
	return NewRentalService(fakeRentals{store}, fakeBookings{store}, notifier, zap.NewNop()), notifier
}

func createBooking(t *testing.T, store *fakeStore, vehicleID int) *db.Booking {
	t.Helper()
	svc, _ := newBookingService(t, store, false)
	booking, err := svc.Create(validCreateRequest(vehicleID))
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}
	return booking
}

func TestCheckoutCreatesActiveRental(t *testing.T) {
	store := newFakeStore()
	store.addVehicle(1, db.VehicleAvailable)
	booking := createBooking(t, store, 1)
	svc, notifier := newRentalService(t, store)

	odo := 12000
	rental, err := svc.Checkout(booking.ID, entities.UpdateRentalRequest{OdometerOut: &odo})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if rental.Status != db.RentalActive {
		t.Errorf("rental status = %s, want Active", rental.Status)
	}
	if rental.CheckoutTime == nil {
		t.Error("checkout_time should be set")
	}
	if rental.OdometerOut == nil || *rental.OdometerOut != 12000 {
		t.Error("odometer_out not recorded")
	}
	if store.bookings[booking.ID].Status != db.BookingCheckedOut {
		t.Errorf("booking status = %s, want CheckedOut", store.bookings[booking.ID].Status)
	}
	if store.vehicles[1].Status != db.VehicleRented {
		t.Errorf("vehicle status = %s, want Rented", store.vehicles[1].Status)
	}
	if len(store.rentals) != 1 {
		t.Errorf("rentals = %d, want exactly 1", len(store.rentals))
	}
	if len(notifier.notified) != 1 || notifier.notified[0] != db.BookingCheckedOut {
		t.Errorf("notifications = %v, want [CheckedOut]", notifier.notified)
	}
}

func TestCheckoutRejectsWrongStatus(t *testing.T) {
	store := newFakeStore()
	store.addVehicle(1, db.VehicleAvailable)
	booking := createBooking(t, store, 1)
	svc, _ := newRentalService(t, store)

	if _, err := svc.Checkout(booking.ID, entities.UpdateRentalRequest{}); err != nil {
		t.Fatalf("checkout: %v", err)
	}

	// Re-checkout of a checked-out booking must not create a second rental.
	_, err := svc.Checkout(booking.ID, entities.UpdateRentalRequest{})
	if apperrors.StatusCode(err) != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", apperrors.StatusCode(err))
	}
	if err.Error() != "Only pending or confirmed bookings can be checked out" {
		t.Errorf("message = %q", err.Error())
	}
	if len(store.rentals) != 1 {
		t.Errorf("rentals = %d, want 1", len(store.rentals))
	}

	if _, err := svc.Checkout(99, entities.UpdateRentalRequest{}); apperrors.StatusCode(err) != http.StatusNotFound {
		t.Error("missing booking should return 404")
	}
}

func TestReturnClosesRental(t *testing.T) {
	store := newFakeStore()
	store.addVehicle(1, db.VehicleAvailable)
	booking := createBooking(t, store, 1)
	svc, notifier := newRentalService(t, store)

	rental, err := svc.Checkout(booking.ID, entities.UpdateRentalRequest{})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	odo := 12400
	returned, err := svc.Return(rental.ID, entities.UpdateRentalRequest{OdometerIn: &odo})
	if err != nil {
		t.Fatalf("return: %v", err)
	}
	if returned.Status != db.RentalReturned {
		t.Errorf("rental status = %s, want Returned", returned.Status)
	}
	if returned.ReturnTime == nil {
		t.Error("return_time should be set")
	}
	if store.bookings[booking.ID].Status != db.BookingReturned {
		t.Errorf("booking status = %s, want Returned", store.bookings[booking.ID].Status)
	}
	if store.vehicles[1].Status != db.VehicleAvailable {
		t.Errorf("vehicle status = %s, want Available", store.vehicles[1].Status)
	}
	if len(notifier.notified) != 2 || notifier.notified[1] != db.BookingReturned {
		t.Errorf("notifications = %v, want [CheckedOut Returned]", notifier.notified)
	}
}

func TestDoubleReturnRejected(t *testing.T) {
	store := newFakeStore()
	store.addVehicle(1, db.VehicleAvailable)
	booking := createBooking(t, store, 1)
	svc, _ := newRentalService(t, store)

	rental, _ := svc.Checkout(booking.ID, entities.UpdateRentalRequest{})
	if _, err := svc.Return(rental.ID, entities.UpdateRentalRequest{}); err != nil {
		t.Fatalf("first return: %v", err)
	}

	_, err := svc.Return(rental.ID, entities.UpdateRentalRequest{})
	if apperrors.StatusCode(err) != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", apperrors.StatusCode(err))
	}
	if err.Error() != "Only active rentals can be returned" {
		t.Errorf("message = %q", err.Error())
	}
}

// Full lifecycle: create, approve, checkout, return. The vehicle ends
// Available and the booking Returned, matching the state before the cycle.
func TestFullBookingRoundTrip(t *testing.T) {
	store := newFakeStore()
	store.addVehicle(1, db.VehicleAvailable)
	bookingSvc, _ := newBookingService(t, store, false)
	rentalSvc, _ := newRentalService(t, store)

	booking, err := bookingSvc.Create(validCreateRequest(1))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if store.vehicles[1].Status != db.VehicleReserved {
		t.Fatalf("after create, vehicle = %s", store.vehicles[1].Status)
	}

	if _, err := bookingSvc.Approve(booking.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}
	rental, err := rentalSvc.Checkout(booking.ID, entities.UpdateRentalRequest{})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if store.vehicles[1].Status != db.VehicleRented {
		t.Fatalf("after checkout, vehicle = %s", store.vehicles[1].Status)
	}
	if _, err := rentalSvc.Return(rental.ID, entities.UpdateRentalRequest{}); err != nil {
		t.Fatalf("return: %v", err)
	}

	if store.vehicles[1].Status != db.VehicleAvailable {
		t.Errorf("vehicle = %s, want Available", store.vehicles[1].Status)
	}
	if store.bookings[booking.ID].Status != db.BookingReturned {
		t.Errorf("booking = %s, want Returned", store.bookings[booking.ID].Status)
	}

	// The vehicle can be booked again immediately.
	if _, err := bookingSvc.Create(validCreateRequest(1)); err != nil {
		t.Errorf("re-booking after round trip: %v", err)
	}
}

func TestUpdateTelemetry(t *testing.T) {
	store := newFakeStore()
	store.addVehicle(1, db.VehicleAvailable)
	booking := createBooking(t, store, 1)
	svc, _ := newRentalService(t, store)

	rental, _ := svc.Checkout(booking.ID, entities.UpdateRentalRequest{})

	fuel := 75
	updated, err := svc.Update(rental.ID, entities.UpdateRentalRequest{FuelOut: &fuel})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.FuelOut == nil || *updated.FuelOut != 75 {
		t.Error("fuel_out not patched")
	}

	if _, err := svc.Update(99, entities.UpdateRentalRequest{}); apperrors.StatusCode(err) != http.StatusNotFound {
		t.Error("missing rental should return 404")
	}
}
