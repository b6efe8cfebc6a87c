package service

import (
	"errors"
	"testing"

	"go.uber.org/zap"

	"fleetrent/internal/db"
)

type fakeStaleSource struct {
	ids []int
	err error
}

func (f *fakeStaleSource) GetStalePendingBookingIDs() ([]int, error) { return f.ids, f.err }

type fakeSessionPruner struct {
	deleted int64
	err     error
	calls   int
}

func (f *fakeSessionPruner) DeleteExpired() (int64, error) {
	f.calls++
	return f.deleted, f.err
}

func TestExpireStalePendingBookings(t *testing.T) {
	store := newFakeStore()
	store.addVehicle(1, db.VehicleReserved)
	store.addVehicle(2, db.VehicleReserved)
	store.bookings[1] = &db.Booking{ID: 1, VehicleID: 1, Status: db.BookingPending}
	store.bookings[2] = &db.Booking{ID: 2, VehicleID: 2, Status: db.BookingConfirmed}

	source := &fakeStaleSource{ids: []int{1, 2, 99}}
	svc := NewJobService(source, fakeBookings{store}, &fakeSessionPruner{}, zap.NewNop())

	svc.ExpireStalePendingBookings()

	if store.bookings[1].Status != db.BookingExpired {
		t.Errorf("stale pending booking = %s, want Expired", store.bookings[1].Status)
	}
	if store.vehicles[1].Status != db.VehicleAvailable {
		t.Errorf("vehicle 1 = %s, want Available after expiry", store.vehicles[1].Status)
	}

	// Confirmed bookings are skipped, their vehicles untouched.
	if store.bookings[2].Status != db.BookingConfirmed {
		t.Errorf("confirmed booking = %s, want Confirmed", store.bookings[2].Status)
	}
	if store.vehicles[2].Status != db.VehicleReserved {
		t.Errorf("vehicle 2 = %s, want Reserved", store.vehicles[2].Status)
	}
}

func TestExpireStalePendingBookingsScanFailure(t *testing.T) {
	store := newFakeStore()
	store.bookings[1] = &db.Booking{ID: 1, Status: db.BookingPending}

	source := &fakeStaleSource{err: errors.New("db down")}
	svc := NewJobService(source, fakeBookings{store}, &fakeSessionPruner{}, zap.NewNop())

	svc.ExpireStalePendingBookings()

	if store.bookings[1].Status != db.BookingPending {
		t.Errorf("booking = %s, want Pending untouched on scan failure", store.bookings[1].Status)
	}
}

func TestCleanupExpiredSessions(t *testing.T) {
	pruner := &fakeSessionPruner{deleted: 3}
	svc := NewJobService(&fakeStaleSource{}, fakeBookings{newFakeStore()}, pruner, zap.NewNop())

	svc.CleanupExpiredSessions()
	if pruner.calls != 1 {
		t.Errorf("DeleteExpired calls = %d, want 1", pruner.calls)
	}

	pruner.err = errors.New("db down")
	svc.CleanupExpiredSessions()
	if pruner.calls != 2 {
		t.Errorf("cleanup should still run on failure, calls = %d", pruner.calls)
	}
}
