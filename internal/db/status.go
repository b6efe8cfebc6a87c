package db

import "fmt"

// Status values are persisted as strings but only move along the transition
// tables below. Every mutating operation goes through CanTransition so an
// illegal transition is rejected in one place instead of per handler.

type VehicleStatus string

const (
	VehicleAvailable   VehicleStatus = "Available"
	VehicleReserved    VehicleStatus = "Reserved"
	VehicleRented      VehicleStatus = "Rented"
	VehicleMaintenance VehicleStatus = "Maintenance"
	VehicleRetired     VehicleStatus = "Retired"
)

type BookingStatus string

const (
	BookingPending    BookingStatus = "Pending"
	BookingConfirmed  BookingStatus = "Confirmed"
	BookingCancelled  BookingStatus = "Cancelled"
	BookingExpired    BookingStatus = "Expired"
	BookingCheckedOut BookingStatus = "CheckedOut"
	BookingReturned   BookingStatus = "Returned"
)

type RentalStatus string

const (
	RentalActive   RentalStatus = "Active"
	RentalReturned RentalStatus = "Returned"
)

type Role string

const (
	RoleAdmin    Role = "Admin"
	RoleStaff    Role = "Staff"
	RoleCustomer Role = "Customer"
)

var vehicleTransitions = map[VehicleStatus][]VehicleStatus{
	VehicleAvailable:   {VehicleReserved, VehicleRented, VehicleMaintenance, VehicleRetired},
	VehicleReserved:    {VehicleAvailable, VehicleRented},
	VehicleRented:      {VehicleAvailable, VehicleMaintenance},
	VehicleMaintenance: {VehicleAvailable, VehicleRetired},
	VehicleRetired:     {},
}

var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingPending:    {BookingConfirmed, BookingCancelled, BookingExpired, BookingCheckedOut},
	BookingConfirmed:  {BookingCancelled, BookingCheckedOut},
	BookingCheckedOut: {BookingReturned},
	// terminal states
	BookingCancelled: {},
	BookingExpired:   {},
	BookingReturned:  {},
}

var rentalTransitions = map[RentalStatus][]RentalStatus{
	RentalActive:   {RentalReturned},
	RentalReturned: {},
}

func (s VehicleStatus) CanTransition(to VehicleStatus) bool {
	return containsStatus(vehicleTransitions[s], to)
}

func (s BookingStatus) CanTransition(to BookingStatus) bool {
	return containsStatus(bookingTransitions[s], to)
}

func (s RentalStatus) CanTransition(to RentalStatus) bool {
	return containsStatus(rentalTransitions[s], to)
}

func containsStatus[T comparable](allowed []T, to T) bool {
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

func ParseVehicleStatus(s string) (VehicleStatus, error) {
	switch VehicleStatus(s) {
	case VehicleAvailable, VehicleReserved, VehicleRented, VehicleMaintenance, VehicleRetired:
		return VehicleStatus(s), nil
	}
	return "", fmt.Errorf("unknown vehicle status %q", s)
}

func ParseBookingStatus(s string) (BookingStatus, error) {
	switch BookingStatus(s) {
	case BookingPending, BookingConfirmed, BookingCancelled, BookingExpired, BookingCheckedOut, BookingReturned:
		return BookingStatus(s), nil
	}
	return "", fmt.Errorf("unknown booking status %q", s)
}

func ParseRentalStatus(s string) (RentalStatus, error) {
	switch RentalStatus(s) {
	case RentalActive, RentalReturned:
		return RentalStatus(s), nil
	}
	return "", fmt.Errorf("unknown rental status %q", s)
}

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleStaff, RoleCustomer:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}
