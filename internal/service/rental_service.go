package service

import (
	"errors"

	"go.uber.org/zap"

	"fleetrent/internal/db"
	"fleetrent/internal/entities"
	apperrors "fleetrent/internal/errors"
	"fleetrent/internal/observability"
	"fleetrent/internal/repository"
)

// RentalStore is the persistence surface for rental tracking. Checkout and
// Return are atomic multi-row operations.
type RentalStore interface {
	List() ([]entities.RentalResponse, error)
	GetResponseByID(id int) (*entities.RentalResponse, error)
	GetByID(id int) (*db.Rental, error)
	Checkout(bookingID int, odometerOut, fuelOut *int) (*db.Rental, error)
	Return(rentalID int, odometerIn, fuelIn *int) (*db.Rental, error)
	UpdateTelemetry(id int, req entities.UpdateRentalRequest) error
	Delete(id int) error
}

type RentalService struct {
	store    RentalStore
	bookings BookingStore
	notifier Notifier
	logger   *zap.Logger
}

func NewRentalService(store RentalStore, bookings BookingStore, notifier Notifier, logger *zap.Logger) *RentalService {
	return &RentalService{store: store, bookings: bookings, notifier: notifier, logger: logger}
}

func (s *RentalService) List() ([]entities.RentalResponse, error) {
	return s.store.List()
}

func (s *RentalService) Get(id int) (*entities.RentalResponse, error) {
	rental, err := s.store.GetResponseByID(id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewNotFound("Rental not found")
	}
	return rental, err
}

// Checkout fulfils a Pending or Confirmed booking: exactly one Active rental
// row is created, the booking moves to CheckedOut and the vehicle to Rented.
func (s *RentalService) Checkout(bookingID int, req entities.UpdateRentalRequest) (*db.Rental, error) {
	booking, err := s.bookings.GetByID(bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("Booking not found")
		}
		return nil, err
	}
	if booking.Status != db.BookingPending && booking.Status != db.BookingConfirmed {
		return nil, apperrors.NewConflict("Only pending or confirmed bookings can be checked out")
	}

	rental, err := s.store.Checkout(bookingID, req.OdometerOut, req.FuelOut)
	if err != nil {
		if errors.Is(err, repository.ErrStaleStatus) {
			return nil, apperrors.NewConflict("Only pending or confirmed bookings can be checked out")
		}
		s.logger.Error("checkout failed", zap.Int("booking_id", bookingID), zap.Error(err))
		return nil, apperrors.NewTransaction("Failed to checkout vehicle")
	}

	observability.BookingTransitionsTotal.WithLabelValues("checkout").Inc()
	s.notifyStatus(bookingID, db.BookingCheckedOut)
	return rental, nil
}

// Return closes an Active rental and makes the vehicle Available again. A
// second return of the same rental fails the precondition.
func (s *RentalService) Return(rentalID int, req entities.UpdateRentalRequest) (*db.Rental, error) {
	rental, err := s.store.GetByID(rentalID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("Rental not found")
		}
		return nil, err
	}
	if rental.Status != db.RentalActive {
		return nil, apperrors.NewConflict("Only active rentals can be returned")
	}

	returned, err := s.store.Return(rentalID, req.OdometerIn, req.FuelIn)
	if err != nil {
		if errors.Is(err, repository.ErrRentalNotActive) {
			return nil, apperrors.NewConflict("Only active rentals can be returned")
		}
		s.logger.Error("return failed", zap.Int("rental_id", rentalID), zap.Error(err))
		return nil, apperrors.NewTransaction("Failed to return vehicle")
	}

	observability.BookingTransitionsTotal.WithLabelValues("return").Inc()
	s.notifyStatus(returned.BookingID, db.BookingReturned)
	return returned, nil
}

func (s *RentalService) notifyStatus(bookingID int, status db.BookingStatus) {
	if s.notifier == nil {
		return
	}
	booking, err := s.bookings.GetResponseByID(bookingID)
	if err != nil {
		s.logger.Warn("could not load booking for notification", zap.Int("booking_id", bookingID), zap.Error(err))
		return
	}
	s.notifier.BookingStatusChanged(booking, status)
}

func (s *RentalService) Update(id int, req entities.UpdateRentalRequest) (*entities.RentalResponse, error) {
	if err := s.store.UpdateTelemetry(id, req); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("Rental not found")
		}
		return nil, err
	}
	return s.store.GetResponseByID(id)
}

func (s *RentalService) Delete(id int) error {
	err := s.store.Delete(id)
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewNotFound("Rental not found")
	}
	return err
}
