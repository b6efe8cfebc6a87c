package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"fleetrent/internal/db"
	"fleetrent/internal/entities"
	apperrors "fleetrent/internal/errors"
	"fleetrent/internal/observability"
	"fleetrent/internal/repository"
)

// BookingStore is the persistence surface the booking lifecycle needs. The
// multi-row methods are atomic: they commit every row change or none.
type BookingStore interface {
	List() ([]entities.BookingResponse, error)
	ListForCustomerIDs(ids []int) ([]entities.BookingResponse, error)
	GetResponseByID(id int) (*entities.BookingResponse, error)
	GetByID(id int) (*db.Booking, error)
	CreateWithReservation(b *db.Booking, info entities.CustomerInfo) error
	Approve(id int) error
	Cancel(id int) error
	Expire(id int) error
	Update(b *db.Booking) error
	Delete(id int) error
}

type VehicleStore interface {
	GetByID(id int) (*db.Vehicle, error)
}

type CustomerLinkStore interface {
	IDsForUser(userID int, email string) ([]int, error)
}

// Notifier delivers booking lifecycle notifications. Implementations must
// not block the caller.
type Notifier interface {
	BookingStatusChanged(booking *entities.BookingResponse, status db.BookingStatus)
}

type BookingService struct {
	store       BookingStore
	vehicles    VehicleStore
	customers   CustomerLinkStore
	notifier    Notifier
	autoConfirm bool
	logger      *zap.Logger
}

func NewBookingService(store BookingStore, vehicles VehicleStore, customers CustomerLinkStore, notifier Notifier, autoConfirm bool, logger *zap.Logger) *BookingService {
	return &BookingService{
		store:       store,
		vehicles:    vehicles,
		customers:   customers,
		notifier:    notifier,
		autoConfirm: autoConfirm,
		logger:      logger,
	}
}

const dateLayout = "2006-01-02"

func (s *BookingService) List() ([]entities.BookingResponse, error) {
	return s.store.List()
}

// Mine lists bookings belonging to the authenticated customer, matched by
// user link or by email.
func (s *BookingService) Mine(user *db.User) ([]entities.BookingResponse, error) {
	if user.Role != db.RoleCustomer {
		return []entities.BookingResponse{}, nil
	}
	ids, err := s.customers.IDsForUser(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []entities.BookingResponse{}, nil
	}
	return s.store.ListForCustomerIDs(ids)
}

func (s *BookingService) Get(id int) (*entities.BookingResponse, error) {
	b, err := s.store.GetResponseByID(id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewNotFound("Booking not found")
	}
	return b, err
}

// Create validates the request, reserves the vehicle and inserts the booking
// in one atomic unit. The new booking is Pending unless the service is
// configured to auto-confirm.
func (s *BookingService) Create(req entities.CreateBookingRequest) (*db.Booking, error) {
	start, end, err := s.validateCreate(req)
	if err != nil {
		return nil, err
	}

	vehicle, err := s.vehicles.GetByID(req.VehicleID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("Vehicle not found")
		}
		return nil, err
	}
	if vehicle.Status != db.VehicleAvailable {
		return nil, apperrors.NewConflict("Vehicle is not available for booking")
	}

	status := db.BookingPending
	if s.autoConfirm {
		status = db.BookingConfirmed
	}

	booking := &db.Booking{
		VehicleID:  req.VehicleID,
		StartDate:  start,
		EndDate:    end,
		TotalPrice: req.TotalPrice,
		Status:     status,
	}

	if err := s.store.CreateWithReservation(booking, req.CustomerInfo); err != nil {
		if errors.Is(err, repository.ErrVehicleUnavailable) {
			// Lost the race: another request reserved the vehicle after our
			// precondition read.
			return nil, apperrors.NewConflict("Vehicle is not available for booking")
		}
		s.logger.Error("booking creation failed", zap.Int("vehicle_id", req.VehicleID), zap.Error(err))
		return nil, apperrors.NewTransaction("Failed to create booking")
	}

	observability.BookingTransitionsTotal.WithLabelValues("create").Inc()
	s.notifyStatus(booking.ID, booking.Status)
	return booking, nil
}

// Approve moves a Pending booking to Confirmed.
func (s *BookingService) Approve(id int) (*entities.BookingResponse, error) {
	booking, err := s.getForTransition(id)
	if err != nil {
		return nil, err
	}
	if booking.Status != db.BookingPending {
		return nil, apperrors.NewConflict("Only pending bookings can be approved")
	}

	if err := s.store.Approve(id); err != nil {
		if errors.Is(err, repository.ErrStaleStatus) {
			return nil, apperrors.NewConflict("Only pending bookings can be approved")
		}
		s.logger.Error("booking approval failed", zap.Int("booking_id", id), zap.Error(err))
		return nil, apperrors.NewTransaction("Failed to approve booking")
	}

	observability.BookingTransitionsTotal.WithLabelValues("approve").Inc()
	s.notifyStatus(id, db.BookingConfirmed)
	return s.store.GetResponseByID(id)
}

// Cancel moves a Pending or Confirmed booking to Cancelled and releases the
// vehicle when it was Reserved.
func (s *BookingService) Cancel(id int) (*entities.BookingResponse, error) {
	booking, err := s.getForTransition(id)
	if err != nil {
		return nil, err
	}
	if booking.Status != db.BookingPending && booking.Status != db.BookingConfirmed {
		return nil, apperrors.NewConflict("Only pending or confirmed bookings can be cancelled")
	}

	if err := s.store.Cancel(id); err != nil {
		if errors.Is(err, repository.ErrStaleStatus) {
			return nil, apperrors.NewConflict("Only pending or confirmed bookings can be cancelled")
		}
		s.logger.Error("booking cancellation failed", zap.Int("booking_id", id), zap.Error(err))
		return nil, apperrors.NewTransaction("Failed to cancel booking")
	}

	observability.BookingTransitionsTotal.WithLabelValues("cancel").Inc()
	s.notifyStatus(id, db.BookingCancelled)
	return s.store.GetResponseByID(id)
}

// Update patches status and dates through the generic endpoint. It accepts
// any status in the enum and does not re-synchronize the vehicle; the
// administrative surface sits outside state-machine control.
func (s *BookingService) Update(id int, req entities.UpdateBookingRequest) (*entities.BookingResponse, error) {
	booking, err := s.getForTransition(id)
	if err != nil {
		return nil, err
	}

	if req.Status != nil {
		status, err := db.ParseBookingStatus(*req.Status)
		if err != nil {
			return nil, apperrors.NewValidation("status must be one of Pending, Confirmed, Cancelled, Expired, CheckedOut, Returned")
		}
		booking.Status = status
	}
	if req.StartDate != nil {
		start, err := time.Parse(dateLayout, *req.StartDate)
		if err != nil {
			return nil, apperrors.NewValidation("start_date must be a valid date (YYYY-MM-DD)")
		}
		booking.StartDate = start
	}
	if req.EndDate != nil {
		end, err := time.Parse(dateLayout, *req.EndDate)
		if err != nil {
			return nil, apperrors.NewValidation("end_date must be a valid date (YYYY-MM-DD)")
		}
		booking.EndDate = end
	}
	if !booking.EndDate.After(booking.StartDate) {
		return nil, apperrors.NewValidation("end_date must be after start_date")
	}

	if err := s.store.Update(booking); err != nil {
		return nil, err
	}
	return s.store.GetResponseByID(id)
}

// Delete removes the booking and resets the linked vehicle to Available
// regardless of the vehicle's current status.
func (s *BookingService) Delete(id int) error {
	err := s.store.Delete(id)
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewNotFound("Booking not found")
	}
	if err != nil {
		s.logger.Error("booking deletion failed", zap.Int("booking_id", id), zap.Error(err))
		return apperrors.NewTransaction("Failed to delete booking")
	}
	return nil
}

func (s *BookingService) getForTransition(id int) (*db.Booking, error) {
	booking, err := s.store.GetByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("Booking not found")
		}
		return nil, err
	}
	return booking, nil
}

func (s *BookingService) notifyStatus(id int, status db.BookingStatus) {
	if s.notifier == nil {
		return
	}
	booking, err := s.store.GetResponseByID(id)
	if err != nil {
		s.logger.Warn("could not load booking for notification", zap.Int("booking_id", id), zap.Error(err))
		return
	}
	s.notifier.BookingStatusChanged(booking, status)
}

func (s *BookingService) validateCreate(req entities.CreateBookingRequest) (time.Time, time.Time, error) {
	var problems []string
	if req.VehicleID <= 0 {
		problems = append(problems, "vehicle_id is required")
	}
	if req.TotalPrice < 0 {
		problems = append(problems, "total_price must be at least 0")
	}

	info := req.CustomerInfo
	required := map[string]string{
		"customer_info.full_name": info.FullName,
		"customer_info.email":     info.Email,
		"customer_info.phone":     info.Phone,
		"customer_info.address":   info.Address,
		"customer_info.city":      info.City,
		"customer_info.state":     info.State,
		"customer_info.zip_code":  info.ZipCode,
	}
	for field, value := range required {
		if strings.TrimSpace(value) == "" {
			problems = append(problems, fmt.Sprintf("%s is required", field))
		}
	}

	var start, end time.Time
	var err error
	if start, err = time.Parse(dateLayout, req.StartDate); err != nil {
		problems = append(problems, "start_date must be a valid date (YYYY-MM-DD)")
	}
	if end, err = time.Parse(dateLayout, req.EndDate); err != nil {
		problems = append(problems, "end_date must be a valid date (YYYY-MM-DD)")
	}
	if len(problems) == 0 {
		today := time.Now().UTC().Truncate(24 * time.Hour)
		if start.Before(today) {
			problems = append(problems, "start_date must be today or later")
		}
		if !end.After(start) {
			problems = append(problems, "end_date must be after start_date")
		}
	}

	if len(problems) > 0 {
		return time.Time{}, time.Time{}, apperrors.NewValidation(strings.Join(problems, "; "))
	}
	return start, end, nil
}
