package service

import (
	"errors"

	"go.uber.org/zap"

	"fleetrent/internal/observability"
	"fleetrent/internal/repository"
)

// StaleBookingSource lists Pending bookings whose start date has passed.
type StaleBookingSource interface {
	GetStalePendingBookingIDs() ([]int, error)
}

// SessionPruner removes session rows past their expiry.
type SessionPruner interface {
	DeleteExpired() (int64, error)
}

// JobService hosts the scheduled maintenance work: expiring stale Pending
// bookings and pruning dead sessions.
type JobService struct {
	source   StaleBookingSource
	bookings BookingStore
	sessions SessionPruner
	logger   *zap.Logger
}

func NewJobService(source StaleBookingSource, bookings BookingStore, sessions SessionPruner, logger *zap.Logger) *JobService {
	return &JobService{source: source, bookings: bookings, sessions: sessions, logger: logger}
}

// ExpireStalePendingBookings moves Pending bookings whose start date has
// passed to Expired, releasing their Reserved vehicles. Each booking is
// expired in its own transaction so one failure does not block the rest.
func (s *JobService) ExpireStalePendingBookings() {
	ids, err := s.source.GetStalePendingBookingIDs()
	if err != nil {
		s.logger.Error("expiry job: scan failed", zap.Error(err))
		return
	}
	if len(ids) == 0 {
		return
	}

	expired := 0
	for _, id := range ids {
		if err := s.bookings.Expire(id); err != nil {
			if errors.Is(err, repository.ErrStaleStatus) {
				continue
			}
			s.logger.Error("expiry job: could not expire booking", zap.Int("booking_id", id), zap.Error(err))
			continue
		}
		expired++
		observability.BookingsExpiredTotal.Inc()
	}

	s.logger.Info("expiry job finished", zap.Int("scanned", len(ids)), zap.Int("expired", expired))
}

// CleanupExpiredSessions removes session rows past their expiry.
func (s *JobService) CleanupExpiredSessions() {
	deleted, err := s.sessions.DeleteExpired()
	if err != nil {
		s.logger.Error("session cleanup job failed", zap.Error(err))
		return
	}
	if deleted > 0 {
		s.logger.Info("session cleanup job finished", zap.Int64("deleted", deleted))
	}
}
