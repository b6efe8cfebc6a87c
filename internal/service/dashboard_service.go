package service

import (
	"fleetrent/internal/db"
	"fleetrent/internal/entities"
	apperrors "fleetrent/internal/errors"
	"fleetrent/internal/repository"
)

// DashboardService computes the role-shaped read-only rollups. It never
// writes, except that resolving a Customer-role user may create their
// customer row on first access.
type DashboardService struct {
	repo      *repository.DashboardRepository
	customers *repository.CustomerRepository
}

func NewDashboardService(repo *repository.DashboardRepository, customers *repository.CustomerRepository) *DashboardService {
	return &DashboardService{repo: repo, customers: customers}
}

func (s *DashboardService) ForUser(user *db.User) (any, error) {
	switch user.Role {
	case db.RoleAdmin:
		return s.admin()
	case db.RoleStaff:
		return s.staff()
	case db.RoleCustomer:
		return s.customer(user)
	}
	return nil, apperrors.NewNotFound("No dashboard data available for this role.")
}

func (s *DashboardService) admin() (*entities.AdminDashboard, error) {
	summary, err := s.repo.AdminSummary()
	if err != nil {
		return nil, err
	}
	revenue, err := s.repo.Revenue()
	if err != nil {
		return nil, err
	}
	recent, err := s.repo.RecentBookings(10)
	if err != nil {
		return nil, err
	}
	vehicleStatus, err := s.repo.VehicleStatusBreakdown()
	if err != nil {
		return nil, err
	}
	bookingStatus, err := s.repo.BookingStatusBreakdown()
	if err != nil {
		return nil, err
	}
	topCustomers, err := s.repo.TopCustomers(5)
	if err != nil {
		return nil, err
	}

	return &entities.AdminDashboard{
		Role:           string(db.RoleAdmin),
		Summary:        *summary,
		Revenue:        *revenue,
		RecentBookings: recent,
		VehicleStatus:  vehicleStatus,
		BookingStatus:  bookingStatus,
		TopCustomers:   topCustomers,
	}, nil
}

func (s *DashboardService) staff() (*entities.StaffDashboard, error) {
	pickups, err := s.repo.TodayPickups()
	if err != nil {
		return nil, err
	}
	returns, err := s.repo.TodayReturns()
	if err != nil {
		return nil, err
	}
	overdue, err := s.repo.OverdueRentals()
	if err != nil {
		return nil, err
	}
	pendingCount, err := s.repo.PendingBookingsCount()
	if err != nil {
		return nil, err
	}
	todayRevenue, err := s.repo.TodayRevenue()
	if err != nil {
		return nil, err
	}

	return &entities.StaffDashboard{
		Role:           string(db.RoleStaff),
		TodayPickups:   pickups,
		TodayReturns:   returns,
		OverdueRentals: overdue,
		Counts: entities.StaffCounts{
			TodayPickups:    len(pickups),
			TodayReturns:    len(returns),
			OverdueRentals:  len(overdue),
			PendingBookings: pendingCount,
		},
		TodayRevenue: todayRevenue,
	}, nil
}

func (s *DashboardService) customer(user *db.User) (*entities.CustomerDashboard, error) {
	customerID, err := s.customers.ResolveForUser(user)
	if err != nil {
		return nil, err
	}

	active, err := s.repo.ActiveBookingForCustomer(customerID)
	if err != nil {
		return nil, err
	}
	history, err := s.repo.BookingHistoryForCustomer(customerID, 5)
	if err != nil {
		return nil, err
	}

	return &entities.CustomerDashboard{
		Role:           string(db.RoleCustomer),
		ActiveBooking:  active,
		BookingHistory: history,
	}, nil
}
