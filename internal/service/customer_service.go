package service

import (
	"errors"
	"strings"

	"fleetrent/internal/db"
	"fleetrent/internal/entities"
	apperrors "fleetrent/internal/errors"
	"fleetrent/internal/repository"
)

type CustomerService struct {
	repo *repository.CustomerRepository
}

func NewCustomerService(repo *repository.CustomerRepository) *CustomerService {
	return &CustomerService{repo: repo}
}

func (s *CustomerService) List() ([]db.Customer, error) {
	return s.repo.List()
}

func (s *CustomerService) Get(id int) (*db.Customer, error) {
	c, err := s.repo.GetByID(id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewNotFound("Customer not found")
	}
	return c, err
}

func (s *CustomerService) Create(req entities.CustomerRequest) (*db.Customer, error) {
	if err := validateCustomerFields(req); err != nil {
		return nil, err
	}
	customer := &db.Customer{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
	}
	if err := s.repo.Create(customer); err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *CustomerService) Update(id int, req entities.CustomerRequest) (*db.Customer, error) {
	if err := validateCustomerFields(req); err != nil {
		return nil, err
	}
	customer, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	customer.FullName = req.FullName
	customer.Email = req.Email
	customer.Phone = req.Phone

	if err := s.repo.Update(customer); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("Customer not found")
		}
		return nil, err
	}
	return customer, nil
}

// Delete refuses to remove a customer that still has bookings.
func (s *CustomerService) Delete(id int) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	hasBookings, err := s.repo.HasBookings(id)
	if err != nil {
		return err
	}
	if hasBookings {
		return apperrors.NewConflict("Cannot delete customer with existing bookings")
	}
	err = s.repo.Delete(id)
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewNotFound("Customer not found")
	}
	return err
}

func validateCustomerFields(req entities.CustomerRequest) error {
	var problems []string
	if strings.TrimSpace(req.FullName) == "" || len(req.FullName) > 100 {
		problems = append(problems, "full_name is required and must be at most 100 characters")
	}
	if len(req.Email) > 100 {
		problems = append(problems, "email must be at most 100 characters")
	}
	if req.Email != "" && !strings.Contains(req.Email, "@") {
		problems = append(problems, "email must be a valid email address")
	}
	if len(req.Phone) > 20 {
		problems = append(problems, "phone must be at most 20 characters")
	}
	if len(problems) > 0 {
		return apperrors.NewValidation(strings.Join(problems, "; "))
	}
	return nil
}
