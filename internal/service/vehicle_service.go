package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fleetrent/internal/db"
	"fleetrent/internal/entities"
	apperrors "fleetrent/internal/errors"
	"fleetrent/internal/repository"
)

type VehicleService struct {
	repo *repository.VehicleRepository
}

func NewVehicleService(repo *repository.VehicleRepository) *VehicleService {
	return &VehicleService{repo: repo}
}

func (s *VehicleService) List() ([]db.Vehicle, error) {
	return s.repo.List()
}

func (s *VehicleService) ListAvailable() ([]db.Vehicle, error) {
	return s.repo.ListAvailable()
}

func (s *VehicleService) Get(id int) (*db.Vehicle, error) {
	v, err := s.repo.GetByID(id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewNotFound("Vehicle not found")
	}
	return v, err
}

func (s *VehicleService) Create(req entities.CreateVehicleRequest) (*db.Vehicle, error) {
	if err := validateVehicleFields(req.PlateNumber, req.Brand, req.Model, req.Year, req.RentalPrice); err != nil {
		return nil, err
	}

	status := db.VehicleAvailable
	if req.Status != nil {
		parsed, err := db.ParseVehicleStatus(*req.Status)
		if err != nil {
			return nil, apperrors.NewValidation("status must be one of Available, Reserved, Rented, Maintenance, Retired")
		}
		status = parsed
	}

	exists, err := s.repo.PlateExists(req.PlateNumber, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.NewValidation("plate_number is already registered")
	}

	vehicle := &db.Vehicle{
		PlateNumber: req.PlateNumber,
		Brand:       req.Brand,
		Model:       req.Model,
		Year:        req.Year,
		RentalPrice: req.RentalPrice,
		Image:       req.Image,
		Status:      status,
	}
	if err := s.repo.Create(vehicle); err != nil {
		return nil, err
	}
	return vehicle, nil
}

// Update applies a partial patch. The administrative endpoint permits any
// status value, including transitions the state machine would reject.
func (s *VehicleService) Update(id int, req entities.UpdateVehicleRequest) (*db.Vehicle, error) {
	vehicle, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if req.PlateNumber != nil {
		exists, err := s.repo.PlateExists(*req.PlateNumber, id)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, apperrors.NewValidation("plate_number is already registered")
		}
		vehicle.PlateNumber = *req.PlateNumber
	}
	if req.Brand != nil {
		vehicle.Brand = *req.Brand
	}
	if req.Model != nil {
		vehicle.Model = *req.Model
	}
	if req.Year != nil {
		vehicle.Year = *req.Year
	}
	if req.RentalPrice != nil {
		vehicle.RentalPrice = *req.RentalPrice
	}
	if req.Image != nil {
		vehicle.Image = req.Image
	}
	if req.Status != nil {
		status, err := db.ParseVehicleStatus(*req.Status)
		if err != nil {
			return nil, apperrors.NewValidation("status must be one of Available, Reserved, Rented, Maintenance, Retired")
		}
		vehicle.Status = status
	}

	if err := validateVehicleFields(vehicle.PlateNumber, vehicle.Brand, vehicle.Model, vehicle.Year, vehicle.RentalPrice); err != nil {
		return nil, err
	}

	if err := s.repo.Update(vehicle); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("Vehicle not found")
		}
		return nil, err
	}
	return vehicle, nil
}

func (s *VehicleService) Delete(id int) error {
	err := s.repo.Delete(id)
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewNotFound("Vehicle not found")
	}
	return err
}

func validateVehicleFields(plate, brand, model string, year int, rentalPrice float64) error {
	var problems []string
	if strings.TrimSpace(plate) == "" || len(plate) > 20 {
		problems = append(problems, "plate_number is required and must be at most 20 characters")
	}
	if strings.TrimSpace(brand) == "" || len(brand) > 50 {
		problems = append(problems, "brand is required and must be at most 50 characters")
	}
	if strings.TrimSpace(model) == "" || len(model) > 50 {
		problems = append(problems, "model is required and must be at most 50 characters")
	}
	maxYear := time.Now().Year() + 1
	if year < 1900 || year > maxYear {
		problems = append(problems, fmt.Sprintf("year must be between 1900 and %d", maxYear))
	}
	if rentalPrice < 0 {
		problems = append(problems, "rental_price must be at least 0")
	}
	if len(problems) > 0 {
		return apperrors.NewValidation(strings.Join(problems, "; "))
	}
	return nil
}
