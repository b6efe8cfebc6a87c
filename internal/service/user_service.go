package service

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"fleetrent/internal/db"
	"fleetrent/internal/entities"
	apperrors "fleetrent/internal/errors"
	"fleetrent/internal/repository"
)

type UserService struct {
	repo *repository.UserRepository
}

func NewUserService(repo *repository.UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) List(role string) ([]db.User, error) {
	if role != "" {
		if _, err := db.ParseRole(role); err != nil {
			return nil, apperrors.NewValidation("role must be one of Admin, Staff, Customer")
		}
	}
	return s.repo.List(role)
}

func (s *UserService) Get(id int) (*db.User, error) {
	u, err := s.repo.GetByID(id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewNotFound("User not found")
	}
	return u, err
}

func (s *UserService) Create(req entities.CreateUserRequest) (*db.User, error) {
	var problems []string
	if strings.TrimSpace(req.Name) == "" || len(req.Name) > 100 {
		problems = append(problems, "name is required and must be at most 100 characters")
	}
	if !strings.Contains(req.Email, "@") {
		problems = append(problems, "email must be a valid email address")
	}
	if len(req.Password) < 6 {
		problems = append(problems, "password must be at least 6 characters")
	}
	role, err := db.ParseRole(req.Role)
	if err != nil {
		problems = append(problems, "role must be one of Admin, Staff, Customer")
	}
	if len(problems) > 0 {
		return nil, apperrors.NewValidation(strings.Join(problems, "; "))
	}

	exists, err := s.repo.EmailExists(req.Email, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.NewValidation("email is already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &db.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.repo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) Update(id int, req entities.UpdateUserRequest) (*db.User, error) {
	user, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" || len(*req.Name) > 100 {
			return nil, apperrors.NewValidation("name is required and must be at most 100 characters")
		}
		user.Name = *req.Name
	}
	if req.Email != nil {
		if !strings.Contains(*req.Email, "@") {
			return nil, apperrors.NewValidation("email must be a valid email address")
		}
		exists, err := s.repo.EmailExists(*req.Email, id)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, apperrors.NewValidation("email is already registered")
		}
		user.Email = *req.Email
	}
	if req.Password != nil && *req.Password != "" {
		if len(*req.Password) < 6 {
			return nil, apperrors.NewValidation("password must be at least 6 characters")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}
	if req.Role != nil {
		role, err := db.ParseRole(*req.Role)
		if err != nil {
			return nil, apperrors.NewValidation("role must be one of Admin, Staff, Customer")
		}
		user.Role = role
	}

	if err := s.repo.Update(user); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("User not found")
		}
		return nil, err
	}
	return user, nil
}

// Delete refuses to remove the calling account or a user that still owns a
// customer record.
func (s *UserService) Delete(id int, actor *db.User) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	if actor != nil && actor.ID == id {
		return apperrors.NewConflict("Cannot delete your own account")
	}
	hasCustomer, err := s.repo.HasCustomer(id)
	if err != nil {
		return err
	}
	if hasCustomer {
		return apperrors.NewConflict("Cannot delete user with associated customer record")
	}
	err = s.repo.Delete(id)
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewNotFound("User not found")
	}
	return err
}
