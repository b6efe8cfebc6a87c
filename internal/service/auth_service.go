package service

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"fleetrent/internal/auth"
	"fleetrent/internal/db"
	"fleetrent/internal/entities"
	apperrors "fleetrent/internal/errors"
	"fleetrent/internal/repository"
)

type UserStore interface {
	GetByID(id int) (*db.User, error)
	GetByEmail(email string) (*db.User, error)
	EmailExists(email string, excludeID int) (bool, error)
	Create(u *db.User) error
}

type SessionStore interface {
	Create(s *db.Session) error
	Delete(id string) error
	GetUser(sessionID string) (*db.User, error)
}

type AuthService struct {
	users    UserStore
	sessions SessionStore
	secret   string
	tokenTTL time.Duration
}

func NewAuthService(users UserStore, sessions SessionStore, secret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{users: users, sessions: sessions, secret: secret, tokenTTL: tokenTTL}
}

// Register creates a Customer-role account.
func (s *AuthService) Register(req entities.RegisterRequest) (*db.User, error) {
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
	if len(problems) > 0 {
		return nil, apperrors.NewValidation(strings.Join(problems, "; "))
	}

	exists, err := s.users.EmailExists(req.Email, 0)
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
		Role:         db.RoleCustomer,
	}
	if err := s.users.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies credentials and issues a bearer token backed by a session
// row.
func (s *AuthService) Login(req entities.LoginRequest) (string, *db.User, error) {
	user, err := s.users.GetByEmail(req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, apperrors.NewUnauthorized("Invalid credentials")
		}
		return "", nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return "", nil, apperrors.NewUnauthorized("Invalid credentials")
	}

	session := &db.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(s.tokenTTL),
	}
	if err := s.sessions.Create(session); err != nil {
		return "", nil, err
	}

	token, err := auth.SignToken(s.secret, user, session.ID, s.tokenTTL)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Logout revokes the session backing the presented token.
func (s *AuthService) Logout(sessionID string) error {
	err := s.sessions.Delete(sessionID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	return err
}

// UserForToken validates a bearer token and resolves its user. Tokens whose
// session row has been deleted are rejected even when the signature is valid.
func (s *AuthService) UserForToken(token string) (*db.User, string, error) {
	claims, err := auth.ParseToken(s.secret, token)
	if err != nil {
		return nil, "", apperrors.NewUnauthorized("Unauthorized")
	}
	user, err := s.sessions.GetUser(claims.ID)
	if err != nil {
		return nil, "", apperrors.NewUnauthorized("Unauthorized")
	}
	return user, claims.ID, nil
}
