package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"go-stockbit/internal/model"
	"go-stockbit/internal/repository"
	"go-stockbit/pkg/jwt"
	"go-stockbit/pkg/validator"
)

type AuthService interface {
	Register(req *RegisterRequest) (*model.User, error)
	Login(username, password string) (*LoginResponse, error)
	Logout(userID uuid.UUID) error
	// Authenticate resolves a session token to its user. Tokens issued
	// before the user's last login or logout are rejected.
	Authenticate(token string) (*model.User, error)
}

type RegisterRequest struct {
	Username        string `json:"username" form:"username" validate:"required,min=4,max=25"`
	Email           string `json:"email" form:"email" validate:"required,email,min=6,max=120"`
	Password        string `json:"password" form:"password" validate:"required"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password" validate:"required,eqfield=Password"`
	BusinessName    string `json:"business_name" form:"business_name" validate:"required,min=2,max=100"`
	Phone           string `json:"phone" form:"phone" validate:"required,min=10,max=15"`
}

type LoginResponse struct {
	Token     string             `json:"token"`
	ExpiresAt time.Time          `json:"expires_at"`
	User      model.UserResponse `json:"user"`
}

type authService struct {
	userRepo repository.UserRepository
	signer   *jwt.Signer
	now      func() time.Time
}

func NewAuthService(userRepo repository.UserRepository, signer *jwt.Signer) AuthService {
	return &authService{
		userRepo: userRepo,
		signer:   signer,
		now:      time.Now,
	}
}

func (s *authService) Register(req *RegisterRequest) (*model.User, error) {
	if err := validator.Validate(req); err != nil {
		return nil, err
	}

	if err := ensureUnique(s.userRepo, uuid.Nil, req.Username, req.Email); err != nil {
		return nil, err
	}

	user := &model.User{
		Username:           req.Username,
		Email:              req.Email,
		BusinessName:       req.BusinessName,
		Phone:              req.Phone,
		SubscriptionActive: true,
	}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// ensureUnique checks username then email against every user except self.
func ensureUnique(repo repository.UserRepository, self uuid.UUID, username, email string) error {
	existing, err := repo.FindByUsername(username)
	switch {
	case err == nil && existing.ID != self:
		return ErrUsernameExists
	case err != nil && !errors.Is(err, repository.ErrNotFound):
		return err
	}

	existing, err = repo.FindByEmail(email)
	switch {
	case err == nil && existing.ID != self:
		return ErrEmailExists
	case err != nil && !errors.Is(err, repository.ErrNotFound):
		return err
	}
	return nil
}

func (s *authService) Login(username, password string) (*LoginResponse, error) {
	user, err := s.userRepo.FindByUsername(username)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	// A fresh token version invalidates every earlier session of this user.
	version := uuid.NewString()
	if err := s.userRepo.UpdateTokenVersion(user.ID, version); err != nil {
		return nil, fmt.Errorf("update token version: %w", err)
	}
	user.TokenVersion = version

	token, err := s.signer.GenerateToken(user.ID, version)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	return &LoginResponse{
		Token:     token,
		ExpiresAt: s.now().Add(s.signer.TTL()),
		User:      user.ToResponse(),
	}, nil
}

func (s *authService) Logout(userID uuid.UUID) error {
	return s.userRepo.UpdateTokenVersion(userID, uuid.NewString())
}

func (s *authService) Authenticate(token string) (*model.User, error) {
	claims, err := s.signer.ValidateToken(token)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(claims.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrSessionExpired
	}
	if err != nil {
		return nil, err
	}

	if user.TokenVersion == "" || user.TokenVersion != claims.TokenVersion {
		return nil, ErrSessionExpired
	}
	return user, nil
}
