package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"go-stockbit/internal/model"
	"go-stockbit/internal/repository"
	"go-stockbit/pkg/validator"
)

type AdminService interface {
	ListUsers() ([]model.UserResponse, error)
	GetUser(id uuid.UUID) (*model.UserResponse, error)
	UpdateUser(id uuid.UUID, req *UpdateUserRequest) (*model.User, error)
	DeleteUser(actor *model.User, id uuid.UUID) error
	CancelSubscription(id uuid.UUID) (*model.User, error)
	CreateAdmin(req *CreateAdminRequest) (*model.User, error)
	// EnsureAdmin creates the admin from req only when no admin exists yet.
	EnsureAdmin(req *CreateAdminRequest) (bool, error)
	ResetPassword(username, password string) error
}

type UpdateUserRequest struct {
	Username           string `json:"username" form:"username" validate:"required,min=4,max=25"`
	Email              string `json:"email" form:"email" validate:"required,email,min=6,max=120"`
	BusinessName       string `json:"business_name" form:"business_name" validate:"required,min=2,max=100"`
	Phone              string `json:"phone" form:"phone" validate:"required,min=10,max=15"`
	IsPremium          bool   `json:"is_premium" form:"is_premium"`
	SubscriptionActive bool   `json:"subscription_active" form:"subscription_active"`
	IsAdmin            bool   `json:"is_admin" form:"is_admin"`
}

type CreateAdminRequest struct {
	Username     string `validate:"required,min=4,max=25"`
	Email        string `validate:"required,email,min=6,max=120"`
	Password     string `validate:"required,min=6"`
	BusinessName string `validate:"required,min=2,max=100"`
}

type adminService struct {
	userRepo repository.UserRepository
	now      func() time.Time
}

func NewAdminService(userRepo repository.UserRepository) AdminService {
	return &adminService{userRepo: userRepo, now: time.Now}
}

func (s *adminService) ListUsers() ([]model.UserResponse, error) {
	users, err := s.userRepo.FindAll()
	if err != nil {
		return nil, err
	}

	responses := make([]model.UserResponse, len(users))
	for i, user := range users {
		responses[i] = user.ToResponse()
	}
	return responses, nil
}

func (s *adminService) find(id uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return user, err
}

func (s *adminService) GetUser(id uuid.UUID) (*model.UserResponse, error) {
	user, err := s.find(id)
	if err != nil {
		return nil, err
	}
	response := user.ToResponse()
	return &response, nil
}

func (s *adminService) UpdateUser(id uuid.UUID, req *UpdateUserRequest) (*model.User, error) {
	if err := validator.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.find(id)
	if err != nil {
		return nil, err
	}
	if err := ensureUnique(s.userRepo, user.ID, req.Username, req.Email); err != nil {
		return nil, err
	}

	if req.IsPremium && !user.IsPremium {
		now := s.now()
		user.PremiumSince = &now
	}
	user.Username = req.Username
	user.Email = req.Email
	user.BusinessName = req.BusinessName
	user.Phone = req.Phone
	user.IsPremium = req.IsPremium
	user.SubscriptionActive = req.SubscriptionActive
	user.IsAdmin = req.IsAdmin

	err = s.userRepo.UpdateKeepingAdmin(user)
	switch {
	case errors.Is(err, repository.ErrLastAdmin):
		return nil, ErrLastAdminDemotion
	case errors.Is(err, repository.ErrNotFound):
		return nil, ErrUserNotFound
	case err != nil:
		return nil, err
	}
	return user, nil
}

func (s *adminService) DeleteUser(actor *model.User, id uuid.UUID) error {
	if actor.ID == id {
		return ErrSelfDelete
	}

	err := s.userRepo.Delete(id)
	switch {
	case errors.Is(err, repository.ErrLastAdmin):
		return ErrLastAdmin
	case errors.Is(err, repository.ErrNotFound):
		return ErrUserNotFound
	}
	return err
}

func (s *adminService) CancelSubscription(id uuid.UUID) (*model.User, error) {
	user, err := s.find(id)
	if err != nil {
		return nil, err
	}
	if !user.IsPremium {
		return nil, ErrNotPremium
	}

	user.CancelPremium()
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *adminService) CreateAdmin(req *CreateAdminRequest) (*model.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if err := validator.Validate(req); err != nil {
		return nil, err
	}
	if err := ensureUnique(s.userRepo, uuid.Nil, req.Username, req.Email); err != nil {
		return nil, err
	}

	admin := &model.User{
		Username:           req.Username,
		Email:              req.Email,
		BusinessName:       req.BusinessName,
		SubscriptionActive: true,
		IsAdmin:            true,
	}
	if err := admin.SetPassword(req.Password); err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	if err := s.userRepo.Create(admin); err != nil {
		return nil, err
	}
	return admin, nil
}

func (s *adminService) EnsureAdmin(req *CreateAdminRequest) (bool, error) {
	count, err := s.userRepo.CountAdmins()
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}
	if _, err := s.CreateAdmin(req); err != nil {
		return false, err
	}
	return true, nil
}

// ResetPassword sets a new password and ends the user's current session.
func (s *adminService) ResetPassword(username, password string) error {
	user, err := s.userRepo.FindByUsername(username)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return err
	}

	if err := user.SetPassword(password); err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.userRepo.UpdatePassword(user.ID, user.Password); err != nil {
		return err
	}
	return s.userRepo.UpdateTokenVersion(user.ID, uuid.NewString())
}
