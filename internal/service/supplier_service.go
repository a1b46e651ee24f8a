package service

import (
	"errors"
	"strings"

	"github.com/google/uuid"

	"go-stockbit/internal/model"
	"go-stockbit/internal/repository"
	"go-stockbit/pkg/validator"
)

type SupplierService interface {
	ListSuppliers(userID uuid.UUID) ([]model.Supplier, error)
	GetSupplier(userID, id uuid.UUID) (*model.Supplier, error)
	CreateSupplier(userID uuid.UUID, req *SupplierRequest) (*model.Supplier, error)
	UpdateSupplier(userID, id uuid.UUID, req *SupplierRequest) (*model.Supplier, error)
	DeleteSupplier(userID, id uuid.UUID) error
}

type SupplierRequest struct {
	Name    string `json:"name" form:"name" validate:"required,min=2,max=100"`
	Contact string `json:"contact" form:"contact" validate:"max=100"`
	Email   string `json:"email" form:"email" validate:"omitempty,email,max=120"`
}

type supplierService struct {
	repo repository.SupplierRepository
}

func NewSupplierService(repo repository.SupplierRepository) SupplierService {
	return &supplierService{repo: repo}
}

func (s *supplierService) ListSuppliers(userID uuid.UUID) ([]model.Supplier, error) {
	return s.repo.FindByUser(userID)
}

func (s *supplierService) owned(userID, id uuid.UUID) (*model.Supplier, error) {
	supplier, err := s.repo.FindByID(id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	if !supplier.OwnedBy(userID) {
		return nil, ErrUnauthorized
	}
	return supplier, nil
}

func (s *supplierService) GetSupplier(userID, id uuid.UUID) (*model.Supplier, error) {
	return s.owned(userID, id)
}

func (s *supplierService) CreateSupplier(userID uuid.UUID, req *SupplierRequest) (*model.Supplier, error) {
	if err := validator.Validate(req); err != nil {
		return nil, err
	}

	supplier := &model.Supplier{
		UserID:  userID,
		Name:    strings.TrimSpace(req.Name),
		Contact: req.Contact,
		Email:   req.Email,
	}
	if err := s.repo.Create(supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

func (s *supplierService) UpdateSupplier(userID, id uuid.UUID, req *SupplierRequest) (*model.Supplier, error) {
	supplier, err := s.owned(userID, id)
	if err != nil {
		return nil, err
	}
	if err := validator.Validate(req); err != nil {
		return nil, err
	}

	supplier.Name = strings.TrimSpace(req.Name)
	supplier.Contact = req.Contact
	supplier.Email = req.Email
	if err := s.repo.Update(supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

func (s *supplierService) DeleteSupplier(userID, id uuid.UUID) error {
	supplier, err := s.owned(userID, id)
	if err != nil {
		return err
	}
	return s.repo.Delete(supplier.ID)
}
