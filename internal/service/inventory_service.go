package service

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"go-stockbit/internal/model"
	"go-stockbit/internal/repository"
	"go-stockbit/pkg/validator"
)

type InventoryService interface {
	ListProducts(userID uuid.UUID) ([]model.Product, error)
	GetProduct(userID, id uuid.UUID) (*model.Product, error)
	CreateProduct(userID uuid.UUID, req *ProductRequest) (*model.Product, error)
	UpdateProduct(userID, id uuid.UUID, req *ProductRequest) (*model.Product, error)
	DeleteProduct(userID, id uuid.UUID) error
	// RecordSale sells quantity (as typed by the user) units of a product.
	RecordSale(userID, productID uuid.UUID, quantity string) (*model.Sale, error)
	ListSales(userID uuid.UUID) ([]model.SaleView, error)
}

type ProductRequest struct {
	Name         string          `json:"name" form:"name" validate:"required,min=2,max=100"`
	Description  string          `json:"description" form:"description"`
	Quantity     int             `json:"quantity" form:"quantity" validate:"gte=0"`
	ReorderLevel *int            `json:"reorder_level" form:"reorder_level" validate:"omitempty,gte=1"`
	CostPrice    decimal.Decimal `json:"cost_price" form:"cost_price" validate:"gte=0"`
	SalePrice    decimal.Decimal `json:"sale_price" form:"sale_price" validate:"gte=0"`
	Barcode      string          `json:"barcode" form:"barcode" validate:"max=50"`
}

func (r *ProductRequest) reorderLevel() int {
	if r.ReorderLevel == nil {
		return model.DefaultReorderLevel
	}
	return *r.ReorderLevel
}

type inventoryService struct {
	productRepo repository.ProductRepository
	saleRepo    repository.SaleRepository
	notifier    Notifier
	now         func() time.Time
}

func NewInventoryService(pRepo repository.ProductRepository, sRepo repository.SaleRepository, notifier Notifier) InventoryService {
	return &inventoryService{
		productRepo: pRepo,
		saleRepo:    sRepo,
		notifier:    notifierOrNoop(notifier),
		now:         time.Now,
	}
}

func (s *inventoryService) ListProducts(userID uuid.UUID) ([]model.Product, error) {
	return s.productRepo.FindByUser(userID)
}

// owned loads a product for userID. Missing and foreign products are
// indistinguishable to the caller.
func (s *inventoryService) owned(userID, id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	if !product.OwnedBy(userID) {
		return nil, ErrUnauthorized
	}
	return product, nil
}

func (s *inventoryService) GetProduct(userID, id uuid.UUID) (*model.Product, error) {
	return s.owned(userID, id)
}

func (s *inventoryService) CreateProduct(userID uuid.UUID, req *ProductRequest) (*model.Product, error) {
	if err := validator.Validate(req); err != nil {
		return nil, err
	}

	product := &model.Product{
		UserID:       userID,
		Name:         strings.TrimSpace(req.Name),
		Description:  req.Description,
		Quantity:     req.Quantity,
		ReorderLevel: req.reorderLevel(),
		CostPrice:    req.CostPrice.Round(2),
		SalePrice:    req.SalePrice.Round(2),
		LastUpdated:  s.now(),
		Barcode:      req.Barcode,
	}
	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *inventoryService) UpdateProduct(userID, id uuid.UUID, req *ProductRequest) (*model.Product, error) {
	product, err := s.owned(userID, id)
	if err != nil {
		return nil, err
	}
	if err := validator.Validate(req); err != nil {
		return nil, err
	}

	product.Name = strings.TrimSpace(req.Name)
	product.Description = req.Description
	product.Quantity = req.Quantity
	product.ReorderLevel = req.reorderLevel()
	product.CostPrice = req.CostPrice.Round(2)
	product.SalePrice = req.SalePrice.Round(2)
	product.Barcode = req.Barcode
	product.LastUpdated = s.now()

	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *inventoryService) DeleteProduct(userID, id uuid.UUID) error {
	product, err := s.owned(userID, id)
	if err != nil {
		return err
	}
	return s.productRepo.Delete(product.ID)
}

func (s *inventoryService) RecordSale(userID, productID uuid.UUID, quantity string) (*model.Sale, error) {
	qty, err := strconv.Atoi(strings.TrimSpace(quantity))
	if err != nil || qty < 1 {
		return nil, ErrInvalidQuantity
	}

	sale, product, err := s.saleRepo.Record(userID, productID, qty, s.now())
	switch {
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, repository.ErrNotOwner):
		return nil, ErrUnauthorized
	case errors.Is(err, repository.ErrInsufficientStock):
		return nil, ErrNotEnoughStock
	case err != nil:
		return nil, err
	}

	s.notifier.Publish(userID, EventSaleRecorded, map[string]interface{}{
		"sale_id":      sale.ID,
		"product_id":   product.ID,
		"product_name": product.Name,
		"quantity":     sale.Quantity,
		"new_quantity": product.Quantity,
		"total":        sale.Total().StringFixed(2),
	})
	if product.LowStock() {
		s.notifier.Publish(userID, EventLowStock, map[string]interface{}{
			"product_id":    product.ID,
			"product_name":  product.Name,
			"quantity":      product.Quantity,
			"reorder_level": product.ReorderLevel,
		})
	}

	return sale, nil
}

func (s *inventoryService) ListSales(userID uuid.UUID) ([]model.SaleView, error) {
	return s.saleRepo.FindByUser(userID, 0)
}
