package repository

import (
	"go-stockbit/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(product *model.Product) error
	FindByID(id uuid.UUID) (*model.Product, error)
	FindByUser(userID uuid.UUID) ([]model.Product, error)
	FindLowStock(userID uuid.UUID) ([]model.Product, error)
	Update(product *model.Product) error
	Delete(id uuid.UUID) error
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(product *model.Product) error {
	return r.db.Create(product).Error
}

func (r *productRepo) FindByID(id uuid.UUID) (*model.Product, error) {
	var product model.Product
	if err := r.db.First(&product, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &product, nil
}

func (r *productRepo) FindByUser(userID uuid.UUID) ([]model.Product, error) {
	var products []model.Product
	err := r.db.Where("user_id = ?", userID).Order("name ASC, id ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) FindLowStock(userID uuid.UUID) ([]model.Product, error) {
	var products []model.Product
	err := r.db.Where("user_id = ? AND quantity <= reorder_level", userID).
		Order("quantity ASC, id ASC").
		Find(&products).Error
	return products, err
}

func (r *productRepo) Update(product *model.Product) error {
	return r.db.Save(product).Error
}

func (r *productRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&model.Product{}, "id = ?", id).Error
}
