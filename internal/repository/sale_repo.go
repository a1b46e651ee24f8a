package repository

import (
	"time"

	"go-stockbit/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SaleRepository interface {
	// Record sells quantity units of a product owned by userID. The stock
	// decrement and the sale row are written in one transaction.
	Record(userID, productID uuid.UUID, quantity int, at time.Time) (*model.Sale, *model.Product, error)
	FindByUser(userID uuid.UUID, limit int) ([]model.SaleView, error)
}

type saleRepo struct {
	db *gorm.DB
}

func NewSaleRepo(db *gorm.DB) SaleRepository {
	return &saleRepo{db}
}

func (r *saleRepo) Record(userID, productID uuid.UUID, quantity int, at time.Time) (*model.Sale, *model.Product, error) {
	var (
		sale    model.Sale
		product model.Product
	)

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&product, "id = ?", productID).Error; err != nil {
			return notFound(err)
		}
		if !product.OwnedBy(userID) {
			return ErrNotOwner
		}
		if quantity > product.Quantity {
			return ErrInsufficientStock
		}

		product.Quantity -= quantity
		product.LastUpdated = at
		if err := tx.Model(&model.Product{}).
			Where("id = ?", product.ID).
			Updates(map[string]interface{}{
				"quantity":     product.Quantity,
				"last_updated": at,
			}).Error; err != nil {
			return err
		}

		sale = model.Sale{
			ProductID: product.ID,
			Quantity:  quantity,
			SalePrice: product.SalePrice,
			SaleDate:  at,
		}
		return tx.Create(&sale).Error
	})
	if err != nil {
		return nil, nil, err
	}

	return &sale, &product, nil
}

// FindByUser lists the user's sales, newest first. A limit of zero or less
// returns every sale.
func (r *saleRepo) FindByUser(userID uuid.UUID, limit int) ([]model.SaleView, error) {
	var sales []model.SaleView
	q := r.db.Table("sales s").
		Select("s.id, s.product_id, p.name AS product_name, s.quantity, s.sale_price, s.sale_date").
		Joins("JOIN products p ON p.id = s.product_id").
		Where("p.user_id = ?", userID).
		Order("s.sale_date DESC, s.id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Scan(&sales).Error
	return sales, err
}
