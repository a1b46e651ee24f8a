package repository

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"go-stockbit/internal/model"
)

// InventoryStats summarizes a user's current stock.
type InventoryStats struct {
	TotalProducts  int64           `json:"total_products"`
	LowStockCount  int64           `json:"low_stock_count"`
	InventoryValue decimal.Decimal `json:"inventory_value"`
}

// SalesTotals sums a user's sales.
type SalesTotals struct {
	Revenue decimal.Decimal `json:"revenue"`
}

// TopProduct is a product ranked by cumulative units sold.
type TopProduct struct {
	ProductID    uuid.UUID       `json:"product_id"`
	Name         string          `json:"name"`
	QuantitySold int64           `json:"quantity_sold"`
	Revenue      decimal.Decimal `json:"revenue"`
}

type ReportRepository interface {
	InventoryStats(userID uuid.UUID) (*InventoryStats, error)
	SalesTotals(userID uuid.UUID) (*SalesTotals, error)
	TopProducts(userID uuid.UUID, limit int) ([]TopProduct, error)
}

type reportRepo struct {
	db *gorm.DB
}

func NewReportRepo(db *gorm.DB) ReportRepository {
	return &reportRepo{db}
}

func (r *reportRepo) InventoryStats(userID uuid.UUID) (*InventoryStats, error) {
	var stats InventoryStats
	err := r.db.Model(&model.Product{}).
		Select(`
			COUNT(*) AS total_products,
			COALESCE(SUM(CASE WHEN quantity <= reorder_level THEN 1 ELSE 0 END), 0) AS low_stock_count,
			COALESCE(SUM(quantity * cost_price), 0) AS inventory_value
		`).
		Where("user_id = ?", userID).
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *reportRepo) SalesTotals(userID uuid.UUID) (*SalesTotals, error) {
	var totals SalesTotals
	err := r.db.Table("sales s").
		Select("COALESCE(SUM(s.quantity * s.sale_price), 0) AS revenue").
		Joins("JOIN products p ON p.id = s.product_id").
		Where("p.user_id = ?", userID).
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	return &totals, nil
}

// TopProducts ranks by units sold, descending, ties broken by product id.
func (r *reportRepo) TopProducts(userID uuid.UUID, limit int) ([]TopProduct, error) {
	var top []TopProduct
	err := r.db.Table("sales s").
		Select(`
			p.id AS product_id,
			p.name AS name,
			SUM(s.quantity) AS quantity_sold,
			SUM(s.quantity * s.sale_price) AS revenue
		`).
		Joins("JOIN products p ON p.id = s.product_id").
		Where("p.user_id = ?", userID).
		Group("p.id, p.name").
		Order("quantity_sold DESC, p.id ASC").
		Limit(limit).
		Scan(&top).Error
	return top, err
}
