package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale is immutable once recorded. SalePrice is the product's price at the
// moment of the sale.
type Sale struct {
	BaseModel
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	SalePrice decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"sale_price"`
	SaleDate  time.Time       `gorm:"not null;index" json:"sale_date"`
}

// Total is quantity times the snapshot price.
func (s *Sale) Total() decimal.Decimal {
	return s.SalePrice.Mul(decimal.NewFromInt(int64(s.Quantity)))
}

// SaleView is a sale joined with its product name for listings.
type SaleView struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	SalePrice   decimal.Decimal `json:"sale_price"`
	SaleDate    time.Time       `json:"sale_date"`
}
