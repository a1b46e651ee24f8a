package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const DefaultReorderLevel = 5

type Product struct {
	BaseModel
	UserID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	Name         string          `gorm:"type:varchar(100);not null" json:"name"`
	Description  string          `gorm:"type:text" json:"description"`
	Quantity     int             `gorm:"not null;default:0" json:"quantity"`
	ReorderLevel int             `gorm:"not null;default:5" json:"reorder_level"`
	CostPrice    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"cost_price"`
	SalePrice    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"sale_price"`
	LastUpdated  time.Time       `gorm:"not null" json:"last_updated"`
	Barcode      string          `gorm:"type:varchar(50)" json:"barcode"`
}

// OwnedBy reports whether userID owns the product.
func (p *Product) OwnedBy(userID uuid.UUID) bool {
	return p.UserID == userID
}

// LowStock is true at or below the reorder level.
func (p *Product) LowStock() bool {
	return p.Quantity <= p.ReorderLevel
}
