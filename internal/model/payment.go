package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentApproved PaymentStatus = "approved"
	PaymentRejected PaymentStatus = "rejected"
)

// PaymentVerification is a manual premium payment awaiting admin review.
// Only pending records may transition; approved and rejected are final.
type PaymentVerification struct {
	BaseModel
	UserID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	Amount        decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	TransactionID string          `gorm:"type:varchar(100);not null" json:"transaction_id"`
	Screenshot    string          `gorm:"type:varchar(255)" json:"screenshot,omitempty"`
	Status        PaymentStatus   `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	ReviewedBy    *uuid.UUID      `gorm:"type:uuid" json:"reviewed_by,omitempty"`
	ReviewedAt    *time.Time      `json:"reviewed_at,omitempty"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (PaymentVerification) TableName() string {
	return "payment_verifications"
}

func (p *PaymentVerification) Pending() bool {
	return p.Status == PaymentPending
}
