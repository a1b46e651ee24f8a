package model

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// User is an account owning products, suppliers and payments.
type User struct {
	BaseModel
	Username           string     `gorm:"type:varchar(25);uniqueIndex;not null" json:"username"`
	Email              string     `gorm:"type:varchar(120);uniqueIndex;not null" json:"email"`
	Password           string     `gorm:"column:password_hash;type:varchar(128);not null" json:"-"`
	BusinessName       string     `gorm:"type:varchar(100);not null" json:"business_name"`
	Phone              string     `gorm:"type:varchar(15)" json:"phone"`
	IsPremium          bool       `gorm:"not null;default:false" json:"is_premium"`
	PremiumSince       *time.Time `json:"premium_since,omitempty"`
	SubscriptionActive bool       `gorm:"not null;default:true" json:"subscription_active"`
	IsAdmin            bool       `gorm:"not null;default:false" json:"is_admin"`
	TokenVersion       string     `gorm:"type:varchar(64);not null;default:''" json:"-"`
}

// SetPassword hashes and sets the user's password
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword verifies if the provided password matches the stored hash
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// ActivatePremium marks the account premium as of at.
func (u *User) ActivatePremium(at time.Time) {
	u.IsPremium = true
	u.PremiumSince = &at
	u.SubscriptionActive = true
}

// CancelPremium clears the premium and subscription flags.
func (u *User) CancelPremium() {
	u.IsPremium = false
	u.SubscriptionActive = false
}

// UserResponse is used for API responses (without sensitive data)
type UserResponse struct {
	ID                 uuid.UUID  `json:"id"`
	Username           string     `json:"username"`
	Email              string     `json:"email"`
	BusinessName       string     `json:"business_name"`
	Phone              string     `json:"phone"`
	IsPremium          bool       `json:"is_premium"`
	PremiumSince       *time.Time `json:"premium_since"`
	SubscriptionActive bool       `json:"subscription_active"`
	IsAdmin            bool       `json:"is_admin"`
	CreatedAt          time.Time  `json:"created_at"`
}

// ToResponse converts User to UserResponse
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:                 u.ID,
		Username:           u.Username,
		Email:              u.Email,
		BusinessName:       u.BusinessName,
		Phone:              u.Phone,
		IsPremium:          u.IsPremium,
		PremiumSince:       u.PremiumSince,
		SubscriptionActive: u.SubscriptionActive,
		IsAdmin:            u.IsAdmin,
		CreatedAt:          u.CreatedAt,
	}
}
