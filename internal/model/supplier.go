package model

import "github.com/google/uuid"

type Supplier struct {
	BaseModel
	UserID  uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Name    string    `gorm:"type:varchar(100);not null" json:"name"`
	Contact string    `gorm:"type:varchar(100)" json:"contact"`
	Email   string    `gorm:"type:varchar(120)" json:"email"`
}

func (s *Supplier) OwnedBy(userID uuid.UUID) bool {
	return s.UserID == userID
}
