package repository

import (
	"time"

	"go-stockbit/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PaymentRepository interface {
	Create(payment *model.PaymentVerification) error
	FindByID(id uuid.UUID) (*model.PaymentVerification, error)
	FindByUser(userID uuid.UUID) ([]model.PaymentVerification, error)
	FindLatestByUser(userID uuid.UUID) (*model.PaymentVerification, error)
	FindPending() ([]model.PaymentVerification, error)
	// FindByScreenshot returns the payment that stored the named file.
	FindByScreenshot(name string) (*model.PaymentVerification, error)
	// Approve moves a pending payment to approved and activates premium on
	// its owner in the same transaction.
	Approve(id, reviewerID uuid.UUID, at time.Time) (*model.PaymentVerification, error)
	// Reject moves a pending payment to rejected. The owner is untouched.
	Reject(id, reviewerID uuid.UUID, at time.Time) (*model.PaymentVerification, error)
}

type paymentRepo struct {
	db *gorm.DB
}

func NewPaymentRepo(db *gorm.DB) PaymentRepository {
	return &paymentRepo{db}
}

func (r *paymentRepo) Create(payment *model.PaymentVerification) error {
	return r.db.Create(payment).Error
}

func (r *paymentRepo) FindByID(id uuid.UUID) (*model.PaymentVerification, error) {
	var payment model.PaymentVerification
	if err := r.db.First(&payment, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &payment, nil
}

func (r *paymentRepo) FindByUser(userID uuid.UUID) ([]model.PaymentVerification, error) {
	var payments []model.PaymentVerification
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC, id DESC").Find(&payments).Error
	return payments, err
}

func (r *paymentRepo) FindLatestByUser(userID uuid.UUID) (*model.PaymentVerification, error) {
	var payment model.PaymentVerification
	if err := r.db.Where("user_id = ?", userID).Order("created_at DESC, id DESC").First(&payment).Error; err != nil {
		return nil, notFound(err)
	}
	return &payment, nil
}

func (r *paymentRepo) FindPending() ([]model.PaymentVerification, error) {
	var payments []model.PaymentVerification
	err := r.db.Preload("User").
		Where("status = ?", model.PaymentPending).
		Order("created_at ASC, id ASC").
		Find(&payments).Error
	return payments, err
}

func (r *paymentRepo) FindByScreenshot(name string) (*model.PaymentVerification, error) {
	var payment model.PaymentVerification
	if err := r.db.Where("screenshot = ?", name).First(&payment).Error; err != nil {
		return nil, notFound(err)
	}
	return &payment, nil
}

func (r *paymentRepo) Approve(id, reviewerID uuid.UUID, at time.Time) (*model.PaymentVerification, error) {
	return r.review(id, reviewerID, at, model.PaymentApproved, func(tx *gorm.DB, p *model.PaymentVerification) error {
		res := tx.Model(&model.User{}).
			Where("id = ?", p.UserID).
			Updates(map[string]interface{}{
				"is_premium":          true,
				"premium_since":       at,
				"subscription_active": true,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *paymentRepo) Reject(id, reviewerID uuid.UUID, at time.Time) (*model.PaymentVerification, error) {
	return r.review(id, reviewerID, at, model.PaymentRejected, nil)
}

func (r *paymentRepo) review(id, reviewerID uuid.UUID, at time.Time, status model.PaymentStatus,
	sideEffect func(tx *gorm.DB, p *model.PaymentVerification) error) (*model.PaymentVerification, error) {
	var payment model.PaymentVerification

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&payment, "id = ?", id).Error; err != nil {
			return notFound(err)
		}
		if !payment.Pending() {
			return ErrNotPending
		}

		payment.Status = status
		payment.ReviewedBy = &reviewerID
		payment.ReviewedAt = &at
		if err := tx.Model(&model.PaymentVerification{}).
			Where("id = ?", payment.ID).
			Updates(map[string]interface{}{
				"status":      status,
				"reviewed_by": reviewerID,
				"reviewed_at": at,
			}).Error; err != nil {
			return err
		}

		if sideEffect != nil {
			return sideEffect(tx, &payment)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &payment, nil
}
