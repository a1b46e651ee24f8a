package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"go-stockbit/internal/model"
	"go-stockbit/internal/repository"
	"go-stockbit/internal/storage"
	"go-stockbit/pkg/validator"
)

type SubscriptionService interface {
	SubmitPayment(ctx context.Context, user *model.User, req *PaymentRequest, upload *Upload) (*model.PaymentVerification, error)
	ListMyPayments(userID uuid.UUID) ([]model.PaymentVerification, error)
	Status(user *model.User) (*SubscriptionStatus, error)
	// OpenScreenshot returns a stored screenshot to its owner or an admin.
	OpenScreenshot(ctx context.Context, user *model.User, name string) (io.ReadCloser, string, error)
	ListPendingPayments() ([]model.PaymentVerification, error)
	ApprovePayment(admin *model.User, id uuid.UUID) (*model.PaymentVerification, error)
	RejectPayment(admin *model.User, id uuid.UUID) (*model.PaymentVerification, error)
}

type PaymentRequest struct {
	Amount        decimal.Decimal `json:"amount" form:"amount"`
	TransactionID string          `json:"transaction_id" form:"transaction_id" validate:"required,max=100"`
}

// Upload is an optional screenshot attached to a payment.
type Upload struct {
	Filename string
	Size     int64
	Body     io.Reader
}

type SubscriptionStatus struct {
	IsPremium          bool                       `json:"is_premium"`
	PremiumSince       *time.Time                 `json:"premium_since"`
	SubscriptionActive bool                       `json:"subscription_active"`
	LatestPayment      *model.PaymentVerification `json:"latest_payment"`
}

type SubscriptionConfig struct {
	MinAmount      decimal.Decimal
	MaxUploadBytes int64
}

type subscriptionService struct {
	paymentRepo repository.PaymentRepository
	files       storage.FileStore
	notifier    Notifier
	cfg         SubscriptionConfig
	now         func() time.Time
}

func NewSubscriptionService(pRepo repository.PaymentRepository, files storage.FileStore, notifier Notifier, cfg SubscriptionConfig) SubscriptionService {
	return &subscriptionService{
		paymentRepo: pRepo,
		files:       files,
		notifier:    notifierOrNoop(notifier),
		cfg:         cfg,
		now:         time.Now,
	}
}

func (s *subscriptionService) validate(req *PaymentRequest, upload *Upload) (string, error) {
	fields := validator.FieldErrors{}
	if err := validator.Validate(req); err != nil {
		var fe validator.FieldErrors
		if !errors.As(err, &fe) {
			return "", err
		}
		fields = fe
	}
	if req.Amount.LessThan(s.cfg.MinAmount) {
		fields["amount"] = fmt.Sprintf("Minimum amount is ₦%s", s.cfg.MinAmount.String())
	}

	var contentType string
	if upload != nil {
		ct, ok := storage.ImageContentType(storage.SanitizeFilename(upload.Filename))
		switch {
		case !ok:
			fields["screenshot"] = "Only png, jpg and jpeg images are allowed"
		case upload.Size > s.cfg.MaxUploadBytes:
			fields["screenshot"] = fmt.Sprintf("File must not exceed %d bytes", s.cfg.MaxUploadBytes)
		}
		contentType = ct
	}

	if len(fields) > 0 {
		return "", fields
	}
	return contentType, nil
}

func (s *subscriptionService) SubmitPayment(ctx context.Context, user *model.User, req *PaymentRequest, upload *Upload) (*model.PaymentVerification, error) {
	contentType, err := s.validate(req, upload)
	if err != nil {
		return nil, err
	}

	payment := &model.PaymentVerification{
		UserID:        user.ID,
		Amount:        req.Amount.Round(2),
		TransactionID: req.TransactionID,
		Status:        model.PaymentPending,
	}

	if upload != nil {
		name := storage.UniqueName(upload.Filename)
		// Never store more than the limit even if the declared size lied.
		body := io.LimitReader(upload.Body, s.cfg.MaxUploadBytes)
		if err := s.files.Save(ctx, name, body, contentType); err != nil {
			return nil, fmt.Errorf("save screenshot: %w", err)
		}
		payment.Screenshot = name
	}

	if err := s.paymentRepo.Create(payment); err != nil {
		if payment.Screenshot != "" {
			// No row points at the file any more.
			if delErr := s.files.Delete(ctx, payment.Screenshot); delErr != nil {
				err = errors.Join(err, fmt.Errorf("remove screenshot: %w", delErr))
			}
		}
		return nil, err
	}
	return payment, nil
}

func (s *subscriptionService) ListMyPayments(userID uuid.UUID) ([]model.PaymentVerification, error) {
	payments, err := s.paymentRepo.FindByUser(userID)
	return orEmpty(payments), err
}

func (s *subscriptionService) Status(user *model.User) (*SubscriptionStatus, error) {
	status := &SubscriptionStatus{
		IsPremium:          user.IsPremium,
		PremiumSince:       user.PremiumSince,
		SubscriptionActive: user.SubscriptionActive,
	}

	latest, err := s.paymentRepo.FindLatestByUser(user.ID)
	switch {
	case err == nil:
		status.LatestPayment = latest
	case !errors.Is(err, repository.ErrNotFound):
		return nil, err
	}
	return status, nil
}

func (s *subscriptionService) OpenScreenshot(ctx context.Context, user *model.User, name string) (io.ReadCloser, string, error) {
	if name == "" || name != storage.SanitizeFilename(name) {
		return nil, "", ErrUnauthorized
	}

	payment, err := s.paymentRepo.FindByScreenshot(name)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, "", ErrUnauthorized
	}
	if err != nil {
		return nil, "", err
	}
	if payment.UserID != user.ID && !user.IsAdmin {
		return nil, "", ErrUnauthorized
	}

	rc, err := s.files.Open(ctx, name)
	if errors.Is(err, storage.ErrFileNotFound) {
		return nil, "", ErrUnauthorized
	}
	if err != nil {
		return nil, "", err
	}
	contentType, _ := storage.ImageContentType(name)
	return rc, contentType, nil
}

func (s *subscriptionService) ListPendingPayments() ([]model.PaymentVerification, error) {
	payments, err := s.paymentRepo.FindPending()
	return orEmpty(payments), err
}

func (s *subscriptionService) ApprovePayment(admin *model.User, id uuid.UUID) (*model.PaymentVerification, error) {
	return s.review(admin, id, s.paymentRepo.Approve)
}

func (s *subscriptionService) RejectPayment(admin *model.User, id uuid.UUID) (*model.PaymentVerification, error) {
	return s.review(admin, id, s.paymentRepo.Reject)
}

func (s *subscriptionService) review(admin *model.User, id uuid.UUID,
	apply func(id, reviewerID uuid.UUID, at time.Time) (*model.PaymentVerification, error)) (*model.PaymentVerification, error) {
	if admin == nil || !admin.IsAdmin {
		return nil, ErrAdminOnly
	}

	payment, err := apply(id, admin.ID, s.now())
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, ErrPaymentNotFound
	case errors.Is(err, repository.ErrNotPending):
		return nil, ErrPaymentReviewed
	case err != nil:
		return nil, err
	}

	s.notifier.Publish(payment.UserID, EventPaymentReviewed, map[string]interface{}{
		"payment_id": payment.ID,
		"status":     payment.Status,
	})
	return payment, nil
}
