package service

import "github.com/google/uuid"

const (
	EventSaleRecorded    = "sale_recorded"
	EventLowStock        = "low_stock"
	EventPaymentReviewed = "payment_reviewed"
)

// Notifier delivers live events to a user's open connections. Publish must
// not block the caller.
type Notifier interface {
	Publish(userID uuid.UUID, eventType string, data interface{})
}

type noopNotifier struct{}

func (noopNotifier) Publish(uuid.UUID, string, interface{}) {}

func notifierOrNoop(n Notifier) Notifier {
	if n == nil {
		return noopNotifier{}
	}
	return n
}
