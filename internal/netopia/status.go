package netopia

import "github.com/necstaz/shopapi/internal/domain"

// Netopia payment status codes as delivered in IPN notifications.
const (
	StatusPending     = 0
	StatusPendingAuth = 1
	StatusPaid        = 2
	StatusPaidPending = 3
	StatusScheduled   = 4
	StatusCredit      = 5
	StatusDeclined    = 6
	StatusError       = 7
	StatusCanceled    = 8
)

// MapStatus maps a provider status code to the internal order and payment
// statuses. Unknown codes are treated as still pending, never as failures.
func MapStatus(code int) (domain.OrderStatus, domain.PaymentStatus) {
	switch code {
	case StatusPaid, StatusPaidPending, StatusCredit:
		return domain.OrderStatusConfirmed, domain.PaymentStatusPaid
	case StatusDeclined, StatusError:
		return domain.OrderStatusCancelled, domain.PaymentStatusFailed
	case StatusCanceled:
		return domain.OrderStatusCancelled, domain.PaymentStatusCancelled
	default:
		return domain.OrderStatusPending, domain.PaymentStatusPending
	}
}
