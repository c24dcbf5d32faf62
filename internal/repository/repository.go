package repository

import (
	"context"

	"github.com/necstaz/shopapi/internal/domain"
)

// OrderRepository is the durable order store. Create assigns the order
// number; UpdatePaymentStatus is a conditional write that only applies a
// status of equal or higher rank than the current one (see
// domain.PaymentStatus.Rank), returning whether a row changed.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByOrderNumber(ctx context.Context, orderNumber string) (*domain.Order, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Order, error)
	UpdatePaymentStatus(ctx context.Context, orderNumber string, update domain.PaymentUpdate) (bool, error)
}

// Repositories bundles every repository the services need
type Repositories struct {
	Order OrderRepository
}
