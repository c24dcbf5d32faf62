package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/necstaz/shopapi/internal/cart"
	"github.com/necstaz/shopapi/internal/domain"
	"github.com/necstaz/shopapi/internal/netopia"
	"github.com/necstaz/shopapi/pkg/errors"
)

// mockOrderRepository is an in-memory order store that mirrors the
// conditional-update semantics of the Postgres implementation.
type mockOrderRepository struct {
	createErr error
	updateErr error

	seq     int
	orders  map[string]*domain.Order
	updates []domain.PaymentUpdate
}

func newMockOrderRepository() *mockOrderRepository {
	return &mockOrderRepository{orders: make(map[string]*domain.Order)}
}

func (m *mockOrderRepository) Create(_ context.Context, order *domain.Order) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.seq++
	order.ID = uuid.New()
	order.OrderNumber = fmt.Sprintf("NX-%06d", 999+m.seq)
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt
	copied := *order
	m.orders[order.OrderNumber] = &copied
	return nil
}

func (m *mockOrderRepository) GetByOrderNumber(_ context.Context, orderNumber string) (*domain.Order, error) {
	order, ok := m.orders[orderNumber]
	if !ok {
		return nil, &errors.ErrNotFound{Resource: "order", ID: orderNumber}
	}
	copied := *order
	return &copied, nil
}

func (m *mockOrderRepository) List(_ context.Context, _, _ int) ([]*domain.Order, error) {
	out := make([]*domain.Order, 0, len(m.orders))
	for _, o := range m.orders {
		copied := *o
		out = append(out, &copied)
	}
	return out, nil
}

func (m *mockOrderRepository) UpdatePaymentStatus(_ context.Context, orderNumber string, update domain.PaymentUpdate) (bool, error) {
	if m.updateErr != nil {
		return false, m.updateErr
	}
	m.updates = append(m.updates, update)

	order, ok := m.orders[orderNumber]
	if !ok {
		return false, nil
	}
	if !update.PaymentStatus.Overwrites(order.PaymentStatus) {
		return false, nil
	}

	order.Status = update.Status
	order.PaymentStatus = update.PaymentStatus
	if update.PaymentReference != "" {
		order.PaymentReference = update.PaymentReference
	}
	// First write wins, as with the COALESCE in the SQL update
	if order.PaidAt == nil && update.PaidAt != nil {
		paidAt := *update.PaidAt
		order.PaidAt = &paidAt
	}
	order.UpdatedAt = time.Now()
	return true, nil
}

// stubValidator returns a canned validation result
type stubValidator struct {
	result *cart.Result
	err    error
	items  []cart.Item
}

func (s *stubValidator) Validate(_ context.Context, items []cart.Item) (*cart.Result, error) {
	s.items = items
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

// stubPayments records payment starts
type stubPayments struct {
	payment *netopia.Payment
	err     error
	calls   int
}

func (s *stubPayments) StartPayment(_ context.Context, _ *domain.Order) (*netopia.Payment, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.payment, nil
}

// recordingPublisher captures published order events
type recordingPublisher struct {
	created []string
	paid    []string
	err     error
}

func (p *recordingPublisher) OrderCreated(_ context.Context, order *domain.Order) error {
	if p.err != nil {
		return p.err
	}
	p.created = append(p.created, order.OrderNumber)
	return nil
}

func (p *recordingPublisher) OrderPaid(_ context.Context, order *domain.Order, _ time.Time) error {
	if p.err != nil {
		return p.err
	}
	p.paid = append(p.paid, order.OrderNumber)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }
