package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/necstaz/shopapi/internal/domain"
	"github.com/necstaz/shopapi/internal/repository"
	"github.com/necstaz/shopapi/pkg/errors"
)

type orderRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *sql.DB, logger *zap.Logger) *orderRepository {
	return &orderRepository{
		db:     db,
		logger: logger,
	}
}

// NewRepositories wires all Postgres-backed repositories
func NewRepositories(db *sql.DB, logger *zap.Logger) *repository.Repositories {
	return &repository.Repositories{
		Order: NewOrderRepository(db, logger),
	}
}

// Create inserts the order and fills in the store-generated order number
// and timestamps. The order number comes from a sequence default on the
// table, so generation and insertion are a single atomic statement.
func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	query := `
		INSERT INTO orders (
			id, status, payment_status, customer_type, customer,
			delivery_address, billing_address, items,
			subtotal, deposit_total, total
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING order_number, created_at, updated_at
	`

	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	if order.Status == "" {
		order.Status = domain.OrderStatusPending
	}
	if order.PaymentStatus == "" {
		order.PaymentStatus = domain.PaymentStatusPending
	}

	customerJSON, err := json.Marshal(order.Customer)
	if err != nil {
		return fmt.Errorf("failed to marshal customer: %w", err)
	}
	deliveryJSON, err := json.Marshal(order.DeliveryAddress)
	if err != nil {
		return fmt.Errorf("failed to marshal delivery address: %w", err)
	}
	billingJSON, err := json.Marshal(order.BillingAddress)
	if err != nil {
		return fmt.Errorf("failed to marshal billing address: %w", err)
	}
	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal items: %w", err)
	}

	err = r.db.QueryRowContext(ctx, query,
		order.ID,
		order.Status,
		order.PaymentStatus,
		order.Customer.Type,
		customerJSON,
		deliveryJSON,
		billingJSON,
		itemsJSON,
		order.Subtotal,
		order.DepositTotal,
		order.Total,
	).Scan(&order.OrderNumber, &order.CreatedAt, &order.UpdatedAt)

	if err != nil {
		r.logger.Error("Failed to create order", zap.Error(err))
		return err
	}

	return nil
}

func (r *orderRepository) GetByOrderNumber(ctx context.Context, orderNumber string) (*domain.Order, error) {
	query := selectOrderColumns + ` WHERE order_number = $1`

	order, err := r.scanOrder(r.db.QueryRowContext(ctx, query, orderNumber))
	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "order", ID: orderNumber}
	}
	if err != nil {
		r.logger.Error("Failed to get order", zap.Error(err))
		return nil, err
	}

	return order, nil
}

func (r *orderRepository) List(ctx context.Context, limit, offset int) ([]*domain.Order, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	query := selectOrderColumns + ` ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list orders", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		order, err := r.scanOrder(rows)
		if err != nil {
			r.logger.Error("Failed to scan order row", zap.Error(err))
			return nil, err
		}
		orders = append(orders, order)
	}

	return orders, rows.Err()
}

// UpdatePaymentStatus applies a provider notification to the order. The
// rank check lives in the WHERE clause, so a stale notification loses the
// race even when two webhook deliveries run concurrently. paid_at keeps its
// first written value, making duplicate paid notifications no-ops for the
// timestamp. Returns false when the update did not apply.
func (r *orderRepository) UpdatePaymentStatus(ctx context.Context, orderNumber string, update domain.PaymentUpdate) (bool, error) {
	query := `
		UPDATE orders
		SET status = $2,
		    payment_status = $3,
		    payment_reference = COALESCE(NULLIF($4, ''), payment_reference),
		    paid_at = COALESCE(paid_at, $5),
		    updated_at = now()
		WHERE order_number = $1 AND payment_status = ANY($6)
	`

	overwritable := domain.OverwritablePaymentStatuses(update.PaymentStatus)
	statuses := make([]string, len(overwritable))
	for i, s := range overwritable {
		statuses[i] = string(s)
	}

	var paidAt sql.NullTime
	if update.PaidAt != nil {
		paidAt = sql.NullTime{Time: *update.PaidAt, Valid: true}
	}

	result, err := r.db.ExecContext(ctx, query,
		orderNumber,
		update.Status,
		update.PaymentStatus,
		update.PaymentReference,
		paidAt,
		pq.Array(statuses),
	)
	if err != nil {
		r.logger.Error("Failed to update order payment status",
			zap.String("order_number", orderNumber),
			zap.Error(err),
		)
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}

const selectOrderColumns = `
	SELECT id, order_number, status, payment_status, customer,
	       delivery_address, billing_address, items,
	       subtotal, deposit_total, total,
	       payment_reference, paid_at, created_at, updated_at
	FROM orders
`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *orderRepository) scanOrder(row rowScanner) (*domain.Order, error) {
	var order domain.Order
	var customerJSON, deliveryJSON, billingJSON, itemsJSON []byte
	var paymentReference sql.NullString
	var paidAt sql.NullTime

	err := row.Scan(
		&order.ID,
		&order.OrderNumber,
		&order.Status,
		&order.PaymentStatus,
		&customerJSON,
		&deliveryJSON,
		&billingJSON,
		&itemsJSON,
		&order.Subtotal,
		&order.DepositTotal,
		&order.Total,
		&paymentReference,
		&paidAt,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(customerJSON, &order.Customer); err != nil {
		return nil, fmt.Errorf("failed to unmarshal customer: %w", err)
	}
	if err := json.Unmarshal(deliveryJSON, &order.DeliveryAddress); err != nil {
		return nil, fmt.Errorf("failed to unmarshal delivery address: %w", err)
	}
	if err := json.Unmarshal(billingJSON, &order.BillingAddress); err != nil {
		return nil, fmt.Errorf("failed to unmarshal billing address: %w", err)
	}
	if err := json.Unmarshal(itemsJSON, &order.Items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal items: %w", err)
	}

	if paymentReference.Valid {
		order.PaymentReference = paymentReference.String
	}
	if paidAt.Valid {
		t := paidAt.Time
		order.PaidAt = &t
	}

	return &order, nil
}

var _ repository.OrderRepository = (*orderRepository)(nil)
