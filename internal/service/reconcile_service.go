package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/necstaz/shopapi/internal/domain"
	"github.com/necstaz/shopapi/internal/events"
	"github.com/necstaz/shopapi/internal/netopia"
	"github.com/necstaz/shopapi/internal/repository"
	"github.com/necstaz/shopapi/pkg/errors"
)

// ReconcileService applies provider payment notifications to orders
type ReconcileService interface {
	Reconcile(ctx context.Context, ipn *netopia.IPN) error
}

type reconcileService struct {
	repos     *repository.Repositories
	publisher events.Publisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewReconcileService creates a new payment status reconciler
func NewReconcileService(
	repos *repository.Repositories,
	publisher events.Publisher,
	logger *zap.Logger,
) ReconcileService {
	return &reconcileService{
		repos:     repos,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// Reconcile maps the provider status onto the order and applies it through
// the store's conditional update. Store failures are logged and swallowed:
// the provider retries on anything but an ack, and a missed update is
// recoverable out of band, so only a missing order reference is reported
// back to the caller.
func (s *reconcileService) Reconcile(ctx context.Context, ipn *netopia.IPN) error {
	if ipn.Order.OrderID == "" {
		return &errors.ErrMissingOrderReference{}
	}

	orderNumber := ipn.Order.OrderID
	status, paymentStatus := netopia.MapStatus(ipn.Payment.Status)

	update := domain.PaymentUpdate{
		Status:           status,
		PaymentStatus:    paymentStatus,
		PaymentReference: ipn.Payment.NtpID,
	}
	if paymentStatus == domain.PaymentStatusPaid {
		paidAt := s.now()
		update.PaidAt = &paidAt
	}

	applied, err := s.repos.Order.UpdatePaymentStatus(ctx, orderNumber, update)
	if err != nil {
		s.logger.Error("Failed to update order from notification",
			zap.String("order_number", orderNumber),
			zap.Int("provider_status", ipn.Payment.Status),
			zap.Error(err),
		)
		return nil
	}

	if !applied {
		// Unknown order or a stale notification outranked by the current
		// status; both are safe to acknowledge.
		s.logger.Warn("Notification not applied",
			zap.String("order_number", orderNumber),
			zap.String("payment_status", string(paymentStatus)),
		)
		return nil
	}

	s.logger.Info("Order reconciled",
		zap.String("order_number", orderNumber),
		zap.String("status", string(status)),
		zap.String("payment_status", string(paymentStatus)),
		zap.String("payment_reference", ipn.Payment.NtpID),
	)

	if paymentStatus == domain.PaymentStatusPaid {
		s.publishPaid(ctx, orderNumber)
	}

	return nil
}

func (s *reconcileService) publishPaid(ctx context.Context, orderNumber string) {
	order, err := s.repos.Order.GetByOrderNumber(ctx, orderNumber)
	if err != nil {
		s.logger.Warn("Failed to load order for paid event",
			zap.String("order_number", orderNumber),
			zap.Error(err),
		)
		return
	}

	paidAt := s.now()
	if order.PaidAt != nil {
		paidAt = *order.PaidAt
	}

	if err := s.publisher.OrderPaid(ctx, order, paidAt); err != nil {
		s.logger.Warn("Failed to publish order paid event",
			zap.String("order_number", orderNumber),
			zap.Error(err),
		)
	}
}
