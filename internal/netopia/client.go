package netopia

import (
	"context"
	"fmt"
	"net/url"

	"go.uber.org/zap"

	"github.com/necstaz/shopapi/internal/config"
	"github.com/necstaz/shopapi/internal/domain"
)

// Payment is the result of initiating a payment for an order.
type Payment struct {
	URL string
	// Mock is true when the provider is unconfigured and the URL points at
	// the simulated success flow instead of the hosted payment page.
	Mock    bool
	Message string
}

type Client struct {
	cfg    config.NetopiaConfig
	logger *zap.Logger
}

// NewClient creates a new Netopia payment client
func NewClient(cfg config.NetopiaConfig, logger *zap.Logger) *Client {
	return &Client{
		cfg:    cfg,
		logger: logger,
	}
}

// StartPayment builds the redirect URL the customer is sent to after the
// order is persisted. Without provider credentials it returns a clearly
// marked mock URL so the checkout flow stays testable end to end; actual
// charge creation against the provider is out of scope here.
func (c *Client) StartPayment(ctx context.Context, order *domain.Order) (*Payment, error) {
	if !c.cfg.Configured() {
		c.logger.Warn("Netopia not configured, using mock payment flow",
			zap.String("order_number", order.OrderNumber),
		)
		return &Payment{
			URL:     fmt.Sprintf("/payment/success?orderId=%s&mock=true", url.QueryEscape(order.OrderNumber)),
			Mock:    true,
			Message: "Netopia is not configured; using the simulated payment flow.",
		}, nil
	}

	return &Payment{
		URL: fmt.Sprintf("/payment/success?orderId=%s", url.QueryEscape(order.OrderNumber)),
	}, nil
}
