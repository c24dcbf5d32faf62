package service

import (
	"context"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/necstaz/shopapi/internal/cart"
	"github.com/necstaz/shopapi/internal/domain"
	"github.com/necstaz/shopapi/internal/events"
	"github.com/necstaz/shopapi/internal/netopia"
	"github.com/necstaz/shopapi/internal/repository"
	"github.com/necstaz/shopapi/pkg/errors"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	// Romanian numbers: +40 or 0 prefix followed by 9-10 digits
	phonePattern = regexp.MustCompile(`^(\+40|0)[0-9]{9,10}$`)
	phoneNoise   = strings.NewReplacer(" ", "", "-", "", ".", "", "(", "", ")", "")
)

const defaultCountry = "Romania"

// CartValidator re-prices an untrusted cart against the catalog
type CartValidator interface {
	Validate(ctx context.Context, items []cart.Item) (*cart.Result, error)
}

// PaymentStarter builds the payment redirect for a persisted order
type PaymentStarter interface {
	StartPayment(ctx context.Context, order *domain.Order) (*netopia.Payment, error)
}

// CheckoutService orchestrates order intake
type CheckoutService interface {
	Checkout(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error)
}

type checkoutService struct {
	repos     *repository.Repositories
	validator CartValidator
	payments  PaymentStarter
	publisher events.Publisher
	logger    *zap.Logger
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(
	repos *repository.Repositories,
	validator CartValidator,
	payments PaymentStarter,
	publisher events.Publisher,
	logger *zap.Logger,
) CheckoutService {
	return &checkoutService{
		repos:     repos,
		validator: validator,
		payments:  payments,
		publisher: publisher,
		logger:    logger,
	}
}

// Checkout runs the intake pipeline: normalize the customer, re-price the
// cart, persist the order and hand back the payment redirect. Persistence
// failure is fatal; a payment URL must never be issued for an order the
// reconciler cannot find later.
func (s *checkoutService) Checkout(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error) {
	customer, delivery, billing, err := normalizeCustomer(req.Customer)
	if err != nil {
		return nil, err
	}

	if !emailPattern.MatchString(customer.Email) {
		return nil, &errors.ErrInvalidCustomer{Field: "email"}
	}
	if !phonePattern.MatchString(phoneNoise.Replace(customer.Phone)) {
		return nil, &errors.ErrInvalidCustomer{Field: "phone"}
	}

	items := make([]cart.Item, 0, len(req.CartItems))
	for _, it := range req.CartItems {
		items = append(items, cart.Item{
			ID:       it.ID,
			Type:     domain.ItemType(it.Type),
			Name:     it.Name,
			Quantity: it.Quantity,
		})
	}

	validated, err := s.validator.Validate(ctx, items)
	if err != nil {
		return nil, err
	}

	order := &domain.Order{
		Status:          domain.OrderStatusPending,
		PaymentStatus:   domain.PaymentStatusPending,
		Customer:        customer,
		DeliveryAddress: delivery,
		BillingAddress:  billing,
		Items:           validated.Items,
		Subtotal:        validated.Subtotal,
		DepositTotal:    validated.DepositTotal,
		Total:           validated.Total(),
	}

	if err := s.repos.Order.Create(ctx, order); err != nil {
		s.logger.Error("Failed to persist order", zap.Error(err))
		return nil, &errors.ErrOrderPersistenceFailed{Err: err}
	}

	if err := s.publisher.OrderCreated(ctx, order); err != nil {
		s.logger.Warn("Failed to publish order created event",
			zap.String("order_number", order.OrderNumber),
			zap.Error(err),
		)
	}

	payment, err := s.payments.StartPayment(ctx, order)
	if err != nil {
		s.logger.Error("Failed to start payment",
			zap.String("order_number", order.OrderNumber),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("Order created",
		zap.String("order_number", order.OrderNumber),
		zap.Float64("total", order.Total),
		zap.Int("items", len(order.Items)),
		zap.Bool("mock_payment", payment.Mock),
	)

	return &CheckoutResult{
		OrderNumber: order.OrderNumber,
		PaymentURL:  payment.URL,
		Message:     payment.Message,
	}, nil
}

// normalizeCustomer turns the wire payload into the persistable customer
// shape. The switch is exhaustive over customer kinds: an unhandled kind is
// rejected, never half-stored.
func normalizeCustomer(p CustomerPayload) (domain.Customer, domain.Address, domain.Address, error) {
	var none domain.Address

	customer := domain.Customer{
		Type:  domain.CustomerType(p.Type),
		Email: strings.TrimSpace(p.Email),
		Phone: strings.TrimSpace(p.Phone),
	}

	switch customer.Type {
	case domain.CustomerTypePerson:
		if p.FirstName == "" || p.LastName == "" {
			return domain.Customer{}, none, none, &errors.ErrInvalidRequest{Message: "person customer requires first and last name"}
		}
		customer.Person = &domain.PersonDetails{
			FirstName: p.FirstName,
			LastName:  p.LastName,
		}
	case domain.CustomerTypeCompany:
		if p.CompanyName == "" || p.TaxID == "" {
			return domain.Customer{}, none, none, &errors.ErrInvalidRequest{Message: "company customer requires company name and tax id"}
		}
		customer.Company = &domain.CompanyDetails{
			CompanyName:   p.CompanyName,
			TaxID:         p.TaxID,
			ContactPerson: p.ContactPerson,
		}
	default:
		return domain.Customer{}, none, none, &errors.ErrInvalidRequest{Message: "unknown customer type"}
	}

	delivery, err := normalizeAddress(p.DeliveryAddress, "delivery")
	if err != nil {
		return domain.Customer{}, none, none, err
	}

	billing := delivery
	if !p.SameAddress {
		billing, err = normalizeAddress(p.BillingAddress, "billing")
		if err != nil {
			return domain.Customer{}, none, none, err
		}
	}

	return customer, delivery, billing, nil
}

func normalizeAddress(p AddressPayload, kind string) (domain.Address, error) {
	if p.Street == "" || p.City == "" || p.PostalCode == "" {
		return domain.Address{}, &errors.ErrInvalidRequest{Message: "incomplete " + kind + " address"}
	}
	country := p.Country
	if country == "" {
		country = defaultCountry
	}
	return domain.Address{
		Street:     p.Street,
		City:       p.City,
		County:     p.County,
		PostalCode: p.PostalCode,
		Country:    country,
	}, nil
}
