package cart

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/necstaz/shopapi/internal/catalog"
	"github.com/necstaz/shopapi/internal/domain"
	"github.com/necstaz/shopapi/pkg/errors"
)

// PriceSource answers batched catalog price lookups. Satisfied by
// catalog.Client; tests use a fake.
type PriceSource interface {
	CartPrices(ctx context.Context, productIDs, bundleSlugs []string) (*catalog.Prices, error)
}

// Item is an untrusted cart line as submitted by the client. Name is used
// only in error messages; the client price never reaches the validator.
type Item struct {
	ID       string
	Type     domain.ItemType
	Name     string
	Quantity int
}

// Result is a fully re-priced cart. Items carry catalog prices only.
type Result struct {
	Items        []domain.OrderItem
	Subtotal     float64
	DepositTotal float64
}

func (r *Result) Total() float64 {
	return r.Subtotal + r.DepositTotal
}

type Validator struct {
	prices      PriceSource
	depositUnit float64
	logger      *zap.Logger
}

// NewValidator creates a new cart validator
func NewValidator(prices PriceSource, depositUnit float64, logger *zap.Logger) *Validator {
	return &Validator{
		prices:      prices,
		depositUnit: depositUnit,
		logger:      logger,
	}
}

// Validate re-prices the cart against the catalog. All lookups go out as a
// single batched query. Unresolvable items are collected into one
// ErrValidationFailed rather than aborting on the first problem, so the
// client sees every issue at once.
func (v *Validator) Validate(ctx context.Context, items []Item) (*Result, error) {
	if len(items) == 0 {
		return nil, &errors.ErrInvalidRequest{Message: "cart is empty"}
	}
	for _, item := range items {
		if item.ID == "" || !item.Type.IsValid() || item.Quantity <= 0 {
			return nil, &errors.ErrInvalidRequest{Message: fmt.Sprintf("malformed cart item %q", item.ID)}
		}
	}

	var productIDs, bundleSlugs []string
	for _, item := range items {
		switch item.Type {
		case domain.ItemTypeProduct:
			productIDs = append(productIDs, item.ID)
		case domain.ItemTypeBundle:
			bundleSlugs = append(bundleSlugs, item.ID)
		}
	}

	prices, err := v.prices.CartPrices(ctx, productIDs, bundleSlugs)
	if err != nil {
		v.logger.Error("Failed to fetch catalog prices", zap.Error(err))
		return nil, err
	}

	result := &Result{}
	var messages []string
	productUnits := 0

	for _, item := range items {
		var serverPrice float64
		var found bool

		switch item.Type {
		case domain.ItemTypeProduct:
			if p, ok := prices.Products[item.ID]; ok {
				serverPrice, found = p.Price, true
				productUnits += item.Quantity
			} else {
				messages = append(messages, fmt.Sprintf("product %q not found", item.Name))
			}
		case domain.ItemTypeBundle:
			if b, ok := prices.Bundles[item.ID]; ok {
				serverPrice, found = b.Price, true
			} else {
				messages = append(messages, fmt.Sprintf("bundle %q not found", item.Name))
			}
		case domain.ItemTypeSubscription:
			if prices.SubscriptionPrice != nil {
				serverPrice, found = *prices.SubscriptionPrice, true
			} else {
				messages = append(messages, "subscription is not available")
			}
		}

		if !found {
			continue
		}

		result.Items = append(result.Items, domain.OrderItem{
			ID:       item.ID,
			Type:     item.Type,
			Name:     item.Name,
			Price:    serverPrice,
			Quantity: item.Quantity,
		})
		result.Subtotal += serverPrice * float64(item.Quantity)
	}

	result.DepositTotal = float64(productUnits) * v.depositUnit

	if len(messages) > 0 {
		return nil, &errors.ErrValidationFailed{Messages: messages}
	}
	if len(result.Items) == 0 || result.Total() <= 0 {
		return nil, &errors.ErrValidationFailed{Messages: []string{"no valid items in cart"}}
	}

	return result, nil
}
