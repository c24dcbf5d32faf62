package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/necstaz/shopapi/internal/catalog"
	"github.com/necstaz/shopapi/internal/domain"
	pkgerrors "github.com/necstaz/shopapi/pkg/errors"
)

// fakePriceSource implements PriceSource and records the batched lookup
type fakePriceSource struct {
	prices      *catalog.Prices
	err         error
	calls       int
	productIDs  []string
	bundleSlugs []string
}

func (f *fakePriceSource) CartPrices(_ context.Context, productIDs, bundleSlugs []string) (*catalog.Prices, error) {
	f.calls++
	f.productIDs = productIDs
	f.bundleSlugs = bundleSlugs
	return f.prices, f.err
}

func float(v float64) *float64 { return &v }

func TestValidateRepricesFromCatalog(t *testing.T) {
	src := &fakePriceSource{prices: &catalog.Prices{
		Products: map[string]catalog.ProductPrice{
			"p1": {ID: "p1", Name: "Apa minerala", Price: 10.00},
		},
		Bundles: map[string]catalog.BundlePrice{},
	}}
	v := NewValidator(src, 0.50, zap.NewNop())

	// Client claims the item costs 0.01; the server price must win.
	result, err := v.Validate(context.Background(), []Item{
		{ID: "p1", Type: domain.ItemTypeProduct, Name: "Apa minerala", Quantity: 2},
	})

	require.NoError(t, err)
	assert.Equal(t, 20.00, result.Subtotal)
	assert.Equal(t, 1.00, result.DepositTotal)
	assert.Equal(t, 21.00, result.Total())
	require.Len(t, result.Items, 1)
	assert.Equal(t, 10.00, result.Items[0].Price)
	assert.Equal(t, 2, result.Items[0].Quantity)
}

func TestValidateBatchesLookups(t *testing.T) {
	src := &fakePriceSource{prices: &catalog.Prices{
		Products: map[string]catalog.ProductPrice{
			"p1": {ID: "p1", Price: 5},
			"p2": {ID: "p2", Price: 7},
		},
		Bundles: map[string]catalog.BundlePrice{
			"starter": {ID: "starter", Price: 40},
		},
		SubscriptionPrice: float(99),
	}}
	v := NewValidator(src, 0.50, zap.NewNop())

	result, err := v.Validate(context.Background(), []Item{
		{ID: "p1", Type: domain.ItemTypeProduct, Name: "A", Quantity: 1},
		{ID: "p2", Type: domain.ItemTypeProduct, Name: "B", Quantity: 3},
		{ID: "starter", Type: domain.ItemTypeBundle, Name: "Starter", Quantity: 1},
		{ID: "sub", Type: domain.ItemTypeSubscription, Name: "Abonament", Quantity: 1},
	})

	require.NoError(t, err)
	// One catalog round trip for the whole cart
	assert.Equal(t, 1, src.calls)
	assert.Equal(t, []string{"p1", "p2"}, src.productIDs)
	assert.Equal(t, []string{"starter"}, src.bundleSlugs)

	assert.Equal(t, 5+21+40+99.0, result.Subtotal)
	// Deposit only on product units: 1 + 3
	assert.Equal(t, 2.00, result.DepositTotal)
	assert.Len(t, result.Items, 4)
}

func TestValidateCollectsAllErrors(t *testing.T) {
	src := &fakePriceSource{prices: &catalog.Prices{
		Products: map[string]catalog.ProductPrice{
			"p1": {ID: "p1", Price: 10},
		},
		Bundles: map[string]catalog.BundlePrice{},
	}}
	v := NewValidator(src, 0.50, zap.NewNop())

	_, err := v.Validate(context.Background(), []Item{
		{ID: "p1", Type: domain.ItemTypeProduct, Name: "Known", Quantity: 1},
		{ID: "ghost", Type: domain.ItemTypeProduct, Name: "Ghost", Quantity: 1},
		{ID: "missing", Type: domain.ItemTypeBundle, Name: "Missing", Quantity: 1},
		{ID: "sub", Type: domain.ItemTypeSubscription, Name: "Sub", Quantity: 1},
	})

	var vErr *pkgerrors.ErrValidationFailed
	require.ErrorAs(t, err, &vErr)
	// Exactly one message per unresolvable item
	assert.Len(t, vErr.Messages, 3)
	assert.Contains(t, vErr.Messages[0], "Ghost")
	assert.Contains(t, vErr.Messages[1], "Missing")
	assert.Contains(t, vErr.Messages[2], "subscription")
}

func TestValidateEmptyCart(t *testing.T) {
	v := NewValidator(&fakePriceSource{}, 0.50, zap.NewNop())

	_, err := v.Validate(context.Background(), nil)

	var reqErr *pkgerrors.ErrInvalidRequest
	assert.ErrorAs(t, err, &reqErr)
}

func TestValidateMalformedItems(t *testing.T) {
	v := NewValidator(&fakePriceSource{}, 0.50, zap.NewNop())

	cases := []Item{
		{ID: "", Type: domain.ItemTypeProduct, Quantity: 1},
		{ID: "p1", Type: "voucher", Quantity: 1},
		{ID: "p1", Type: domain.ItemTypeProduct, Quantity: 0},
		{ID: "p1", Type: domain.ItemTypeProduct, Quantity: -2},
	}

	for _, item := range cases {
		_, err := v.Validate(context.Background(), []Item{item})
		var reqErr *pkgerrors.ErrInvalidRequest
		assert.ErrorAs(t, err, &reqErr, "item %+v", item)
	}
}

func TestValidateZeroTotalRejected(t *testing.T) {
	src := &fakePriceSource{prices: &catalog.Prices{
		Products: map[string]catalog.ProductPrice{},
		Bundles:  map[string]catalog.BundlePrice{},
		// A zero subscription price resolves but contributes nothing
		SubscriptionPrice: float(0),
	}}
	v := NewValidator(src, 0, zap.NewNop())

	_, err := v.Validate(context.Background(), []Item{
		{ID: "sub", Type: domain.ItemTypeSubscription, Name: "Sub", Quantity: 1},
	})

	var vErr *pkgerrors.ErrValidationFailed
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, []string{"no valid items in cart"}, vErr.Messages)
}

func TestValidateCatalogError(t *testing.T) {
	src := &fakePriceSource{err: errors.New("catalog unavailable")}
	v := NewValidator(src, 0.50, zap.NewNop())

	_, err := v.Validate(context.Background(), []Item{
		{ID: "p1", Type: domain.ItemTypeProduct, Name: "A", Quantity: 1},
	})

	assert.EqualError(t, err, "catalog unavailable")
}

func TestValidateNoDepositOnBundlesOrSubscriptions(t *testing.T) {
	src := &fakePriceSource{prices: &catalog.Prices{
		Products: map[string]catalog.ProductPrice{},
		Bundles: map[string]catalog.BundlePrice{
			"b1": {ID: "b1", Price: 30},
		},
		SubscriptionPrice: float(50),
	}}
	v := NewValidator(src, 0.50, zap.NewNop())

	result, err := v.Validate(context.Background(), []Item{
		{ID: "b1", Type: domain.ItemTypeBundle, Name: "Bundle", Quantity: 2},
		{ID: "sub", Type: domain.ItemTypeSubscription, Name: "Sub", Quantity: 1},
	})

	require.NoError(t, err)
	assert.Equal(t, 0.00, result.DepositTotal)
	assert.Equal(t, 110.00, result.Total())
}
