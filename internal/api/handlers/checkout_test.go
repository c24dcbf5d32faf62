package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/necstaz/shopapi/internal/service"
	pkgerrors "github.com/necstaz/shopapi/pkg/errors"
)

type stubCheckoutService struct {
	result *service.CheckoutResult
	err    error
	calls  int
}

func (s *stubCheckoutService) Checkout(_ context.Context, _ service.CheckoutRequest) (*service.CheckoutResult, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func checkoutRouter(svc service.CheckoutService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/api/payment/initiate", HandleCheckout(svc, zap.NewNop()))
	return router
}

const checkoutBody = `{
	"customer": {
		"type": "person",
		"email": "ana@example.com",
		"phone": "0721234567",
		"firstName": "Ana",
		"lastName": "Popescu",
		"deliveryAddress": {"street": "Str. Lunga 1", "city": "Brasov", "postalCode": "500035"},
		"sameAddress": true
	},
	"cartItems": [{"id": "p1", "type": "product", "name": "Apa", "price": 10, "quantity": 2}]
}`

func postCheckout(router *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/api/payment/initiate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleCheckoutSuccess(t *testing.T) {
	svc := &stubCheckoutService{result: &service.CheckoutResult{
		OrderNumber: "NX-001000",
		PaymentURL:  "/payment/success?orderId=NX-001000&mock=true",
		Message:     "mock flow",
	}}
	w := postCheckout(checkoutRouter(svc), checkoutBody)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp CheckoutResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "NX-001000", resp.OrderNumber)
	assert.Contains(t, resp.PaymentURL, "mock=true")
	assert.Empty(t, resp.Error)
}

func TestHandleCheckoutMalformedBody(t *testing.T) {
	svc := &stubCheckoutService{}
	w := postCheckout(checkoutRouter(svc), `{"customer": {}}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp CheckoutResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Error)
	// Binding failures never reach the service
	assert.Equal(t, 0, svc.calls)
}

func TestHandleCheckoutEmptyCart(t *testing.T) {
	svc := &stubCheckoutService{}
	body := strings.Replace(checkoutBody,
		`[{"id": "p1", "type": "product", "name": "Apa", "price": 10, "quantity": 2}]`, `[]`, 1)
	w := postCheckout(checkoutRouter(svc), body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, svc.calls)
}

func TestHandleCheckoutErrorStatuses(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{"invalid customer email", &pkgerrors.ErrInvalidCustomer{Field: "email"}, http.StatusBadRequest, "invalid email address"},
		{"invalid customer phone", &pkgerrors.ErrInvalidCustomer{Field: "phone"}, http.StatusBadRequest, "invalid phone number"},
		{"invalid request", &pkgerrors.ErrInvalidRequest{Message: "incomplete billing address"}, http.StatusBadRequest, "incomplete billing address"},
		{"validation failed", &pkgerrors.ErrValidationFailed{Messages: []string{`product "A" not found`, `bundle "B" not found`}}, http.StatusBadRequest, `product "A" not found, bundle "B" not found`},
		{"persistence failed", &pkgerrors.ErrOrderPersistenceFailed{Err: errors.New("down")}, http.StatusInternalServerError, "failed to create order"},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, "an error occurred while processing the order"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postCheckout(checkoutRouter(&stubCheckoutService{err: tt.err}), checkoutBody)

			assert.Equal(t, tt.wantStatus, w.Code)
			var resp CheckoutResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			assert.Equal(t, tt.wantError, resp.Error)
		})
	}
}
