package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/necstaz/shopapi/internal/service"
	"github.com/necstaz/shopapi/pkg/errors"
)

// CheckoutResponse represents the checkout response
type CheckoutResponse struct {
	Success     bool   `json:"success"`
	OrderNumber string `json:"orderNumber,omitempty"`
	PaymentURL  string `json:"paymentUrl,omitempty"`
	Message     string `json:"message,omitempty"`
	Error       string `json:"error,omitempty"`
}

// HandleCheckout handles POST /api/payment/initiate
func HandleCheckout(checkout service.CheckoutService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.CheckoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, CheckoutResponse{
				Success: false,
				Error:   "missing or invalid request data",
			})
			return
		}

		result, err := checkout.Checkout(c.Request.Context(), req)
		if err != nil {
			status, message := checkoutErrorResponse(err)
			if status == http.StatusInternalServerError {
				logger.Error("Checkout failed", zap.Error(err))
			}
			c.JSON(status, CheckoutResponse{
				Success: false,
				Error:   message,
			})
			return
		}

		c.JSON(http.StatusOK, CheckoutResponse{
			Success:     true,
			OrderNumber: result.OrderNumber,
			PaymentURL:  result.PaymentURL,
			Message:     result.Message,
		})
	}
}

// checkoutErrorResponse maps the intake error taxonomy to a client-facing
// status and message. Anything unrecognized stays a generic 500 with no
// internals exposed.
func checkoutErrorResponse(err error) (int, string) {
	switch e := err.(type) {
	case *errors.ErrInvalidRequest:
		return http.StatusBadRequest, e.Error()
	case *errors.ErrInvalidCustomer:
		switch e.Field {
		case "email":
			return http.StatusBadRequest, "invalid email address"
		case "phone":
			return http.StatusBadRequest, "invalid phone number"
		default:
			return http.StatusBadRequest, e.Error()
		}
	case *errors.ErrValidationFailed:
		return http.StatusBadRequest, e.Error()
	case *errors.ErrOrderPersistenceFailed:
		return http.StatusInternalServerError, "failed to create order"
	default:
		return http.StatusInternalServerError, "an error occurred while processing the order"
	}
}
