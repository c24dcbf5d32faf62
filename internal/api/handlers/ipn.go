package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/necstaz/shopapi/internal/netopia"
	"github.com/necstaz/shopapi/internal/service"
	"github.com/necstaz/shopapi/pkg/errors"
)

// HandleIPN handles POST /api/payment/ipn, the provider's at-least-once
// payment notification. The provider keeps retrying until it gets its ack
// envelope, so everything past payload parsing acks with errorType 0,
// including internal persistence problems. Only an unparseable payload
// gets the hard error envelope.
func HandleIPN(reconcile service.ReconcileService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		payload, err := netopia.ParseIPN(c.Request)
		if err != nil {
			logger.Error("Failed to parse IPN payload", zap.Error(err))
			c.JSON(http.StatusInternalServerError, netopia.Ack{
				ErrorType:    1,
				ErrorCode:    "SERVER_ERROR",
				ErrorMessage: "internal server error",
			})
			return
		}

		if err := reconcile.Reconcile(c.Request.Context(), payload); err != nil {
			if _, ok := err.(*errors.ErrMissingOrderReference); ok {
				logger.Warn("IPN missing order reference",
					zap.String("payment_reference", payload.Payment.NtpID),
				)
				c.JSON(http.StatusOK, netopia.Ack{
					ErrorType:    0,
					ErrorMessage: "missing order reference",
				})
				return
			}
			// Reconciliation never fails the ack for store-side problems;
			// anything else unexpected is still acknowledged after logging.
			logger.Error("IPN reconciliation error", zap.Error(err))
		}

		c.JSON(http.StatusOK, netopia.Ack{
			ErrorType:    0,
			ErrorMessage: "OK",
		})
	}
}

// HandleIPNStatus handles GET /api/payment/ipn, a liveness probe separate
// from the reconciliation path.
func HandleIPNStatus() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "IPN endpoint active"})
	}
}
