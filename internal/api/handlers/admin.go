package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/necstaz/shopapi/internal/domain"
	"github.com/necstaz/shopapi/internal/repository"
	"github.com/necstaz/shopapi/pkg/errors"
)

// OrderResponse represents an order in back-office responses
type OrderResponse struct {
	ID               string               `json:"id"`
	OrderNumber      string               `json:"order_number"`
	Status           domain.OrderStatus   `json:"status"`
	PaymentStatus    domain.PaymentStatus `json:"payment_status"`
	CustomerType     domain.CustomerType  `json:"customer_type"`
	CustomerName     string               `json:"customer_name"`
	CustomerEmail    string               `json:"customer_email"`
	CustomerPhone    string               `json:"customer_phone"`
	DeliveryAddress  domain.Address       `json:"delivery_address"`
	BillingAddress   domain.Address       `json:"billing_address"`
	Items            []domain.OrderItem   `json:"items"`
	Subtotal         float64              `json:"subtotal"`
	DepositTotal     float64              `json:"deposit_total"`
	Total            float64              `json:"total"`
	PaymentReference string               `json:"payment_reference,omitempty"`
	PaidAt           *string              `json:"paid_at,omitempty"`
	CreatedAt        string               `json:"created_at"`
	UpdatedAt        string               `json:"updated_at"`
}

// HandleListOrders handles GET /v1/admin/orders
func HandleListOrders(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
		offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
		if offset < 0 {
			offset = 0
		}

		orders, err := repos.Order.List(c.Request.Context(), limit, offset)
		if err != nil {
			logger.Error("Failed to list orders", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		responses := make([]OrderResponse, 0, len(orders))
		for _, order := range orders {
			responses = append(responses, toOrderResponse(order))
		}

		c.JSON(http.StatusOK, gin.H{"orders": responses})
	}
}

// HandleGetOrder handles GET /v1/admin/orders/:orderNumber
func HandleGetOrder(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderNumber := c.Param("orderNumber")

		order, err := repos.Order.GetByOrderNumber(c.Request.Context(), orderNumber)
		if err != nil {
			if _, ok := err.(*errors.ErrNotFound); ok {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			logger.Error("Failed to get order", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusOK, toOrderResponse(order))
	}
}

func toOrderResponse(order *domain.Order) OrderResponse {
	name, _ := order.Customer.DisplayName()

	resp := OrderResponse{
		ID:               order.ID.String(),
		OrderNumber:      order.OrderNumber,
		Status:           order.Status,
		PaymentStatus:    order.PaymentStatus,
		CustomerType:     order.Customer.Type,
		CustomerName:     name,
		CustomerEmail:    order.Customer.Email,
		CustomerPhone:    order.Customer.Phone,
		DeliveryAddress:  order.DeliveryAddress,
		BillingAddress:   order.BillingAddress,
		Items:            order.Items,
		Subtotal:         order.Subtotal,
		DepositTotal:     order.DepositTotal,
		Total:            order.Total,
		PaymentReference: order.PaymentReference,
		CreatedAt:        order.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        order.UpdatedAt.Format(time.RFC3339),
	}

	if order.PaidAt != nil {
		paidAt := order.PaidAt.Format(time.RFC3339)
		resp.PaidAt = &paidAt
	}

	return resp
}
