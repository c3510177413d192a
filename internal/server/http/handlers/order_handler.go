package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/marketplace/internal/domain/model"
	"github.com/polkiloo/marketplace/internal/server/http/dto"
	"github.com/polkiloo/marketplace/internal/usecase"
)

// OrderHandler serves order endpoints.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler constructs handler instance.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// Create handles POST /api/orders.
func (h *OrderHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "malformed request body")
		return
	}

	order, err := h.facade.PlaceOrder(c.Request.Context(), CurrentPrincipal(c), usecase.CreateOrderInput{
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		ShippingAddress: model.ShippingAddress{
			Street:     req.ShippingAddress.Street,
			City:       req.ShippingAddress.City,
			PostalCode: req.ShippingAddress.PostalCode,
			Country:    req.ShippingAddress.Country,
		},
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toOrderResponse(order))
}

// Get handles GET /api/orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	order, err := h.facade.Order(c.Request.Context(), CurrentPrincipal(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(order))
}

// Mine handles GET /api/orders/mine.
func (h *OrderHandler) Mine(c *gin.Context) {
	h.list(c, h.facade.BuyerOrders)
}

// Selling handles GET /api/orders/selling.
func (h *OrderHandler) Selling(c *gin.Context) {
	h.list(c, h.facade.SellerOrders)
}

// All handles GET /api/admin/orders.
func (h *OrderHandler) All(c *gin.Context) {
	h.list(c, h.facade.AllOrders)
}

func (h *OrderHandler) list(c *gin.Context, fetch func(ctx context.Context, actor model.Principal) ([]model.Order, error)) {
	orders, err := fetch(c.Request.Context(), CurrentPrincipal(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponses(orders))
}

// UpdateStatus handles PUT /api/orders/:id/status.
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "malformed request body")
		return
	}

	order, err := h.facade.ChangeOrderStatus(c.Request.Context(), CurrentPrincipal(c), c.Param("id"), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(order))
}

// Transitions handles GET /api/orders/:id/transitions.
func (h *OrderHandler) Transitions(c *gin.Context) {
	order, allowed, err := h.facade.OrderTransitions(c.Request.Context(), CurrentPrincipal(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	names := make([]string, 0, len(allowed))
	for _, s := range allowed {
		names = append(names, string(s))
	}
	c.JSON(http.StatusOK, dto.TransitionsResponse{Current: string(order.CurrentStatus), Allowed: names})
}
