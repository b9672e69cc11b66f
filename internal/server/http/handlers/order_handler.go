package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/detta3d-orders/internal/domain/model"
	"github.com/polkiloo/detta3d-orders/internal/server/http/dto"
)

// OrderHandler manages order-related endpoints.
type OrderHandler struct {
	facade OrdersFacade
	logger *slog.Logger
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrdersFacade, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{facade: facade, logger: logger}
}

// Create handles POST /orders/.
func (h *OrderHandler) Create(c *gin.Context) {
	payload, err := decodeObject(c)
	if err != nil {
		writeMalformed(c)
		return
	}

	order, err := h.facade.CreateOrder(c.Request.Context(), payload)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, toOrderResponse(*order))
}

// List handles GET /orders/.
func (h *OrderHandler) List(c *gin.Context) {
	orders, err := h.facade.Orders(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponses(orders))
}

// Completed handles GET /orders/completed/.
func (h *OrderHandler) Completed(c *gin.Context) {
	orders, err := h.facade.CompletedOrders(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponses(orders))
}

// Get handles GET /orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	order, err := h.facade.Order(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(*order))
}

// Update handles PATCH /orders/:id.
func (h *OrderHandler) Update(c *gin.Context) {
	payload, err := decodeObject(c)
	if err != nil {
		writeMalformed(c)
		return
	}

	order, err := h.facade.UpdateOrder(c.Request.Context(), c.Param("id"), payload)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(*order))
}

func toOrderResponses(orders []model.Order) []dto.OrderResponse {
	response := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		response = append(response, toOrderResponse(o))
	}
	return response
}

func toOrderResponse(order model.Order) dto.OrderResponse {
	resp := dto.OrderResponse{
		ID:            order.ID,
		UserID:        order.UserID,
		Product:       order.Product,
		Price:         order.Price,
		Status:        string(order.Status),
		PaymentStatus: string(order.PaymentStatus),
		Address:       order.Address,
		Notes:         order.Notes,
		CreatedAt:     order.CreatedAt,
	}
	if !order.UpdatedAt.IsZero() {
		updated := order.UpdatedAt
		resp.UpdatedAt = &updated
	}
	return resp
}
