package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/safar/petshop/internal/http/middleware"
	"github.com/safar/petshop/internal/http/response"
	"github.com/safar/petshop/internal/service"
)

type OrderService interface {
	PlaceOrder(ctx context.Context, email string, req service.PlaceOrderRequest) (*service.OrderResponse, error)
	GetOrderByID(ctx context.Context, id int64, email string) (*service.OrderResponse, error)
	GetUserOrders(ctx context.Context, email string) ([]service.OrderResponse, error)
	GetAllOrders(ctx context.Context) ([]service.OrderResponse, error)
	GetOrderForAdmin(ctx context.Context, id int64) (*service.OrderResponse, error)
	UpdateOrderStatus(ctx context.Context, id int64, status string) (*service.OrderResponse, error)
	Delete(ctx context.Context, id int64) error
}

type OrderHandler struct {
	orders OrderService
}

func NewOrderHandler(orders OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	var req service.PlaceOrderRequest
	if !bindJSON(c, &req) {
		return
	}
	order, err := h.orders.PlaceOrder(c.Request.Context(), middleware.Identity(c).Email, req)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, order)
}

func (h *OrderHandler) History(c *gin.Context) {
	orders, err := h.orders.GetUserOrders(c.Request.Context(), middleware.Identity(c).Email)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, orders)
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, ok := pathID(c, "orderId")
	if !ok {
		return
	}
	order, err := h.orders.GetOrderByID(c.Request.Context(), id, middleware.Identity(c).Email)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, order)
}

// UpdateStatus takes the new status from a JSON body ({"status": ...}).
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c, "orderId")
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}
	h.updateStatus(c, id, req.Status)
}

func (h *OrderHandler) AdminList(c *gin.Context) {
	orders, err := h.orders.GetAllOrders(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, orders)
}

func (h *OrderHandler) AdminGet(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	order, err := h.orders.GetOrderForAdmin(c.Request.Context(), id)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, order)
}

// AdminUpdateStatus takes the new status from the ?status= query parameter.
func (h *OrderHandler) AdminUpdateStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	h.updateStatus(c, id, c.Query("status"))
}

func (h *OrderHandler) updateStatus(c *gin.Context, id int64, status string) {
	order, err := h.orders.UpdateOrderStatus(c.Request.Context(), id, status)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, order)
}

func (h *OrderHandler) AdminDelete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.orders.Delete(c.Request.Context(), id); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
