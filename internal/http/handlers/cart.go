package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/safar/petshop/internal/http/middleware"
	"github.com/safar/petshop/internal/http/response"
	"github.com/safar/petshop/internal/service"
)

type CartService interface {
	AddItem(ctx context.Context, email string, productID int64, quantity int) (int, error)
	UpdateQuantity(ctx context.Context, email string, productID int64, quantity int) error
	RemoveItem(ctx context.Context, email string, productID int64) error
	Clear(ctx context.Context, email string) error
	GetOrCreateCart(ctx context.Context, email string) (*service.CartResponse, bool, error)
}

type cartItemRequest struct {
	ProductID int64 `json:"productId" binding:"required"`
	Quantity  int   `json:"quantity"`
}

type CartHandler struct {
	carts CartService
}

func NewCartHandler(carts CartService) *CartHandler {
	return &CartHandler{carts: carts}
}

func (h *CartHandler) GetCart(c *gin.Context) {
	h.respondCart(c)
}

func (h *CartHandler) AddItem(c *gin.Context) {
	var req cartItemRequest
	if !bindJSON(c, &req) {
		return
	}
	email := middleware.Identity(c).Email
	if _, err := h.carts.AddItem(c.Request.Context(), email, req.ProductID, req.Quantity); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	h.respondCart(c)
}

func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	var req cartItemRequest
	if !bindJSON(c, &req) {
		return
	}
	email := middleware.Identity(c).Email
	if err := h.carts.UpdateQuantity(c.Request.Context(), email, req.ProductID, req.Quantity); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	h.respondCart(c)
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	productID, ok := pathID(c, "productId")
	if !ok {
		return
	}
	if err := h.carts.RemoveItem(c.Request.Context(), middleware.Identity(c).Email, productID); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	h.respondCart(c)
}

// Clear answers with an empty cart directly, so a user without a cart does
// not get one created.
func (h *CartHandler) Clear(c *gin.Context) {
	if err := h.carts.Clear(c.Request.Context(), middleware.Identity(c).Email); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, service.EmptyCartResponse())
}

func (h *CartHandler) respondCart(c *gin.Context) {
	cart, _, err := h.carts.GetOrCreateCart(c.Request.Context(), middleware.Identity(c).Email)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, cart)
}
