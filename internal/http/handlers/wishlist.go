package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/safar/petshop/internal/http/middleware"
	"github.com/safar/petshop/internal/http/response"
	"github.com/safar/petshop/internal/models"
)

type WishlistService interface {
	GetOrCreateList(ctx context.Context, email string) ([]models.Product, bool, error)
	Add(ctx context.Context, email string, productID int64) error
	Remove(ctx context.Context, email string, productID int64) error
	Contains(ctx context.Context, email string, productID int64) (bool, error)
	Clear(ctx context.Context, email string) error
}

type WishlistHandler struct {
	wishlist WishlistService
}

func NewWishlistHandler(wishlist WishlistService) *WishlistHandler {
	return &WishlistHandler{wishlist: wishlist}
}

func (h *WishlistHandler) List(c *gin.Context) {
	products, _, err := h.wishlist.GetOrCreateList(c.Request.Context(), middleware.Identity(c).Email)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, products)
}

func (h *WishlistHandler) Add(c *gin.Context) {
	productID, ok := pathID(c, "productId")
	if !ok {
		return
	}
	if err := h.wishlist.Add(c.Request.Context(), middleware.Identity(c).Email, productID); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

func (h *WishlistHandler) Remove(c *gin.Context) {
	productID, ok := pathID(c, "productId")
	if !ok {
		return
	}
	if err := h.wishlist.Remove(c.Request.Context(), middleware.Identity(c).Email, productID); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *WishlistHandler) Contains(c *gin.Context) {
	productID, ok := pathID(c, "productId")
	if !ok {
		return
	}
	present, err := h.wishlist.Contains(c.Request.Context(), middleware.Identity(c).Email, productID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"inWishlist": present})
}

func (h *WishlistHandler) Clear(c *gin.Context) {
	if err := h.wishlist.Clear(c.Request.Context(), middleware.Identity(c).Email); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
