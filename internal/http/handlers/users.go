package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/safar/petshop/internal/http/middleware"
	"github.com/safar/petshop/internal/http/response"
	"github.com/safar/petshop/internal/models"
	"github.com/safar/petshop/internal/service"
)

type UserService interface {
	Me(ctx context.Context, email string) (*models.User, error)
	UpdateProfile(ctx context.Context, email string, req service.UpdateProfileRequest) (*models.User, error)
	OrderSummaries(ctx context.Context, email string) ([]service.OrderSummary, error)
}

type UserHandler struct {
	users UserService
}

func NewUserHandler(users UserService) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) GetMe(c *gin.Context) {
	user, err := h.users.Me(c.Request.Context(), middleware.Identity(c).Email)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, user)
}

func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req service.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.users.UpdateProfile(c.Request.Context(), middleware.Identity(c).Email, req)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, user)
}

func (h *UserHandler) Orders(c *gin.Context) {
	summaries, err := h.users.OrderSummaries(c.Request.Context(), middleware.Identity(c).Email)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, summaries)
}
