package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/safar/petshop/internal/http/response"
	"github.com/safar/petshop/internal/models"
	"github.com/safar/petshop/internal/service"
	"github.com/safar/petshop/internal/store"
)

type CatalogService interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, req service.CategoryRequest) (*models.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
	ListProducts(ctx context.Context) ([]models.Product, error)
	ListProductsPage(ctx context.Context, page, pageSize int) (*store.OffsetPage, error)
	SearchProducts(ctx context.Context, name string) ([]models.Product, error)
	ProductsByCategory(ctx context.Context, categoryID int64) ([]models.Product, error)
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
	CreateProduct(ctx context.Context, req service.ProductRequest) (*models.Product, error)
	UpdateProduct(ctx context.Context, id int64, req service.ProductRequest) (*models.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
}

type CatalogHandler struct {
	catalog CatalogService
}

func NewCatalogHandler(catalog CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// ListProducts returns the whole catalog, or one page of it when ?page= is given.
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	if raw := c.Query("page"); raw != "" {
		page, _ := strconv.Atoi(raw)
		pageSize, _ := strconv.Atoi(c.Query("pageSize"))

		result, err := h.catalog.ListProductsPage(c.Request.Context(), page, pageSize)
		if err != nil {
			response.RespondServiceError(c, err)
			return
		}
		response.RespondOK(c, result)
		return
	}

	products, err := h.catalog.ListProducts(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, products)
}

func (h *CatalogHandler) SearchProducts(c *gin.Context) {
	products, err := h.catalog.SearchProducts(c.Request.Context(), c.Query("name"))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, products)
}

func (h *CatalogHandler) ProductsByCategory(c *gin.Context) {
	categoryID, ok := pathID(c, "categoryId")
	if !ok {
		return
	}
	products, err := h.catalog.ProductsByCategory(c.Request.Context(), categoryID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, products)
}

func (h *CatalogHandler) GetProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	product, err := h.catalog.GetProduct(c.Request.Context(), id)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, product)
}

func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req service.ProductRequest
	if !bindJSON(c, &req) {
		return
	}
	product, err := h.catalog.CreateProduct(c.Request.Context(), req)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, product)
}

func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req service.ProductRequest
	if !bindJSON(c, &req) {
		return
	}
	product, err := h.catalog.UpdateProduct(c.Request.Context(), id, req)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, product)
}

func (h *CatalogHandler) DeleteProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.catalog.DeleteProduct(c.Request.Context(), id); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.catalog.ListCategories(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, categories)
}

func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req service.CategoryRequest
	if !bindJSON(c, &req) {
		return
	}
	category, err := h.catalog.CreateCategory(c.Request.Context(), req)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, category)
}

func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	id, ok := pathID(c, "categoryId")
	if !ok {
		return
	}
	if err := h.catalog.DeleteCategory(c.Request.Context(), id); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
