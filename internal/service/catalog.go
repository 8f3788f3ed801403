package service

import (
	"context"
	"database/sql"
	"strings"

	"github.com/safar/petshop/internal/database"
	"github.com/safar/petshop/internal/logger"
	"github.com/safar/petshop/internal/models"
	"github.com/safar/petshop/internal/store"
	"github.com/shopspring/decimal"
)

type CategoryRequest struct {
	Name string `json:"name"`
}

type ProductRequest struct {
	CategoryID  int64           `json:"categoryId"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"imageUrl"`
	Stock       int             `json:"stock"`
}

func (r ProductRequest) params() (store.ProductParams, error) {
	name := strings.TrimSpace(r.Name)
	switch {
	case name == "":
		return store.ProductParams{}, invalidInput("product name is required")
	case r.CategoryID <= 0:
		return store.ProductParams{}, invalidInput("categoryId is required")
	case r.Price.IsNegative():
		return store.ProductParams{}, invalidInput("price must not be negative")
	case r.Stock < 0:
		return store.ProductParams{}, invalidInput("stock must not be negative")
	case int64(r.Stock) > maxQuantity:
		return store.ProductParams{}, invalidInput("stock must not exceed %d", maxQuantity)
	}
	if err := checkAmount("price", r.Price); err != nil {
		return store.ProductParams{}, err
	}

	return store.ProductParams{
		CategoryID:  r.CategoryID,
		Name:        name,
		Description: r.Description,
		Price:       r.Price,
		ImageURL:    r.ImageURL,
		Stock:       r.Stock,
	}, nil
}

type CatalogService struct {
	db  *sql.DB
	log *logger.Logger
}

func NewCatalogService(db *sql.DB, log *logger.Logger) *CatalogService {
	return &CatalogService{db: db, log: log.With("service", "CatalogService")}
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return store.ListCategories(ctx, s.db)
}

func (s *CatalogService) CreateCategory(ctx context.Context, req CategoryRequest) (*models.Category, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, invalidInput("category name is required")
	}

	category, err := store.CreateCategory(ctx, s.db, name)
	if err != nil {
		return nil, err
	}
	s.log.Info("category created", "category_id", category.ID, "name", category.Name)
	return category, nil
}

// DeleteCategory fails with ErrCategoryInUse while products still reference it.
func (s *CatalogService) DeleteCategory(ctx context.Context, id int64) error {
	if err := store.DeleteCategory(ctx, s.db, id); err != nil {
		return err
	}
	s.log.Info("category deleted", "category_id", id)
	return nil
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]models.Product, error) {
	return store.ListProducts(ctx, s.db, store.ProductFilter{})
}

func (s *CatalogService) ListProductsPage(ctx context.Context, page, pageSize int) (*store.OffsetPage, error) {
	page, pageSize = store.NormalizePage(page, pageSize)
	return store.ListProductsPage(ctx, s.db, page, pageSize)
}

// SearchProducts matches name case-insensitively as a substring. A blank
// name returns the whole catalog.
func (s *CatalogService) SearchProducts(ctx context.Context, name string) ([]models.Product, error) {
	return store.ListProducts(ctx, s.db, store.ProductFilter{NameContains: name})
}

func (s *CatalogService) ProductsByCategory(ctx context.Context, categoryID int64) ([]models.Product, error) {
	var products []models.Product
	err := database.WithTransaction(ctx, s.db, database.ReadOnlyTxOptions(), func(tx *sql.Tx) error {
		if _, err := store.GetCategory(ctx, tx, categoryID); err != nil {
			return err
		}
		var err error
		products, err = store.ListProducts(ctx, tx, store.ProductFilter{CategoryID: categoryID})
		return err
	})
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	return store.GetProduct(ctx, s.db, id)
}

func (s *CatalogService) CreateProduct(ctx context.Context, req ProductRequest) (*models.Product, error) {
	params, err := req.params()
	if err != nil {
		return nil, err
	}

	product, err := store.CreateProduct(ctx, s.db, params)
	if err != nil {
		return nil, err
	}
	s.log.Info("product created", "product_id", product.ID, "category_id", product.CategoryID)
	return product, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id int64, req ProductRequest) (*models.Product, error) {
	params, err := req.params()
	if err != nil {
		return nil, err
	}

	product, err := store.UpdateProduct(ctx, s.db, id, params)
	if err != nil {
		return nil, err
	}
	s.log.Info("product updated", "product_id", id)
	return product, nil
}

// DeleteProduct removes the product along with any cart and wishlist lines
// pointing at it. Placed orders keep their copied name and price.
func (s *CatalogService) DeleteProduct(ctx context.Context, id int64) error {
	if err := store.DeleteProduct(ctx, s.db, id); err != nil {
		return err
	}
	s.log.Info("product deleted", "product_id", id)
	return nil
}
