package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/safar/petshop/internal/database"
	"github.com/safar/petshop/internal/logger"
	"github.com/safar/petshop/internal/models"
	"github.com/safar/petshop/internal/store"
	"github.com/shopspring/decimal"
)

type CartItemResponse struct {
	ProductID    int64           `json:"productId"`
	ProductName  string          `json:"productName"`
	ImageURL     string          `json:"imageUrl"`
	Quantity     int             `json:"quantity"`
	PricePerUnit decimal.Decimal `json:"pricePerUnit"`
}

type CartResponse struct {
	Items      []CartItemResponse `json:"items"`
	TotalPrice decimal.Decimal    `json:"totalPrice"`
}

type CartService struct {
	db  *sql.DB
	log *logger.Logger
}

func NewCartService(db *sql.DB, log *logger.Logger) *CartService {
	return &CartService{db: db, log: log.With("service", "CartService")}
}

// AddItem adds quantity to the caller's line for productID, creating the cart
// and the line as needed. It returns the line's new quantity.
func (s *CartService) AddItem(ctx context.Context, email string, productID int64, quantity int) (int, error) {
	if err := checkQuantity(productID, quantity); err != nil {
		return 0, err
	}

	var newQuantity int
	err := database.WithTransaction(ctx, s.db, database.DefaultTxOptions(), func(tx *sql.Tx) error {
		user, err := resolveUser(ctx, tx, email)
		if err != nil {
			return err
		}

		cart, _, err := store.GetOrCreateCart(ctx, tx, user.ID)
		if err != nil {
			return err
		}

		exists, err := store.ProductExists(ctx, tx, productID)
		if err != nil {
			return err
		}
		if !exists {
			return database.ErrProductNotFound
		}

		newQuantity, err = store.IncrementCartItem(ctx, tx, cart.ID, productID, quantity)
		switch {
		case database.IsForeignKeyViolation(err, ""):
			return database.ErrProductNotFound
		case database.IsOutOfRange(err):
			return invalidInput("quantity for product %d must not exceed %d", productID, maxQuantity)
		}
		return err
	})
	if err != nil {
		return 0, err
	}

	s.log.Debug("cart item added", "product_id", productID, "quantity", newQuantity)
	return newQuantity, nil
}

// UpdateQuantity overwrites the quantity of an existing cart line.
func (s *CartService) UpdateQuantity(ctx context.Context, email string, productID int64, quantity int) error {
	if err := checkQuantity(productID, quantity); err != nil {
		return err
	}

	return database.WithTransaction(ctx, s.db, database.DefaultTxOptions(), func(tx *sql.Tx) error {
		cart, err := s.existingCart(ctx, tx, email, productID)
		if err != nil {
			return err
		}
		return store.SetCartItemQuantity(ctx, tx, cart.ID, productID, quantity)
	})
}

func (s *CartService) RemoveItem(ctx context.Context, email string, productID int64) error {
	return database.WithTransaction(ctx, s.db, database.DefaultTxOptions(), func(tx *sql.Tx) error {
		cart, err := s.existingCart(ctx, tx, email, productID)
		if err != nil {
			return err
		}
		return store.DeleteCartItem(ctx, tx, cart.ID, productID)
	})
}

// existingCart resolves the caller's cart without creating it and checks that
// productID still exists.
func (s *CartService) existingCart(ctx context.Context, q database.Querier, email string, productID int64) (*models.Cart, error) {
	user, err := resolveUser(ctx, q, email)
	if err != nil {
		return nil, err
	}

	cart, err := store.GetCartByUser(ctx, q, user.ID)
	if err != nil {
		return nil, err
	}

	exists, err := store.ProductExists(ctx, q, productID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, database.ErrProductNotFound
	}

	return cart, nil
}

// Clear deletes every line of the caller's cart. A user without a cart has
// nothing to clear.
func (s *CartService) Clear(ctx context.Context, email string) error {
	return database.WithTransaction(ctx, s.db, database.DefaultTxOptions(), func(tx *sql.Tx) error {
		user, err := resolveUser(ctx, tx, email)
		if err != nil {
			return err
		}

		cart, err := store.GetCartByUser(ctx, tx, user.ID)
		if errors.Is(err, database.ErrCartNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		removed, err := store.ClearCartItems(ctx, tx, cart.ID)
		if err != nil {
			return err
		}
		s.log.Debug("cart cleared", "cart_id", cart.ID, "removed", removed)
		return nil
	})
}

// GetOrCreateCart returns the caller's cart, creating an empty one on first
// access. created reports whether that happened.
func (s *CartService) GetOrCreateCart(ctx context.Context, email string) (resp *CartResponse, created bool, err error) {
	err = database.WithTransaction(ctx, s.db, database.DefaultTxOptions(), func(tx *sql.Tx) error {
		user, err := resolveUser(ctx, tx, email)
		if err != nil {
			return err
		}

		cart, isNew, err := store.GetOrCreateCart(ctx, tx, user.ID)
		if err != nil {
			return err
		}
		created = isNew

		items, err := store.ListCartItems(ctx, tx, cart.ID)
		if err != nil {
			return err
		}
		resp = newCartResponse(items)
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return resp, created, nil
}

// EmptyCartResponse is the view of a cart with no lines.
func EmptyCartResponse() *CartResponse {
	return newCartResponse(nil)
}

func newCartResponse(items []models.CartItem) *CartResponse {
	resp := &CartResponse{
		Items:      make([]CartItemResponse, 0, len(items)),
		TotalPrice: decimal.Zero,
	}
	for _, item := range items {
		resp.Items = append(resp.Items, CartItemResponse{
			ProductID:    item.ProductID,
			ProductName:  item.ProductName,
			ImageURL:     item.ImageURL,
			Quantity:     item.Quantity,
			PricePerUnit: item.UnitPrice,
		})
		resp.TotalPrice = resp.TotalPrice.Add(models.LineTotal(item.UnitPrice, item.Quantity))
	}
	return resp
}
