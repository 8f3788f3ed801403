package service

import (
	"context"
	"database/sql"

	"github.com/safar/petshop/internal/database"
	"github.com/safar/petshop/internal/logger"
	"github.com/safar/petshop/internal/models"
	"github.com/safar/petshop/internal/store"
)

type WishlistService struct {
	db  *sql.DB
	log *logger.Logger
}

func NewWishlistService(db *sql.DB, log *logger.Logger) *WishlistService {
	return &WishlistService{db: db, log: log.With("service", "WishlistService")}
}

// withWishlist runs fn in a transaction with the caller's wishlist, creating
// the wishlist if the caller has none yet.
func (s *WishlistService) withWishlist(ctx context.Context, email string, fn func(tx *sql.Tx, w *models.Wishlist, created bool) error) error {
	return database.WithTransaction(ctx, s.db, database.DefaultTxOptions(), func(tx *sql.Tx) error {
		user, err := resolveUser(ctx, tx, email)
		if err != nil {
			return err
		}

		wishlist, created, err := store.GetOrCreateWishlist(ctx, tx, user.ID)
		if err != nil {
			return err
		}
		return fn(tx, wishlist, created)
	})
}

// GetOrCreateList returns the products on the caller's wishlist and whether
// the wishlist was created by this call.
func (s *WishlistService) GetOrCreateList(ctx context.Context, email string) ([]models.Product, bool, error) {
	var products []models.Product
	var created bool
	err := s.withWishlist(ctx, email, func(tx *sql.Tx, w *models.Wishlist, isNew bool) error {
		created = isNew
		var err error
		products, err = store.ListWishlistProducts(ctx, tx, w.ID)
		return err
	})
	if err != nil {
		return nil, false, err
	}
	return products, created, nil
}

// Add is idempotent: adding a product already on the list changes nothing.
func (s *WishlistService) Add(ctx context.Context, email string, productID int64) error {
	return s.withWishlist(ctx, email, func(tx *sql.Tx, w *models.Wishlist, _ bool) error {
		exists, err := store.ProductExists(ctx, tx, productID)
		if err != nil {
			return err
		}
		if !exists {
			return database.ErrProductNotFound
		}

		present, err := store.WishlistContains(ctx, tx, w.ID, productID)
		if err != nil || present {
			return err
		}

		if err := store.AddWishlistItem(ctx, tx, w.ID, productID); err != nil {
			if database.IsForeignKeyViolation(err, "") {
				return database.ErrProductNotFound
			}
			return err
		}
		s.log.Debug("wishlist item added", "wishlist_id", w.ID, "product_id", productID)
		return nil
	})
}

func (s *WishlistService) Remove(ctx context.Context, email string, productID int64) error {
	return s.withWishlist(ctx, email, func(tx *sql.Tx, w *models.Wishlist, _ bool) error {
		_, err := store.RemoveWishlistItem(ctx, tx, w.ID, productID)
		return err
	})
}

func (s *WishlistService) Contains(ctx context.Context, email string, productID int64) (bool, error) {
	var present bool
	err := s.withWishlist(ctx, email, func(tx *sql.Tx, w *models.Wishlist, _ bool) error {
		var err error
		present, err = store.WishlistContains(ctx, tx, w.ID, productID)
		return err
	})
	return present, err
}

func (s *WishlistService) Clear(ctx context.Context, email string) error {
	return s.withWishlist(ctx, email, func(tx *sql.Tx, w *models.Wishlist, _ bool) error {
		return store.ClearWishlist(ctx, tx, w.ID)
	})
}
