package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/safar/petshop/internal/database"
	"github.com/safar/petshop/internal/models"
)

func GetOrCreateWishlist(ctx context.Context, q database.Querier, userID int64) (*models.Wishlist, bool, error) {
	wishlist := &models.Wishlist{}

	err := q.QueryRowContext(ctx,
		`INSERT INTO wishlists (user_id, created_at) VALUES ($1, NOW())
		 ON CONFLICT (user_id) DO NOTHING
		 RETURNING id, user_id, created_at`,
		userID).Scan(&wishlist.ID, &wishlist.UserID, &wishlist.CreatedAt)
	if err == nil {
		return wishlist, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, fmt.Errorf("create wishlist: %w", err)
	}

	err = q.QueryRowContext(ctx,
		`SELECT id, user_id, created_at FROM wishlists WHERE user_id = $1`,
		userID).Scan(&wishlist.ID, &wishlist.UserID, &wishlist.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, database.ErrWishlistNotFound
		}
		return nil, false, fmt.Errorf("get wishlist: %w", err)
	}

	return wishlist, false, nil
}

func ListWishlistProducts(ctx context.Context, q database.Querier, wishlistID int64) ([]models.Product, error) {
	rows, err := q.QueryContext(ctx,
		productSelect+`
		JOIN wishlist_items wi ON wi.product_id = p.id
		WHERE wi.wishlist_id = $1
		ORDER BY wi.id`,
		wishlistID)
	if err != nil {
		return nil, fmt.Errorf("list wishlist products: %w", err)
	}
	defer rows.Close()

	return collectProducts(rows)
}

func WishlistContains(ctx context.Context, q database.Querier, wishlistID, productID int64) (bool, error) {
	var exists bool
	err := q.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM wishlist_items WHERE wishlist_id = $1 AND product_id = $2)`,
		wishlistID, productID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check wishlist item: %w", err)
	}
	return exists, nil
}

func AddWishlistItem(ctx context.Context, q database.Querier, wishlistID, productID int64) error {
	_, err := q.ExecContext(ctx,
		`INSERT INTO wishlist_items (wishlist_id, product_id, created_at)
		 VALUES ($1, $2, NOW())
		 ON CONFLICT (wishlist_id, product_id) DO NOTHING`,
		wishlistID, productID)
	if err != nil {
		return fmt.Errorf("add wishlist item: %w", err)
	}
	return nil
}

// RemoveWishlistItem reports whether a row was deleted.
func RemoveWishlistItem(ctx context.Context, q database.Querier, wishlistID, productID int64) (bool, error) {
	result, err := q.ExecContext(ctx,
		`DELETE FROM wishlist_items WHERE wishlist_id = $1 AND product_id = $2`,
		wishlistID, productID)
	if err != nil {
		return false, fmt.Errorf("remove wishlist item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("get rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

func ClearWishlist(ctx context.Context, q database.Querier, wishlistID int64) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM wishlist_items WHERE wishlist_id = $1`, wishlistID); err != nil {
		return fmt.Errorf("clear wishlist: %w", err)
	}
	return nil
}
