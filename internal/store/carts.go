package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/safar/petshop/internal/database"
	"github.com/safar/petshop/internal/models"
)

// GetOrCreateCart returns the user's cart, inserting an empty one if the user has none.
func GetOrCreateCart(ctx context.Context, q database.Querier, userID int64) (*models.Cart, bool, error) {
	cart := &models.Cart{}

	err := q.QueryRowContext(ctx,
		`INSERT INTO carts (user_id, created_at) VALUES ($1, NOW())
		 ON CONFLICT (user_id) DO NOTHING
		 RETURNING id, user_id, created_at`,
		userID).Scan(&cart.ID, &cart.UserID, &cart.CreatedAt)
	if err == nil {
		return cart, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, fmt.Errorf("create cart: %w", err)
	}

	cart, err = GetCartByUser(ctx, q, userID)
	if err != nil {
		return nil, false, err
	}
	return cart, false, nil
}

func GetCartByUser(ctx context.Context, q database.Querier, userID int64) (*models.Cart, error) {
	cart := &models.Cart{}

	err := q.QueryRowContext(ctx,
		`SELECT id, user_id, created_at FROM carts WHERE user_id = $1`,
		userID).Scan(&cart.ID, &cart.UserID, &cart.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, database.ErrCartNotFound
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}

	return cart, nil
}

// ListCartItems returns the cart's lines in insertion order, joined with the
// current product name, image and price.
func ListCartItems(ctx context.Context, q database.Querier, cartID int64) ([]models.CartItem, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT ci.id, ci.cart_id, ci.product_id, p.name, p.image_url, p.price, ci.quantity, ci.created_at
		 FROM cart_items ci
		 JOIN products p ON p.id = ci.product_id
		 WHERE ci.cart_id = $1
		 ORDER BY ci.id`,
		cartID)
	if err != nil {
		return nil, fmt.Errorf("list cart items: %w", err)
	}
	defer rows.Close()

	items := []models.CartItem{}
	for rows.Next() {
		var item models.CartItem
		err := rows.Scan(
			&item.ID,
			&item.CartID,
			&item.ProductID,
			&item.ProductName,
			&item.ImageURL,
			&item.UnitPrice,
			&item.Quantity,
			&item.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return items, nil
}

// IncrementCartItem adds quantity to the (cart, product) line, creating it
// if missing, and returns the resulting quantity.
func IncrementCartItem(ctx context.Context, q database.Querier, cartID, productID int64, quantity int) (int, error) {
	var newQuantity int

	err := q.QueryRowContext(ctx,
		`INSERT INTO cart_items (cart_id, product_id, quantity, created_at)
		 VALUES ($1, $2, $3, NOW())
		 ON CONFLICT (cart_id, product_id)
		 DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
		 RETURNING quantity`,
		cartID, productID, quantity).Scan(&newQuantity)
	if err != nil {
		return 0, fmt.Errorf("increment cart item: %w", err)
	}

	return newQuantity, nil
}

func SetCartItemQuantity(ctx context.Context, q database.Querier, cartID, productID int64, quantity int) error {
	result, err := q.ExecContext(ctx,
		`UPDATE cart_items SET quantity = $1 WHERE cart_id = $2 AND product_id = $3`,
		quantity, cartID, productID)
	if err != nil {
		return fmt.Errorf("set cart item quantity: %w", err)
	}
	return requireRow(result, database.ErrCartItemNotFound)
}

func DeleteCartItem(ctx context.Context, q database.Querier, cartID, productID int64) error {
	result, err := q.ExecContext(ctx,
		`DELETE FROM cart_items WHERE cart_id = $1 AND product_id = $2`,
		cartID, productID)
	if err != nil {
		return fmt.Errorf("delete cart item: %w", err)
	}
	return requireRow(result, database.ErrCartItemNotFound)
}

func ClearCartItems(ctx context.Context, q database.Querier, cartID int64) (int64, error) {
	result, err := q.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID)
	if err != nil {
		return 0, fmt.Errorf("clear cart: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("get rows affected: %w", err)
	}
	return rowsAffected, nil
}

func requireRow(result sql.Result, notFound error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return notFound
	}
	return nil
}
