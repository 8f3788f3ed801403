package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/safar/petshop/internal/database"
	"github.com/safar/petshop/internal/models"
	"github.com/shopspring/decimal"
)

type CreateOrderParams struct {
	UserID      int64
	Status      models.OrderStatus
	TotalAmount decimal.Decimal
	Phone       string
	Address     string
	Comment     string
	Items       []OrderItemParams
}

type OrderItemParams struct {
	ProductID   int64
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
}

// CreateOrder inserts the order row and its items. Call it inside a transaction.
func CreateOrder(ctx context.Context, tx *sql.Tx, p CreateOrderParams) (int64, error) {
	var orderID int64
	err := tx.QueryRowContext(ctx,
		`INSERT INTO orders (user_id, status, total_amount, phone, address, comment, created_at, updated_at, version)
		 VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW(), 1)
		 RETURNING id`,
		p.UserID, p.Status, p.TotalAmount, p.Phone, p.Address, p.Comment).Scan(&orderID)
	if err != nil {
		return 0, fmt.Errorf("create order: %w", err)
	}

	for _, item := range p.Items {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO order_items (order_id, product_id, product_name, quantity, unit_price, subtotal, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, NOW())`,
			orderID, item.ProductID, item.ProductName, item.Quantity, item.UnitPrice, item.Subtotal)
		if err != nil {
			return 0, fmt.Errorf("create order item: %w", err)
		}
	}

	return orderID, nil
}

const orderSelect = `
		SELECT o.id, o.user_id, u.email, o.status, o.total_amount, o.phone, o.address, o.comment,
		       o.created_at, o.updated_at, o.version
		FROM orders o
		JOIN users u ON u.id = o.user_id`

func scanOrder(row interface{ Scan(...interface{}) error }, order *models.Order) error {
	return row.Scan(
		&order.ID,
		&order.UserID,
		&order.UserEmail,
		&order.Status,
		&order.TotalAmount,
		&order.Phone,
		&order.Address,
		&order.Comment,
		&order.CreatedAt,
		&order.UpdatedAt,
		&order.Version,
	)
}

func GetOrder(ctx context.Context, q database.Querier, id int64) (*models.Order, error) {
	order := &models.Order{}

	if err := scanOrder(q.QueryRowContext(ctx, orderSelect+` WHERE o.id = $1`, id), order); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, database.ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	orders := []models.Order{*order}
	if err := attachOrderItems(ctx, q, orders); err != nil {
		return nil, err
	}

	return &orders[0], nil
}

// ListOrdersByUser returns the user's orders, newest first, with items.
func ListOrdersByUser(ctx context.Context, q database.Querier, userID int64) ([]models.Order, error) {
	return listOrders(ctx, q, orderSelect+` WHERE o.user_id = $1 ORDER BY o.created_at DESC, o.id DESC`, userID)
}

func ListAllOrders(ctx context.Context, q database.Querier) ([]models.Order, error) {
	return listOrders(ctx, q, orderSelect+` ORDER BY o.created_at DESC, o.id DESC`)
}

func listOrders(ctx context.Context, q database.Querier, query string, args ...interface{}) ([]models.Order, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		var order models.Order
		if err := scanOrder(rows, &order); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	if err := attachOrderItems(ctx, q, orders); err != nil {
		return nil, err
	}

	return orders, nil
}

// attachOrderItems loads the items of every order with a single query.
func attachOrderItems(ctx context.Context, q database.Querier, orders []models.Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]int64, len(orders))
	index := make(map[int64]int, len(orders))
	for i := range orders {
		ids[i] = orders[i].ID
		index[orders[i].ID] = i
		orders[i].Items = []models.OrderItem{}
	}

	rows, err := q.QueryContext(ctx,
		`SELECT id, order_id, product_id, product_name, quantity, unit_price, subtotal, created_at
		 FROM order_items
		 WHERE order_id = ANY($1)
		 ORDER BY order_id, id`,
		pq.Array(ids))
	if err != nil {
		return fmt.Errorf("get order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.OrderItem
		var productID sql.NullInt64
		err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&productID,
			&item.ProductName,
			&item.Quantity,
			&item.UnitPrice,
			&item.Subtotal,
			&item.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("scan order item: %w", err)
		}
		if productID.Valid {
			id := productID.Int64
			item.ProductID = &id
		}
		i := index[item.OrderID]
		orders[i].Items = append(orders[i].Items, item)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("rows error: %w", err)
	}

	return nil
}

func UpdateOrderStatus(ctx context.Context, q database.Querier, id int64, status models.OrderStatus) error {
	result, err := q.ExecContext(ctx,
		`UPDATE orders
		 SET status = $1, updated_at = NOW(), version = version + 1
		 WHERE id = $2`,
		status, id)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	return requireRow(result, database.ErrOrderNotFound)
}

// DeleteOrder removes the order; its items go with it via ON DELETE CASCADE.
func DeleteOrder(ctx context.Context, q database.Querier, id int64) error {
	result, err := q.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	return requireRow(result, database.ErrOrderNotFound)
}
