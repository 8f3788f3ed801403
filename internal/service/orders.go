package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/safar/petshop/internal/database"
	"github.com/safar/petshop/internal/logger"
	"github.com/safar/petshop/internal/models"
	"github.com/safar/petshop/internal/store"
	"github.com/shopspring/decimal"
)

type OrderLine struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

type PlaceOrderRequest struct {
	Items   []OrderLine `json:"items"`
	Phone   string      `json:"phone"`
	Address string      `json:"address"`
	Comment string      `json:"comment"`
}

type OrderItemResponse struct {
	ProductID   *int64          `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

type OrderResponse struct {
	ID          int64               `json:"id"`
	Status      models.OrderStatus  `json:"status"`
	CreatedAt   time.Time           `json:"createdAt"`
	TotalAmount decimal.Decimal     `json:"totalAmount"`
	Items       []OrderItemResponse `json:"items"`
	UserEmail   string              `json:"userEmail,omitempty"`
	Phone       string              `json:"phone"`
	Address     string              `json:"address"`
	Comment     string              `json:"comment"`
}

func newOrderResponse(order *models.Order, withEmail bool) OrderResponse {
	resp := OrderResponse{
		ID:          order.ID,
		Status:      order.Status,
		CreatedAt:   order.CreatedAt,
		TotalAmount: order.TotalAmount,
		Items:       make([]OrderItemResponse, 0, len(order.Items)),
		Phone:       order.Phone,
		Address:     order.Address,
		Comment:     order.Comment,
	}
	if withEmail {
		resp.UserEmail = order.UserEmail
	}
	for _, item := range order.Items {
		resp.Items = append(resp.Items, OrderItemResponse{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       item.UnitPrice,
			Subtotal:    item.Subtotal,
		})
	}
	return resp
}

func newOrderResponses(orders []models.Order, withEmail bool) []OrderResponse {
	resp := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		resp = append(resp, newOrderResponse(&orders[i], withEmail))
	}
	return resp
}

type OrderService struct {
	db  *sql.DB
	log *logger.Logger
}

func NewOrderService(db *sql.DB, log *logger.Logger) *OrderService {
	return &OrderService{db: db, log: log.With("service", "OrderService")}
}

// PlaceOrder creates a CREATED order from req. Product names and prices are
// copied into the order lines, so later catalog edits leave the order
// untouched. Any missing product aborts the whole order.
func (s *OrderService) PlaceOrder(ctx context.Context, email string, req PlaceOrderRequest) (*OrderResponse, error) {
	if len(req.Items) == 0 {
		return nil, invalidInput("order must contain at least one item")
	}
	for _, line := range req.Items {
		if err := checkQuantity(line.ProductID, line.Quantity); err != nil {
			return nil, err
		}
	}

	var order *models.Order
	err := database.WithRetry(ctx, s.db, database.DefaultTxOptions(), func(tx *sql.Tx) error {
		user, err := resolveUser(ctx, tx, email)
		if err != nil {
			return err
		}

		params := store.CreateOrderParams{
			UserID:      user.ID,
			Status:      models.OrderStatusCreated,
			TotalAmount: decimal.Zero,
			Phone:       req.Phone,
			Address:     req.Address,
			Comment:     req.Comment,
			Items:       make([]store.OrderItemParams, 0, len(req.Items)),
		}

		for _, line := range req.Items {
			product, err := store.LockProduct(ctx, tx, line.ProductID)
			if err != nil {
				return err
			}

			subtotal := models.LineTotal(product.Price, line.Quantity)
			if err := checkAmount(fmt.Sprintf("subtotal for product %d", product.ID), subtotal); err != nil {
				return err
			}
			params.Items = append(params.Items, store.OrderItemParams{
				ProductID:   product.ID,
				ProductName: product.Name,
				Quantity:    line.Quantity,
				UnitPrice:   product.Price,
				Subtotal:    subtotal,
			})
			params.TotalAmount = params.TotalAmount.Add(subtotal)
		}
		if err := checkAmount("order total", params.TotalAmount); err != nil {
			return err
		}

		orderID, err := store.CreateOrder(ctx, tx, params)
		if err != nil {
			return err
		}

		order, err = store.GetOrder(ctx, tx, orderID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("order placed", "order_id", order.ID, "items", len(order.Items), "total", order.TotalAmount.String())
	resp := newOrderResponse(order, true)
	return &resp, nil
}

// GetOrderByID returns an order owned by the caller.
func (s *OrderService) GetOrderByID(ctx context.Context, id int64, email string) (*OrderResponse, error) {
	var order *models.Order
	err := database.WithTransaction(ctx, s.db, database.ReadOnlyTxOptions(), func(tx *sql.Tx) error {
		user, err := resolveUser(ctx, tx, email)
		if err != nil {
			return err
		}

		order, err = store.GetOrder(ctx, tx, id)
		if err != nil {
			return err
		}
		if order.UserID != user.ID {
			return ErrPermissionDenied
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := newOrderResponse(order, true)
	return &resp, nil
}

// GetUserOrders lists the caller's orders, newest first.
func (s *OrderService) GetUserOrders(ctx context.Context, email string) ([]OrderResponse, error) {
	var orders []models.Order
	err := database.WithTransaction(ctx, s.db, database.ReadOnlyTxOptions(), func(tx *sql.Tx) error {
		user, err := resolveUser(ctx, tx, email)
		if err != nil {
			return err
		}
		orders, err = store.ListOrdersByUser(ctx, tx, user.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return newOrderResponses(orders, false), nil
}

func (s *OrderService) GetAllOrders(ctx context.Context) ([]OrderResponse, error) {
	orders, err := store.ListAllOrders(ctx, s.db)
	if err != nil {
		return nil, err
	}
	return newOrderResponses(orders, true), nil
}

func (s *OrderService) GetOrderForAdmin(ctx context.Context, id int64) (*OrderResponse, error) {
	order, err := store.GetOrder(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	resp := newOrderResponse(order, true)
	return &resp, nil
}

// UpdateOrderStatus accepts any known status regardless of the current one.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, id int64, rawStatus string) (*OrderResponse, error) {
	status, err := models.ParseOrderStatus(rawStatus)
	if err != nil {
		return nil, invalidInput("%v", err)
	}

	var order *models.Order
	err = database.WithTransaction(ctx, s.db, database.DefaultTxOptions(), func(tx *sql.Tx) error {
		if err := store.UpdateOrderStatus(ctx, tx, id, status); err != nil {
			return err
		}
		var err error
		order, err = store.GetOrder(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("order status updated", "order_id", id, "status", status)
	resp := newOrderResponse(order, true)
	return &resp, nil
}

func (s *OrderService) Delete(ctx context.Context, id int64) error {
	if err := store.DeleteOrder(ctx, s.db, id); err != nil {
		return err
	}
	s.log.Info("order deleted", "order_id", id)
	return nil
}
