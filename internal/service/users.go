package service

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/safar/petshop/internal/database"
	"github.com/safar/petshop/internal/logger"
	"github.com/safar/petshop/internal/models"
	"github.com/safar/petshop/internal/store"
	"github.com/shopspring/decimal"
)

type UpdateProfileRequest struct {
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
}

type ProductShortResponse struct {
	ID       *int64          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

type OrderSummary struct {
	ID          int64                  `json:"id"`
	Status      models.OrderStatus     `json:"status"`
	CreatedAt   time.Time              `json:"createdAt"`
	TotalAmount decimal.Decimal        `json:"totalAmount"`
	Products    []ProductShortResponse `json:"products"`
}

type UserService struct {
	db  *sql.DB
	log *logger.Logger
}

func NewUserService(db *sql.DB, log *logger.Logger) *UserService {
	return &UserService{db: db, log: log.With("service", "UserService")}
}

func (s *UserService) Me(ctx context.Context, email string) (*models.User, error) {
	return resolveUser(ctx, s.db, email)
}

// UpdateProfile overwrites the caller's contact details. Blank fields keep
// their stored value. Changing the email invalidates the caller's token.
func (s *UserService) UpdateProfile(ctx context.Context, email string, req UpdateProfileRequest) (*models.User, error) {
	var updated *models.User
	err := database.WithTransaction(ctx, s.db, database.DefaultTxOptions(), func(tx *sql.Tx) error {
		user, err := resolveUser(ctx, tx, email)
		if err != nil {
			return err
		}

		params := store.UpdateProfileParams{
			Email:    keep(normalizeEmail(req.Email), user.Email),
			FullName: keep(req.FullName, user.FullName),
			Address:  keep(req.Address, user.Address),
			Phone:    keep(req.Phone, user.Phone),
		}

		updated, err = store.UpdateUserProfile(ctx, tx, user.ID, params)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("profile updated", "user_id", updated.ID)
	return updated, nil
}

func keep(value, current string) string {
	if strings.TrimSpace(value) == "" {
		return current
	}
	return strings.TrimSpace(value)
}

// OrderSummaries lists the caller's orders in the compact profile shape.
func (s *UserService) OrderSummaries(ctx context.Context, email string) ([]OrderSummary, error) {
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

	summaries := make([]OrderSummary, 0, len(orders))
	for _, order := range orders {
		summary := OrderSummary{
			ID:          order.ID,
			Status:      order.Status,
			CreatedAt:   order.CreatedAt,
			TotalAmount: order.TotalAmount,
			Products:    make([]ProductShortResponse, 0, len(order.Items)),
		}
		for _, item := range order.Items {
			summary.Products = append(summary.Products, ProductShortResponse{
				ID:       item.ProductID,
				Name:     item.ProductName,
				Price:    item.UnitPrice,
				Quantity: item.Quantity,
			})
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}
