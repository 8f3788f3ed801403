package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/safar/petshop/internal/database"
	"github.com/safar/petshop/internal/models"
	"github.com/safar/petshop/internal/store"
	"github.com/shopspring/decimal"
)

var (
	ErrPermissionDenied   = errors.New("permission denied")
	ErrUnauthenticated    = errors.New("not authenticated")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidInput       = errors.New("invalid input")
)

func invalidInput(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// Quantities are stored as INT, prices and totals as NUMERIC(12,2).
const maxQuantity = math.MaxInt32

var maxAmount = decimal.New(1, 10)

func checkQuantity(productID int64, quantity int) error {
	if quantity <= 0 {
		return invalidInput("quantity for product %d must be positive", productID)
	}
	if int64(quantity) > maxQuantity {
		return invalidInput("quantity for product %d must not exceed %d", productID, maxQuantity)
	}
	return nil
}

func checkAmount(what string, amount decimal.Decimal) error {
	if amount.Round(2).GreaterThanOrEqual(maxAmount) {
		return invalidInput("%s must be less than %s", what, maxAmount.String())
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// resolveUser maps the caller's identity to a stored user. An empty email
// means the caller was never authenticated.
func resolveUser(ctx context.Context, q database.Querier, email string) (*models.User, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, ErrUnauthenticated
	}
	return store.GetUserByEmail(ctx, q, email)
}
