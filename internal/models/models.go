package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"fullName"`
	Address      string    `json:"address"`
	Phone        string    `json:"phone"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	Version      int       `json:"-"`
}

type Category struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"-"`
}

type Product struct {
	ID          int64           `json:"id"`
	CategoryID  int64           `json:"categoryId"`
	Category    *Category       `json:"category,omitempty"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"imageUrl"`
	Stock       int             `json:"stock"`
	CreatedAt   time.Time       `json:"-"`
	UpdatedAt   time.Time       `json:"-"`
	Version     int             `json:"-"`
}

type Cart struct {
	ID        int64
	UserID    int64
	CreatedAt time.Time
	Items     []CartItem
}

// CartItem is a cart line joined with the live product it refers to.
type CartItem struct {
	ID          int64
	CartID      int64
	ProductID   int64
	ProductName string
	ImageURL    string
	UnitPrice   decimal.Decimal
	Quantity    int
	CreatedAt   time.Time
}

type Wishlist struct {
	ID        int64
	UserID    int64
	CreatedAt time.Time
}

type Order struct {
	ID          int64
	UserID      int64
	UserEmail   string
	Status      OrderStatus
	TotalAmount decimal.Decimal
	Phone       string
	Address     string
	Comment     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Version     int
	Items       []OrderItem
}

// OrderItem keeps the product name and unit price as they were at checkout.
// ProductID is nil once the product has been deleted from the catalog.
type OrderItem struct {
	ID          int64
	OrderID     int64
	ProductID   *int64
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
	CreatedAt   time.Time
}

// LineTotal returns price × quantity.
func LineTotal(price decimal.Decimal, quantity int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(quantity)))
}
