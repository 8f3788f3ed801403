package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/safar/petshop/internal/auth"
	"github.com/safar/petshop/internal/database"
	"github.com/safar/petshop/internal/database/dbtest"
	"github.com/safar/petshop/internal/logger"
	"github.com/safar/petshop/internal/models"
	"github.com/shopspring/decimal"
)

const (
	aliceEmail = "alice@shop.test"
	bobEmail   = "bob@shop.test"
)

type fixture struct {
	db       *sql.DB
	auth     *AuthService
	catalog  *CatalogService
	carts    *CartService
	wishlist *WishlistService
	orders   *OrderService
	users    *UserService

	category *models.Category
	productA *models.Product
	productB *models.Product
}

// newFixture registers alice and bob and seeds two products priced 10.00 and 25.00.
func newFixture(t *testing.T) (*fixture, func()) {
	t.Helper()
	db, cleanup := dbtest.Setup(t)

	log := logger.NewNop()
	tokens := auth.NewTokenIssuer("integration-secret-123", "petshop", time.Hour)

	f := &fixture{
		db:       db,
		auth:     NewAuthService(db, tokens, nil, log),
		catalog:  NewCatalogService(db, log),
		carts:    NewCartService(db, log),
		wishlist: NewWishlistService(db, log),
		orders:   NewOrderService(db, log),
		users:    NewUserService(db, log),
	}

	ctx := context.Background()
	for _, email := range []string{aliceEmail, bobEmail} {
		if _, err := f.auth.Register(ctx, RegisterRequest{Email: email, Password: "password1", Name: "Test"}); err != nil {
			t.Fatalf("Register %s: %v", email, err)
		}
	}

	var err error
	f.category, err = f.catalog.CreateCategory(ctx, CategoryRequest{Name: "Dogs"})
	if err != nil {
		t.Fatalf("Create category: %v", err)
	}
	f.productA = f.seedProduct(t, "Chew Toy", "10.00")
	f.productB = f.seedProduct(t, "Dog Bed", "25.00")

	return f, cleanup
}

func (f *fixture) seedProduct(t *testing.T, name, price string) *models.Product {
	t.Helper()
	product, err := f.catalog.CreateProduct(context.Background(), ProductRequest{
		CategoryID: f.category.ID,
		Name:       name,
		Price:      decimal.RequireFromString(price),
		ImageURL:   "/img/" + name + ".png",
		Stock:      5,
	})
	if err != nil {
		t.Fatalf("Create product %s: %v", name, err)
	}
	return product
}

func TestCartService(t *testing.T) {
	f, cleanup := newFixture(t)
	defer cleanup()

	ctx := context.Background()

	t.Run("first read creates an empty cart", func(t *testing.T) {
		cart, created, err := f.carts.GetOrCreateCart(ctx, bobEmail)
		if err != nil {
			t.Fatalf("GetOrCreateCart: %v", err)
		}
		if !created || len(cart.Items) != 0 || !cart.TotalPrice.IsZero() {
			t.Errorf("Expected new empty cart, got created=%v %+v", created, cart)
		}

		_, created, err = f.carts.GetOrCreateCart(ctx, bobEmail)
		if err != nil || created {
			t.Errorf("Second read should not create, got created=%v err=%v", created, err)
		}
	})

	t.Run("adding twice sums quantities", func(t *testing.T) {
		if _, err := f.carts.AddItem(ctx, aliceEmail, f.productA.ID, 2); err != nil {
			t.Fatalf("AddItem: %v", err)
		}
		qty, err := f.carts.AddItem(ctx, aliceEmail, f.productA.ID, 3)
		if err != nil {
			t.Fatalf("AddItem: %v", err)
		}
		if qty != 5 {
			t.Errorf("Expected quantity 5, got %d", qty)
		}

		cart, _, err := f.carts.GetOrCreateCart(ctx, aliceEmail)
		if err != nil {
			t.Fatalf("GetOrCreateCart: %v", err)
		}
		if len(cart.Items) != 1 || cart.Items[0].Quantity != 5 {
			t.Errorf("Expected one line with quantity 5, got %+v", cart.Items)
		}
	})

	t.Run("update overwrites quantity", func(t *testing.T) {
		if err := f.carts.UpdateQuantity(ctx, aliceEmail, f.productA.ID, 3); err != nil {
			t.Fatalf("UpdateQuantity: %v", err)
		}
		if err := f.carts.UpdateQuantity(ctx, aliceEmail, f.productA.ID, 5); err != nil {
			t.Fatalf("UpdateQuantity: %v", err)
		}

		cart, _, err := f.carts.GetOrCreateCart(ctx, aliceEmail)
		if err != nil {
			t.Fatalf("GetOrCreateCart: %v", err)
		}
		if cart.Items[0].Quantity != 5 {
			t.Errorf("Expected quantity 5, got %d", cart.Items[0].Quantity)
		}
	})

	t.Run("total is the sum of lines", func(t *testing.T) {
		if _, err := f.carts.AddItem(ctx, aliceEmail, f.productB.ID, 2); err != nil {
			t.Fatalf("AddItem: %v", err)
		}

		cart, _, err := f.carts.GetOrCreateCart(ctx, aliceEmail)
		if err != nil {
			t.Fatalf("GetOrCreateCart: %v", err)
		}

		want := decimal.Zero
		for _, item := range cart.Items {
			want = want.Add(item.PricePerUnit.Mul(decimal.NewFromInt(int64(item.Quantity))))
		}
		if !cart.TotalPrice.Equal(want) || !want.Equal(decimal.RequireFromString("100.00")) {
			t.Errorf("Expected total %s (100.00), got %s", want, cart.TotalPrice)
		}
		if cart.Items[0].ProductID != f.productA.ID || cart.Items[1].ProductID != f.productB.ID {
			t.Errorf("Items should keep insertion order, got %+v", cart.Items)
		}
	})

	t.Run("remove then missing", func(t *testing.T) {
		if err := f.carts.RemoveItem(ctx, aliceEmail, f.productB.ID); err != nil {
			t.Fatalf("RemoveItem: %v", err)
		}
		if err := f.carts.RemoveItem(ctx, aliceEmail, f.productB.ID); !errors.Is(err, database.ErrCartItemNotFound) {
			t.Errorf("Expected ErrCartItemNotFound, got %v", err)
		}

		cart, _, err := f.carts.GetOrCreateCart(ctx, aliceEmail)
		if err != nil {
			t.Fatalf("GetOrCreateCart: %v", err)
		}
		for _, item := range cart.Items {
			if item.ProductID == f.productB.ID {
				t.Error("Removed product still in cart")
			}
		}
	})

	t.Run("validation and missing references", func(t *testing.T) {
		if _, err := f.carts.AddItem(ctx, aliceEmail, f.productA.ID, 0); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("Expected ErrInvalidInput, got %v", err)
		}
		if _, err := f.carts.AddItem(ctx, aliceEmail, 9999, 1); !errors.Is(err, database.ErrProductNotFound) {
			t.Errorf("Expected ErrProductNotFound, got %v", err)
		}
		if _, err := f.carts.AddItem(ctx, "ghost@shop.test", f.productA.ID, 1); !errors.Is(err, database.ErrUserNotFound) {
			t.Errorf("Expected ErrUserNotFound, got %v", err)
		}
		if _, err := f.carts.AddItem(ctx, "", f.productA.ID, 1); !errors.Is(err, ErrUnauthenticated) {
			t.Errorf("Expected ErrUnauthenticated, got %v", err)
		}
		if err := f.carts.UpdateQuantity(ctx, bobEmail, f.productA.ID, 1); !errors.Is(err, database.ErrCartItemNotFound) {
			t.Errorf("Expected ErrCartItemNotFound, got %v", err)
		}
	})

	t.Run("clear empties the cart", func(t *testing.T) {
		if err := f.carts.Clear(ctx, aliceEmail); err != nil {
			t.Fatalf("Clear: %v", err)
		}
		if err := f.carts.Clear(ctx, aliceEmail); err != nil {
			t.Fatalf("Clear empty cart: %v", err)
		}

		cart, _, err := f.carts.GetOrCreateCart(ctx, aliceEmail)
		if err != nil {
			t.Fatalf("GetOrCreateCart: %v", err)
		}
		if len(cart.Items) != 0 || !cart.TotalPrice.IsZero() {
			t.Errorf("Expected empty cart, got %+v", cart)
		}
	})
}

func TestWishlistService(t *testing.T) {
	f, cleanup := newFixture(t)
	defer cleanup()

	ctx := context.Background()

	products, created, err := f.wishlist.GetOrCreateList(ctx, aliceEmail)
	if err != nil {
		t.Fatalf("GetOrCreateList: %v", err)
	}
	if !created || len(products) != 0 {
		t.Errorf("Expected new empty wishlist, got created=%v %d products", created, len(products))
	}

	for i := 0; i < 2; i++ {
		if err := f.wishlist.Add(ctx, aliceEmail, f.productA.ID); err != nil {
			t.Fatalf("Add #%d: %v", i+1, err)
		}
	}

	var count int
	err = f.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM wishlist_items wi JOIN wishlists w ON w.id = wi.wishlist_id
		 JOIN users u ON u.id = w.user_id WHERE u.email = $1`, aliceEmail).Scan(&count)
	if err != nil {
		t.Fatalf("Count wishlist items: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected exactly one membership record, got %d", count)
	}

	present, err := f.wishlist.Contains(ctx, aliceEmail, f.productA.ID)
	if err != nil || !present {
		t.Errorf("Expected product A on wishlist, got %v %v", present, err)
	}
	present, err = f.wishlist.Contains(ctx, aliceEmail, f.productB.ID)
	if err != nil || present {
		t.Errorf("Expected product B absent, got %v %v", present, err)
	}

	if err := f.wishlist.Add(ctx, aliceEmail, 9999); !errors.Is(err, database.ErrProductNotFound) {
		t.Errorf("Expected ErrProductNotFound, got %v", err)
	}
	if err := f.wishlist.Add(ctx, "", f.productA.ID); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("Expected ErrUnauthenticated, got %v", err)
	}

	if err := f.wishlist.Remove(ctx, aliceEmail, f.productB.ID); err != nil {
		t.Errorf("Removing an absent product should be a no-op, got %v", err)
	}

	if err := f.wishlist.Add(ctx, aliceEmail, f.productB.ID); err != nil {
		t.Fatalf("Add B: %v", err)
	}
	products, _, err = f.wishlist.GetOrCreateList(ctx, aliceEmail)
	if err != nil {
		t.Fatalf("GetOrCreateList: %v", err)
	}
	if len(products) != 2 {
		t.Errorf("Expected 2 products, got %d", len(products))
	}

	if err := f.wishlist.Remove(ctx, aliceEmail, f.productA.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := f.wishlist.Clear(ctx, aliceEmail); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	products, _, err = f.wishlist.GetOrCreateList(ctx, aliceEmail)
	if err != nil {
		t.Fatalf("GetOrCreateList: %v", err)
	}
	if len(products) != 0 {
		t.Errorf("Expected empty wishlist after clear, got %d", len(products))
	}
}

func TestOrderService(t *testing.T) {
	f, cleanup := newFixture(t)
	defer cleanup()

	ctx := context.Background()

	if _, err := f.carts.AddItem(ctx, aliceEmail, f.productA.ID, 1); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	order, err := f.orders.PlaceOrder(ctx, aliceEmail, PlaceOrderRequest{
		Items: []OrderLine{
			{ProductID: f.productA.ID, Quantity: 2},
			{ProductID: f.productB.ID, Quantity: 1},
		},
		Phone:   "+100000",
		Address: "1 Kennel Rd",
		Comment: "ring twice",
	})
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}

	t.Run("totals and snapshots", func(t *testing.T) {
		if order.Status != models.OrderStatusCreated {
			t.Errorf("Expected CREATED, got %s", order.Status)
		}
		if !order.TotalAmount.Equal(decimal.RequireFromString("45.00")) {
			t.Errorf("Expected total 45.00, got %s", order.TotalAmount)
		}
		if len(order.Items) != 2 {
			t.Fatalf("Expected 2 items, got %d", len(order.Items))
		}
		if !order.Items[0].Price.Equal(f.productA.Price) || !order.Items[1].Price.Equal(f.productB.Price) {
			t.Errorf("Unexpected snapshotted prices %+v", order.Items)
		}
		if order.Phone != "+100000" || order.Address != "1 Kennel Rd" || order.Comment != "ring twice" {
			t.Errorf("Shipping fields not stored: %+v", order)
		}
	})

	t.Run("cart and stock untouched", func(t *testing.T) {
		cart, _, err := f.carts.GetOrCreateCart(ctx, aliceEmail)
		if err != nil {
			t.Fatalf("GetOrCreateCart: %v", err)
		}
		if len(cart.Items) != 1 {
			t.Errorf("Placing an order should not clear the cart, got %d items", len(cart.Items))
		}

		product, err := f.catalog.GetProduct(ctx, f.productA.ID)
		if err != nil {
			t.Fatalf("GetProduct: %v", err)
		}
		if product.Stock != 5 {
			t.Errorf("Stock should stay 5, got %d", product.Stock)
		}
	})

	t.Run("later price change keeps snapshot", func(t *testing.T) {
		_, err := f.catalog.UpdateProduct(ctx, f.productA.ID, ProductRequest{
			CategoryID: f.category.ID,
			Name:       "Chew Toy XL",
			Price:      decimal.RequireFromString("99.99"),
			Stock:      5,
		})
		if err != nil {
			t.Fatalf("UpdateProduct: %v", err)
		}

		got, err := f.orders.GetOrderByID(ctx, order.ID, aliceEmail)
		if err != nil {
			t.Fatalf("GetOrderByID: %v", err)
		}
		if got.Items[0].ProductName != "Chew Toy" || !got.Items[0].Price.Equal(decimal.RequireFromString("10.00")) {
			t.Errorf("Snapshot changed: %+v", got.Items[0])
		}
		if got.UserEmail != aliceEmail {
			t.Errorf("Expected owner email, got %q", got.UserEmail)
		}
	})

	t.Run("missing product aborts the whole order", func(t *testing.T) {
		_, err := f.orders.PlaceOrder(ctx, bobEmail, PlaceOrderRequest{
			Items: []OrderLine{
				{ProductID: f.productA.ID, Quantity: 1},
				{ProductID: 9999, Quantity: 1},
			},
		})
		if !errors.Is(err, database.ErrProductNotFound) {
			t.Fatalf("Expected ErrProductNotFound, got %v", err)
		}

		orders, err := f.orders.GetUserOrders(ctx, bobEmail)
		if err != nil {
			t.Fatalf("GetUserOrders: %v", err)
		}
		if len(orders) != 0 {
			t.Errorf("Expected no partial order, got %d", len(orders))
		}
	})

	t.Run("invalid requests", func(t *testing.T) {
		if _, err := f.orders.PlaceOrder(ctx, aliceEmail, PlaceOrderRequest{}); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("Expected ErrInvalidInput for empty order, got %v", err)
		}
		_, err := f.orders.PlaceOrder(ctx, aliceEmail, PlaceOrderRequest{
			Items: []OrderLine{{ProductID: f.productA.ID, Quantity: -1}},
		})
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("Expected ErrInvalidInput for negative quantity, got %v", err)
		}
	})

	t.Run("other users cannot read the order", func(t *testing.T) {
		if _, err := f.orders.GetOrderByID(ctx, order.ID, bobEmail); !errors.Is(err, ErrPermissionDenied) {
			t.Errorf("Expected ErrPermissionDenied, got %v", err)
		}
		if _, err := f.orders.GetOrderByID(ctx, 9999, aliceEmail); !errors.Is(err, database.ErrOrderNotFound) {
			t.Errorf("Expected ErrOrderNotFound, got %v", err)
		}
	})

	t.Run("user history omits email", func(t *testing.T) {
		orders, err := f.orders.GetUserOrders(ctx, aliceEmail)
		if err != nil {
			t.Fatalf("GetUserOrders: %v", err)
		}
		if len(orders) != 1 || orders[0].UserEmail != "" {
			t.Errorf("Expected one order without email, got %+v", orders)
		}

		summaries, err := f.users.OrderSummaries(ctx, aliceEmail)
		if err != nil {
			t.Fatalf("OrderSummaries: %v", err)
		}
		if len(summaries) != 1 || len(summaries[0].Products) != 2 {
			t.Errorf("Unexpected summaries %+v", summaries)
		}
	})

	t.Run("status accepts any legal value", func(t *testing.T) {
		for _, status := range []string{"DELIVERED", "created", "CANCELED", "PENDING"} {
			got, err := f.orders.UpdateOrderStatus(ctx, order.ID, status)
			if err != nil {
				t.Fatalf("UpdateOrderStatus(%s): %v", status, err)
			}
			want, _ := models.ParseOrderStatus(status)
			if got.Status != want {
				t.Errorf("Expected %s, got %s", want, got.Status)
			}
		}

		if _, err := f.orders.UpdateOrderStatus(ctx, order.ID, "LOST"); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("Expected ErrInvalidInput, got %v", err)
		}
		if _, err := f.orders.UpdateOrderStatus(ctx, 9999, "SHIPPED"); !errors.Is(err, database.ErrOrderNotFound) {
			t.Errorf("Expected ErrOrderNotFound, got %v", err)
		}
	})

	t.Run("admin views and delete", func(t *testing.T) {
		all, err := f.orders.GetAllOrders(ctx)
		if err != nil {
			t.Fatalf("GetAllOrders: %v", err)
		}
		if len(all) != 1 || all[0].UserEmail != aliceEmail {
			t.Errorf("Unexpected admin list %+v", all)
		}

		if _, err := f.orders.GetOrderForAdmin(ctx, order.ID); err != nil {
			t.Errorf("GetOrderForAdmin: %v", err)
		}

		if err := f.orders.Delete(ctx, order.ID); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if err := f.orders.Delete(ctx, order.ID); !errors.Is(err, database.ErrOrderNotFound) {
			t.Errorf("Expected ErrOrderNotFound, got %v", err)
		}

		var items int
		if err := f.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM order_items WHERE order_id = $1`, order.ID).Scan(&items); err != nil {
			t.Fatalf("Count order items: %v", err)
		}
		if items != 0 {
			t.Errorf("Expected order items to be deleted, got %d", items)
		}
	})
}

func TestCatalogService(t *testing.T) {
	f, cleanup := newFixture(t)
	defer cleanup()

	ctx := context.Background()

	if _, err := f.catalog.CreateCategory(ctx, CategoryRequest{Name: "  "}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for blank category, got %v", err)
	}

	_, err := f.catalog.CreateProduct(ctx, ProductRequest{CategoryID: f.category.ID, Name: "Bad", Price: decimal.NewFromInt(-1)})
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for negative price, got %v", err)
	}

	found, err := f.catalog.SearchProducts(ctx, "toy")
	if err != nil {
		t.Fatalf("SearchProducts: %v", err)
	}
	if len(found) != 1 || found[0].ID != f.productA.ID {
		t.Errorf("Expected only product A, got %+v", found)
	}

	inCategory, err := f.catalog.ProductsByCategory(ctx, f.category.ID)
	if err != nil {
		t.Fatalf("ProductsByCategory: %v", err)
	}
	if len(inCategory) != 2 {
		t.Errorf("Expected 2 products in category, got %d", len(inCategory))
	}
	if _, err := f.catalog.ProductsByCategory(ctx, 9999); !errors.Is(err, database.ErrCategoryNotFound) {
		t.Errorf("Expected ErrCategoryNotFound, got %v", err)
	}

	page, err := f.catalog.ListProductsPage(ctx, 0, 0)
	if err != nil {
		t.Fatalf("ListProductsPage: %v", err)
	}
	if page.Page != 1 || page.PageSize != 20 || page.Total != 2 {
		t.Errorf("Unexpected page %+v", page)
	}

	if err := f.catalog.DeleteCategory(ctx, f.category.ID); !errors.Is(err, database.ErrCategoryInUse) {
		t.Errorf("Expected ErrCategoryInUse, got %v", err)
	}

	if err := f.wishlist.Add(ctx, aliceEmail, f.productB.ID); err != nil {
		t.Fatalf("Wishlist add: %v", err)
	}
	if _, err := f.carts.AddItem(ctx, aliceEmail, f.productB.ID, 1); err != nil {
		t.Fatalf("Cart add: %v", err)
	}
	if err := f.catalog.DeleteProduct(ctx, f.productB.ID); err != nil {
		t.Fatalf("DeleteProduct: %v", err)
	}
	if _, err := f.catalog.GetProduct(ctx, f.productB.ID); !errors.Is(err, database.ErrProductNotFound) {
		t.Errorf("Expected ErrProductNotFound, got %v", err)
	}

	cart, _, err := f.carts.GetOrCreateCart(ctx, aliceEmail)
	if err != nil {
		t.Fatalf("GetOrCreateCart: %v", err)
	}
	if len(cart.Items) != 0 {
		t.Errorf("Deleted product should leave the cart, got %+v", cart.Items)
	}
}

func TestAuthAndUsers(t *testing.T) {
	f, cleanup := newFixture(t)
	defer cleanup()

	ctx := context.Background()

	t.Run("duplicate registration", func(t *testing.T) {
		_, err := f.auth.Register(ctx, RegisterRequest{Email: "ALICE@shop.test", Password: "password1"})
		if !errors.Is(err, database.ErrEmailTaken) {
			t.Errorf("Expected ErrEmailTaken, got %v", err)
		}
		_, err = f.auth.Register(ctx, RegisterRequest{Email: "short@shop.test", Password: "123"})
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("Expected ErrInvalidInput for short password, got %v", err)
		}
	})

	t.Run("login", func(t *testing.T) {
		resp, err := f.auth.Login(ctx, LoginRequest{Email: aliceEmail, Password: "password1"})
		if err != nil {
			t.Fatalf("Login: %v", err)
		}
		if resp.Role != models.RoleUser || resp.Token == "" {
			t.Errorf("Unexpected login response %+v", resp)
		}

		claims, err := f.auth.Authenticate(ctx, resp.Token)
		if err != nil {
			t.Fatalf("Authenticate: %v", err)
		}
		if claims.Subject != aliceEmail {
			t.Errorf("Expected subject %s, got %s", aliceEmail, claims.Subject)
		}

		if _, err := f.auth.Login(ctx, LoginRequest{Email: aliceEmail, Password: "wrong-pass"}); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Expected ErrInvalidCredentials, got %v", err)
		}
		if _, err := f.auth.Login(ctx, LoginRequest{Email: "nobody@shop.test", Password: "password1"}); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Expected ErrInvalidCredentials for unknown user, got %v", err)
		}
	})

	t.Run("ensure admin", func(t *testing.T) {
		if err := f.auth.EnsureAdmin(ctx, "admin@shop.test", "admin-pass"); err != nil {
			t.Fatalf("EnsureAdmin create: %v", err)
		}
		if err := f.auth.EnsureAdmin(ctx, "admin@shop.test", "new-admin-pass"); err != nil {
			t.Fatalf("EnsureAdmin refresh: %v", err)
		}

		resp, err := f.auth.Login(ctx, LoginRequest{Email: "admin@shop.test", Password: "new-admin-pass"})
		if err != nil {
			t.Fatalf("Admin login: %v", err)
		}
		if resp.Role != models.RoleAdmin {
			t.Errorf("Expected ADMIN, got %s", resp.Role)
		}
	})

	t.Run("profile", func(t *testing.T) {
		me, err := f.users.Me(ctx, bobEmail)
		if err != nil {
			t.Fatalf("Me: %v", err)
		}
		if me.Role != models.RoleUser {
			t.Errorf("Expected USER, got %s", me.Role)
		}

		updated, err := f.users.UpdateProfile(ctx, bobEmail, UpdateProfileRequest{Address: "2 Cat St", Phone: "555"})
		if err != nil {
			t.Fatalf("UpdateProfile: %v", err)
		}
		if updated.Address != "2 Cat St" || updated.Phone != "555" || updated.Email != bobEmail || updated.FullName != "Test" {
			t.Errorf("Unexpected profile %+v", updated)
		}

		_, err = f.users.UpdateProfile(ctx, bobEmail, UpdateProfileRequest{Email: aliceEmail})
		if !errors.Is(err, database.ErrEmailTaken) {
			t.Errorf("Expected ErrEmailTaken, got %v", err)
		}
	})
}

func TestValueLimits(t *testing.T) {
	f, cleanup := newFixture(t)
	defer cleanup()

	ctx := context.Background()
	tooMany := int(int64(maxQuantity) + 1)

	t.Run("quantity beyond column range", func(t *testing.T) {
		if _, err := f.carts.AddItem(ctx, aliceEmail, f.productA.ID, tooMany); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("AddItem: expected ErrInvalidInput, got %v", err)
		}
		_, err := f.orders.PlaceOrder(ctx, aliceEmail, PlaceOrderRequest{
			Items: []OrderLine{{ProductID: f.productA.ID, Quantity: tooMany}},
		})
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("PlaceOrder: expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("accumulated cart quantity overflows", func(t *testing.T) {
		if _, err := f.carts.AddItem(ctx, bobEmail, f.productB.ID, 2_000_000_000); err != nil {
			t.Fatalf("AddItem: %v", err)
		}
		if _, err := f.carts.AddItem(ctx, bobEmail, f.productB.ID, 2_000_000_000); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("Expected ErrInvalidInput, got %v", err)
		}

		cart, _, err := f.carts.GetOrCreateCart(ctx, bobEmail)
		if err != nil {
			t.Fatalf("GetOrCreateCart: %v", err)
		}
		if len(cart.Items) != 1 || cart.Items[0].Quantity != 2_000_000_000 {
			t.Errorf("Expected the first quantity to survive, got %+v", cart.Items)
		}
	})

	t.Run("order amounts beyond column range", func(t *testing.T) {
		kennel := f.seedProduct(t, "Show Kennel", "6000000000.00")

		_, err := f.orders.PlaceOrder(ctx, bobEmail, PlaceOrderRequest{
			Items: []OrderLine{{ProductID: kennel.ID, Quantity: 2}},
		})
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("Subtotal: expected ErrInvalidInput, got %v", err)
		}

		_, err = f.orders.PlaceOrder(ctx, bobEmail, PlaceOrderRequest{
			Items: []OrderLine{
				{ProductID: kennel.ID, Quantity: 1},
				{ProductID: kennel.ID, Quantity: 1},
			},
		})
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("Total: expected ErrInvalidInput, got %v", err)
		}

		orders, err := f.orders.GetUserOrders(ctx, bobEmail)
		if err != nil {
			t.Fatalf("GetUserOrders: %v", err)
		}
		if len(orders) != 0 {
			t.Errorf("Expected no order to be stored, got %d", len(orders))
		}
	})

	t.Run("product price and stock", func(t *testing.T) {
		tests := []struct {
			name  string
			price string
			stock int
		}{
			{"price at limit", "10000000000", 1},
			{"price rounds up to limit", "9999999999.995", 1},
			{"stock beyond column range", "1.00", tooMany},
		}

		for _, tt := range tests {
			_, err := f.catalog.CreateProduct(ctx, ProductRequest{
				CategoryID: f.category.ID,
				Name:       "Gold Leash",
				Price:      decimal.RequireFromString(tt.price),
				Stock:      tt.stock,
			})
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("%s: expected ErrInvalidInput, got %v", tt.name, err)
			}
		}
	})
}
