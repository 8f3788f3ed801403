package http

import (
	"github.com/gin-gonic/gin"
	httpH "github.com/safar/petshop/internal/http/handlers"
	httpMW "github.com/safar/petshop/internal/http/middleware"
	"github.com/safar/petshop/internal/logger"
	"github.com/safar/petshop/internal/models"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

type RouterConfig struct {
	Log            *logger.Logger
	AllowedOrigins []string
	// TracingService names the otelgin spans; empty disables request tracing.
	TracingService string

	AuthMiddleware  *httpMW.AuthMiddleware
	AuthHandler     *httpH.AuthHandler
	CatalogHandler  *httpH.CatalogHandler
	CartHandler     *httpH.CartHandler
	WishlistHandler *httpH.WishlistHandler
	OrderHandler    *httpH.OrderHandler
	UserHandler     *httpH.UserHandler
	HealthHandler   *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.TracingService != "" {
		r.Use(otelgin.Middleware(cfg.TracingService))
	}
	r.Use(httpMW.AttachRequestID())
	r.Use(httpMW.RequestLogger(cfg.Log))
	if len(cfg.AllowedOrigins) > 0 {
		r.Use(httpMW.CORS(cfg.AllowedOrigins))
	}

	r.GET("/health", cfg.HealthHandler.HealthCheck)

	api := r.Group("/api")

	// Public
	api.POST("/auth/register", cfg.AuthHandler.Register)
	api.POST("/auth/login", cfg.AuthHandler.Login)

	api.GET("/products", cfg.CatalogHandler.ListProducts)
	api.GET("/products/search", cfg.CatalogHandler.SearchProducts)
	api.GET("/products/category/:categoryId", cfg.CatalogHandler.ProductsByCategory)
	api.GET("/products/:id", cfg.CatalogHandler.GetProduct)
	api.GET("/categories", cfg.CatalogHandler.ListCategories)

	protected := api.Group("/", cfg.AuthMiddleware.RequireAuth())

	userOnly := httpMW.RequireRole(models.RoleUser)
	adminOnly := httpMW.RequireRole(models.RoleAdmin)

	protected.POST("/auth/logout", cfg.AuthHandler.Logout)

	cart := protected.Group("/cart", httpMW.RequireRole(models.RoleUser, models.RoleAdmin))
	{
		cart.GET("", cfg.CartHandler.GetCart)
		cart.POST("/add", cfg.CartHandler.AddItem)
		cart.PUT("", cfg.CartHandler.UpdateQuantity)
		cart.DELETE("/:productId", cfg.CartHandler.RemoveItem)
		cart.DELETE("", cfg.CartHandler.Clear)
	}

	wishlist := protected.Group("/wishlist")
	{
		wishlist.GET("", cfg.WishlistHandler.List)
		wishlist.POST("/add/:productId", cfg.WishlistHandler.Add)
		wishlist.DELETE("/remove/:productId", cfg.WishlistHandler.Remove)
		wishlist.GET("/check/:productId", cfg.WishlistHandler.Contains)
		wishlist.DELETE("/clear", cfg.WishlistHandler.Clear)
	}

	orders := protected.Group("/orders")
	{
		orders.POST("", userOnly, cfg.OrderHandler.PlaceOrder)
		orders.GET("/history", userOnly, cfg.OrderHandler.History)
		orders.GET("/:orderId", userOnly, cfg.OrderHandler.GetOrder)
		orders.PUT("/:orderId/status", adminOnly, cfg.OrderHandler.UpdateStatus)
	}

	user := protected.Group("/user", userOnly)
	{
		user.GET("/me", cfg.UserHandler.GetMe)
		user.PUT("/me", cfg.UserHandler.UpdateMe)
		user.GET("/orders", cfg.UserHandler.Orders)
	}

	admin := protected.Group("/admin", adminOnly)
	{
		admin.POST("/products", cfg.CatalogHandler.CreateProduct)
		admin.GET("/products", cfg.CatalogHandler.ListProducts)
		admin.GET("/products/:id", cfg.CatalogHandler.GetProduct)
		admin.PUT("/products/:id", cfg.CatalogHandler.UpdateProduct)
		admin.DELETE("/products/:id", cfg.CatalogHandler.DeleteProduct)

		admin.POST("/categories", cfg.CatalogHandler.CreateCategory)
		admin.DELETE("/categories/:categoryId", cfg.CatalogHandler.DeleteCategory)

		admin.GET("/orders", cfg.OrderHandler.AdminList)
		admin.GET("/orders/:id", cfg.OrderHandler.AdminGet)
		admin.PUT("/orders/:id/status", cfg.OrderHandler.AdminUpdateStatus)
		admin.DELETE("/orders/:id", cfg.OrderHandler.AdminDelete)
	}

	return r
}
