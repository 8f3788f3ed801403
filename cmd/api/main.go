package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/safar/petshop/internal/auth"
	"github.com/safar/petshop/internal/config"
	"github.com/safar/petshop/internal/database"
	httpapi "github.com/safar/petshop/internal/http"
	httpH "github.com/safar/petshop/internal/http/handlers"
	httpMW "github.com/safar/petshop/internal/http/middleware"
	"github.com/safar/petshop/internal/logger"
	"github.com/safar/petshop/internal/observability"
	"github.com/safar/petshop/internal/service"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	shutdownTracing, err := observability.InitTracing(ctx, log, cfg.Tracing)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			log.Warn("tracing shutdown failed", "error", err)
		}
	}()

	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()
	log.Info("connected to database")

	if cfg.Database.AutoMigrate {
		applied, err := database.Migrate(ctx, db, database.Up)
		if err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		log.Info("migrations applied", "count", len(applied))
	}

	var revoker auth.Revoker = auth.NopRevoker{}
	if cfg.Redis.URL != "" {
		rdb, err := auth.NewRedisClient(ctx, cfg.Redis.URL)
		if err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		defer rdb.Close()
		revoker = auth.NewRedisRevoker(rdb)
		log.Info("token revocation enabled")
	} else {
		log.Warn("REDIS_URL not set, logout will not revoke tokens")
	}

	// Services
	tokens := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)
	authService := service.NewAuthService(db, tokens, revoker, log)
	catalogService := service.NewCatalogService(db, log)
	cartService := service.NewCartService(db, log)
	wishlistService := service.NewWishlistService(db, log)
	orderService := service.NewOrderService(db, log)
	userService := service.NewUserService(db, log)

	if cfg.Admin.Email != "" {
		if err := authService.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password); err != nil {
			return fmt.Errorf("ensure admin: %w", err)
		}
	}

	gin.SetMode(cfg.Server.Mode)

	tracingService := ""
	if cfg.Tracing.Enabled {
		tracingService = cfg.Tracing.ServiceName
	}

	router := httpapi.NewRouter(httpapi.RouterConfig{
		Log:             log,
		AllowedOrigins:  cfg.Server.AllowedOrigins,
		TracingService:  tracingService,
		AuthMiddleware:  httpMW.NewAuthMiddleware(log, authService),
		AuthHandler:     httpH.NewAuthHandler(authService),
		CatalogHandler:  httpH.NewCatalogHandler(catalogService),
		CartHandler:     httpH.NewCartHandler(cartService),
		WishlistHandler: httpH.NewWishlistHandler(wishlistService),
		OrderHandler:    httpH.NewOrderHandler(orderService),
		UserHandler:     httpH.NewUserHandler(userService),
		HealthHandler:   httpH.NewHealthHandler(db),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
