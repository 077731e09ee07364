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

	"example.com/shop-backend/internal/infra/messaging/kafka"
	"example.com/shop-backend/internal/infra/persistence/postgres"
	"example.com/shop-backend/internal/infra/security"
	httpapi "example.com/shop-backend/internal/interface/http"
	authuc "example.com/shop-backend/internal/usecase/auth"
	cartuc "example.com/shop-backend/internal/usecase/cart"
	checkoutuc "example.com/shop-backend/internal/usecase/checkout"
	productuc "example.com/shop-backend/internal/usecase/product"
	useruc "example.com/shop-backend/internal/usecase/user"
	"example.com/shop-backend/pkg/config"
	"example.com/shop-backend/pkg/logger"
)

func main() {
	cfg := config.Load()
	log := logger.New(logger.Options{
		Service: "shop-backend",
		Env:     cfg.AppEnv,
		Level:   cfg.LogLevel,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("database connect", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Error("database migrate", "err", err)
		os.Exit(1)
	}

	cartRepo := postgres.NewCartRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	purchaseRepo := postgres.NewPurchaseRepository(pool)
	userRepo := postgres.NewUserRepository(pool)

	passwords := security.NewBcryptService(cfg.BcryptCost)
	tokens := security.NewJWTService(cfg.JWTSecret, cfg.TokenTTL)

	var publisher checkoutuc.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		kp := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer kp.Close()
		publisher = kp
		log.Info("kafka publisher enabled", "topic", cfg.KafkaTopic)
	}

	api := httpapi.NewAPI(httpapi.Dependencies{
		AuthService:     authuc.NewService(userRepo, passwords, tokens),
		UserService:     useruc.NewService(userRepo, passwords),
		ProductService:  productuc.NewService(productRepo),
		CartService:     cartuc.NewService(cartRepo, productRepo),
		CheckoutService: checkoutuc.NewService(cartRepo, purchaseRepo, publisher, log),
		TokenService:    tokens,
		Logger:          log,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           api.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown", "err", err)
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server", "err", err)
			os.Exit(1)
		}
	}
}
