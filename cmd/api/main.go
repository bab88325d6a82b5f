package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"serviceease/internal/auth"
	"serviceease/internal/config"
	"serviceease/internal/db"
	"serviceease/internal/httpserver"
	"serviceease/internal/logger"
	cartrepo "serviceease/internal/repository/cart"
	catalogrepo "serviceease/internal/repository/catalog"
	orderrepo "serviceease/internal/repository/order"
	reviewrepo "serviceease/internal/repository/review"
	userrepo "serviceease/internal/repository/user"
	accountsvc "serviceease/internal/service/account"
	cartsvc "serviceease/internal/service/cart"
	catalogsvc "serviceease/internal/service/catalog"
	ordersvc "serviceease/internal/service/order"
	paymentsvc "serviceease/internal/service/payment"
	reviewsvc "serviceease/internal/service/review"
)

func main() {
	cfg := config.FromEnv()
	lg, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer lg.Sync()

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		lg.Fatal("connect to db", "error", err)
	}
	defer dbpool.Close()

	userRepo := userrepo.NewPostgres(dbpool, lg)
	catalogRepo := catalogrepo.NewPostgres(dbpool, lg)
	cartRepo := cartrepo.NewPostgres(dbpool, lg)
	orderRepo := orderrepo.NewPostgres(dbpool, lg)
	reviewRepo := reviewrepo.NewPostgres(dbpool, lg)

	roles := auth.NewResolver(userRepo)
	guard := auth.NewGuard(roles)

	accountService := accountsvc.New(userRepo, guard, roles, cfg.JWTSecret, cfg.AccessTTL, lg)
	catalogService := catalogsvc.New(catalogRepo, roles, lg)
	cartService := cartsvc.New(cartRepo, catalogRepo, guard, roles, lg)
	orderService := ordersvc.New(orderRepo, guard, roles, lg)
	reviewService := reviewsvc.New(reviewRepo, catalogRepo, guard, lg)
	gateway := paymentsvc.NewSSLCommerz(cfg.GatewayURL, cfg.GatewayStoreID, cfg.GatewayStorePass)
	paymentService := paymentsvc.New(orderRepo, userRepo, gateway, guard, cfg.BackendURL, lg)

	srv := httpserver.New(cfg.HTTPAddr, lg, dbpool, httpserver.Deps{
		Accounts:    accountService,
		Catalog:     catalogService,
		Carts:       cartService,
		Orders:      orderService,
		Reviews:     reviewService,
		Payments:    paymentService,
		FrontendURL: cfg.FrontendURL,
	})

	serverErr := make(chan error, 1)
	go func() {
		lg.Info("starting http server", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		lg.Info("received signal, shutting down", "signal", sig.String())
	case err := <-serverErr:
		lg.Error("server error", "error", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		lg.Error("graceful shutdown failed", "error", err)
	} else {
		lg.Info("server stopped")
	}
}
