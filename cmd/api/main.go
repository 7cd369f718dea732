package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"standardtime/internal/catalog"
	"standardtime/internal/config"
	"standardtime/internal/currency"
	"standardtime/internal/db"
	"standardtime/internal/httpserver"
	cartrepo "standardtime/internal/repository/cart"
	chatrepo "standardtime/internal/repository/chat"
	orderrepo "standardtime/internal/repository/order"
	profilerepo "standardtime/internal/repository/profile"
	tokenrepo "standardtime/internal/repository/token"
	cartsvc "standardtime/internal/service/cart"
	chatsvc "standardtime/internal/service/chat"
	checkoutsvc "standardtime/internal/service/checkout"
	customersvc "standardtime/internal/service/customer"
	orderssvc "standardtime/internal/service/orders"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	cat, err := catalog.LoadEmbedded()
	if err != nil {
		logger.Fatalf("load catalog: %v", err)
	}

	rates := currency.NewRates(currency.DefaultSources(), logger)
	go rates.Start(ctx)

	cartRepo := cartrepo.NewPostgres(dbpool)
	cartService := cartsvc.New(cartRepo)
	orderRepo := orderrepo.NewPostgres(dbpool, logger)
	orderService := orderssvc.New(orderRepo)
	checkoutService := checkoutsvc.New(orderRepo, cartService, logger)
	chatRepo := chatrepo.NewPostgres(dbpool, logger)
	chatService := chatsvc.New(chatRepo)
	profileRepo := profilerepo.NewPostgres(dbpool)
	tokenRepo := tokenrepo.NewPostgres(dbpool)
	customerService := customersvc.New(profileRepo, tokenRepo)

	// Feed database chat notifications into the local hub so admin replies
	// written by other processes still reach connected shoppers.
	go func() {
		if err := chatrepo.Listen(ctx, dbpool, logger, chatService.Notify); err != nil {
			logger.Printf("chat listener stopped: %v", err)
		}
	}()

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		Catalog:        cat,
		Rates:          rates,
		CartSvc:        cartService,
		CheckoutSvc:    checkoutService,
		OrderSvc:       orderService,
		ChatSvc:        chatService,
		CustomerSvc:    customerService,
		AdminToken:     cfg.AdminToken,
		AllowedOrigins: cfg.AllowedOrigins,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
