package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/example/booking-platform/internal/application"
	"github.com/example/booking-platform/internal/cache"
	"github.com/example/booking-platform/internal/config"
	httptransport "github.com/example/booking-platform/internal/http"
	"github.com/example/booking-platform/internal/logging"
	"github.com/example/booking-platform/internal/persistence/sqlite"
)

func main() {
	logger := logging.NewLogger(os.Stdout, slog.LevelInfo)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger = logging.NewLogger(os.Stdout, logging.ParseLevel(cfg.LogLevel))

	storage, err := sqlite.Open(cfg.SQLiteDSN)
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := storage.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	if err := storage.Migrate(context.Background()); err != nil {
		logger.Error("failed to apply schema", "error", err)
		os.Exit(1)
	}

	var store cache.Store
	if !cfg.CacheDisabled {
		store = cache.NewLRUStore(cfg.CachePolicies)
	}
	invalidator := cache.NewInvalidator(store, logger)

	idGenerator := uuid.NewString
	now := time.Now

	bookingService := application.NewBookingService(storage, store, invalidator, idGenerator, now, logger)
	roomService := application.NewRoomService(storage, storage, store, invalidator, idGenerator, now, logger)
	userService := application.NewUserService(storage, invalidator, idGenerator, now, logger)
	authService := application.NewAuthService(storage, storage, cfg.SessionTTL, idGenerator, now, logger)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Auth:           httptransport.NewAuthHandler(authService, logger),
		Users:          httptransport.NewUserHandler(userService, logger),
		Rooms:          httptransport.NewRoomHandler(roomService, logger),
		Bookings:       httptransport.NewBookingHandler(bookingService, logger),
		RequireSession: httptransport.RequireSession(authService, logger),
		Middleware: []func(http.Handler) http.Handler{
			httptransport.RequestLogger(logger),
			httptransport.Recover(logger),
		},
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("booking API listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}
