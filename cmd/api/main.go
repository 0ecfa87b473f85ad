package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/fakestore"
	"storefront/internal/httpserver"
	"storefront/internal/i18n"
	sessionrepo "storefront/internal/repository/session"
	cartsvc "storefront/internal/service/cart"
	customersvc "storefront/internal/service/customer"
	ordersvc "storefront/internal/service/order"
	productsvc "storefront/internal/service/product"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	sessions, closeSessions, err := openSessions(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("open session store: %v", err)
	}
	defer closeSessions()

	catalog, err := fakestore.New(cfg.CatalogBaseURL, cfg.CatalogTimeout)
	if err != nil {
		logger.Fatalf("init catalog client: %v", err)
	}
	messages, err := i18n.Load(cfg.DefaultLanguage)
	if err != nil {
		logger.Fatalf("load messages: %v", err)
	}

	srv, err := httpserver.New(cfg.HTTPAddr, logger, httpserver.Deps{
		Sessions:    sessions,
		CartSvc:     cartsvc.New(catalog),
		ProductSvc:  productsvc.New(catalog),
		OrderSvc:    ordersvc.New(catalog, catalog, cfg.OrderHistoryUserID),
		CustomerSvc: customersvc.New(catalog),
		Messages:    messages,
	}, httpserver.Options{
		CookieName:     cfg.SessionCookie,
		CookieTTL:      cfg.SessionTTL,
		SecureCookie:   cfg.SecureCookie,
		AllowedOrigins: cfg.AllowedOrigins,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	if expirer, ok := sessions.(sessionrepo.Expirer); ok {
		go sweep(sweepCtx, expirer, cfg.SweepInterval, logger)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s (sessions: %s)", cfg.HTTPAddr, cfg.SessionBackend)
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}

// openSessions builds the configured session backend and a func releasing it.
func openSessions(ctx context.Context, cfg config.Config, logger *log.Logger) (sessionrepo.Repository, func(), error) {
	switch cfg.SessionBackend {
	case config.BackendMemory:
		return sessionrepo.NewMemory(cfg.SessionTTL), func() {}, nil
	case config.BackendPostgres:
		pool, err := db.Connect(ctx, cfg.DBConnString, cfg.DBMaxConns)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to db: %w", err)
		}
		return sessionrepo.NewPostgres(pool, cfg.SessionTTL, logger), pool.Close, nil
	case config.BackendRedis:
		repo := sessionrepo.NewRedis(cfg.RedisURL, cfg.SessionTTL, logger)
		if err := repo.Initialize(ctx, 5); err != nil {
			_ = repo.Close()
			return nil, nil, fmt.Errorf("connect to redis: %w", err)
		}
		return repo, func() {
			if err := repo.Close(); err != nil {
				logger.Printf("close redis: %v", err)
			}
		}, nil
	}
	return nil, nil, fmt.Errorf("unknown session backend %q", cfg.SessionBackend)
}

// sweep drops expired sessions until ctx is done. Redis expires keys by
// itself and is never swept.
func sweep(ctx context.Context, expirer sessionrepo.Expirer, every time.Duration, logger *log.Logger) {
	if every <= 0 {
		return
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := expirer.DeleteExpired(ctx)
			if err != nil {
				logger.Printf("sweep sessions: %v", err)
				continue
			}
			if n > 0 {
				logger.Printf("swept %d expired sessions", n)
			}
		}
	}
}
