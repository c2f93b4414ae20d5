package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/premaicommerce/hypestorefront/internal/cartsync"
	"github.com/premaicommerce/hypestorefront/internal/clients"
	"github.com/premaicommerce/hypestorefront/internal/config"
	"github.com/premaicommerce/hypestorefront/internal/db"
	"github.com/premaicommerce/hypestorefront/internal/events"
	httpapi "github.com/premaicommerce/hypestorefront/internal/http"
	"github.com/premaicommerce/hypestorefront/internal/sequence"
	"github.com/premaicommerce/hypestorefront/internal/session"
)

func main() {
	cfg := config.Load()

	logger := log.New(os.Stdout, "[storefront-bff] ", log.LstdFlags|log.Lshortfile)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	httpClient := &http.Client{Timeout: cfg.UpstreamTimeout}
	cartClient := clients.NewCartClient(clients.NewClient("cart", cfg.CartURL, cfg.PublishableKey, httpClient))
	catalogClient := clients.NewCatalogClient(clients.NewClient("catalog", cfg.CatalogURL, cfg.PublishableKey, httpClient))

	// Sessions live in Postgres when a DSN is configured, otherwise in
	// process memory (single instance, sessions lost on restart).
	var store session.Store = session.NewMemoryStore()
	var seqRepo *sequence.Repository
	if cfg.SessionDBDSN != "" {
		if cfg.RunMigrations {
			if err := db.RunMigrations(cfg.SessionDBDSN, logger); err != nil {
				logger.Fatalf("run migrations: %v", err)
			}
		}
		pool, err := db.NewPool(ctx, cfg.SessionDBDSN)
		if err != nil {
			logger.Fatalf("connect session db: %v", err)
		}
		defer pool.Close()
		store = session.NewPostgresStore(pool)
		seqRepo = sequence.NewRepository(pool)
	}

	reconcilerOpts := []cartsync.Option{cartsync.WithTimeout(cfg.MutationTimeout)}
	var publisher *events.Publisher
	if cfg.RabbitURL != "" {
		conn, err := events.DialRabbit(cfg.RabbitURL)
		if err != nil {
			logger.Fatalf("connect rabbitmq: %v", err)
		}
		defer conn.Close()
		publisher, err = events.NewPublisher(conn, seqRepo, logger)
		if err != nil {
			logger.Fatalf("create events publisher: %v", err)
		}
		reconcilerOpts = append(reconcilerOpts, cartsync.WithActivityRecorder(publisher))
	}

	handler := httpapi.NewHandler(httpapi.Deps{
		Logger:        logger,
		Resolver:      session.NewResolver(store, cartClient),
		Reconciler:    cartsync.New(cartClient, reconcilerOpts...),
		Catalog:       catalogClient,
		Carts:         cartClient,
		DefaultRegion: cfg.DefaultRegion,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      httpapi.NewRouter(handler, cfg.CORSAllowOrigins),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Printf("storefront-bff listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Printf("shutdown signal received")
	case err := <-errCh:
		logger.Fatalf("server error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown error: %v", err)
	}
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			logger.Printf("publisher close error: %v", err)
		}
	}
}
