package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rapmue/festivalpos/internal/cart"
	"github.com/rapmue/festivalpos/internal/catalog"
	"github.com/rapmue/festivalpos/internal/checkout"
	"github.com/rapmue/festivalpos/internal/domain"
	h "github.com/rapmue/festivalpos/internal/http"
	"github.com/rapmue/festivalpos/internal/settings"
)

type Config struct {
	HTTPPort        string
	RedisAddr       string
	FetchTimeout    time.Duration
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func loadConfig() *Config {
	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		RedisAddr:       getEnv("REDIS_ADDR", ""),
		FetchTimeout:    10 * time.Second,
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	cfg := loadConfig()

	// Settings store: Redis when a sidecar is configured, otherwise
	// in-memory (the feed URL then has to be re-entered after restart).
	var store settings.Store
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer client.Close()
		store = settings.NewRedisStore(client)
	} else {
		log.Println("REDIS_ADDR not set, settings will not survive a restart")
		store = settings.NewMemoryStore()
	}

	fetcher := catalog.NewHTTPFetcher(cfg.FetchTimeout)
	manager, err := catalog.NewManager(context.Background(), store, fetcher)
	if err != nil {
		log.Fatalf("failed to init catalog manager: %v", err)
	}
	defer manager.Close()

	// Load the catalog for the saved source. A dead feed at boot is not
	// fatal; the terminal starts with an empty catalog and can refresh
	// or scan a new source later.
	if manager.SourceURL() != "" {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.FetchTimeout)
		if _, errRefresh := manager.Refresh(ctx); errRefresh != nil {
			log.Printf("initial catalog refresh failed: %v", errRefresh)
		}
		cancel()
	}

	cartStore := cart.NewStore()
	session := checkout.NewSession(checkout.WithFinishHook(func(sale domain.Sale) {
		log.Printf("sale finished id=%s method=%s total=%s %s", sale.ID, sale.Method, sale.Total.StringFixed(2), sale.Currency)
	}))

	catalogHandler := h.NewCatalogHandler(manager, cartStore, cfg.RequestTimeout)
	cartHandler := h.NewCartHandler(cartStore, manager)
	checkoutHandler := h.NewCheckoutHandler(session, cartStore, manager)

	router := h.NewRouter(catalogHandler, cartHandler, checkoutHandler, cfg.RequestTimeout)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("POS terminal starting on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}
