// mockstore runs the in-memory storefront backend for local development.
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

	"go.uber.org/zap"

	"github.com/Leorodrigs/deathstore-storefront/internal/domain"
	"github.com/Leorodrigs/deathstore-storefront/internal/mockstore"
)

type Config struct {
	HTTPPort        string
	ShutdownTimeout time.Duration
}

func loadConfig() *Config {
	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "3000"),
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

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	store := mockstore.NewMemoryStore()
	seed(store)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      mockstore.NewServer(store, logger).Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("mockstore starting", zap.String("port", cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}
	logger.Info("server exited")
}

func seed(store *mockstore.MemoryStore) {
	store.SeedUser(domain.User{Name: "Admin", Email: "admin@deathstore.dev", IsAdmin: true}, "admin")
	store.SeedUser(domain.User{Name: "Cliente", Email: "cliente@deathstore.dev"}, "cliente")
	store.SeedProducts([]domain.Product{
		{Name: "Blaster DL-44", Brand: "BlasTech", Category: "armas", Price: 1200, Stock: 7},
		{Name: "Caça TIE", Brand: "Sienar", Category: "naves", Price: 75000, Stock: 2},
		{Name: "Droide de protocolo", Brand: "Cybot", Category: "robos", Price: 3000, Stock: 0},
		{Name: "Sabre de treino", Brand: "BlasTech", Category: "armas", Price: 450, Stock: 12},
	})
}
