package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/me/shopctl/internal/config"
	"github.com/me/shopctl/internal/logging"
	"github.com/me/shopctl/internal/mockapi"
)

func main() {
	cfg := config.DefaultServerConfig()
	if secret := os.Getenv("SHOP_JWT_SECRET"); secret != "" {
		cfg.JWTSecret = secret
	}

	flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "Listen address")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	flag.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text, json)")
	flag.StringVar(&cfg.JWTSecret, "jwt-secret", cfg.JWTSecret, "HS256 signing secret for access tokens (env SHOP_JWT_SECRET)")
	flag.DurationVar(&cfg.TokenTTL, "token-ttl", cfg.TokenTTL, "Access token lifetime")
	flag.BoolVar(&cfg.Seed, "seed", cfg.Seed, "Load demo accounts and products")
	flag.BoolVar(&cfg.BulkClear, "bulk-clear", cfg.BulkClear, "Accept bodyless DELETE /cart/remove-product")
	debug := flag.Bool("debug", false, "Shorthand for --log-level=debug")
	flag.Parse()

	if *debug {
		cfg.LogLevel = "debug"
	}
	logger := logging.NewLogger(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)

	srv := mockapi.New(cfg, logger)
	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("mock API starting", "addr", cfg.Addr, "seed", cfg.Seed, "bulk_clear", cfg.BulkClear)
		if cfg.Seed {
			logger.Info("demo accounts",
				"admin", mockapi.DemoAdminEmail+" / "+mockapi.DemoAdminPassword,
				"user", mockapi.DemoUserEmail+" / "+mockapi.DemoUserPassword)
		}
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		fmt.Fprintf(os.Stderr, "shutdown error: %v\n", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}
