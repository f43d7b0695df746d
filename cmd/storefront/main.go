package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/fashionchips/storefront/internal/app"
	"github.com/fashionchips/storefront/internal/cart"
	"github.com/fashionchips/storefront/internal/catalog"
	"github.com/fashionchips/storefront/internal/config"
	"github.com/fashionchips/storefront/internal/db"
	"github.com/fashionchips/storefront/internal/gateway"
	"github.com/fashionchips/storefront/internal/order"
	"github.com/fashionchips/storefront/internal/pickup"
	"github.com/fashionchips/storefront/internal/session"
	"github.com/fashionchips/storefront/internal/transport"
)

func main() {
	zerolog.SetGlobalLevel(zerolog.DebugLevel)

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	log.Logger = log.With().Str("service", "storefront").Logger()

	log.Info().Msg("Storefront starting...")

	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	postgres, err := db.New(ctx, cfg.Postgres)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer postgres.Close()

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Str("addr", cfg.Redis.Addr).Msg("Connected to Redis")

	gw := gateway.NewPostgresGateway(postgres.Pool, cfg.App.Namespace)
	policy := pickup.NewPolicy(time.Duration(cfg.App.MinPickupMinutes) * time.Minute)

	carts := cart.NewStore(cart.NewRedisBlobs(rdb), "")
	catalogMgr := catalog.NewManager(gw)
	lifecycle := order.NewManager(gw, policy, time.Now)
	sessions := session.NewStore(cfg.App.AdminPIN)

	application := app.New(gw, carts, catalogMgr, lifecycle, policy)
	if err := application.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to start subscriptions")
	}
	defer application.Stop()

	router := transport.NewRouter(application, sessions)

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.App.Port).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	log.Info().Msg("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Shutdown failed")
	}
	log.Info().Msg("Server stopped")
}
