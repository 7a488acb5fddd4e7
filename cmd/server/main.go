package main

import (
	"fmt"
	"log/slog"
	"os"

	log "github.com/charmbracelet/log"
	"github.com/mwendwa/payrelay/infra"
	infracache "github.com/mwendwa/payrelay/infra/cache"
	"github.com/mwendwa/payrelay/infra/provider/daraja"
	infrarepo "github.com/mwendwa/payrelay/infra/repository"
	"github.com/mwendwa/payrelay/pkg/cache"
	"github.com/mwendwa/payrelay/pkg/config"
	"github.com/mwendwa/payrelay/pkg/service/payment"
	"github.com/mwendwa/payrelay/webapi"
	webapipayment "github.com/mwendwa/payrelay/webapi/payment"
	"github.com/redis/go-redis/v9"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load(".env")
	if err != nil {
		return fmt.Errorf("failed to load application configuration: %w", err)
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	db, err := infra.NewDBConnection(*cfg.DB, cfg.Env)
	if err != nil {
		return fmt.Errorf("failed to connect to the record store: %w", err)
	}

	tokens := daraja.NewTokenSource(*cfg.Daraja, logger)
	payments := daraja.New(*cfg.Daraja, tokens, logger)

	transactions := infrarepo.NewTransaction(db)
	projects := infrarepo.NewProject(db)

	statusCache, err := newStatusCache(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to set up status cache: %w", err)
	}

	bus, err := newBus(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to set up event bus: %w", err)
	}
	payment.RegisterProjectCompletionHook(bus, projects, logger)

	svc := payment.New(payments, transactions, bus, statusCache, cfg.StatusCache.TTL, logger)

	app, chargeLimiter, queryLimiter := webapi.SetupApp(cfg)
	webapipayment.Routes(app, svc, chargeLimiter, queryLimiter)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Starting server",
		"env", cfg.Env,
		"address", addr,
		"scheme", cfg.Server.Scheme,
		"mpesa_env", cfg.Daraja.Env,
	)
	return app.Listen(addr)
}

// newStatusCache prefers Redis when a URL is configured so repeat
// status polls survive restarts; otherwise it falls back to the
// in-process cache.
func newStatusCache(cfg *config.App, logger *slog.Logger) (cache.StatusCache, error) {
	if cfg.StatusCache.Url == "" {
		return infracache.NewMemoryCache(), nil
	}
	opt, err := redis.ParseURL(cfg.StatusCache.Url)
	if err != nil {
		return nil, err
	}
	return infracache.NewRedisCache(opt, cfg.StatusCache.Prefix, logger), nil
}

func setupLogger(cfg *config.Log) *slog.Logger {
	var handler slog.Handler
	opts := &slog.HandlerOptions{Level: slog.Level(cfg.Level)}
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	return slog.New(handler)
}
