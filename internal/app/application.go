// Package app assembles the stores, rails and services into a running
// application.
package app

import (
	"context"
	"fmt"

	"github.com/YaelStO/AlasLatinasNeftify/internal/app/services/catalog"
	"github.com/YaelStO/AlasLatinasNeftify/internal/app/services/identity"
	"github.com/YaelStO/AlasLatinasNeftify/internal/app/services/payments"
	"github.com/YaelStO/AlasLatinasNeftify/internal/app/services/reservations"
	"github.com/YaelStO/AlasLatinasNeftify/internal/app/storage"
	"github.com/YaelStO/AlasLatinasNeftify/internal/app/storage/document"
	"github.com/YaelStO/AlasLatinasNeftify/internal/app/storage/postgres"
	"github.com/YaelStO/AlasLatinasNeftify/internal/auth"
	"github.com/YaelStO/AlasLatinasNeftify/internal/config"
	"github.com/YaelStO/AlasLatinasNeftify/internal/httpapi"
	"github.com/YaelStO/AlasLatinasNeftify/internal/metrics"
	"github.com/YaelStO/AlasLatinasNeftify/internal/rail"
	"github.com/YaelStO/AlasLatinasNeftify/internal/rail/card"
	"github.com/YaelStO/AlasLatinasNeftify/internal/rail/stellar"
	"github.com/YaelStO/AlasLatinasNeftify/internal/seed"
	"github.com/YaelStO/AlasLatinasNeftify/pkg/logger"
)

// Application ties the services together and owns their shared store.
type Application struct {
	Store   storage.Store
	Metrics *metrics.Metrics

	Identity     *identity.Service
	Catalog      *catalog.Service
	Reservations *reservations.Service
	Payments     *payments.Service

	handler *httpapi.Handler
	log     *logger.Logger
}

// New builds a fully initialised application from config. The store is
// Postgres when DATABASE_URL is set and the JSON file otherwise; the rail
// is selected by PAYMENT_RAIL.
func New(cfg config.Config, log *logger.Logger) (*Application, error) {
	if log == nil {
		log = logger.NewDefault("app")
	}

	store, err := openStore(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	paymentRail, err := openRail(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("open payment rail: %w", err)
	}

	tokens := auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL)
	m := metrics.New("alaslatinas")

	identitySvc := identity.New(store, tokens, log.WithField("service", "identity"))
	catalogSvc := catalog.New(store, log.WithField("service", "catalog"))
	reservationSvc := reservations.New(store, log.WithField("service", "reservations"))
	paymentSvc := payments.New(store, paymentRail, payments.Config{
		ConfirmOnPay: cfg.ConfirmOnPay,
		RailTimeout:  cfg.RailTimeout,
	}, log.WithField("service", "payments"))

	handler := httpapi.New(identitySvc, catalogSvc, reservationSvc, paymentSvc, m, httpapi.Config{
		AllowedOrigins: cfg.AllowedOrigins(),
		AuthRateRPS:    cfg.AuthRateLimitRPS,
		AuthRateBurst:  cfg.AuthRateLimitBurst,
	}, log.WithField("component", "httpapi"))

	app := &Application{
		Store:        store,
		Metrics:      m,
		Identity:     identitySvc,
		Catalog:      catalogSvc,
		Reservations: reservationSvc,
		Payments:     paymentSvc,
		handler:      handler,
		log:          log,
	}

	if cfg.SeedDemoData {
		if err := seed.Run(context.Background(), store, log.WithField("component", "seed")); err != nil {
			return nil, fmt.Errorf("seed demo data: %w", err)
		}
	}

	return app, nil
}

// Handler returns the assembled HTTP API handler.
func (a *Application) Handler() *httpapi.Handler { return a.handler }

func openStore(cfg config.Config, log *logger.Logger) (storage.Store, error) {
	if cfg.DatabaseURL != "" {
		log.WithField("store", "postgres").Info("using postgres document store")
		return postgres.Open(cfg.DatabaseURL)
	}
	log.WithField("store", "file").WithField("path", cfg.StorePath).Info("using file document store")
	return document.NewFileStore(cfg.StorePath, log.WithField("component", "store"))
}

func openRail(cfg config.Config, log *logger.Logger) (rail.Rail, error) {
	switch cfg.PaymentRail {
	case "", "card":
		return card.New(), nil
	case "stellar":
		return stellar.New(stellar.Config{
			HorizonURL:        cfg.HorizonURL,
			Seed:              cfg.StellarSeed,
			NetworkPassphrase: cfg.StellarPassphrase,
			Timeout:           cfg.RailTimeout,
		}, log.WithField("component", "stellar"))
	default:
		return nil, fmt.Errorf("unknown payment rail %q", cfg.PaymentRail)
	}
}
