// Command server runs the travel-booking HTTP API.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/YaelStO/AlasLatinasNeftify/internal/app"
	"github.com/YaelStO/AlasLatinasNeftify/internal/config"
	"github.com/YaelStO/AlasLatinasNeftify/pkg/logger"
)

func main() {
	log := logger.New("server")

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Error("load configuration")
		os.Exit(1)
	}

	application, err := app.New(cfg, log)
	if err != nil {
		log.WithError(err).Error("build application")
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           application.Handler().Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.ListenAddr).
			WithField("rail", cfg.PaymentRail).
			Info("listening")
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("server failed")
			os.Exit(1)
		}
	case sig := <-stop:
		log.WithField("signal", sig.String()).Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.WithError(err).Error("graceful shutdown failed")
			os.Exit(1)
		}
	}
}
