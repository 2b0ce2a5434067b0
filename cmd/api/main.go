package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/signalkit/signalkit/config"
	"github.com/signalkit/signalkit/internal/app"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	application := app.NewApp(cfg)
	appLogger := application.GetLogger()

	if err := application.Initialize(); err != nil {
		appLogger.WithField("error", err.Error()).Fatal("Failed to initialize application")
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- application.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		if err != nil && err != http.ErrServerClosed {
			appLogger.WithField("error", err.Error()).Fatal("Server failed")
		}
	case sig := <-stop:
		appLogger.WithField("signal", sig.String()).Info("Shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := application.Shutdown(ctx); err != nil {
		appLogger.WithField("error", err.Error()).Error("Shutdown failed")
		os.Exit(1)
	}
}
