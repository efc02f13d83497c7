package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	"portfolio/src/api"
	"portfolio/src/api/controllers"
	"portfolio/src/api/handlers"
	"portfolio/src/clients/backend"
	"portfolio/src/config"
	"portfolio/src/scheduler"
	"portfolio/src/services/pricing"
	"portfolio/src/services/workflow"
	"portfolio/src/session"
	"portfolio/src/utils"
	aws_handler "portfolio/src/utils/aws"
	redis_utils "portfolio/src/utils/redis"

	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.LoadConfig("./settings", os.Getenv("ENV"))
	if err != nil {
		log.Println(err, "Error while loading config")
		return
	}
	errC, err := run(cfg)
	if err != nil {
		log.Println(err, "Couldn't run")
		return
	}

	if err := <-errC; err != nil {
		log.Println(err, "Error while running")
	}
}

func run(cfg *config.Config) (<-chan error, error) {
	errC := make(chan error, 1)
	ctx := context.Background()

	logger := utils.NewLogger(utils.ParseLogLevel(cfg.Service.LogLevel), cfg.Service.LogFile != "", cfg.Service.LogFile)

	client := backend.NewClient(cfg, &http.Client{Timeout: cfg.Backend.Timeout})

	pins, err := pinVerifier(ctx, cfg, client)
	if err != nil {
		return nil, err
	}

	prices, err := priceCache(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	deps := controllers.NewDependencies(cfg, client, pins, prices, logger)
	if cfg.Metrics.CategoryMapFile != "" {
		deps.Categories, err = utils.CSVToMap(cfg.Metrics.CategoryMapFile)
		if err != nil {
			return nil, err
		}
	}

	if cfg.Catalog.RefreshCron != "" && cfg.Backend.ServiceToken != "" {
		service := session.Anonymous(cfg.Backend.ServiceToken)
		_, err := scheduler.NewScheduledTask("catalog-refresh", cfg.Catalog.RefreshCron, time.Minute, func(ctx context.Context) error {
			return deps.Catalog.Refresh(ctx, service)
		}, logger)
		if err != nil {
			return nil, err
		}
	}

	if cfg.Service.SessionTTL > 0 && cfg.Service.SessionSweepCron != "" {
		_, err := scheduler.NewScheduledTask("session-sweep", cfg.Service.SessionSweepCron, time.Minute, func(ctx context.Context) error {
			if n := deps.Sessions.Evict(); n > 0 {
				logger.WithField("sessions", n).Info("Evicted expired sessions")
			}
			return nil
		}, logger)
		if err != nil {
			return nil, err
		}
	}

	server := api.NewServer(handlers.NewHandler(deps, logger))
	httpServer := api.NewHTTPServer(server, cfg.Service.Port)

	go func() {
		logger.WithField("port", cfg.Service.Port).Info("Starting server")

		// "ListenAndServe always returns a non-nil error. After Shutdown or Close, the returned error is
		// ErrServerClosed."
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Error("An error raised while setting up server")
			errC <- err
		}
	}()
	return errC, nil
}

// pinVerifier checks the PIN against the backend, or locally against a configured PIN or
// one read from AWS Secrets Manager.
func pinVerifier(ctx context.Context, cfg *config.Config, client *backend.BackendServiceClient) (workflow.PINVerifier, error) {
	if cfg.Security.PINMode == config.PINModeRemote {
		return workflow.NewRemoteVerifier(client), nil
	}
	if cfg.Security.PIN != "" {
		return workflow.NewLocalVerifier(cfg.Security.PIN), nil
	}

	awsHandler, err := aws_handler.NewAWSHandler(cfg.Security.AWSRegion)
	if err != nil {
		return nil, err
	}
	pin, err := awsHandler.ReadPIN(ctx, cfg.Security.PINSecretID)
	if err != nil {
		return nil, err
	}
	return workflow.NewLocalVerifier(pin), nil
}

func priceCache(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (pricing.PriceCache, error) {
	if !cfg.Databases.Redis.Enabled() {
		return pricing.NewMemoryCache(), nil
	}
	handler, err := redis_utils.NewRedisHandler(ctx, cfg.Databases.Redis)
	if err != nil {
		return nil, err
	}
	return pricing.NewRedisCache(handler, logger), nil
}
