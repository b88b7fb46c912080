package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"agilesense.ai/services/common/arangodb"
	"agilesense.ai/services/common/id"
	"agilesense.ai/services/common/logger"
	"agilesense.ai/services/common/otel"
	"agilesense.ai/services/core/config"
	"agilesense.ai/services/internal/http/router"
	"agilesense.ai/services/internal/http/server"
	"agilesense.ai/services/internal/inference"
	"agilesense.ai/services/internal/queue"
	"agilesense.ai/services/internal/service"
	"agilesense.ai/services/internal/store"
)

func main() {
	fmt.Printf("%s\n", banner)
	ctx := context.Background()

	cfg, err := config.Load(config.ServiceTypeExpertise)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	// OTel must init before logger (logger uses OTel provider in production)
	telemetry, err := otel.Setup(ctx, cfg.OTel, cfg.Env)
	if err != nil {
		os.Stderr.WriteString("failed to initialize otel: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger.Setup(cfg)
	ctx = logger.WithLogFields(ctx, logger.LogFields{Component: "expertise"})

	if telemetry != nil {
		slog.InfoContext(ctx, "otel initialized", "endpoint", cfg.OTel.Endpoint)
	} else {
		slog.InfoContext(ctx, "otel disabled (no endpoint configured)")
	}

	slog.InfoContext(ctx, "expertise service starting", "env", cfg.Env, "service", cfg.OTel.ServiceName)
	if err := id.Init(1); err != nil {
		slog.ErrorContext(ctx, "failed to initialize snowflake id generator", "error", err)
		os.Exit(1)
	}

	models, err := inference.LoadModelBundle(ctx, cfg, config.ServiceTypeExpertise)
	if err != nil {
		slog.WarnContext(ctx, "serving in degraded mode", "error", err)
	}

	arango, err := arangodb.New(ctx, arangodb.Config{
		URL:      cfg.ArangoDB.URL,
		Username: cfg.ArangoDB.Username,
		Password: cfg.ArangoDB.Password,
		Database: cfg.ArangoDB.Database,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to create arangodb client", "error", err)
		os.Exit(1)
	}
	defer arango.Close()

	if err := store.EnsureDocumentSchema(ctx, arango); err != nil {
		slog.ErrorContext(ctx, "failed to prepare document schema", "error", err)
		os.Exit(1)
	}
	slog.InfoContext(ctx, "arangodb connected", "database", cfg.ArangoDB.Database)

	events := queue.NewNoopProducer()
	if cfg.Events.Enabled() {
		redisClient, err := queue.NewRedisClient(ctx, cfg.Events.RedisURL)
		if err != nil {
			slog.ErrorContext(ctx, "failed to connect to redis", "error", err)
			os.Exit(1)
		}
		events = queue.NewRedisProducer(redisClient, cfg.Events.RedisStream, slog.Default())
		slog.InfoContext(ctx, "redis connected", "stream", cfg.Events.RedisStream)
	} else {
		slog.InfoContext(ctx, "issue events disabled (no REDIS_URL)")
	}
	defer events.Close()

	services := service.NewServices(store.NewStores(arango, nil), models, events, service.BrainstormConfig{})

	engine := server.NewEngine(cfg)
	router.ExpertiseRoutes(engine, services, models.Status, router.ExpertiseConfig{Store: arango})

	server.Run(ctx, cfg, engine, func(shutdownCtx context.Context) {
		if telemetry != nil {
			if err := telemetry.Shutdown(shutdownCtx); err != nil {
				slog.ErrorContext(shutdownCtx, "otel shutdown error", "error", err)
			}
		}
	})
}

const banner = `
 ___                   _   _
| __|_ ___ __  ___ _ _| |_(_)___ ___
| _|\ \ / '_ \/ -_) '_|  _| (_-</ -_)
|___/_\_\ .__/\___|_|  \__|_/__/\___|
        |_|
`
