package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"agilesense.ai/services/common/id"
	"agilesense.ai/services/common/logger"
	"agilesense.ai/services/common/otel"
	"agilesense.ai/services/core/config"
	"agilesense.ai/services/core/db"
	"agilesense.ai/services/internal/http/handler"
	"agilesense.ai/services/internal/http/router"
	"agilesense.ai/services/internal/http/server"
	"agilesense.ai/services/internal/inference"
	"agilesense.ai/services/internal/service"
	"agilesense.ai/services/internal/store"
)

func main() {
	fmt.Printf("%s\n", banner)
	ctx := context.Background()

	cfg, err := config.Load(config.ServiceTypeBrainstorm)
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
	ctx = logger.WithLogFields(ctx, logger.LogFields{Component: "brainstorm"})

	if telemetry != nil {
		slog.InfoContext(ctx, "otel initialized", "endpoint", cfg.OTel.Endpoint)
	} else {
		slog.InfoContext(ctx, "otel disabled (no endpoint configured)")
	}

	slog.InfoContext(ctx, "brainstorm platform starting", "env", cfg.Env, "service", cfg.OTel.ServiceName)
	if err := id.Init(1); err != nil {
		slog.ErrorContext(ctx, "failed to initialize snowflake id generator", "error", err)
		os.Exit(1)
	}

	models, err := inference.LoadModelBundle(ctx, cfg, config.ServiceTypeBrainstorm)
	if err != nil {
		slog.WarnContext(ctx, "serving in degraded mode", "error", err)
	}

	var (
		pg      db.Querier
		history handler.Pinger
	)
	if cfg.DB.Enabled() {
		database, err := db.New(ctx, cfg.DB)
		if err != nil {
			slog.ErrorContext(ctx, "failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer database.Close()

		if err := store.EnsureAnalysisSchema(ctx, database.Querier()); err != nil {
			slog.ErrorContext(ctx, "failed to prepare analysis schema", "error", err)
			os.Exit(1)
		}
		pg = database.Querier()
		history = database
		slog.InfoContext(ctx, "database connected, analysis history enabled")
	} else {
		slog.InfoContext(ctx, "analysis history disabled (no DATABASE_URL)")
	}

	services := service.NewServices(store.NewStores(nil, pg), models, nil, service.BrainstormConfig{
		RephraseThreshold: cfg.Models.RephraseThreshold,
	})

	engine := server.NewEngine(cfg)
	router.BrainstormRoutes(engine, services.Brainstorm(), router.BrainstormConfig{History: history})

	server.Run(ctx, cfg, engine, func(shutdownCtx context.Context) {
		if telemetry != nil {
			if err := telemetry.Shutdown(shutdownCtx); err != nil {
				slog.ErrorContext(shutdownCtx, "otel shutdown error", "error", err)
			}
		}
	})
}

const banner = `
 ___          _         _
| _ )_ _ __ _(_)_ _  __| |_ ___ _ _ _ __
| _ \ '_/ _' | | ' \(_-<  _/ _ \ '_| '  \
|___/_| \__,_|_|_||_/__/\__\___/_| |_|_|_|
`
