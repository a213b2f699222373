package main

import (
	"context"
	"os/signal"
	"strings"
	"syscall"

	"github.com/leadrelay/leadrelay/internal/biz/usecase"
	"github.com/leadrelay/leadrelay/internal/conf"
	"github.com/leadrelay/leadrelay/internal/data"
	"github.com/leadrelay/leadrelay/internal/server"
	"github.com/leadrelay/leadrelay/internal/service"
	"github.com/leadrelay/leadrelay/lptracker"
	"github.com/leadrelay/leadrelay/telegram"
)

func main() {
	// Load configuration
	cfg := conf.LoadFromEnv()
	logger := cfg.SetupLogger()

	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	// Initialize clients
	tgClient, err := telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.GroupID)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create telegram client")
	}

	lpClient := lptracker.NewClient(
		cfg.LPTracker.BaseURL,
		cfg.LPTracker.Login,
		cfg.LPTracker.Password,
		cfg.LPTracker.Service,
		cfg.LPTracker.ProjectID,
	)
	if lpClient.Enabled() {
		logger.Info().Msg("lptracker sync enabled")
	} else if missing := cfg.LPTracker.MissingVars(); len(missing) < 3 {
		logger.Warn().Str("missing", strings.Join(missing, ",")).Msg("partial lptracker credentials, crm sync disabled")
	} else {
		logger.Info().Msg("lptracker sync disabled")
	}

	// Initialize repository layer
	repos, err := data.NewRepositories(tgClient, lpClient, cfg.DBPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create repositories")
	}
	defer repos.Close()
	logger.Info().Str("db_path", cfg.DBPath).Msg("correlation store ready")

	// Initialize usecase and service layers
	threadUC := usecase.NewThreadUsecase(repos.Links, repos.Chat, logger)
	router := service.NewRouter(repos.Links, repos.Chat, repos.CRM, threadUC, logger)

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.NewTelegramServer(tgClient, router, logger)
	srv.Start(ctx)

	logger.Info().Msg("shutting down")
}
