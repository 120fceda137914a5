package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/hainm/keobot/internal/api"
	"github.com/hainm/keobot/internal/bot"
	"github.com/hainm/keobot/internal/config"
	"github.com/hainm/keobot/internal/db"
	"github.com/hainm/keobot/internal/event"
	"github.com/hainm/keobot/internal/platform"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	loc, err := cfg.Location()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load timezone")
	}

	// Connect to database
	database, err := db.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer database.Close()

	// Run migrations
	if err := database.RunMigrations(context.Background()); err != nil {
		logger.Fatal().Err(err).Msg("failed to run migrations")
	}

	events := event.NewService(database, nil)
	handler := bot.New(events, cfg.CommandPrefix, loc, logger.With().Str("component", "bot").Logger())

	// Start one adapter per configured platform token.
	var adapters []platform.Adapter
	if cfg.TelegramToken != "" {
		tg, err := platform.NewTelegram(cfg.TelegramToken, cfg.CommandPrefix, handler,
			logger.With().Str("component", "telegram").Logger())
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to create telegram adapter")
		}
		adapters = append(adapters, tg)
	}
	if cfg.DiscordToken != "" {
		dc, err := platform.NewDiscord(cfg.DiscordToken, cfg.CommandPrefix, handler,
			logger.With().Str("component", "discord").Logger())
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to create discord adapter")
		}
		adapters = append(adapters, dc)
	}

	for _, a := range adapters {
		if err := a.Start(); err != nil {
			logger.Fatal().Err(err).Msg("failed to start platform adapter")
		}
	}

	// Start API server
	apiServer := api.New(cfg.WebBind, events, logger.With().Str("component", "api").Logger())
	go func() {
		if err := apiServer.Start(); err != nil {
			logger.Error().Err(err).Msg("api server error")
		}
	}()

	// Wait for signal to stop
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info().Msg("shutting down")
	for _, a := range adapters {
		if err := a.Stop(); err != nil {
			logger.Error().Err(err).Msg("failed to stop platform adapter")
		}
	}
}
