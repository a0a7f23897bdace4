package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/sonroyaalmerol/wavebot/internal/config"
	"github.com/sonroyaalmerol/wavebot/internal/handlers"
	"github.com/sonroyaalmerol/wavebot/internal/logging"
	"github.com/sonroyaalmerol/wavebot/internal/repository"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}
	_, logCloser, err := logging.Setup(cfg.Log)
	if err != nil {
		log.Fatal(err)
	}
	defer logCloser.Close()

	db, err := repository.OpenDB(cfg)
	if err != nil {
		slog.Error("failed to open database", "dataDir", cfg.DataDir, "err", err)
		os.Exit(1)
	}
	repo := repository.NewRepo(db)
	defer repo.Close()

	bot := handlers.NewBot(cfg, repo)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	slog.Info("starting wavebot", "prefix", cfg.CommandPrefix, "lavalink", cfg.LavalinkAddress, "spotify", cfg.SpotifyEnabled())
	if err := bot.Run(ctx); err != nil {
		slog.Error("bot stopped", "err", err)
		os.Exit(1)
	}
}
