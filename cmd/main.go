package main

import (
	"context"
	"errors"
	"os"

	"github.com/desertthunder/encore/internal/services"
	"github.com/desertthunder/encore/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	if config.Logging.File != "" {
		logger = shared.NewFileLogger(config.Logging.File, config.Logging.MaxSizeMB, config.Logging.MaxBackups)
	}

	var setlistService *services.SetlistFMService
	if svc, err := services.NewSetlistFMService(config.Credentials.SetlistFM.APIKey); err == nil {
		setlistService = svc
	}

	var spotifyService *services.SpotifyService
	if svc, err := services.NewSpotifyService(
		config.Credentials.Spotify.ClientID,
		config.Credentials.Spotify.ClientSecret,
	); err == nil {
		spotifyService = svc
	}

	runner := NewRunner(RunnerOpts{
		Config:  config,
		Setlist: setlistService,
		Spotify: spotifyService,
		Logger:  logger,
	})

	app := &cli.Command{
		Name:     "encore",
		Usage:    "Generate Spotify playlists from artists' recent live setlists",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		err_ := errors.Unwrap(err)
		if errors.Is(err_, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}
