package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"etfpulse/internal/api/twelvedata"
	"etfpulse/internal/cache"
	"etfpulse/internal/config"
	"etfpulse/internal/fixtures"
	"etfpulse/internal/gateway"
	"etfpulse/internal/refresher"
	"etfpulse/internal/server"
	"etfpulse/internal/state"
	"etfpulse/internal/synth"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("loading configuration")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if cfg.TwelveAPIKey == "" {
		log.Warn().Msg("TWELVE_API_KEY not set, every request will serve fallback data")
	}

	provider := twelvedata.NewClient(twelvedata.ClientOptions{
		APIKey:         cfg.TwelveAPIKey,
		BaseURL:        cfg.BaseURL,
		RequestTimeout: cfg.RequestTimeout,
		RequestsPerSec: cfg.RequestsPerSec,
	})
	gw := gateway.New(provider, cache.New(cfg.CacheTTL), synth.New())

	store, err := state.Open(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("opening state store")
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if !cfg.RefreshDisabled && cfg.TwelveAPIKey != "" {
		ref := refresher.New(gw, fixtures.TrendingSymbols)
		if err := ref.Start(ctx, cfg.RefreshCron); err != nil {
			log.Fatal().Err(err).Msg("starting refresher")
		}
		defer ref.Stop()
	}

	srv := &http.Server{
		Addr:        cfg.ListenAddr,
		Handler:     server.New(gw, store),
		ReadTimeout: 15 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.ListenAddr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown incomplete")
	}
}
