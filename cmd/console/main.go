package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/sowlstudios/admin-console/internal/api"
	"github.com/sowlstudios/admin-console/internal/bookings"
	"github.com/sowlstudios/admin-console/internal/config"
	"github.com/sowlstudios/admin-console/internal/console"
	"github.com/sowlstudios/admin-console/internal/health"
	"github.com/sowlstudios/admin-console/internal/metrics"
	"github.com/sowlstudios/admin-console/internal/model"
	"github.com/sowlstudios/admin-console/internal/session"
	"github.com/sowlstudios/admin-console/internal/sse"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	setLogLevel(cfg.LogLevel)

	store := session.NewStore(cfg.SessionFile)
	if err := store.Restore(); err != nil {
		log.Fatal().Err(err).Msg("failed to restore session")
	}

	client := api.NewClient(cfg.APIBaseURL, cfg.ActuatorBaseURL, cfg.HTTPTimeout(), store)
	client.OnSessionExpired(func() {
		log.Warn().Msg("session expired, admin must login again")
	})

	auth := session.NewAuth(client, store)

	// A persisted token is validated before any protected state is served;
	// a rejected token routes straight back to login.
	if store.Authenticated() {
		if err := auth.Validate(context.Background()); err != nil {
			log.Warn().Err(err).Msg("persisted session invalid, login required")
		} else {
			user, _ := store.User()
			log.Info().Str("username", user.Username).Msg("session restored")
		}
	} else {
		log.Info().Msg("no persisted session, login required")
	}

	bookingManager := bookings.NewManager(client)
	aggregator := metrics.NewAggregator(client)
	broker := sse.NewBroker()
	defer broker.Close()

	poller := health.NewPoller(client, cfg.HealthPollInterval())
	poller.SetOnSnapshot(func(snapshot *model.HealthSnapshot) {
		if err := broker.Publish(sse.TypeHealthSnapshot, snapshot); err != nil {
			log.Error().Err(err).Msg("failed to publish health snapshot")
		}
	})
	poller.Start()
	defer poller.Stop()

	server := &http.Server{
		Addr:        cfg.Addr(),
		Handler:     console.NewServer(auth, store, bookingManager, aggregator, poller, broker).Routes(),
		ReadTimeout: config.ServerReadTimeout,
		IdleTimeout: config.ServerIdleTimeout,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr()).Msg("starting console server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down console")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), config.ServerShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("console stopped")
}

func setLogLevel(level string) {
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
