package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/cinescout/cinescout/internal/api"
	"github.com/cinescout/cinescout/internal/config"
	"github.com/cinescout/cinescout/internal/discover"
	"github.com/cinescout/cinescout/internal/logger"
	"github.com/cinescout/cinescout/internal/scheduler"
	"github.com/cinescout/cinescout/internal/startup"
)

func main() {
	configPath := flag.String("config", "", "Path to config file")
	initConfig := flag.Bool("init-config", false, "Write a starter config.yaml and exit")
	flag.Parse()

	// Optional .env for local development; a missing file is fine
	_ = godotenv.Load()

	if *initConfig {
		path := *configPath
		if path == "" {
			path = "config.yaml"
		}
		if err := config.WriteDefault(path); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("wrote %s\n", path)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Path:       cfg.Logging.Path,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
		Compress:   cfg.Logging.Compress,
	})
	defer log.Close()

	log.Info().
		Str("version", config.Version).
		Str("logLevel", cfg.Logging.Level).
		Msg("starting CineScout")

	if cfg.Sentry.DSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.Sentry.DSN,
			Environment:      cfg.Sentry.Environment,
			Release:          config.Version,
			AttachStacktrace: true,
		})
		if err != nil {
			log.Warn().Err(err).Msg("failed to initialize sentry")
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	svc := discover.NewService(cfg.TMDB, log.Logger)

	if !svc.IsConfigured() {
		log.Warn().Msg("no TMDB token configured, movie lookups will return empty results")
	} else {
		err := startup.Retry(context.Background(), "tmdb connectivity probe", startup.DefaultRetryConfig(), func() error {
			return svc.Probe(context.Background())
		}, log.Logger)
		if err != nil {
			log.Warn().Err(err).Msg("TMDB unreachable, continuing with fallback responses")
		}
	}

	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		sched, err = scheduler.New(log.Logger)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create scheduler")
		}

		err = sched.Register(scheduler.Task{
			ID:          "trending-refresh",
			Name:        "Trending refresh",
			Description: "Re-primes the trending movie cache",
			Cron:        "* * * * *",
			RunOnStart:  true,
			Run:         svc.RefreshTrending,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to register trending refresh task")
		}

		sched.Start()
	}

	server := api.NewServer(cfg, svc, sched, uuid.NewString(), log.Logger)

	go func() {
		if err := server.Start(cfg.Server.Address()); err != nil {
			log.Info().Msg("server stopped")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	log.Info().Msg("received shutdown signal")

	if sched != nil {
		if err := sched.Stop(); err != nil {
			log.Error().Err(err).Msg("scheduler shutdown error")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}

	log.Info().Msg("server stopped")
}
