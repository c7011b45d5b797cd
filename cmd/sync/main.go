// Daily batch entrypoint: fetch the feed once, normalize it, and replace
// the stored guide. Intended to run from cron.
package main

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/overscan-labs/epgrid/internal/config"
	"github.com/overscan-labs/epgrid/internal/db"
	"github.com/overscan-labs/epgrid/internal/feed"
	"github.com/overscan-labs/epgrid/internal/guide"
	"github.com/overscan-labs/epgrid/internal/notify"
	"github.com/overscan-labs/epgrid/internal/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	conn, err := db.Init(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("db init failed")
	}

	if err := db.RunMigrations(conn, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("db migrate failed")
	}

	notifier, err := notify.New(cfg.MQTTBrokerURL)
	if err != nil {
		log.Warn().Err(err).Msg("MQTT notifier unavailable")
	}
	defer notifier.Close()

	runner := &guide.Runner{
		Config: guide.Config{
			EPGURL:  cfg.EPGURL,
			DataDir: cfg.DataDir,
			Strict:  cfg.EPGStrict,
		},
		Store:    db.NewStore(conn),
		Fetcher:  feed.NewFetcher(),
		Cache:    redis.New(cfg.RedisAddress, cfg.RedisUsername, cfg.RedisPassword),
		Notifier: notifier,
	}

	report, err := runner.Run(context.Background())
	if err != nil {
		log.Fatal().Err(err).Msg("guide sync failed")
	}

	log.Info().
		Int("channels", report.Channels).
		Int("programmes", report.Programmes).
		Int("skipped", report.Skipped).
		Msg("done")
}
