package main

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/overscan-labs/epgrid/internal/config"
	"github.com/overscan-labs/epgrid/internal/db"
	"github.com/overscan-labs/epgrid/internal/feed"
	"github.com/overscan-labs/epgrid/internal/guide"
	"github.com/overscan-labs/epgrid/internal/notify"
	"github.com/overscan-labs/epgrid/internal/redis"
)

func main() {
	// load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// initialize PostgreSQL
	conn, err := db.Init(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("db init failed")
	}

	// run pending migrations
	if err := db.RunMigrations(conn, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("db migrate failed")
	}

	store := db.NewStore(conn)
	cache := redis.New(cfg.RedisAddress, cfg.RedisUsername, cfg.RedisPassword)

	notifier, err := notify.New(cfg.MQTTBrokerURL)
	if err != nil {
		// the guide still serves without device notification
		log.Warn().Err(err).Msg("MQTT notifier unavailable")
	}

	runner := &guide.Runner{
		Config: guide.Config{
			EPGURL:  cfg.EPGURL,
			DataDir: cfg.DataDir,
			Strict:  cfg.EPGStrict,
		},
		Store:    store,
		Fetcher:  feed.NewFetcher(),
		Cache:    cache,
		Notifier: notifier,
	}

	r := gin.Default()
	RegisterRoutes(r, cfg, store, cache, runner, LoadTemplates())

	log.Info().Str("address", cfg.ServerAddress).Msg("listening")
	if err := r.Run(cfg.ServerAddress); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}
