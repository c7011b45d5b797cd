// Package guide runs the ingestion pipeline: fetch the daily feed,
// normalize it, and replace the stored guide.
package guide

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/overscan-labs/epgrid/internal/db"
	"github.com/overscan-labs/epgrid/internal/epg"
	"github.com/overscan-labs/epgrid/internal/feed"
	"github.com/overscan-labs/epgrid/internal/model"
	"github.com/overscan-labs/epgrid/internal/notify"
	"github.com/overscan-labs/epgrid/internal/redis"
)

// Config holds the settings one sync run needs.
type Config struct {
	EPGURL  string
	DataDir string
	Strict  bool
}

// Fetcher downloads the raw feed; separated for easier testing.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Runner wires the pipeline stages together. Cache and Notifier may be
// nil; the run then skips invalidation and notification.
type Runner struct {
	Config   Config
	Store    db.Store
	Fetcher  Fetcher
	Cache    *redis.Cache
	Notifier *notify.Notifier
}

// Run executes one complete sync: snapshot → parse → merge → replace. The
// job is a single-threaded batch; any failure before the store replace
// leaves the store untouched, and the replace itself is transactional.
func (r *Runner) Run(ctx context.Context) (model.SyncReport, error) {
	log.Info().Str("event", "sync.start").Str("url", r.Config.EPGURL).Msg("starting guide sync")

	day := time.Now()
	if feed.SnapshotExists(r.Config.DataDir, day) {
		log.Info().Str("event", "sync.snapshot_cached").Str("path", feed.SnapshotPath(r.Config.DataDir, day)).
			Msg("using existing snapshot, skipping fetch")
	} else {
		raw, err := r.Fetcher.Fetch(ctx, r.Config.EPGURL)
		if err != nil {
			return model.SyncReport{}, fmt.Errorf("fetch feed: %w", err)
		}
		if err := feed.WriteSnapshot(r.Config.DataDir, day, raw); err != nil {
			return model.SyncReport{}, err
		}
		log.Info().Str("event", "sync.snapshot_written").Int("bytes", len(raw)).Msg("feed downloaded")
	}

	raw, err := feed.ReadSnapshot(r.Config.DataDir, day)
	if err != nil {
		return model.SyncReport{}, err
	}

	parser := epg.Parser{Strict: r.Config.Strict}
	channels, programmes, err := parser.Parse(bytes.NewReader(raw))
	if err != nil {
		return model.SyncReport{}, fmt.Errorf("parse feed: %w", err)
	}
	log.Info().Str("event", "sync.parsed").Int("channels", len(channels)).Int("programmes", len(programmes)).
		Msg("feed normalized")

	guides := epg.Merge(channels, programmes)

	report, err := r.Store.ReplaceGuide(ctx, guides)
	if err != nil {
		return model.SyncReport{}, fmt.Errorf("replace guide: %w", err)
	}

	r.Cache.BumpVersion(ctx)
	if err := r.Notifier.GuideUpdated(report); err != nil {
		// notification is best-effort; the guide is already replaced
		log.Warn().Err(err).Msg("guide update notification failed")
	}

	log.Info().Str("event", "sync.success").
		Int("channels", report.Channels).
		Int("programmes", report.Programmes).
		Int("skipped", report.Skipped).
		Msg("guide sync completed")
	return report, nil
}
