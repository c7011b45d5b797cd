package db

import (
	"context"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/overscan-labs/epgrid/internal/model"
)

type progKey struct {
	channelID string
	start     time.Time
}

// ReplaceGuide clears the stored guide and repopulates it from guides
// inside one transaction: the feed is a daily full snapshot, so sync is a
// full replace, never an incremental update. Readers observe either the
// old complete dataset or the new one. Duplicate channel ids and duplicate
// (channel_id, start) keys within the batch are logged and skipped, never
// overwritten.
func (s *pgStore) ReplaceGuide(ctx context.Context, guides []model.ChannelGuide) (model.SyncReport, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return model.SyncReport{}, fmt.Errorf("begin replace: %w", err)
	}
	defer func() {
		// no-op after a successful commit
		_ = tx.Rollback()
	}()

	for _, stmt := range []string{
		`DELETE FROM programme_credits;`,
		`DELETE FROM programmes;`,
		`DELETE FROM channels;`,
	} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return model.SyncReport{}, fmt.Errorf("clear guide: %w", err)
		}
	}

	var report model.SyncReport
	seenChannels := make(map[string]bool, len(guides))
	seenProgrammes := make(map[progKey]bool)

	for _, g := range guides {
		if seenChannels[g.ID] {
			// duplicate channel definition in the feed; keep the first
			log.Warn().Str("channel", g.ID).Msg("duplicate channel id in batch, skipping")
			report.Skipped++
		} else {
			seenChannels[g.ID] = true
			const q = `
			INSERT INTO channels (id, display_name, icon, url)
			VALUES ($1, $2, $3, $4);`
			if _, err := tx.ExecContext(ctx, q, g.ID, g.DisplayName, g.Icon, g.URL); err != nil {
				return model.SyncReport{}, fmt.Errorf("insert channel %q: %w", g.ID, err)
			}
			report.Channels++
		}

		for _, p := range g.Programmes {
			key := progKey{channelID: p.ChannelID, start: p.Start.UTC()}
			if seenProgrammes[key] {
				log.Warn().Str("channel", p.ChannelID).Time("start", p.Start).Str("title", p.Title).
					Msg("duplicate programme key in batch, skipping")
				report.Skipped++
				continue
			}
			seenProgrammes[key] = true

			const q = `
			INSERT INTO programmes (channel_id, start, stop, title, sub_title, "desc")
			VALUES ($1, $2, $3, $4, $5, $6);`
			if _, err := tx.ExecContext(ctx, q, p.ChannelID, p.Start, p.Stop, p.Title, p.SubTitle, p.Desc); err != nil {
				return model.SyncReport{}, fmt.Errorf("insert programme %q/%s: %w", p.ChannelID, p.Start, err)
			}
			report.Programmes++

			for i, c := range p.Credits {
				const q = `
				INSERT INTO programme_credits (channel_id, start, position, role, name)
				VALUES ($1, $2, $3, $4, $5);`
				if _, err := tx.ExecContext(ctx, q, p.ChannelID, p.Start, i, c.Role, c.Name); err != nil {
					return model.SyncReport{}, fmt.Errorf("insert credit for %q/%s: %w", p.ChannelID, p.Start, err)
				}
			}
		}
	}

	if s.beforeCommit != nil {
		if err := s.beforeCommit(); err != nil {
			return model.SyncReport{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return model.SyncReport{}, fmt.Errorf("commit replace: %w", err)
	}

	report.FinishedAt = time.Now()
	return report, nil
}

func (s *pgStore) QueryProgrammes(ctx context.Context, channelIDs []string, day time.Time, loc *time.Location) ([]model.GuideEntry, error) {
	// day bounds computed in the display zone; the column stores absolute
	// instants, so a range scan stays index-friendly
	local := day.In(loc)
	lower := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	upper := lower.AddDate(0, 0, 1)

	var entries []model.GuideEntry
	const q = `
	SELECT p.channel_id, p.start, p.stop, p.title, p.sub_title, p."desc", c.display_name
	  FROM programmes p
	  JOIN channels c ON c.id = p.channel_id
	 WHERE p.channel_id = ANY($1)
	   AND p.start >= $2 AND p.start < $3
	 ORDER BY p.start, p.channel_id;`
	if err := s.db.SelectContext(ctx, &entries, q, pq.Array(channelIDs), lower, upper); err != nil {
		log.Error().Err(err).Msg("QueryProgrammes failed")
		return nil, err
	}
	return entries, nil
}
