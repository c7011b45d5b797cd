package epg

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/overscan-labs/epgrid/internal/model"
)

// Merge attaches programmes to their channels, preserving the
// chronological order established by Parse. Programmes referencing an
// unknown channel id are logged and dropped. Single grouping pass, so
// cost stays O(C+P) for large feeds.
func Merge(channels []model.Channel, programmes []model.Programme) []model.ChannelGuide {
	byChannel := make(map[string][]model.Programme, len(channels))
	known := make(map[string]bool, len(channels))
	for _, ch := range channels {
		known[ch.ID] = true
	}

	for _, p := range programmes {
		if !known[p.ChannelID] {
			log.Warn().Str("channel", p.ChannelID).Time("start", p.Start).Msg("dropping orphan programme")
			continue
		}
		byChannel[p.ChannelID] = append(byChannel[p.ChannelID], p)
	}

	guides := make([]model.ChannelGuide, 0, len(channels))
	for _, ch := range channels {
		guides = append(guides, model.ChannelGuide{
			Channel:    ch,
			Programmes: byChannel[ch.ID],
		})
	}
	return guides
}

// FilterChannels keeps the guides whose channel id is in ids. An empty id
// list keeps nothing; callers apply their default channel set first.
func FilterChannels(guides []model.ChannelGuide, ids []string) []model.ChannelGuide {
	want := toSet(ids)
	out := make([]model.ChannelGuide, 0, len(ids))
	for _, g := range guides {
		if want[g.ID] {
			out = append(out, g)
		}
	}
	return out
}

// FilterProgrammes keeps programmes on the given channels and, with
// todayOnly, only those starting on now's calendar date in loc.
func FilterProgrammes(programmes []model.Programme, ids []string, todayOnly bool, now time.Time, loc *time.Location) []model.Programme {
	want := toSet(ids)
	today := now.In(loc)
	out := make([]model.Programme, 0, len(programmes))
	for _, p := range programmes {
		if !want[p.ChannelID] {
			continue
		}
		if todayOnly && !sameDate(p.Start.In(loc), today) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
