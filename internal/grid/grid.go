// Package grid aligns a day's programmes into a time-bucketed matrix for
// the guide view.
package grid

import (
	"sort"
	"time"

	"github.com/overscan-labs/epgrid/internal/model"
)

// Column is one channel column, in the fixed order of the grid.
type Column struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Row is one time bucket. Cells runs parallel to the grid's columns; a nil
// cell means the channel has no programme starting in this bucket.
type Row struct {
	Time  string              `json:"time"`
	Cells []*model.GuideEntry `json:"cells"`
}

// Grid is the display-ready matrix. Anchor is the bucket whose start is
// closest to the build instant, used to scroll the view to "now".
type Grid struct {
	Columns []Column `json:"columns"`
	Rows    []Row    `json:"rows"`
	Anchor  string   `json:"anchor"`
}

// Build buckets entries by their start time-of-day in loc, formatted
// HH:MM, and lays them out against the channel columns. Entries are
// expected to be pre-filtered to a single date; Build does not filter.
// Zone conversion happens only here, at the formatting boundary; all
// inputs stay absolute instants.
func Build(entries []model.GuideEntry, now time.Time, loc *time.Location) Grid {
	g := Grid{Anchor: "00:00"}
	if len(entries) == 0 {
		return g
	}

	byID := make(map[string]string, len(entries))
	buckets := make(map[string]map[string]*model.GuideEntry)
	var bestDelta time.Duration = -1

	for i := range entries {
		e := &entries[i]
		byID[e.ChannelID] = e.ChannelName

		key := e.Start.In(loc).Format("15:04")
		cells, ok := buckets[key]
		if !ok {
			cells = make(map[string]*model.GuideEntry)
			buckets[key] = cells
		}
		// malformed feeds can put two programmes of one channel in the
		// same bucket; last write wins
		cells[e.ChannelID] = e

		delta := now.Sub(e.Start)
		if delta < 0 {
			delta = -delta
		}
		if bestDelta < 0 || delta < bestDelta {
			bestDelta = delta
			g.Anchor = key
		}
	}

	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	g.Columns = make([]Column, 0, len(ids))
	for _, id := range ids {
		g.Columns = append(g.Columns, Column{ID: id, Name: byID[id]})
	}

	keys := make([]string, 0, len(buckets))
	for key := range buckets {
		keys = append(keys, key)
	}
	// lexicographic equals chronological for zero-padded HH:MM
	sort.Strings(keys)

	g.Rows = make([]Row, 0, len(keys))
	for _, key := range keys {
		row := Row{Time: key, Cells: make([]*model.GuideEntry, len(ids))}
		for i, id := range ids {
			row.Cells[i] = buckets[key][id]
		}
		g.Rows = append(g.Rows, row)
	}
	return g
}
