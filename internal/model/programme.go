package model

import "time"

// Programme is a single broadcast. Two programmes are the same logical
// broadcast iff they share (ChannelID, Start); there is no surrogate key
// exposed outside the store.
type Programme struct {
	ChannelID string    `db:"channel_id" json:"channel_id"`
	Start     time.Time `db:"start" json:"start"`
	Stop      time.Time `db:"stop" json:"stop"`
	Title     string    `db:"title" json:"title"`
	SubTitle  *string   `db:"sub_title" json:"sub_title,omitempty"`
	Desc      *string   `db:"desc" json:"desc,omitempty"`
	Credits   []Credit  `db:"-" json:"credits,omitempty"`
}

// Credit is one (role, name) pair from the feed's credits block, e.g.
// ("director", "Lana Wachowski"). Order follows the feed.
type Credit struct {
	Role string `db:"role" json:"role"`
	Name string `db:"name" json:"name"`
}

// GuideEntry is a programme joined with its channel's display name, the
// shape the store query returns and the grid builder consumes.
type GuideEntry struct {
	Programme
	ChannelName string `db:"display_name" json:"channel_name"`
}
