package model

// Channel is one broadcaster from the EPG feed. The feed's network
// identifier is the natural key and stays stable across refreshes.
type Channel struct {
	ID          string  `db:"id" json:"id"`
	DisplayName string  `db:"display_name" json:"display_name"`
	Icon        *string `db:"icon" json:"icon,omitempty"`
	URL         *string `db:"url" json:"url,omitempty"`
}

// ChannelGuide is a channel together with its programmes in broadcast
// order, as produced by the merge step and consumed by the store sync.
type ChannelGuide struct {
	Channel
	Programmes []Programme `json:"programmes"`
}
