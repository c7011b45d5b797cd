package model

import "time"

// SyncReport summarises one guide replacement run.
type SyncReport struct {
	Channels   int       `json:"channels"`
	Programmes int       `json:"programmes"`
	Skipped    int       `json:"skipped"`
	FinishedAt time.Time `json:"finished_at"`
}
