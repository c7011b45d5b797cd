// exposes the Store interface the pipeline and API layers are written
// against; pgStore is the only production implementation
package db

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/overscan-labs/epgrid/internal/model"
)

type Store interface {
	// ReplaceGuide swaps the whole persisted guide for the incoming one
	// in a single transaction, deduplicating by natural key.
	ReplaceGuide(ctx context.Context, guides []model.ChannelGuide) (model.SyncReport, error)

	// QueryProgrammes returns the programmes of the given channels whose
	// start falls on day's calendar date in loc, joined with the channel
	// display name, ordered by start.
	QueryProgrammes(ctx context.Context, channelIDs []string, day time.Time, loc *time.Location) ([]model.GuideEntry, error)

	ListChannels(ctx context.Context) ([]model.Channel, error)
}

type pgStore struct {
	db *sqlx.DB

	// beforeCommit runs inside ReplaceGuide right before the transaction
	// commits; tests inject faults here to exercise the atomicity
	// contract. Nil in production.
	beforeCommit func() error
}

// compile-time check that pgStore implements Store
var _ Store = (*pgStore)(nil)

func NewStore(conn *sqlx.DB) Store {
	return &pgStore{db: conn}
}
