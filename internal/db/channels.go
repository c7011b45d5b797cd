package db

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/overscan-labs/epgrid/internal/model"
)

func (s *pgStore) ListChannels(ctx context.Context) ([]model.Channel, error) {
	var channels []model.Channel
	const q = `
	SELECT id, display_name, icon, url
	  FROM channels
	 ORDER BY id;`
	if err := s.db.SelectContext(ctx, &channels, q); err != nil {
		log.Error().Err(err).Msg("ListChannels failed")
		return nil, err
	}
	return channels, nil
}
