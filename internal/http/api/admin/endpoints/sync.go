package endpoints

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/overscan-labs/epgrid/internal/guide"
	"github.com/overscan-labs/epgrid/internal/http/api"
)

type SyncController struct {
	runner *guide.Runner
}

// SyncModule mounts the authenticated on-demand sync trigger. The same
// pipeline the daily batch runs, exposed for operators.
func SyncModule(runner *guide.Runner) api.Module {
	ctl := &SyncController{runner: runner}
	return api.ModuleFunc(func(c *api.Controller) {
		c.POST("/sync", ctl.runSync)
	})
}

// POST /api/admin/sync
func (s *SyncController) runSync(ctx *gin.Context) (any, *api.APIError) {
	report, err := s.runner.Run(ctx)
	if err != nil {
		log.Error().Err(err).Msg("on-demand sync failed")
		return nil, &api.APIError{Code: http.StatusBadGateway, Message: err.Error()}
	}
	return report, nil
}
