package endpoints

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/overscan-labs/epgrid/internal/db"
	"github.com/overscan-labs/epgrid/internal/grid"
	"github.com/overscan-labs/epgrid/internal/http/api"
	"github.com/overscan-labs/epgrid/internal/http/api/public/packets"
	"github.com/overscan-labs/epgrid/internal/redis"
	"github.com/overscan-labs/epgrid/internal/selection"
)

const gridCacheTTL = 5 * time.Minute

type GuideController struct {
	store    db.Store
	cache    *redis.Cache
	display  *time.Location
	defaults []string
}

func newGuideController(store db.Store, cache *redis.Cache, display *time.Location, defaults []string) *GuideController {
	return &GuideController{store: store, cache: cache, display: display, defaults: defaults}
}

// GuideModule mounts the public guide endpoints.
func GuideModule(store db.Store, cache *redis.Cache, display *time.Location, defaults []string) api.Module {
	ctl := newGuideController(store, cache, display, defaults)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/guide", ctl.getGuide)
		c.GET("/channels", ctl.listChannels)
		c.GET("/selection", ctl.getSelection)
		c.POST("/selection", ctl.setSelection)
	})
}

// GET /api/guide?date=2006-01-02&channels=a,b,c
func (g *GuideController) getGuide(ctx *gin.Context) (any, *api.APIError) {
	now := time.Now()

	day := now
	if raw := ctx.Query("date"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, g.display)
		if err != nil {
			return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid date"}
		}
		day = parsed
	}

	channels := selection.FromQuery(ctx.Query("channels"))
	if len(channels) == 0 {
		channels = selection.FromCookie(ctx)
	}
	if len(channels) == 0 {
		channels = g.defaults
	}

	dateKey := day.In(g.display).Format("2006-01-02")
	cacheKey := redis.GridKey(g.cache.Version(ctx), channels, dateKey)
	if payload, ok := g.cache.GetGrid(ctx, cacheKey); ok {
		return json.RawMessage(payload), nil
	}

	entries, err := g.store.QueryProgrammes(ctx, channels, day, g.display)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not load programmes"}
	}

	view := grid.Build(entries, now, g.display)
	if payload, err := json.Marshal(view); err == nil {
		g.cache.SetGrid(ctx, cacheKey, payload, gridCacheTTL)
	} else {
		log.Error().Err(err).Msg("failed to marshal grid for cache")
	}
	return view, nil
}

// GET /api/channels
func (g *GuideController) listChannels(ctx *gin.Context) (any, *api.APIError) {
	all, err := g.store.ListChannels(ctx)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not list channels"}
	}

	out := make([]packets.ChannelResponse, 0, len(all))
	for _, ch := range all {
		out = append(out, packets.ChannelResponse{
			ID:          ch.ID,
			DisplayName: ch.DisplayName,
			Icon:        ch.Icon,
			URL:         ch.URL,
		})
	}
	return out, nil
}

// GET /api/selection
func (g *GuideController) getSelection(ctx *gin.Context) (any, *api.APIError) {
	channels := selection.FromCookie(ctx)
	if len(channels) == 0 {
		channels = g.defaults
	}
	return packets.SelectionResponse{Channels: channels}, nil
}

// POST /api/selection
func (g *GuideController) setSelection(ctx *gin.Context) (any, *api.APIError) {
	var request packets.SelectionRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	if err := selection.SetCookie(ctx, request.Channels); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not store selection"}
	}
	return packets.SelectionResponse{Channels: request.Channels}, nil
}
