package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/overscan-labs/epgrid/internal/config"
	"github.com/overscan-labs/epgrid/internal/db"
	"github.com/overscan-labs/epgrid/internal/grid"
	"github.com/overscan-labs/epgrid/internal/selection"
)

// GET / renders today's guide for the viewer's selected channels.
func indexPage(store db.Store, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		channels := selection.FromCookie(c)
		if len(channels) == 0 {
			channels = cfg.DefaultChannels
		}

		now := time.Now()
		entries, err := store.QueryProgrammes(c, channels, now, cfg.Display)
		if err != nil {
			log.Error().Err(err).Msg("failed to load guide for index page")
			c.String(http.StatusInternalServerError, "could not load guide")
			return
		}

		view := grid.Build(entries, now, cfg.Display)
		c.HTML(http.StatusOK, "index.html", gin.H{
			"Grid":   view,
			"Date":   now.In(cfg.Display).Format("2006-01-02"),
			"Anchor": view.Anchor,
		})
	}
}

// GET /settings renders the channel picker.
func settingsPage(store db.Store, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		channels, err := store.ListChannels(c)
		if err != nil {
			log.Error().Err(err).Msg("failed to list channels for settings page")
			c.String(http.StatusInternalServerError, "could not load channels")
			return
		}

		selected := selection.FromCookie(c)
		if len(selected) == 0 {
			selected = cfg.DefaultChannels
		}
		selectedSet := make(map[string]bool, len(selected))
		for _, id := range selected {
			selectedSet[id] = true
		}

		c.HTML(http.StatusOK, "settings.html", gin.H{
			"Channels": channels,
			"Selected": selectedSet,
		})
	}
}

// POST /settings stores the picked channels in the selection cookie and
// sends the viewer back to the guide.
func saveSettings() gin.HandlerFunc {
	return func(c *gin.Context) {
		channels := c.PostFormArray("channels")
		if err := selection.SetCookie(c, channels); err != nil {
			c.String(http.StatusInternalServerError, "could not store selection")
			return
		}
		c.Redirect(http.StatusFound, "/")
	}
}
