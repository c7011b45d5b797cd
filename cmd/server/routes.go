package main

import (
	"html/template"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/overscan-labs/epgrid/internal/config"
	"github.com/overscan-labs/epgrid/internal/db"
	"github.com/overscan-labs/epgrid/internal/guide"
	"github.com/overscan-labs/epgrid/internal/http/api"
	adminapi "github.com/overscan-labs/epgrid/internal/http/api/admin/endpoints"
	publicapi "github.com/overscan-labs/epgrid/internal/http/api/public/endpoints"
	"github.com/overscan-labs/epgrid/internal/redis"
)

// RegisterRoutes sets up all application routes
func RegisterRoutes(r *gin.Engine, cfg *config.Config, store db.Store, cache *redis.Cache, runner *guide.Runner, tmpl *template.Template) {
	r.SetHTMLTemplate(tmpl)
	// CORS
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool { return true },
		AllowMethods: []string{
			"GET",
			"POST",
			"OPTIONS",
			"HEAD",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Authorization",
			"Accept",
		},
		AllowCredentials: false,
	}))

	api.MountGroup(r, api.GroupConfig{
		Prefix: "/api",
	},
		publicapi.GuideModule(store, cache, cfg.Display, cfg.DefaultChannels),
	)

	api.MountGroup(r, api.GroupConfig{
		Prefix: "/api/admin",
		Auth:   false,
	},
		adminapi.AuthPublicModule(cfg.JWTSecret, cfg.AdminEmail, cfg.AdminPasswordHash),
	)

	api.MountGroup(r, api.GroupConfig{
		Prefix:    "/api/admin",
		Auth:      true,
		SecretKey: cfg.JWTSecret,
	},
		adminapi.SyncModule(runner),
	)

	// server-rendered guide pages
	r.GET("/", indexPage(store, cfg))
	r.GET("/settings", settingsPage(store, cfg))
	r.POST("/settings", saveSettings())
}
