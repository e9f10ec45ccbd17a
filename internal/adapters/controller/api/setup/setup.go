package setup

import (
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"

	"github.com/Badsnus/events-backend/cmd/app"
	"github.com/Badsnus/events-backend/internal/adapters/controller/api/handlers/events"
	"github.com/Badsnus/events-backend/internal/adapters/controller/api/handlers/health"
	"github.com/Badsnus/events-backend/internal/adapters/controller/api/handlers/media"
	"github.com/Badsnus/events-backend/internal/adapters/controller/api/handlers/middlewares"
	"github.com/Badsnus/events-backend/internal/adapters/controller/api/handlers/notification"
	"github.com/Badsnus/events-backend/internal/adapters/controller/api/handlers/venues"
	"github.com/Badsnus/events-backend/internal/adapters/controller/api/handlers/weather"
)

// Setup builds the router with every handler attached.
func Setup(a *app.App) *gin.Engine {
	if !viper.GetBool("settings.debug") {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	middle := middlewares.New(a)
	router.Use(gin.Recovery(), middle.Logger)

	health.Setup(router)
	if viper.GetString("service.media.driver") == "local" {
		media.New(a).Setup(router)
	}

	// Identity is resolved for every API request; anonymous requests see published events only
	public := router.Group("/api", middle.Identify)
	admin := public.Group("", middle.RequireSuperuser)

	events.New(a).Setup(public, admin)
	weather.New(a).Setup(public)
	venues.New(a).Setup(admin)
	notification.New(a).Setup(admin)

	return router
}
