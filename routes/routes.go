// Package routes assembles the gin engine.
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"visittrack/api/config"
	"visittrack/api/database"
	"visittrack/api/handlers"
	"visittrack/api/metrics"
	"visittrack/api/middleware"
	"visittrack/api/store"
	"visittrack/api/utils"
	"visittrack/api/web"
)

type Deps struct {
	Config    *config.Config
	DB        *database.DBClient
	Visits    *store.VisitStore
	Chats     *store.ChatStore
	Completer handlers.Completer
	Metrics   *metrics.Metrics
}

func New(d Deps) *gin.Engine {
	cfg := d.Config

	r := gin.New()
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		logrus.WithError(err).Warn("Invalid TRUSTED_PROXIES, trusting no proxy")
		_ = r.SetTrustedProxies(nil)
	}
	r.SetHTMLTemplate(web.Templates())

	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.SecurityHeaders())
	if len(cfg.AllowedOrigins) > 0 {
		r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))
	}
	r.Use(middleware.Tracking(d.Visits, d.Metrics, cfg.CookieSecure))

	trackHandlers := handlers.NewTrackHandlers(d.Visits, d.Metrics)
	chatHandlers := handlers.NewChatHandlers(d.Chats, d.Completer, d.Metrics)
	adminHandlers := handlers.NewAdminHandlers(d.Visits, d.Chats, utils.NewAdminSecret(cfg.AdminPassword), cfg.CookieSecure)

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck(d.DB))
		api.POST("/track", trackHandlers.Beacon)
		api.POST("/chat", middleware.RateLimitByIP(cfg.Chat.RateLimit, cfg.Chat.RateWindow), chatHandlers.Chat)
	}

	admin := r.Group("/admin")
	{
		admin.POST("/login", adminHandlers.Login)
		admin.GET("/logout", adminHandlers.Logout)

		protected := admin.Group("")
		protected.Use(middleware.AdminAuth(adminHandlers.Secret))
		{
			protected.GET("", adminHandlers.Dashboard)
			protected.GET("/api/visits", adminHandlers.ListVisits)
			protected.GET("/api/stats", adminHandlers.Stats)
			protected.GET("/api/chats", adminHandlers.ListChats)
			protected.GET("/api/metrics", gin.WrapH(d.Metrics.Handler()))
		}
	}

	if cfg.StaticDir != "" {
		r.NoRoute(handlers.StaticFallback(cfg.StaticDir))
	} else {
		r.NoRoute(handlers.NotFound)
	}

	return r
}
