package app

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/imok-coding/otakulib/internal/middleware"
	"github.com/imok-coding/otakulib/internal/modules/activity"
	"github.com/imok-coding/otakulib/internal/modules/library"
	"github.com/imok-coding/otakulib/internal/modules/post"
	"github.com/imok-coding/otakulib/internal/modules/proxy"
	"github.com/imok-coding/otakulib/internal/modules/settings"
	"github.com/imok-coding/otakulib/internal/modules/user"
	"github.com/imok-coding/otakulib/internal/pkg/response"
)

func (a *App) registerRoutes() {
	r := a.router
	db := a.db

	authMW := middleware.Auth(db)
	adminMW := middleware.RequireAdmin()

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	appInfo := gin.H{
		"name":     "otakulib",
		"version":  "1.0.0",
		"homepage": "https://github.com/imok-coding/otakulib",
	}

	api := r.Group("/api/v2")
	api.Use(middleware.OptionalAuth(db))

	api.GET("", func(c *gin.Context) { c.PureJSON(http.StatusOK, appInfo) })
	api.GET("/info", func(c *gin.Context) { c.PureJSON(http.StatusOK, appInfo) })
	api.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"data": "pong"}) })
	api.GET("/uptime", func(c *gin.Context) {
		uptimeMs := time.Since(processStart).Milliseconds()
		c.JSON(http.StatusOK, gin.H{
			"timestamp": uptimeMs,
			"humanize":  humanizeDuration(time.Duration(uptimeMs) * time.Millisecond),
		})
	})

	// Shared services
	settingsSvc := settings.NewService(db)
	userSvc := user.NewService(db)

	// Activity pipeline: local bounded log in Redis, webhook notifier with
	// the target resolved once from settings.
	store := activity.NewStore(activity.NewRedisKV(a.rc), a.logger)
	resolver := activity.NewResolver(settingsSvc.NotifyURL)
	notifier := activity.NewNotifier(resolver, a.logger)
	recorder := activity.NewRecorder(store, notifier)

	// Settings
	settings.NewHandler(settingsSvc).RegisterRoutes(api, authMW, adminMW)

	// Auth & user
	user.NewHandler(userSvc, recorder, db).RegisterRoutes(api, authMW)

	// Content
	post.NewHandler(post.NewService(db), recorder, userSvc).RegisterRoutes(api, authMW, adminMW)
	library.NewHandler(library.NewService(db), recorder, userSvc).RegisterRoutes(api, authMW, adminMW)

	// Activity log (admin dashboard)
	activity.NewHandler(store).RegisterRoutes(api, authMW, adminMW)

	// Upstream page proxies (anime list, card price feeds)
	proxySvc := proxy.NewService(settingsSvc.ProxySource, a.rc, a.logger)
	proxy.NewHandler(proxySvc).RegisterRoutes(api)
}
