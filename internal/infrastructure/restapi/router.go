package restapi

import (
	"net/http"
	"strconv"
	"time"

	"asset_aggregator/internal/config"
	"asset_aggregator/internal/observability"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// SetupRouter configures and returns the Gin router.
func SetupRouter(handler *AssetHandler, cfg config.ServerConfig, metrics *observability.Metrics) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	if len(cfg.CORSAllowOrigins) > 0 {
		corsCfg := cors.DefaultConfig()
		corsCfg.AllowOrigins = cfg.CORSAllowOrigins
		router.Use(cors.New(corsCfg))
	} else {
		router.Use(cors.Default())
	}

	if metrics != nil {
		router.Use(metricsMiddleware(metrics))
		router.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	v1 := router.Group("/api/v1")
	{
		v1.GET("/assets", handler.GetAssetsHandler)
		v1.GET("/assets/search", handler.SearchAssetsHandler)
		v1.GET("/wallets/:owner/assets", handler.GetWalletAssetsHandler)
		v1.GET("/prices", handler.GetPricesHandler)
		v1.GET("/prices/history", handler.GetPriceHistoryHandler)
	}

	return router
}

// metricsMiddleware records request counts and latency per route.
func metricsMiddleware(metrics *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.APIRequestsTotal.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.APIRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}
