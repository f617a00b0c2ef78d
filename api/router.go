package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/use-agent/pricecheck/api/handler"
	"github.com/use-agent/pricecheck/api/middleware"
	"github.com/use-agent/pricecheck/config"
	"github.com/use-agent/pricecheck/models"
)

// Service is everything the HTTP layer needs from the scraper.
type Service interface {
	handler.Searcher
	handler.ProductFetcher
	EngineName() string
}

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Recovery → RequestID → RequestLogger → MetricsRecorder → CORS
//
// Unmatched GET/HEAD requests outside /api are served from the public
// asset directory.
func NewRouter(svc Service, cfg *config.Config, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.MetricsRecorder())
	r.Use(middleware.CORS())

	api := r.Group("/api")
	api.GET("/health", handler.Health(svc.EngineName(), startTime))
	api.GET("/search", handler.Search(svc, cfg.Sources.DefaultPlatform))
	api.GET("/product", handler.Product(svc))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.NoRoute(staticFiles(cfg.Server.PublicDir))

	return r
}

// staticFiles serves dir at the site root for unmatched routes.
func staticFiles(dir string) gin.HandlerFunc {
	fs := http.FileServer(http.Dir(dir))
	return func(c *gin.Context) {
		method := c.Request.Method
		if (method == http.MethodGet || method == http.MethodHead) && !strings.HasPrefix(c.Request.URL.Path, "/api/") {
			fs.ServeHTTP(c.Writer, c.Request)
			return
		}
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "not found"})
	}
}
