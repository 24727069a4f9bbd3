package httpapi

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"sprintlens/internal/analysis"
)

// NewRouter builds the JSON API over the analysis service.
func NewRouter(svc *analysis.Service, log zerolog.Logger, release bool) *gin.Engine {
	if release {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Dur("took", time.Since(start)).
			Msg("http")
	})

	h := NewHandlers(svc, log)

	r.GET("/healthz", h.Healthz)

	v1 := r.Group("/v1")
	v1.POST("/classify", h.Classify)
	v1.GET("/sprints", h.ListSprints)
	v1.GET("/sprints/:name/progress", h.SprintProgress)
	v1.GET("/sprints/:name/summary", h.SprintSummary)
	v1.GET("/sprints/:name/report", h.SprintReport)
	v1.POST("/progress", h.InlineProgress)
	v1.POST("/summary", h.InlineSummary)
	v1.POST("/compare", h.Compare)

	return r
}
