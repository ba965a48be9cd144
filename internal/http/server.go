// README: API gateway; registers HTTP routes and delegates to module services.
package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ecoroute/internal/http/handlers"
	"ecoroute/internal/http/middleware"
	"ecoroute/internal/modules/analysis"
)

// ServerDeps wires the routes. Places may be nil when Maps is not configured.
type ServerDeps struct {
	Analysis       *analysis.Service
	Places         handlers.CitySuggester
	AnalyzeTimeout time.Duration
	Logger         *zap.Logger
}

type Server struct {
	analysis *handlers.AnalysisHandler
	places   *handlers.PlaceHandler
	log      *zap.Logger
}

func NewServer(deps ServerDeps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		analysis: handlers.NewAnalysisHandler(deps.Analysis, deps.AnalyzeTimeout, logger),
		places:   handlers.NewPlaceHandler(deps.Places),
		log:      logger,
	}
}

func (s *Server) Routes() http.Handler {
	r := gin.New()
	r.Use(middleware.Recovery(s.log), middleware.Logging(s.log))

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	api := r.Group("/api", middleware.ClientID())

	analyses := api.Group("/analyses")
	analyses.POST("", s.analysis.Analyze)
	analyses.GET("", s.analysis.List)
	analyses.GET("/latest", s.analysis.Latest)
	analyses.GET("/:id", s.analysis.Get)
	analyses.GET("/:id/report.pdf", s.analysis.ReportPDF)
	analyses.GET("/:id/report.md", s.analysis.ReportMarkdown)

	api.GET("/quota", s.analysis.Quota)
	api.GET("/places/cities", s.places.SuggestCities)
	return r
}
