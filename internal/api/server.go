package api

import (
	"net/http"

	"github.com/arxplans/planscan/pkg/pipeline"
	"github.com/arxplans/planscan/pkg/rasterize"
	"github.com/arxplans/planscan/pkg/schedule"
	"github.com/arxplans/planscan/pkg/titleblock"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Server holds the process-wide collaborators the facade's handlers share
// (spec.md §5 "Shared resources"). It is built once at startup and never
// recreated per request.
type Server struct {
	pipeline   *pipeline.Pipeline
	titleblock *titleblock.Handler
	schedule   *schedule.Detector
	renderer   rasterize.Renderer
	renderDPI  int
	httpClient *http.Client
	logger     *zap.Logger
	ready      *readiness
}

// Deps are the collaborators NewServer wires into route handlers.
type Deps struct {
	Pipeline       *pipeline.Pipeline
	TitleblockExtr *titleblock.Handler
	ScheduleDetect *schedule.Detector
	Renderer       rasterize.Renderer
	RenderDPI      int
	HTTPClient     *http.Client
	Logger         *zap.Logger
}

// NewServer builds a Server not yet marked ready; call MarkReady once
// startup (model/detector loading) completes.
func NewServer(d Deps) *Server {
	if d.HTTPClient == nil {
		d.HTTPClient = http.DefaultClient
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	return &Server{
		pipeline:   d.Pipeline,
		titleblock: d.TitleblockExtr,
		schedule:   d.ScheduleDetect,
		renderer:   d.Renderer,
		renderDPI:  d.RenderDPI,
		httpClient: d.HTTPClient,
		logger:     d.Logger,
		ready:      newReadiness(),
	}
}

// MarkReady flips the readiness flag /health and /api/* endpoints gate on.
func (s *Server) MarkReady() { s.ready.MarkReady() }

// NewRouter builds the gin.Engine exposing every endpoint spec.md §6 names.
func (s *Server) NewRouter() *gin.Engine {
	r := gin.New()
	r.Use(requestID(), recoverJSON(s.logger), accessLog(s.logger))

	r.GET("/health", s.ready.handler)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.POST("/api/detect-markers", s.detectMarkers)
	r.POST("/api/extract-metadata", s.extractMetadata)
	r.POST("/api/extract-schedule", s.extractSchedule)

	return r
}
