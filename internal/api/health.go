package api

import (
	"net/http"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

// readiness is a process-wide flag flipped once after the detector and OCR
// engine finish loading at startup (spec.md §4.F "pre-load detector state
// at startup; return HTTP 503 until ready").
type readiness struct {
	ready atomic.Bool
}

func newReadiness() *readiness { return &readiness{} }

func (r *readiness) MarkReady() { r.ready.Store(true) }

func (r *readiness) IsReady() bool { return r.ready.Load() }

func (r *readiness) handler(c *gin.Context) {
	if !r.ready.Load() {
		c.JSON(http.StatusServiceUnavailable, statusResponse{Status: "initializing"})
		return
	}
	c.JSON(http.StatusOK, statusResponse{Status: "ready"})
}
