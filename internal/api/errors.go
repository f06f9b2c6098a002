package api

import (
	"net/http"

	"github.com/arxplans/planscan/pkg/pipelineerr"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError translates err into the bounded JSON error response spec.md
// §6/§7 assigns it and writes the matching status code. It never writes a
// stack trace; KindUnexpected collapses to a single-line message.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	pe, ok := pipelineerr.As(err)
	if !ok {
		logger.Error("unclassified error reached the facade", zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	switch pe.Kind {
	case pipelineerr.KindInput:
		c.JSON(http.StatusBadRequest, errorResponse{Error: pe.Msg})
	case pipelineerr.KindResource:
		status := http.StatusServiceUnavailable
		if !pe.Retry {
			// "missing OCR" is handled by degrading silently upstream; a
			// resource error that does reach here without Retry is still
			// a 503, just without a retry connotation in the log.
			logger.Warn("resource error without retry hint", zap.String("msg", pe.Msg))
		}
		c.JSON(status, errorResponse{Error: pe.Msg})
	case pipelineerr.KindHallucination:
		// The offending batch was already dropped upstream; reaching here
		// means the whole request was hallucination-only and nothing
		// survived. Treat as a successful-but-empty page, not an error.
		logger.Warn("hallucination guard tripped for the whole request", zap.String("msg", pe.Msg))
		c.JSON(http.StatusOK, detectResponse{Markers: []wireMarker{}})
	case pipelineerr.KindTransientExternal:
		logger.Warn("transient external error reached the facade", zap.Error(pe))
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "upstream validation failed", Details: pe.Msg})
	default:
		logger.Error("unexpected pipeline error", zap.Error(pe))
		c.JSON(http.StatusInternalServerError, errorResponse{Error: pe.Msg})
	}
}
