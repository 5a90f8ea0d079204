package http

import (
	"github.com/amankumarsingh77/waveform-service/internal/middleware"
	"github.com/amankumarsingh77/waveform-service/internal/waveform"
	"github.com/labstack/echo/v4"
)

func MapPeaksRoutes(peaksGroup *echo.Group, h waveform.Handler, mw *middleware.MiddlewareManager) {
	peaksGroup.Use(mw.APIKeyMiddleware)
	peaksGroup.Use(mw.RateLimitMiddleware)
	peaksGroup.POST("/extract", h.ExtractPeaks())
	peaksGroup.POST("/jobs", h.EnqueueExtraction())
	peaksGroup.GET("/jobs/:job_id", h.GetJobStatus())
	peaksGroup.GET("/:video_id", h.GetPeaks())
	peaksGroup.GET("", h.ListPeaks())
	peaksGroup.DELETE("/:video_id", h.DeletePeaks())
}
