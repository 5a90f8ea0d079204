package http

import (
	"net/http"

	"github.com/amankumarsingh77/waveform-service/internal/models"
	"github.com/amankumarsingh77/waveform-service/internal/waveform"
	"github.com/amankumarsingh77/waveform-service/pkg/utils"
	"github.com/labstack/echo/v4"
)

type peaksHandler struct {
	peaksUC waveform.UseCase
}

func NewPeaksHandler(peaksUC waveform.UseCase) waveform.Handler {
	return &peaksHandler{
		peaksUC: peaksUC,
	}
}

func (h *peaksHandler) ExtractPeaks() echo.HandlerFunc {
	return func(c echo.Context) error {
		input := &models.ExtractInput{}
		if err := utils.ReadRequest(c, input); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
		}
		result, err := h.peaksUC.ExtractPeaks(c.Request().Context(), input)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, result)
	}
}

func (h *peaksHandler) EnqueueExtraction() echo.HandlerFunc {
	return func(c echo.Context) error {
		input := &models.ExtractInput{}
		if err := utils.ReadRequest(c, input); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
		}
		job, err := h.peaksUC.EnqueueExtraction(c.Request().Context(), input)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusAccepted, job)
	}
}

func (h *peaksHandler) GetJobStatus() echo.HandlerFunc {
	return func(c echo.Context) error {
		job, err := h.peaksUC.GetJobStatus(c.Request().Context(), c.Param("job_id"))
		if err != nil {
			return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, job)
	}
}

func (h *peaksHandler) GetPeaks() echo.HandlerFunc {
	return func(c echo.Context) error {
		videoID := c.Param("video_id")
		quality := models.Quality(c.QueryParam("quality"))
		result, err := h.peaksUC.GetPeaks(c.Request().Context(), videoID, quality)
		if err != nil {
			return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, result)
	}
}

func (h *peaksHandler) ListPeaks() echo.HandlerFunc {
	return func(c echo.Context) error {
		pagination, err := utils.GetPaginationFromCtx(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		list, err := h.peaksUC.ListPeaks(c.Request().Context(), pagination)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, list)
	}
}

func (h *peaksHandler) DeletePeaks() echo.HandlerFunc {
	return func(c echo.Context) error {
		videoID := c.Param("video_id")
		quality := models.Quality(c.QueryParam("quality"))
		if err := h.peaksUC.DeletePeaks(c.Request().Context(), videoID, quality); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "Peaks deleted successfully"})
	}
}
