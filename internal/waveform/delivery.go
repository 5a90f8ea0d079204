package waveform

import "github.com/labstack/echo/v4"

type Handler interface {
	ExtractPeaks() echo.HandlerFunc
	EnqueueExtraction() echo.HandlerFunc
	GetJobStatus() echo.HandlerFunc
	GetPeaks() echo.HandlerFunc
	ListPeaks() echo.HandlerFunc
	DeletePeaks() echo.HandlerFunc
}
