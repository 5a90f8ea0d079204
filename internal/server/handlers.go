package server

import (
	"net/http"

	"github.com/amankumarsingh77/waveform-service/internal/converter"
	"github.com/amankumarsingh77/waveform-service/internal/extractor"
	"github.com/amankumarsingh77/waveform-service/internal/middleware"
	peaksHttp "github.com/amankumarsingh77/waveform-service/internal/waveform/delivery/http"
	peaksRepository "github.com/amankumarsingh77/waveform-service/internal/waveform/repository"
	peaksUsecase "github.com/amankumarsingh77/waveform-service/internal/waveform/usecase"
	"github.com/amankumarsingh77/waveform-service/pkg/utils"
	"github.com/labstack/echo/v4"
)

func (s *Server) MapHandlers(e *echo.Echo) error {
	pRepo := peaksRepository.NewPeaksRepo(s.db)
	pRedisRepo := peaksRepository.NewPeaksRedisRepo(s.redisClient, s.cfg.Redis.ResultTTL)
	pAWSRepo := peaksRepository.NewAwsRepository(s.s3Client, s.preSignClient)

	initiator := converter.NewClient(s.cfg, nil, s.logger)
	monitor := converter.NewMonitor(s.cfg, nil, s.logger)
	engine := extractor.NewEngine(s.cfg, nil, s.logger)

	peaksUC := peaksUsecase.NewPeaksUseCase(s.cfg, pRepo, pRedisRepo, pAWSRepo, initiator, monitor, engine, s.logger)
	peaksHandlers := peaksHttp.NewPeaksHandler(peaksUC)

	mw := middleware.NewMiddlewareManager(s.cfg, []string{"*"}, s.logger)
	e.Use(mw.RequestLoggerMiddleware)

	v1 := e.Group("/api/v1")
	health := v1.Group("/health")
	peaksGroup := v1.Group("/peaks")

	peaksHttp.MapPeaksRoutes(peaksGroup, peaksHandlers, mw)
	health.GET("", func(c echo.Context) error {
		s.logger.Infof("Health check RequestID: %s", utils.GetRequestID(c))
		return c.JSON(http.StatusOK, map[string]string{"status": "OK"})
	})
	return nil
}
