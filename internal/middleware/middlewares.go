package middleware

import (
	"net/http"
	"time"

	"github.com/amankumarsingh77/waveform-service/internal/config"
	"github.com/amankumarsingh77/waveform-service/pkg/logger"
	"github.com/amankumarsingh77/waveform-service/pkg/utils"
	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

type MiddlewareManager struct {
	cfg     *config.Config
	origins []string
	limiter *rate.Limiter
	logger  logger.Logger
}

func NewMiddlewareManager(cfg *config.Config, origins []string, logger logger.Logger) *MiddlewareManager {
	rps := cfg.RateLimit.RequestsPerSecond
	if rps <= 0 {
		rps = 10
	}
	burst := cfg.RateLimit.Burst
	if burst <= 0 {
		burst = 20
	}
	return &MiddlewareManager{
		cfg:     cfg,
		origins: origins,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		logger:  logger,
	}
}

// APIKeyMiddleware gates the API behind a static key when one is
// configured. No key configured means an open instance.
func (mw *MiddlewareManager) APIKeyMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if mw.cfg.Server.APIKey == "" {
			return next(c)
		}
		if c.Request().Header.Get("X-Api-Key") != mw.cfg.Server.APIKey {
			mw.logger.Warnf("rejected request with bad api key from %s", utils.GetIPAddress(c))
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		}
		return next(c)
	}
}

func (mw *MiddlewareManager) RateLimitMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !mw.limiter.Allow() {
			return c.JSON(http.StatusTooManyRequests, map[string]string{"error": "Too many requests"})
		}
		return next(c)
	}
}

func (mw *MiddlewareManager) RequestLoggerMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		mw.logger.Infof("%s %s status=%d took=%s request_id=%s",
			c.Request().Method,
			c.Request().URL.Path,
			c.Response().Status,
			time.Since(start),
			utils.GetRequestID(c),
		)
		return err
	}
}
