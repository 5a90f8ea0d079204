package converter

import (
	"context"
	"net/http"
	"time"

	"github.com/amankumarsingh77/waveform-service/internal/config"
	"github.com/amankumarsingh77/waveform-service/internal/models"
	"github.com/amankumarsingh77/waveform-service/pkg/logger"
	"github.com/pkg/errors"
)

// Failure taxonomy surfaced by Await. None of these are retried here;
// retry policy belongs to the caller.
var (
	ErrTimeout           = errors.New("conversion wait exceeded its deadline")
	ErrConnectionLost    = errors.New("event stream closed before a terminal event")
	ErrAttemptsExhausted = errors.New("polling attempts exhausted")
)

// UpstreamError carries a failure message reported by the pipeline
// itself.
type UpstreamError struct {
	Message string
}

func (e *UpstreamError) Error() string {
	return "upstream reported failure: " + e.Message
}

// ProgressFunc observes every progress unit the monitor receives. It is
// informational only and never influences state transitions.
type ProgressFunc func(update models.ProgressUpdate)

type waitStrategy interface {
	wait(ctx context.Context, job *models.ConversionJob, observer ProgressFunc) (string, error)
}

// Monitor drives a single conversion job to a terminal state using
// whichever notification channel the job carries.
type Monitor struct {
	cfg    *config.Config
	client *http.Client
	logger logger.Logger
}

func NewMonitor(cfg *config.Config, client *http.Client, log logger.Logger) *Monitor {
	if client == nil {
		client = &http.Client{}
	}
	return &Monitor{
		cfg:    cfg,
		client: client,
		logger: log,
	}
}

const defaultAwaitTimeout = 5 * time.Minute

// Await blocks until the job reaches a terminal state, the wall-clock
// ceiling passes, or ctx is cancelled. On success it returns the asset
// location and marks the job ready; on failure the job is marked failed
// with the classified reason.
func (m *Monitor) Await(ctx context.Context, job *models.ConversionJob, observer ProgressFunc) (string, error) {
	if job.Status.Terminal() {
		if job.Status == models.JobStatusReady {
			return job.AssetURL, nil
		}
		return "", &UpstreamError{Message: job.FailureReason}
	}
	if err := job.Validate(); err != nil {
		return "", err
	}
	if observer == nil {
		observer = func(models.ProgressUpdate) {}
	}

	timeout := defaultAwaitTimeout
	if m.cfg.Monitor.AwaitTimeout > 0 {
		timeout = time.Duration(m.cfg.Monitor.AwaitTimeout) * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	strategy := m.selectStrategy(job)
	assetURL, err := strategy.wait(ctx, job, observer)
	if err != nil {
		// The ceiling wins over whatever the strategy was doing.
		if ctx.Err() == context.DeadlineExceeded {
			err = ErrTimeout
		}
		job.MarkFailed(err.Error())
		observer(models.ProgressUpdate{Status: models.JobStatusFailed, Message: err.Error()})
		return "", err
	}

	job.MarkReady(assetURL)
	observer(models.ProgressUpdate{Status: models.JobStatusReady, Fraction: 1})
	return assetURL, nil
}

func (m *Monitor) selectStrategy(job *models.ConversionJob) waitStrategy {
	if job.EventStreamURL != "" {
		return &streamStrategy{client: m.client, logger: m.logger}
	}
	return &pollStrategy{cfg: m.cfg, client: m.client, logger: m.logger}
}
