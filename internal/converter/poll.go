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

const (
	defaultPollBase        = time.Second
	defaultPollCap         = 5 * time.Second
	defaultPollMaxAttempts = 60
	defaultProbeTimeout    = 10 * time.Second
)

// pollStrategy probes the asset location until it becomes retrievable.
// Attempt k waits min(cap, base*k) before its probe, so early checks
// are frequent and later ones back off.
type pollStrategy struct {
	cfg    *config.Config
	client *http.Client
	logger logger.Logger
}

func (p *pollStrategy) wait(ctx context.Context, job *models.ConversionJob, observer ProgressFunc) (string, error) {
	base := defaultPollBase
	if p.cfg.Monitor.PollBaseMs > 0 {
		base = time.Duration(p.cfg.Monitor.PollBaseMs) * time.Millisecond
	}
	maxDelay := defaultPollCap
	if p.cfg.Monitor.PollCapMs > 0 {
		maxDelay = time.Duration(p.cfg.Monitor.PollCapMs) * time.Millisecond
	}
	maxAttempts := defaultPollMaxAttempts
	if p.cfg.Monitor.PollMaxAttempts > 0 {
		maxAttempts = p.cfg.Monitor.PollMaxAttempts
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		delay := base * time.Duration(attempt)
		if delay > maxDelay {
			delay = maxDelay
		}
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", ctx.Err()
		case <-timer.C:
		}

		ready, err := p.probe(ctx, job.PollURL)
		if err != nil {
			return "", err
		}
		if ready {
			return job.PollURL, nil
		}

		job.Status = models.JobStatusConverting
		observer(models.ProgressUpdate{
			Status:   models.JobStatusConverting,
			Fraction: float64(attempt) / float64(maxAttempts),
		})
	}
	return "", ErrAttemptsExhausted
}

// probe issues a lightweight existence check. A request that cannot
// even be constructed is permanent and fails the wait; transport errors
// and non-2xx answers count as not-ready-yet and keep the schedule
// going.
func (p *pollStrategy) probe(ctx context.Context, url string) (bool, error) {
	probeTimeout := defaultProbeTimeout
	if p.cfg.Monitor.ProbeTimeout > 0 {
		probeTimeout = time.Duration(p.cfg.Monitor.ProbeTimeout) * time.Second
	}
	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(probeCtx, http.MethodHead, url, nil)
	if err != nil {
		return false, errors.Wrap(err, "poll.probe: malformed asset url")
	}
	resp, err := p.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		// A probe that timed out on its own counts as not ready.
		p.logger.Debugf("probe not ready (%s): %v", url, err)
		return false, nil
	}
	defer resp.Body.Close()
	return resp.StatusCode >= 200 && resp.StatusCode < 300, nil
}
