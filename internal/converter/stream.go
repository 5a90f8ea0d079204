package converter

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/amankumarsingh77/waveform-service/internal/models"
	"github.com/amankumarsingh77/waveform-service/pkg/logger"
	"github.com/pkg/errors"
)

// streamStrategy consumes a server-sent event stream until a terminal
// event arrives. A dropped connection is surfaced as ErrConnectionLost;
// re-subscribing is the caller's decision, not ours.
type streamStrategy struct {
	client *http.Client
	logger logger.Logger
}

type streamEvent struct {
	Status   string  `json:"status"`
	Progress float64 `json:"progress"`
	FileURL  string  `json:"file_url"`
	Message  string  `json:"message"`
}

func (s *streamStrategy) wait(ctx context.Context, job *models.ConversionJob, observer ProgressFunc) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, job.EventStreamURL, nil)
	if err != nil {
		return "", errors.Wrap(err, "stream.NewRequest")
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", errors.Wrap(ErrConnectionLost, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errors.Wrapf(ErrConnectionLost, "stream status %s", resp.Status)
	}

	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, ":") {
			continue
		}
		payload, ok := strings.CutPrefix(line, "data:")
		if !ok {
			continue
		}

		var ev streamEvent
		if err := json.Unmarshal([]byte(strings.TrimSpace(payload)), &ev); err != nil {
			// One bad frame must not kill a healthy connection.
			s.logger.Warnf("skipping malformed stream event for job %s: %v", job.JobID, err)
			continue
		}

		switch ev.Status {
		case "completed":
			if ev.FileURL == "" {
				s.logger.Warnf("completed event without file url for job %s", job.JobID)
				continue
			}
			return ev.FileURL, nil
		case "error", "failed":
			return "", &UpstreamError{Message: ev.Message}
		default:
			job.Status = models.JobStatusConverting
			observer(models.ProgressUpdate{
				Status:   models.JobStatusConverting,
				Fraction: ev.Progress,
				Message:  ev.Message,
			})
		}
	}

	if err := scanner.Err(); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", errors.Wrap(ErrConnectionLost, err.Error())
	}
	return "", ErrConnectionLost
}
