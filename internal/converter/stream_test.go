package converter

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/amankumarsingh77/waveform-service/internal/config"
	"github.com/amankumarsingh77/waveform-service/internal/models"
	"github.com/amankumarsingh77/waveform-service/pkg/logger"
)

func newStreamMonitor(t *testing.T, events []string) (*Monitor, *models.ConversionJob) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		for _, ev := range events {
			fmt.Fprintf(w, "data: %s\n\n", ev)
			flusher.Flush()
		}
	}))
	t.Cleanup(srv.Close)

	cfg := &config.Config{}
	cfg.Monitor.AwaitTimeout = 5
	job := &models.ConversionJob{
		JobID:          "job-1",
		VideoID:        "dQw4w9WgXcQ",
		Quality:        models.QualityMedium,
		Status:         models.JobStatusPending,
		EventStreamURL: srv.URL,
		StartedAt:      time.Now(),
	}
	return NewMonitor(cfg, srv.Client(), logger.NewNopLogger()), job
}

func TestAwaitStreamCompletes(t *testing.T) {
	monitor, job := newStreamMonitor(t, []string{
		`{"status":"converting","progress":0.25}`,
		`{"status":"converting","progress":0.8}`,
		`{"status":"completed","file_url":"http://upstream/files/audio.mp3"}`,
	})

	var updates []models.ProgressUpdate
	assetURL, err := monitor.Await(context.Background(), job, func(u models.ProgressUpdate) {
		updates = append(updates, u)
	})
	if err != nil {
		t.Fatalf("Await: %v", err)
	}
	if assetURL != "http://upstream/files/audio.mp3" {
		t.Fatalf("asset url %q", assetURL)
	}
	if job.Status != models.JobStatusReady {
		t.Fatalf("job status %q, want ready", job.Status)
	}
	if job.AssetURL != assetURL {
		t.Errorf("job asset url %q", job.AssetURL)
	}
	if len(updates) < 3 {
		t.Fatalf("expected at least 3 progress updates, got %d", len(updates))
	}
	last := updates[len(updates)-1]
	if last.Status != models.JobStatusReady {
		t.Errorf("terminal update must come last, got %q", last.Status)
	}
}

func TestAwaitStreamSkipsMalformedEvents(t *testing.T) {
	monitor, job := newStreamMonitor(t, []string{
		`{"status":"converting","progress":0.5}`,
		`{not json at all`,
		`{"status":"completed","file_url":"http://upstream/files/audio.mp3"}`,
	})

	assetURL, err := monitor.Await(context.Background(), job, nil)
	if err != nil {
		t.Fatalf("Await should tolerate malformed frames: %v", err)
	}
	if assetURL != "http://upstream/files/audio.mp3" {
		t.Fatalf("asset url %q", assetURL)
	}
}

func TestAwaitStreamUpstreamFailure(t *testing.T) {
	monitor, job := newStreamMonitor(t, []string{
		`{"status":"failed","message":"source video unavailable"}`,
	})

	_, err := monitor.Await(context.Background(), job, nil)
	var ue *UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if ue.Message != "source video unavailable" {
		t.Errorf("message %q", ue.Message)
	}
	if job.Status != models.JobStatusFailed {
		t.Errorf("job status %q, want failed", job.Status)
	}
}

func TestAwaitStreamConnectionLost(t *testing.T) {
	// Stream ends without a terminal event.
	monitor, job := newStreamMonitor(t, []string{
		`{"status":"converting","progress":0.3}`,
	})

	_, err := monitor.Await(context.Background(), job, nil)
	if !errors.Is(err, ErrConnectionLost) {
		t.Fatalf("expected ErrConnectionLost, got %v", err)
	}
	if job.Status != models.JobStatusFailed {
		t.Errorf("job status %q, want failed", job.Status)
	}
}

func TestAwaitAlreadyTerminalJob(t *testing.T) {
	cfg := &config.Config{}
	monitor := NewMonitor(cfg, nil, logger.NewNopLogger())

	job := &models.ConversionJob{JobID: "done", Status: models.JobStatusReady, AssetURL: "http://x/a.mp3"}
	assetURL, err := monitor.Await(context.Background(), job, nil)
	if err != nil || assetURL != "http://x/a.mp3" {
		t.Fatalf("ready job should short-circuit: %q, %v", assetURL, err)
	}

	failed := &models.ConversionJob{JobID: "bad", Status: models.JobStatusFailed, FailureReason: "nope"}
	if _, err := monitor.Await(context.Background(), failed, nil); err == nil {
		t.Fatal("failed job should surface its failure")
	}
}

func TestAwaitJobWithoutEndpoints(t *testing.T) {
	cfg := &config.Config{}
	monitor := NewMonitor(cfg, nil, logger.NewNopLogger())
	job := &models.ConversionJob{JobID: "job-x", Status: models.JobStatusPending}
	if _, err := monitor.Await(context.Background(), job, nil); err == nil {
		t.Fatal("expected error for job with neither endpoint")
	}
}
