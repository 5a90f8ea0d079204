package converter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/amankumarsingh77/waveform-service/internal/config"
	"github.com/amankumarsingh77/waveform-service/internal/models"
	"github.com/amankumarsingh77/waveform-service/pkg/logger"
	"github.com/pkg/errors"
)

const defaultRequestTimeout = 30 * time.Second

// Client submits conversion requests to the upstream pipeline and
// normalizes its response shapes into a ConversionJob.
type Client struct {
	cfg    *config.Config
	client *http.Client
	logger logger.Logger
}

func NewClient(cfg *config.Config, client *http.Client, log logger.Logger) *Client {
	if client == nil {
		timeout := defaultRequestTimeout
		if cfg.Upstream.RequestTimeout > 0 {
			timeout = time.Duration(cfg.Upstream.RequestTimeout) * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	return &Client{
		cfg:    cfg,
		client: client,
		logger: log,
	}
}

type startRequest struct {
	VideoID string `json:"video_id"`
	Quality string `json:"quality"`
}

// startResponse tolerates the upstream's heterogeneous field
// spellings. Only the fields we consume are listed.
type startResponse struct {
	JobID       string            `json:"job_id"`
	Status      string            `json:"status"`
	StreamURL   string            `json:"stream_url"`
	ProgressURL string            `json:"progress_url"`
	FileURL     string            `json:"file_url"`
	DownloadURL string            `json:"download_url"`
	Title       string            `json:"title"`
	Author      string            `json:"author"`
	Metadata    map[string]string `json:"metadata"`
}

// StartJob issues the initial conversion request. Upstream may answer
// with a live event stream, a pollable file location, both, or an
// immediate "completed" for assets it already has.
func (c *Client) StartJob(ctx context.Context, videoID string, quality models.Quality) (*models.ConversionJob, error) {
	body, err := json.Marshal(startRequest{VideoID: videoID, Quality: string(quality)})
	if err != nil {
		return nil, errors.Wrap(err, "converter.StartJob.Marshal")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Upstream.BaseURL+"/convert", bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "converter.StartJob.NewRequest")
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.Upstream.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Upstream.APIKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "converter.StartJob.Do")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.Errorf("converter.StartJob: upstream status %s", resp.Status)
	}

	var sr startResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, errors.Wrap(err, "converter.StartJob.Decode")
	}

	job := c.normalize(videoID, quality, &sr)
	if err := job.Validate(); err != nil {
		return nil, errors.Wrap(err, "converter.StartJob.Validate")
	}
	c.logger.Infof("started conversion job %s for video %s (status=%s)", job.JobID, videoID, job.Status)
	return job, nil
}

func (c *Client) normalize(videoID string, quality models.Quality, sr *startResponse) *models.ConversionJob {
	now := time.Now()

	jobID := sr.JobID
	if jobID == "" {
		jobID = fmt.Sprintf("%s-%d", videoID, now.UnixMilli())
	}

	assetURL := sr.FileURL
	if assetURL == "" {
		assetURL = sr.DownloadURL
	}

	metadata := sr.Metadata
	if metadata == nil {
		metadata = map[string]string{}
	}
	if sr.Title != "" {
		metadata["title"] = sr.Title
	}
	if sr.Author != "" {
		metadata["author"] = sr.Author
	}

	job := &models.ConversionJob{
		JobID:          jobID,
		VideoID:        videoID,
		Quality:        quality,
		Status:         models.JobStatusPending,
		EventStreamURL: sr.StreamURL,
		PollURL:        assetURL,
		Metadata:       metadata,
		StartedAt:      now,
	}
	if sr.ProgressURL != "" && job.EventStreamURL == "" {
		job.EventStreamURL = sr.ProgressURL
	}

	switch sr.Status {
	case "completed", "ready":
		// Upstream already has the asset; no wait needed. A "completed"
		// with no location stays pending so the monitor can still drive
		// the job through whichever endpoint is present.
		if assetURL != "" {
			job.MarkReady(assetURL)
		}
	case "failed", "error":
		job.MarkFailed("upstream rejected the conversion request")
	case "converting", "in_progress":
		job.Status = models.JobStatusConverting
	}
	return job
}
