package models

import "time"

type PeaksSource string

const (
	SourceSampled   PeaksSource = "sampled"
	SourceSynthetic PeaksSource = "synthetic"
)

// Renderer contract constants. Descriptive only, never derived from a
// real decode.
const (
	PeaksSampleRate   = 44100
	PeaksChannelCount = 2
	PeaksBitDepth     = 16
)

// PeaksResult is the compact waveform representation returned to
// callers and persisted for reuse.
type PeaksResult struct {
	VideoID         string      `json:"video_id" db:"video_id" redis:"video_id" validate:"required,len=11"`
	Quality         Quality     `json:"quality" db:"quality" redis:"quality" validate:"required"`
	Peaks           []float64   `json:"peaks" db:"-" redis:"-" validate:"required"`
	DurationSeconds float64     `json:"duration_seconds" db:"duration_seconds" redis:"duration_seconds"`
	SampleRate      int         `json:"sample_rate" db:"sample_rate" redis:"sample_rate"`
	ChannelCount    int         `json:"channel_count" db:"channel_count" redis:"channel_count"`
	BitDepth        int         `json:"bit_depth" db:"bit_depth" redis:"bit_depth"`
	Source          PeaksSource `json:"source" db:"source" redis:"source"`
	Title           string      `json:"title,omitempty" db:"title" redis:"title"`
	Author          string      `json:"author,omitempty" db:"author" redis:"author"`
	CreatedAt       time.Time   `json:"created_at" db:"created_at" redis:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at" db:"updated_at" redis:"updated_at"`
}

type PeaksList struct {
	Results    []*PeaksResult `json:"results"`
	TotalCount int            `json:"total_count"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	HasMore    bool           `json:"has_more"`
}

// ExtractInput is the request body for both the synchronous extract
// endpoint and the async job queue.
type ExtractInput struct {
	VideoID string  `json:"video_id" validate:"required,len=11"`
	Quality Quality `json:"quality" validate:"omitempty,oneof=low medium high"`
	Title   string  `json:"title,omitempty" validate:"lte=255"`
	Author  string  `json:"author,omitempty" validate:"lte=255"`
}

// ExtractionJob is the unit queued to redis for the background worker.
type ExtractionJob struct {
	JobID       string    `json:"job_id" redis:"job_id"`
	VideoID     string    `json:"video_id" redis:"video_id" validate:"required,len=11"`
	Quality     Quality   `json:"quality" redis:"quality"`
	Title       string    `json:"title,omitempty" redis:"title"`
	Author      string    `json:"author,omitempty" redis:"author"`
	Status      JobStatus `json:"status" redis:"status"`
	Progress    float64   `json:"progress" redis:"progress"`
	Error       string    `json:"error,omitempty" redis:"error"`
	EnqueuedAt  time.Time `json:"enqueued_at" redis:"enqueued_at"`
	StartedAt   time.Time `json:"started_at,omitempty" redis:"started_at"`
	CompletedAt time.Time `json:"completed_at,omitempty" redis:"completed_at"`
}
