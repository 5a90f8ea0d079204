package models

import (
	"fmt"
	"time"
)

type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusConverting JobStatus = "converting"
	JobStatusReady      JobStatus = "ready"
	JobStatusFailed     JobStatus = "failed"
)

// Terminal reports whether no further transition is possible.
func (s JobStatus) Terminal() bool {
	return s == JobStatusReady || s == JobStatusFailed
}

type Quality string

const (
	QualityLow    Quality = "low"
	QualityMedium Quality = "medium"
	QualityHigh   Quality = "high"
)

// ConversionJob tracks one upstream conversion from submission to a
// terminal state. Exactly one of EventStreamURL and PollURL is required;
// upstream may provide both.
type ConversionJob struct {
	JobID          string            `json:"job_id" redis:"job_id" validate:"omitempty"`
	VideoID        string            `json:"video_id" redis:"video_id" validate:"required,len=11"`
	Quality        Quality           `json:"quality" redis:"quality" validate:"required,oneof=low medium high"`
	Status         JobStatus         `json:"status" redis:"status" validate:"omitempty"`
	EventStreamURL string            `json:"event_stream_url,omitempty" redis:"event_stream_url"`
	PollURL        string            `json:"poll_url,omitempty" redis:"poll_url"`
	AssetURL       string            `json:"asset_url,omitempty" redis:"asset_url"`
	FailureReason  string            `json:"failure_reason,omitempty" redis:"failure_reason"`
	Metadata       map[string]string `json:"metadata,omitempty" redis:"-"`
	StartedAt      time.Time         `json:"started_at" redis:"started_at"`
	CompletedAt    time.Time         `json:"completed_at,omitempty" redis:"completed_at"`
}

// Validate enforces the construction invariant: a job with neither a
// notification channel nor a pollable location can never complete.
func (j *ConversionJob) Validate() error {
	if j.EventStreamURL == "" && j.PollURL == "" {
		return fmt.Errorf("job %s has neither event stream nor poll url", j.JobID)
	}
	return nil
}

// MarkReady moves the job to its ready terminal state. Transitions are
// monotonic; marking an already terminal job is a no-op.
func (j *ConversionJob) MarkReady(assetURL string) {
	if j.Status.Terminal() {
		return
	}
	j.Status = JobStatusReady
	j.AssetURL = assetURL
	j.CompletedAt = time.Now()
}

func (j *ConversionJob) MarkFailed(reason string) {
	if j.Status.Terminal() {
		return
	}
	j.Status = JobStatusFailed
	j.FailureReason = reason
	j.CompletedAt = time.Now()
}

// ProgressUpdate is handed to the caller-supplied observer for every
// event or probe the monitor sees. It is informational only.
type ProgressUpdate struct {
	Status   JobStatus `json:"status"`
	Fraction float64   `json:"fraction,omitempty"`
	Message  string    `json:"message,omitempty"`
}
