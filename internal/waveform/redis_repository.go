package waveform

import (
	"context"

	"github.com/amankumarsingh77/waveform-service/internal/models"
)

type RedisRepository interface {
	CachePeaks(ctx context.Context, result *models.PeaksResult) error
	GetCachedPeaks(ctx context.Context, videoID string, quality models.Quality) (*models.PeaksResult, error)
	InvalidatePeaks(ctx context.Context, videoID string, quality models.Quality) error

	EnqueueJob(ctx context.Context, key string, job *models.ExtractionJob) error
	DequeueJob(ctx context.Context, key string) (*models.ExtractionJob, error)

	SetJobState(ctx context.Context, job *models.ExtractionJob) error
	GetJobState(ctx context.Context, jobID string) (*models.ExtractionJob, error)
	UpdateJobProgress(ctx context.Context, jobID string, progress float64) error
}
