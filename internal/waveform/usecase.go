package waveform

import (
	"context"

	"github.com/amankumarsingh77/waveform-service/internal/models"
	"github.com/amankumarsingh77/waveform-service/pkg/utils"
)

type UseCase interface {
	ExtractPeaks(ctx context.Context, input *models.ExtractInput) (*models.PeaksResult, error)
	EnqueueExtraction(ctx context.Context, input *models.ExtractInput) (*models.ExtractionJob, error)
	GetJobStatus(ctx context.Context, jobID string) (*models.ExtractionJob, error)
	ProcessExtractionJob(ctx context.Context, job *models.ExtractionJob) error
	GetPeaks(ctx context.Context, videoID string, quality models.Quality) (*models.PeaksResult, error)
	ListPeaks(ctx context.Context, pagination *utils.Pagination) (*models.PeaksList, error)
	DeletePeaks(ctx context.Context, videoID string, quality models.Quality) error
}
