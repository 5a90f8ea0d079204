package waveform

import (
	"context"

	"github.com/amankumarsingh77/waveform-service/internal/models"
	"github.com/amankumarsingh77/waveform-service/pkg/utils"
)

type Repository interface {
	UpsertPeaks(ctx context.Context, result *models.PeaksResult) (*models.PeaksResult, error)
	GetPeaks(ctx context.Context, videoID string, quality models.Quality) (*models.PeaksResult, error)
	ListPeaks(ctx context.Context, pagination *utils.Pagination) (*models.PeaksList, error)
	DeletePeaks(ctx context.Context, videoID string, quality models.Quality) error
}
