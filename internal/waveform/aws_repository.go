package waveform

import (
	"context"

	"github.com/amankumarsingh77/waveform-service/internal/models"
)

type AWSRepository interface {
	ArchivePeaks(ctx context.Context, bucket string, result *models.PeaksResult) error
	GetArchivedPeaks(ctx context.Context, bucket, videoID string, quality models.Quality) (*models.PeaksResult, error)
	RemoveArchivedPeaks(ctx context.Context, bucket, videoID string, quality models.Quality) error
	GetPresignedAssetURL(ctx context.Context, assetURL string) (string, error)
}
