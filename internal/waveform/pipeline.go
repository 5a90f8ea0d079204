package waveform

import (
	"context"

	"github.com/amankumarsingh77/waveform-service/internal/converter"
	"github.com/amankumarsingh77/waveform-service/internal/models"
)

// Upstream boundary consumed by the use case. Satisfied by
// converter.Client and converter.Monitor.
type JobInitiator interface {
	StartJob(ctx context.Context, videoID string, quality models.Quality) (*models.ConversionJob, error)
}

type JobMonitor interface {
	Await(ctx context.Context, job *models.ConversionJob, observer converter.ProgressFunc) (string, error)
}

// PeaksExtractor always returns a result; provenance is in the Source
// field. Satisfied by extractor.Engine.
type PeaksExtractor interface {
	Extract(ctx context.Context, assetURL, seed string) *models.PeaksResult
}
