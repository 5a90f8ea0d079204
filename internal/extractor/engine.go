package extractor

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/amankumarsingh77/waveform-service/internal/config"
	"github.com/amankumarsingh77/waveform-service/internal/models"
	"github.com/amankumarsingh77/waveform-service/pkg/logger"
	"github.com/google/uuid"
)

const (
	defaultMaxFetchBytes = 50 << 20
	defaultFetchTimeout  = 60 * time.Second

	// Default buffer length assumed when the fallback has no real
	// bytes to measure. Yields a mid-range peak count.
	defaultSyntheticLength = 3 * 1024 * 1024
)

// Engine turns a ready asset location into a PeaksResult. Extraction
// never fails: any fetch or sampling problem downgrades to the
// procedural fallback.
type Engine struct {
	cfg    *config.Config
	client *http.Client
	logger logger.Logger
}

func NewEngine(cfg *config.Config, client *http.Client, log logger.Logger) *Engine {
	if client == nil {
		timeout := defaultFetchTimeout
		if cfg.Extractor.FetchTimeout > 0 {
			timeout = time.Duration(cfg.Extractor.FetchTimeout) * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	return &Engine{
		cfg:    cfg,
		client: client,
		logger: log,
	}
}

// Extract fetches the asset into a scratch file, samples it, and falls
// back to a synthetic waveform when either step fails. The seed is the
// video identifier; it keeps fallbacks stable per asset.
func (e *Engine) Extract(ctx context.Context, assetURL, seed string) *models.PeaksResult {
	data, err := e.fetchToScratch(ctx, assetURL)
	if err != nil {
		e.logger.Warnf("Extract - fetch failed for %s, using synthetic waveform: %v", seed, err)
		return e.synthesize(seed, defaultSyntheticLength)
	}

	peaks, err := SamplePeaks(data)
	if err != nil {
		e.logger.Warnf("Extract - sampling failed for %s, using synthetic waveform: %v", seed, err)
		return e.synthesize(seed, len(data))
	}

	return &models.PeaksResult{
		Peaks:           peaks,
		DurationSeconds: EstimateDuration(len(data)),
		SampleRate:      models.PeaksSampleRate,
		ChannelCount:    models.PeaksChannelCount,
		BitDepth:        models.PeaksBitDepth,
		Source:          models.SourceSampled,
	}
}

func (e *Engine) synthesize(seed string, byteLen int) *models.PeaksResult {
	duration := EstimateDuration(byteLen)
	count := PeakCount(duration)
	return &models.PeaksResult{
		Peaks:           Synthesize(SeedFromID(seed, byteLen), count),
		DurationSeconds: duration,
		SampleRate:      models.PeaksSampleRate,
		ChannelCount:    models.PeaksChannelCount,
		BitDepth:        models.PeaksBitDepth,
		Source:          models.SourceSynthetic,
	}
}

// fetchToScratch downloads the asset through a size-bounded reader into
// a scratch file owned by this invocation. The file is removed on every
// exit path.
func (e *Engine) fetchToScratch(ctx context.Context, assetURL string) ([]byte, error) {
	scratchDir := e.cfg.Extractor.ScratchDir
	if scratchDir == "" {
		scratchDir = os.TempDir()
	}
	if err := os.MkdirAll(scratchDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create scratch directory: %w", err)
	}

	scratchPath := filepath.Join(scratchDir, "asset_"+uuid.New().String())
	defer os.Remove(scratchPath)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, assetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build asset request: %w", err)
	}
	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch asset: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected asset status: %s", resp.Status)
	}

	maxBytes := e.cfg.Extractor.MaxFetchBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxFetchBytes
	}

	out, err := os.Create(scratchPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create scratch file: %w", err)
	}
	_, err = io.Copy(out, io.LimitReader(resp.Body, maxBytes))
	closeErr := out.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to write scratch file: %w", err)
	}
	if closeErr != nil {
		return nil, fmt.Errorf("failed to close scratch file: %w", closeErr)
	}

	data, err := os.ReadFile(scratchPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read scratch file: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("asset body is empty")
	}
	return data, nil
}
