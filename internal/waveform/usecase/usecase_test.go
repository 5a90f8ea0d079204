package usecase

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/amankumarsingh77/waveform-service/internal/config"
	"github.com/amankumarsingh77/waveform-service/internal/converter"
	"github.com/amankumarsingh77/waveform-service/internal/models"
	"github.com/amankumarsingh77/waveform-service/internal/waveform"
	"github.com/amankumarsingh77/waveform-service/pkg/logger"
	"github.com/amankumarsingh77/waveform-service/pkg/utils"
)

type fakePgRepo struct {
	stored map[string]*models.PeaksResult
}

func newFakePgRepo() *fakePgRepo {
	return &fakePgRepo{stored: map[string]*models.PeaksResult{}}
}

func pgKey(videoID string, quality models.Quality) string {
	return videoID + ":" + string(quality)
}

func (f *fakePgRepo) UpsertPeaks(ctx context.Context, result *models.PeaksResult) (*models.PeaksResult, error) {
	f.stored[pgKey(result.VideoID, result.Quality)] = result
	return result, nil
}

func (f *fakePgRepo) GetPeaks(ctx context.Context, videoID string, quality models.Quality) (*models.PeaksResult, error) {
	if r, ok := f.stored[pgKey(videoID, quality)]; ok {
		return r, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakePgRepo) ListPeaks(ctx context.Context, pagination *utils.Pagination) (*models.PeaksList, error) {
	results := make([]*models.PeaksResult, 0, len(f.stored))
	for _, r := range f.stored {
		results = append(results, r)
	}
	return &models.PeaksList{Results: results, TotalCount: len(results)}, nil
}

func (f *fakePgRepo) DeletePeaks(ctx context.Context, videoID string, quality models.Quality) error {
	delete(f.stored, pgKey(videoID, quality))
	return nil
}

type fakeRedisRepo struct {
	cache    map[string]*models.PeaksResult
	queue    []*models.ExtractionJob
	jobState map[string]*models.ExtractionJob
}

func newFakeRedisRepo() *fakeRedisRepo {
	return &fakeRedisRepo{
		cache:    map[string]*models.PeaksResult{},
		jobState: map[string]*models.ExtractionJob{},
	}
}

func (f *fakeRedisRepo) CachePeaks(ctx context.Context, result *models.PeaksResult) error {
	f.cache[pgKey(result.VideoID, result.Quality)] = result
	return nil
}

func (f *fakeRedisRepo) GetCachedPeaks(ctx context.Context, videoID string, quality models.Quality) (*models.PeaksResult, error) {
	if r, ok := f.cache[pgKey(videoID, quality)]; ok {
		return r, nil
	}
	return nil, errors.New("cache miss")
}

func (f *fakeRedisRepo) InvalidatePeaks(ctx context.Context, videoID string, quality models.Quality) error {
	delete(f.cache, pgKey(videoID, quality))
	return nil
}

func (f *fakeRedisRepo) EnqueueJob(ctx context.Context, key string, job *models.ExtractionJob) error {
	f.queue = append(f.queue, job)
	f.jobState[job.JobID] = job
	return nil
}

func (f *fakeRedisRepo) DequeueJob(ctx context.Context, key string) (*models.ExtractionJob, error) {
	if len(f.queue) == 0 {
		return nil, nil
	}
	job := f.queue[0]
	f.queue = f.queue[1:]
	return job, nil
}

func (f *fakeRedisRepo) SetJobState(ctx context.Context, job *models.ExtractionJob) error {
	f.jobState[job.JobID] = job
	return nil
}

func (f *fakeRedisRepo) GetJobState(ctx context.Context, jobID string) (*models.ExtractionJob, error) {
	if j, ok := f.jobState[jobID]; ok {
		return j, nil
	}
	return nil, errors.New("not found")
}

func (f *fakeRedisRepo) UpdateJobProgress(ctx context.Context, jobID string, progress float64) error {
	if j, ok := f.jobState[jobID]; ok {
		j.Progress = progress
	}
	return nil
}

type fakeAwsRepo struct {
	archived  map[string]*models.PeaksResult
	presigned []string
}

func newFakeAwsRepo() *fakeAwsRepo {
	return &fakeAwsRepo{archived: map[string]*models.PeaksResult{}}
}

func (f *fakeAwsRepo) ArchivePeaks(ctx context.Context, bucket string, result *models.PeaksResult) error {
	f.archived[pgKey(result.VideoID, result.Quality)] = result
	return nil
}

func (f *fakeAwsRepo) GetArchivedPeaks(ctx context.Context, bucket, videoID string, quality models.Quality) (*models.PeaksResult, error) {
	if r, ok := f.archived[pgKey(videoID, quality)]; ok {
		return r, nil
	}
	return nil, errors.New("not archived")
}

func (f *fakeAwsRepo) RemoveArchivedPeaks(ctx context.Context, bucket, videoID string, quality models.Quality) error {
	delete(f.archived, pgKey(videoID, quality))
	return nil
}

func (f *fakeAwsRepo) GetPresignedAssetURL(ctx context.Context, assetURL string) (string, error) {
	f.presigned = append(f.presigned, assetURL)
	return "https://signed.example.com/" + assetURL, nil
}

type fakeInitiator struct {
	job *models.ConversionJob
	err error
}

func (f *fakeInitiator) StartJob(ctx context.Context, videoID string, quality models.Quality) (*models.ConversionJob, error) {
	return f.job, f.err
}

type fakeMonitor struct {
	assetURL string
	err      error
}

func (f *fakeMonitor) Await(ctx context.Context, job *models.ConversionJob, observer converter.ProgressFunc) (string, error) {
	if observer != nil {
		observer(models.ProgressUpdate{Status: models.JobStatusConverting, Fraction: 0.5})
	}
	return f.assetURL, f.err
}

type fakeExtractor struct {
	source models.PeaksSource
}

func (f *fakeExtractor) Extract(ctx context.Context, assetURL, seed string) *models.PeaksResult {
	return &models.PeaksResult{
		Peaks:           []float64{0.1, 0.5, 0.3},
		DurationSeconds: 120,
		SampleRate:      models.PeaksSampleRate,
		ChannelCount:    models.PeaksChannelCount,
		BitDepth:        models.PeaksBitDepth,
		Source:          f.source,
	}
}

type ucDeps struct {
	pg    *fakePgRepo
	redis *fakeRedisRepo
	aws   *fakeAwsRepo
}

func newTestUC(initiator waveform.JobInitiator, monitor waveform.JobMonitor) (waveform.UseCase, *ucDeps) {
	cfg := &config.Config{}
	cfg.S3.PeaksBucket = "peaks"
	cfg.Redis.JobQueueKey = "peaks_jobs"
	deps := &ucDeps{pg: newFakePgRepo(), redis: newFakeRedisRepo(), aws: newFakeAwsRepo()}
	uc := NewPeaksUseCase(cfg, deps.pg, deps.redis, deps.aws, initiator, monitor,
		&fakeExtractor{source: models.SourceSampled}, logger.NewNopLogger())
	return uc, deps
}

func validJob() *models.ConversionJob {
	return &models.ConversionJob{
		JobID:   "job-1",
		VideoID: "dQw4w9WgXcQ",
		Quality: models.QualityMedium,
		Status:  models.JobStatusPending,
		PollURL: "http://upstream/files/audio.mp3",
		Metadata: map[string]string{
			"title": "From Upstream",
		},
	}
}

func TestExtractPeaksFullPipeline(t *testing.T) {
	uc, deps := newTestUC(
		&fakeInitiator{job: validJob()},
		&fakeMonitor{assetURL: "http://upstream/files/audio.mp3"},
	)

	result, err := uc.ExtractPeaks(context.Background(), &models.ExtractInput{VideoID: "dQw4w9WgXcQ"})
	if err != nil {
		t.Fatalf("ExtractPeaks: %v", err)
	}
	if result.VideoID != "dQw4w9WgXcQ" {
		t.Errorf("video id %q", result.VideoID)
	}
	if result.Quality != models.QualityMedium {
		t.Errorf("default quality %q, want medium", result.Quality)
	}
	if result.Source != models.SourceSampled {
		t.Errorf("source %q", result.Source)
	}
	if result.Title != "From Upstream" {
		t.Errorf("metadata title not carried over: %q", result.Title)
	}
	if _, ok := deps.pg.stored["dQw4w9WgXcQ:medium"]; !ok {
		t.Error("result not persisted to postgres")
	}
	if _, ok := deps.redis.cache["dQw4w9WgXcQ:medium"]; !ok {
		t.Error("result not cached in redis")
	}
	if _, ok := deps.aws.archived["dQw4w9WgXcQ:medium"]; !ok {
		t.Error("result not archived to s3")
	}
}

func TestExtractPeaksCacheHitSkipsPipeline(t *testing.T) {
	uc, deps := newTestUC(
		&fakeInitiator{err: errors.New("must not be called")},
		&fakeMonitor{},
	)
	cached := &models.PeaksResult{VideoID: "dQw4w9WgXcQ", Quality: models.QualityMedium, Source: models.SourceSampled}
	deps.redis.cache["dQw4w9WgXcQ:medium"] = cached

	result, err := uc.ExtractPeaks(context.Background(), &models.ExtractInput{VideoID: "dQw4w9WgXcQ"})
	if err != nil {
		t.Fatalf("ExtractPeaks: %v", err)
	}
	if result != cached {
		t.Error("expected the cached result back")
	}
}

func TestExtractPeaksMonitorFailureSurfaces(t *testing.T) {
	uc, _ := newTestUC(
		&fakeInitiator{job: validJob()},
		&fakeMonitor{err: converter.ErrTimeout},
	)

	if _, err := uc.ExtractPeaks(context.Background(), &models.ExtractInput{VideoID: "dQw4w9WgXcQ"}); err == nil {
		t.Fatal("monitor failure must surface, never fall back silently")
	}
}

func TestExtractPeaksInvalidInput(t *testing.T) {
	uc, _ := newTestUC(&fakeInitiator{}, &fakeMonitor{})
	if _, err := uc.ExtractPeaks(context.Background(), &models.ExtractInput{VideoID: "short"}); err == nil {
		t.Fatal("expected validation error for bad video id")
	}
}

func TestGetPeaksFallsThroughToPostgres(t *testing.T) {
	uc, deps := newTestUC(&fakeInitiator{}, &fakeMonitor{})
	stored := &models.PeaksResult{VideoID: "dQw4w9WgXcQ", Quality: models.QualityHigh, Source: models.SourceSynthetic}
	deps.pg.stored["dQw4w9WgXcQ:high"] = stored

	result, err := uc.GetPeaks(context.Background(), "dQw4w9WgXcQ", models.QualityHigh)
	if err != nil {
		t.Fatalf("GetPeaks: %v", err)
	}
	if result != stored {
		t.Error("expected the stored result")
	}
	if _, ok := deps.redis.cache["dQw4w9WgXcQ:high"]; !ok {
		t.Error("postgres hit should warm the redis cache")
	}
}

func TestGetPeaksRestoredFromArchive(t *testing.T) {
	uc, deps := newTestUC(&fakeInitiator{}, &fakeMonitor{})
	archived := &models.PeaksResult{VideoID: "dQw4w9WgXcQ", Quality: models.QualityMedium, Source: models.SourceSampled}
	deps.aws.archived["dQw4w9WgXcQ:medium"] = archived

	result, err := uc.GetPeaks(context.Background(), "dQw4w9WgXcQ", models.QualityMedium)
	if err != nil {
		t.Fatalf("GetPeaks: %v", err)
	}
	if result.Source != models.SourceSampled {
		t.Errorf("source %q", result.Source)
	}
	if _, ok := deps.pg.stored["dQw4w9WgXcQ:medium"]; !ok {
		t.Error("archive hit should restore the postgres row")
	}
	if _, ok := deps.redis.cache["dQw4w9WgXcQ:medium"]; !ok {
		t.Error("archive hit should warm the redis cache")
	}
}

func TestExtractPeaksPresignsBucketLocations(t *testing.T) {
	uc, deps := newTestUC(
		&fakeInitiator{job: validJob()},
		&fakeMonitor{assetURL: "media-bucket/audio/dQw4w9WgXcQ.mp3"},
	)

	if _, err := uc.ExtractPeaks(context.Background(), &models.ExtractInput{VideoID: "dQw4w9WgXcQ"}); err != nil {
		t.Fatalf("ExtractPeaks: %v", err)
	}
	if len(deps.aws.presigned) != 1 || deps.aws.presigned[0] != "media-bucket/audio/dQw4w9WgXcQ.mp3" {
		t.Fatalf("bucket-style asset location was not presigned: %v", deps.aws.presigned)
	}
}

func TestGetPeaksNotFound(t *testing.T) {
	uc, _ := newTestUC(&fakeInitiator{}, &fakeMonitor{})
	if _, err := uc.GetPeaks(context.Background(), "dQw4w9WgXcQ", models.QualityLow); err == nil {
		t.Fatal("expected not found error")
	}
}

func TestEnqueueExtraction(t *testing.T) {
	uc, deps := newTestUC(&fakeInitiator{}, &fakeMonitor{})

	job, err := uc.EnqueueExtraction(context.Background(), &models.ExtractInput{VideoID: "dQw4w9WgXcQ", Quality: models.QualityHigh})
	if err != nil {
		t.Fatalf("EnqueueExtraction: %v", err)
	}
	if job.Status != models.JobStatusPending {
		t.Errorf("status %q, want pending", job.Status)
	}
	if len(deps.redis.queue) != 1 {
		t.Fatalf("queue length %d, want 1", len(deps.redis.queue))
	}

	got, err := uc.GetJobStatus(context.Background(), job.JobID)
	if err != nil {
		t.Fatalf("GetJobStatus: %v", err)
	}
	if got.VideoID != "dQw4w9WgXcQ" {
		t.Errorf("job video id %q", got.VideoID)
	}
}

func TestProcessExtractionJobSuccess(t *testing.T) {
	uc, deps := newTestUC(
		&fakeInitiator{job: validJob()},
		&fakeMonitor{assetURL: "http://upstream/files/audio.mp3"},
	)
	job := &models.ExtractionJob{JobID: "j1", VideoID: "dQw4w9WgXcQ", Quality: models.QualityMedium}

	if err := uc.ProcessExtractionJob(context.Background(), job); err != nil {
		t.Fatalf("ProcessExtractionJob: %v", err)
	}
	if job.Status != models.JobStatusReady {
		t.Errorf("job status %q, want ready", job.Status)
	}
	if _, ok := deps.pg.stored["dQw4w9WgXcQ:medium"]; !ok {
		t.Error("result not persisted")
	}
}

func TestProcessExtractionJobFailureRecorded(t *testing.T) {
	uc, deps := newTestUC(
		&fakeInitiator{job: validJob()},
		&fakeMonitor{err: converter.ErrAttemptsExhausted},
	)
	job := &models.ExtractionJob{JobID: "j2", VideoID: "dQw4w9WgXcQ", Quality: models.QualityMedium}

	if err := uc.ProcessExtractionJob(context.Background(), job); err == nil {
		t.Fatal("expected pipeline failure")
	}
	state, err := deps.redis.GetJobState(context.Background(), "j2")
	if err != nil {
		t.Fatalf("GetJobState: %v", err)
	}
	if state.Status != models.JobStatusFailed {
		t.Errorf("recorded status %q, want failed", state.Status)
	}
	if state.Error == "" {
		t.Error("failure reason not recorded")
	}
}
