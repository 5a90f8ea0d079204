package usecase

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/amankumarsingh77/waveform-service/internal/config"
	"github.com/amankumarsingh77/waveform-service/internal/converter"
	"github.com/amankumarsingh77/waveform-service/internal/models"
	"github.com/amankumarsingh77/waveform-service/internal/waveform"
	"github.com/amankumarsingh77/waveform-service/pkg/logger"
	"github.com/amankumarsingh77/waveform-service/pkg/utils"
	"github.com/google/uuid"
)

type peaksUC struct {
	cfg       *config.Config
	peaksRepo waveform.Repository
	redisRepo waveform.RedisRepository
	awsRepo   waveform.AWSRepository
	initiator waveform.JobInitiator
	monitor   waveform.JobMonitor
	extractor waveform.PeaksExtractor
	logger    logger.Logger
}

func NewPeaksUseCase(
	cfg *config.Config,
	peaksRepo waveform.Repository,
	redisRepo waveform.RedisRepository,
	awsRepo waveform.AWSRepository,
	initiator waveform.JobInitiator,
	monitor waveform.JobMonitor,
	extractor waveform.PeaksExtractor,
	log logger.Logger,
) waveform.UseCase {
	return &peaksUC{
		cfg:       cfg,
		peaksRepo: peaksRepo,
		redisRepo: redisRepo,
		awsRepo:   awsRepo,
		initiator: initiator,
		monitor:   monitor,
		extractor: extractor,
		logger:    log,
	}
}

// ExtractPeaks runs the full pipeline synchronously: cache lookup,
// upstream conversion, monitored wait, extraction, best-effort stores.
func (u *peaksUC) ExtractPeaks(ctx context.Context, input *models.ExtractInput) (*models.PeaksResult, error) {
	if input == nil {
		return nil, fmt.Errorf("invalid input: input is nil")
	}
	if err := utils.ValidateStruct(ctx, input); err != nil {
		u.logger.Errorf("ExtractPeaks - ValidateStruct error: %v", err)
		return nil, fmt.Errorf("invalid input: %v", err)
	}
	quality := input.Quality
	if quality == "" {
		quality = models.QualityMedium
	}

	if cached := u.lookupStored(ctx, input.VideoID, quality); cached != nil {
		return cached, nil
	}

	result, err := u.runPipeline(ctx, input.VideoID, quality, nil)
	if err != nil {
		return nil, err
	}
	if input.Title != "" {
		result.Title = input.Title
	}
	if input.Author != "" {
		result.Author = input.Author
	}

	u.store(ctx, result)
	return result, nil
}

// runPipeline is the monitor+extract core shared by the sync endpoint
// and the background worker. Monitor failures surface; extraction never
// fails.
func (u *peaksUC) runPipeline(ctx context.Context, videoID string, quality models.Quality, observer converter.ProgressFunc) (*models.PeaksResult, error) {
	job, err := u.initiator.StartJob(ctx, videoID, quality)
	if err != nil {
		u.logger.Errorf("ExtractPeaks - StartJob error for %s: %v", videoID, err)
		return nil, fmt.Errorf("failed to start conversion: %v", err)
	}

	assetURL, err := u.monitor.Await(ctx, job, observer)
	if err != nil {
		u.logger.Errorf("ExtractPeaks - Await error for job %s: %v", job.JobID, err)
		return nil, fmt.Errorf("conversion did not complete: %v", err)
	}

	// Upstream sometimes hands back a bucket/key location instead of a
	// fetchable URL.
	if !strings.HasPrefix(assetURL, "http") {
		if signed, signErr := u.awsRepo.GetPresignedAssetURL(ctx, assetURL); signErr == nil {
			assetURL = signed
		} else {
			u.logger.Warnf("runPipeline - could not presign asset %s: %v", assetURL, signErr)
		}
	}

	result := u.extractor.Extract(ctx, assetURL, videoID)
	result.VideoID = videoID
	result.Quality = quality
	if title, ok := job.Metadata["title"]; ok && result.Title == "" {
		result.Title = title
	}
	if author, ok := job.Metadata["author"]; ok && result.Author == "" {
		result.Author = author
	}
	u.logger.Infof("extracted %d peaks for video %s (source=%s)", len(result.Peaks), videoID, result.Source)
	return result, nil
}

// lookupStored checks redis, then postgres, then the s3 archive. A miss
// or a store error is never fatal to the request.
func (u *peaksUC) lookupStored(ctx context.Context, videoID string, quality models.Quality) *models.PeaksResult {
	if cached, err := u.redisRepo.GetCachedPeaks(ctx, videoID, quality); err == nil && cached != nil {
		u.logger.Infof("peaks cache hit for video %s", videoID)
		return cached
	}
	stored, err := u.peaksRepo.GetPeaks(ctx, videoID, quality)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			u.logger.Warnf("lookupStored - postgres error for %s: %v", videoID, err)
		}
		archived, archiveErr := u.awsRepo.GetArchivedPeaks(ctx, u.cfg.S3.PeaksBucket, videoID, quality)
		if archiveErr != nil || archived == nil {
			return nil
		}
		u.logger.Infof("restored peaks for video %s from archive", videoID)
		u.store(ctx, archived)
		return archived
	}
	if err = u.redisRepo.CachePeaks(ctx, stored); err != nil {
		u.logger.Warnf("lookupStored - failed to warm cache for %s: %v", videoID, err)
	}
	return stored
}

// store persists everywhere we can; failures are logged, not returned.
// The caller already has the result in hand.
func (u *peaksUC) store(ctx context.Context, result *models.PeaksResult) {
	if persisted, err := u.peaksRepo.UpsertPeaks(ctx, result); err != nil {
		u.logger.Warnf("store - UpsertPeaks error for %s: %v", result.VideoID, err)
	} else {
		*result = *persisted
	}
	if err := u.redisRepo.CachePeaks(ctx, result); err != nil {
		u.logger.Warnf("store - CachePeaks error for %s: %v", result.VideoID, err)
	}
	if err := u.awsRepo.ArchivePeaks(ctx, u.cfg.S3.PeaksBucket, result); err != nil {
		u.logger.Warnf("store - ArchivePeaks error for %s: %v", result.VideoID, err)
	}
}

func (u *peaksUC) EnqueueExtraction(ctx context.Context, input *models.ExtractInput) (*models.ExtractionJob, error) {
	if err := utils.ValidateStruct(ctx, input); err != nil {
		u.logger.Errorf("EnqueueExtraction - ValidateStruct error: %v", err)
		return nil, fmt.Errorf("invalid input: %v", err)
	}
	quality := input.Quality
	if quality == "" {
		quality = models.QualityMedium
	}
	job := &models.ExtractionJob{
		JobID:      uuid.New().String(),
		VideoID:    input.VideoID,
		Quality:    quality,
		Title:      input.Title,
		Author:     input.Author,
		Status:     models.JobStatusPending,
		EnqueuedAt: time.Now(),
	}
	if err := u.redisRepo.EnqueueJob(ctx, u.cfg.Redis.JobQueueKey, job); err != nil {
		u.logger.Errorf("EnqueueExtraction - EnqueueJob error: %v", err)
		return nil, fmt.Errorf("failed to queue the job: %v", err)
	}
	return job, nil
}

func (u *peaksUC) GetJobStatus(ctx context.Context, jobID string) (*models.ExtractionJob, error) {
	if jobID == "" {
		return nil, fmt.Errorf("invalid job id: cannot be empty")
	}
	job, err := u.redisRepo.GetJobState(ctx, jobID)
	if err != nil {
		u.logger.Errorf("GetJobStatus - GetJobState error for %s: %v", jobID, err)
		return nil, fmt.Errorf("job not found")
	}
	return job, nil
}

// ProcessExtractionJob runs the pipeline for a dequeued job, mirroring
// monitor progress into the job's redis state for the status endpoint.
func (u *peaksUC) ProcessExtractionJob(ctx context.Context, job *models.ExtractionJob) error {
	observer := func(update models.ProgressUpdate) {
		if err := u.redisRepo.UpdateJobProgress(ctx, job.JobID, update.Fraction); err != nil {
			u.logger.Warnf("ProcessExtractionJob - progress update failed for %s: %v", job.JobID, err)
		}
	}

	result, err := u.runPipeline(ctx, job.VideoID, job.Quality, observer)
	if err != nil {
		job.Status = models.JobStatusFailed
		job.Error = err.Error()
		job.CompletedAt = time.Now()
		if stateErr := u.redisRepo.SetJobState(ctx, job); stateErr != nil {
			u.logger.Warnf("ProcessExtractionJob - failed to record failure for %s: %v", job.JobID, stateErr)
		}
		return err
	}
	if result.Title == "" {
		result.Title = job.Title
	}
	if result.Author == "" {
		result.Author = job.Author
	}
	u.store(ctx, result)

	job.Status = models.JobStatusReady
	job.Progress = 1
	job.CompletedAt = time.Now()
	if err := u.redisRepo.SetJobState(ctx, job); err != nil {
		u.logger.Warnf("ProcessExtractionJob - failed to record completion for %s: %v", job.JobID, err)
	}
	return nil
}

func (u *peaksUC) GetPeaks(ctx context.Context, videoID string, quality models.Quality) (*models.PeaksResult, error) {
	if err := utils.ValidateVideoID(videoID); err != nil {
		return nil, err
	}
	if quality == "" {
		quality = models.QualityMedium
	}
	if result := u.lookupStored(ctx, videoID, quality); result != nil {
		return result, nil
	}
	return nil, fmt.Errorf("peaks not found")
}

func (u *peaksUC) ListPeaks(ctx context.Context, pagination *utils.Pagination) (*models.PeaksList, error) {
	if pagination == nil {
		pagination = &utils.Pagination{
			Page: 1,
			Size: 10,
		}
	}
	if pagination.Page < 1 {
		pagination.Page = 1
	}
	if pagination.Size < 1 || pagination.Size > 100 {
		pagination.Size = 10
	}
	list, err := u.peaksRepo.ListPeaks(ctx, pagination)
	if err != nil {
		u.logger.Errorf("ListPeaks - failed to fetch stored peaks: %v", err)
		return nil, fmt.Errorf("failed to fetch peaks: %v", err)
	}
	return list, nil
}

func (u *peaksUC) DeletePeaks(ctx context.Context, videoID string, quality models.Quality) error {
	if err := utils.ValidateVideoID(videoID); err != nil {
		return err
	}
	if quality == "" {
		quality = models.QualityMedium
	}
	if err := u.peaksRepo.DeletePeaks(ctx, videoID, quality); err != nil {
		u.logger.Errorf("DeletePeaks - failed to delete peaks: %v", err)
		return fmt.Errorf("failed to delete peaks: %v", err)
	}
	if err := u.redisRepo.InvalidatePeaks(ctx, videoID, quality); err != nil {
		u.logger.Warnf("DeletePeaks - failed to invalidate cache for %s: %v", videoID, err)
	}
	if err := u.awsRepo.RemoveArchivedPeaks(ctx, u.cfg.S3.PeaksBucket, videoID, quality); err != nil {
		u.logger.Warnf("DeletePeaks - failed to remove archive for %s: %v", videoID, err)
	}
	return nil
}
