package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/amankumarsingh77/waveform-service/internal/models"
	"github.com/amankumarsingh77/waveform-service/internal/waveform"
	"github.com/go-redis/redis/v8"
)

const (
	peaksCachePrefix = "peaks:"
	jobStatePrefix   = "peaks:job:"
	defaultResultTTL = 24 * time.Hour
	jobStateTTL      = 6 * time.Hour
	dequeueBlock     = 5 * time.Second
)

type peaksRedisRepo struct {
	redisClient *redis.Client
	resultTTL   time.Duration
}

func NewPeaksRedisRepo(redisClient *redis.Client, resultTTLSeconds int) waveform.RedisRepository {
	ttl := defaultResultTTL
	if resultTTLSeconds > 0 {
		ttl = time.Duration(resultTTLSeconds) * time.Second
	}
	return &peaksRedisRepo{
		redisClient: redisClient,
		resultTTL:   ttl,
	}
}

func cacheKey(videoID string, quality models.Quality) string {
	return fmt.Sprintf("%s%s:%s", peaksCachePrefix, videoID, quality)
}

func (r *peaksRedisRepo) CachePeaks(ctx context.Context, result *models.PeaksResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal peaks result: %w", err)
	}
	return r.redisClient.Set(ctx, cacheKey(result.VideoID, result.Quality), data, r.resultTTL).Err()
}

func (r *peaksRedisRepo) GetCachedPeaks(ctx context.Context, videoID string, quality models.Quality) (*models.PeaksResult, error) {
	data, err := r.redisClient.Get(ctx, cacheKey(videoID, quality)).Bytes()
	if err != nil {
		return nil, err
	}
	result := &models.PeaksResult{}
	if err = json.Unmarshal(data, result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached peaks: %w", err)
	}
	return result, nil
}

func (r *peaksRedisRepo) InvalidatePeaks(ctx context.Context, videoID string, quality models.Quality) error {
	return r.redisClient.Del(ctx, cacheKey(videoID, quality)).Err()
}

func (r *peaksRedisRepo) EnqueueJob(ctx context.Context, key string, job *models.ExtractionJob) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal extraction job: %w", err)
	}
	if err = r.redisClient.LPush(ctx, key, data).Err(); err != nil {
		return fmt.Errorf("failed to enqueue extraction job: %w", err)
	}
	return r.SetJobState(ctx, job)
}

func (r *peaksRedisRepo) DequeueJob(ctx context.Context, key string) (*models.ExtractionJob, error) {
	res, err := r.redisClient.BLPop(ctx, dequeueBlock, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	job := &models.ExtractionJob{}
	if err = json.Unmarshal([]byte(res[1]), job); err != nil {
		return nil, fmt.Errorf("error unmarshalling extraction job: %v", err)
	}
	job.StartedAt = time.Now()
	job.Status = models.JobStatusConverting
	if err = r.SetJobState(ctx, job); err != nil {
		return nil, fmt.Errorf("error updating job state: %v", err)
	}
	return job, nil
}

func (r *peaksRedisRepo) SetJobState(ctx context.Context, job *models.ExtractionJob) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job state: %w", err)
	}
	pipe := r.redisClient.Pipeline()
	pipe.HSet(ctx, jobStatePrefix+job.JobID, "status", string(job.Status), "progress", job.Progress, "job_data", data)
	pipe.Expire(ctx, jobStatePrefix+job.JobID, jobStateTTL)
	_, err = pipe.Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to set job state: %w", err)
	}
	return nil
}

func (r *peaksRedisRepo) GetJobState(ctx context.Context, jobID string) (*models.ExtractionJob, error) {
	data, err := r.redisClient.HGet(ctx, jobStatePrefix+jobID, "job_data").Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get job state: %w", err)
	}
	job := &models.ExtractionJob{}
	if err = json.Unmarshal([]byte(data), job); err != nil {
		return nil, fmt.Errorf("failed to unmarshal job state: %w", err)
	}
	return job, nil
}

func (r *peaksRedisRepo) UpdateJobProgress(ctx context.Context, jobID string, progress float64) error {
	if err := r.redisClient.HSet(ctx, jobStatePrefix+jobID, "progress", progress).Err(); err != nil {
		return fmt.Errorf("failed to update job progress: %w", err)
	}
	return nil
}
