package worker

import (
	"context"
	"sync"
	"time"

	"github.com/amankumarsingh77/waveform-service/internal/config"
	"github.com/amankumarsingh77/waveform-service/internal/waveform"
	"github.com/amankumarsingh77/waveform-service/pkg/logger"
	"github.com/amankumarsingh77/waveform-service/pkg/utils"
)

const cpuBackoff = 10 * time.Second

// Worker drains the extraction job queue. Each goroutine checks CPU
// headroom before taking a job so extraction never starves the API.
type Worker struct {
	logger    logger.Logger
	redisRepo waveform.RedisRepository
	peaksUC   waveform.UseCase
	cfg       *config.Config
	wg        sync.WaitGroup
}

func NewWorker(cfg *config.Config, logger logger.Logger, redisRepo waveform.RedisRepository, peaksUC waveform.UseCase) *Worker {
	return &Worker{
		logger:    logger,
		redisRepo: redisRepo,
		peaksUC:   peaksUC,
		cfg:       cfg,
	}
}

func (w *Worker) Start(ctx context.Context) {
	count := w.cfg.Worker.WorkerCount
	if count <= 0 {
		count = 1
	}
	w.logger.Infof("starting %d extraction workers", count)
	for i := 0; i < count; i++ {
		w.wg.Add(1)
		go w.run(ctx)
	}
}

func (w *Worker) Wait() {
	w.wg.Wait()
}

func (w *Worker) run(ctx context.Context) {
	defer w.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if canAcceptJob, usage := utils.CheckCPUUsage(w.cfg.Worker.MaxCPUUsage); !canAcceptJob {
			w.logger.Infof("CPU usage too high (%.2f%%), backing off", usage)
			select {
			case <-ctx.Done():
				return
			case <-time.After(cpuBackoff):
			}
			continue
		}

		job, err := w.redisRepo.DequeueJob(ctx, w.cfg.Redis.JobQueueKey)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			w.logger.Errorf("failed to dequeue job: %v", err)
			continue
		}
		if job == nil {
			continue
		}

		w.logger.Infof("processing extraction job %s (video %s)", job.JobID, job.VideoID)
		if err := w.peaksUC.ProcessExtractionJob(ctx, job); err != nil {
			w.logger.Errorf("job %s failed: %v", job.JobID, err)
			continue
		}
		w.logger.Infof("job %s completed", job.JobID)
	}
}
