// Package worker runs bank sync jobs on a bounded pool of goroutines.
package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// DefaultJobTimeout bounds a single job. A bank sync may walk up to the
// page cap, so this is generous.
const DefaultJobTimeout = 120 * time.Second

var ErrQueueFull = errors.New("job queue full")

var (
	jobTracer          = otel.Tracer("horizon/worker")
	jobMeter           = otel.Meter("horizon/worker")
	jobDuration, _     = jobMeter.Float64Histogram("worker.job.duration", metric.WithDescription("Job execution duration in seconds"), metric.WithUnit("s"))
	jobTotal, _        = jobMeter.Int64Counter("worker.job.total", metric.WithDescription("Total jobs executed by status"))
	jobQueueDropped, _ = jobMeter.Int64Counter("worker.job.queue_dropped", metric.WithDescription("Jobs dropped due to full queue"))
)

// Job is a unit of work for the pool.
type Job interface {
	Execute(ctx context.Context) error
	UserID() string
	Description() string
}

// WorkerPool processes jobs from a buffered channel with a fixed number of
// goroutines. Jobs run under the pool context, so a forced shutdown
// cancels them.
type WorkerPool struct {
	workerCount int
	jobDelay    time.Duration
	jobTimeout  time.Duration
	jobs        chan Job
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
	logger      *zap.Logger
}

// NewWorkerPool creates a pool. jobDelay spaces out jobs on each worker
// to stay under remote rate limits; zero disables it.
func NewWorkerPool(workerCount int, jobDelay time.Duration, queueSize int, logger *zap.Logger) *WorkerPool {
	if workerCount < 1 {
		workerCount = 1
	}
	ctx, cancel := context.WithCancel(context.Background())

	return &WorkerPool{
		workerCount: workerCount,
		jobDelay:    jobDelay,
		jobTimeout:  DefaultJobTimeout,
		jobs:        make(chan Job, queueSize),
		ctx:         ctx,
		cancel:      cancel,
		logger:      logger,
	}
}

// WithJobTimeout overrides DefaultJobTimeout. Call before Start.
func (wp *WorkerPool) WithJobTimeout(d time.Duration) *WorkerPool {
	wp.jobTimeout = d
	return wp
}

func (wp *WorkerPool) Start() {
	wp.logger.Info("starting worker pool", zap.Int("workers", wp.workerCount))

	for i := 1; i <= wp.workerCount; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	for {
		select {
		case <-wp.ctx.Done():
			wp.logger.Debug("worker shutting down", zap.Int("worker_id", id))
			return

		case job, ok := <-wp.jobs:
			if !ok {
				return
			}

			wp.processJob(id, job)

			if wp.jobDelay > 0 {
				select {
				case <-time.After(wp.jobDelay):
				case <-wp.ctx.Done():
					return
				}
			}
		}
	}
}

func (wp *WorkerPool) processJob(workerID int, job Job) {
	ctx, cancel := context.WithTimeout(wp.ctx, wp.jobTimeout)
	defer cancel()

	ctx, span := jobTracer.Start(ctx, "job.execute",
		trace.WithAttributes(
			attribute.Int("worker.id", workerID),
			attribute.String("job.description", job.Description()),
			attribute.String("job.user_id", job.UserID()),
		),
	)
	defer span.End()

	log := wp.logger.With(
		zap.Int("worker_id", workerID),
		zap.String("job", job.Description()),
		zap.String("user_id", job.UserID()),
	)
	start := time.Now()

	if err := job.Execute(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		jobTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("status", "error")))
		jobDuration.Record(ctx, time.Since(start).Seconds())
		log.Error("job failed", zap.Duration("duration", time.Since(start)), zap.Error(err))
		return
	}

	jobTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("status", "success")))
	jobDuration.Record(ctx, time.Since(start).Seconds())
	log.Info("job completed", zap.Duration("duration", time.Since(start)))
}

// Submit queues a job without blocking. It returns ErrQueueFull when the
// buffer is full and the job is dropped.
func (wp *WorkerPool) Submit(job Job) error {
	// jobs is closed once shutdown begins; never race a send against it.
	if err := wp.ctx.Err(); err != nil {
		return err
	}
	select {
	case <-wp.ctx.Done():
		return wp.ctx.Err()
	case wp.jobs <- job:
		return nil
	default:
		jobQueueDropped.Add(context.Background(), 1)
		wp.logger.Warn("job queue full, dropping job",
			zap.String("job", job.Description()),
			zap.String("user_id", job.UserID()),
		)
		return ErrQueueFull
	}
}

// SubmitBatch queues jobs and returns how many were accepted.
func (wp *WorkerPool) SubmitBatch(jobs []Job) int {
	submitted := 0
	for _, job := range jobs {
		if err := wp.Submit(job); err != nil {
			continue
		}
		submitted++
	}
	wp.logger.Info("submitted jobs", zap.Int("submitted", submitted), zap.Int("total", len(jobs)))
	return submitted
}

// Shutdown stops accepting jobs and waits for queued ones to finish.
func (wp *WorkerPool) Shutdown() {
	close(wp.jobs)
	wp.wg.Wait()
	wp.cancel()
	wp.logger.Info("worker pool stopped")
}

// ShutdownWithTimeout is Shutdown with a deadline. Jobs still running
// when it passes are cancelled through their context.
func (wp *WorkerPool) ShutdownWithTimeout(timeout time.Duration) {
	close(wp.jobs)

	done := make(chan struct{})
	go func() {
		wp.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		wp.cancel()
		wp.logger.Info("worker pool stopped")
	case <-time.After(timeout):
		wp.logger.Warn("worker pool shutdown timed out, cancelling jobs", zap.Duration("timeout", timeout))
		wp.cancel()
	}
}
