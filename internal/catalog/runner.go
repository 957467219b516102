package catalog

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

// Runner polls for pending import jobs and executes them one at a time.
type Runner struct {
	service      *Service
	repo         Repository
	logger       *slog.Logger
	pollInterval time.Duration
	running      atomic.Bool
	paused       atomic.Bool
}

func NewRunner(service *Service, repo Repository, logger *slog.Logger) *Runner {
	return &Runner{
		service:      service,
		repo:         repo,
		logger:       logger,
		pollInterval: 2 * time.Second,
	}
}

func (r *Runner) Start(ctx context.Context) {
	if r.running.Swap(true) {
		return
	}

	r.logger.Info("import runner started")

	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("import runner stopping")
			r.running.Store(false)
			return
		case <-ticker.C:
			if !r.paused.Load() {
				r.processNextJob(ctx)
			}
		}
	}
}

func (r *Runner) Pause() {
	r.paused.Store(true)
	r.logger.Info("import runner paused")
}

func (r *Runner) Resume() {
	r.paused.Store(false)
	r.logger.Info("import runner resumed")
}

func (r *Runner) IsPaused() bool {
	return r.paused.Load()
}

func (r *Runner) IsRunning() bool {
	return r.running.Load()
}

func (r *Runner) processNextJob(ctx context.Context) {
	jobs, err := r.repo.ListPendingJobs(ctx)
	if err != nil {
		r.logger.Error("failed to list pending jobs", "error", err)
		return
	}
	if len(jobs) == 0 {
		return
	}

	job := jobs[0]
	r.logger.Info("processing job", "job_id", job.ID, "type", job.Type)

	switch job.Type {
	case JobTypeImport:
		if err := r.service.ExecuteImport(ctx, job.ID, job.Path); err != nil {
			r.logger.Error("import failed", "job_id", job.ID, "error", err)
		}
	default:
		r.logger.Warn("unknown job type", "type", job.Type)
		r.repo.UpdateJobStatus(ctx, job.ID, JobStatusFailed, "unknown job type")
	}
}
