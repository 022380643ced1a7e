package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"hrms/internal/domain/leave"
	"hrms/internal/platform/config"
)

const JobLeaveAccrual = "leave_accrual"

type Service struct {
	DB    *pgxpool.Pool
	Cfg   config.Config
	Leave *leave.Service
	queue chan job
}

type job struct {
	Type string
	Run  func(context.Context) (any, error)
}

func New(db *pgxpool.Pool, cfg config.Config, leaveSvc *leave.Service) *Service {
	return &Service{
		DB:    db,
		Cfg:   cfg,
		Leave: leaveSvc,
		queue: make(chan job, 128),
	}
}

func (s *Service) Start(ctx context.Context) {
	go s.worker(ctx)
	if s.Cfg.LeaveAccrualInterval > 0 {
		go s.scheduleAccruals(ctx, s.Cfg.LeaveAccrualInterval)
	}
}

func (s *Service) Enqueue(jobType string, run func(context.Context) (any, error)) {
	select {
	case s.queue <- job{Type: jobType, Run: run}:
	default:
		slog.Warn("job queue full", "jobType", jobType)
	}
}

// RunNow executes the job synchronously, still recording it in job_runs.
func (s *Service) RunNow(ctx context.Context, jobType string, run func(context.Context) (any, error)) (any, error) {
	return s.runJob(ctx, job{Type: jobType, Run: run})
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			if _, err := s.runJob(ctx, j); err != nil {
				slog.Warn("job run failed", "jobType", j.Type, "err", err)
			}
		}
	}
}

func (s *Service) runJob(ctx context.Context, j job) (any, error) {
	runID := ""
	if err := s.DB.QueryRow(ctx, `
    INSERT INTO job_runs (job_type, status)
    VALUES ($1,$2)
    RETURNING id
  `, j.Type, "running").Scan(&runID); err != nil {
		slog.Warn("job run insert failed", "err", err)
	}

	detail, err := j.Run(ctx)
	status := "completed"
	if err != nil {
		status = "failed"
	}
	detailJSON, marshalErr := json.Marshal(detail)
	if marshalErr != nil {
		slog.Warn("job detail marshal failed", "err", marshalErr)
		detailJSON = []byte("{}")
	}
	if runID != "" {
		if _, updErr := s.DB.Exec(ctx, `
      UPDATE job_runs
      SET status = $1, detail = $2, finished_at = now()
      WHERE id = $3
    `, status, detailJSON, runID); updErr != nil {
			slog.Warn("job run update failed", "err", updErr)
		}
	}
	return detail, err
}

func (s *Service) scheduleAccruals(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Enqueue(JobLeaveAccrual, func(ctx context.Context) (any, error) {
				return s.Leave.ApplyAccruals(ctx, time.Now().UTC())
			})
		}
	}
}
