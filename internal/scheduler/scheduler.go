package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/smallbiznis/rentfolio/internal/clock"
	delinquencydomain "github.com/smallbiznis/rentfolio/internal/delinquency/domain"
	importerdomain "github.com/smallbiznis/rentfolio/internal/importer/domain"
	"github.com/smallbiznis/rentfolio/internal/lock"
	obsmetrics "github.com/smallbiznis/rentfolio/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const sweepLockKey = "delinquency:sweep:lock"

var ErrInvalidConfig = errors.New("scheduler: invalid configuration")

type Params struct {
	fx.In

	DB             *gorm.DB
	Log            *zap.Logger
	Clock          clock.Clock
	Config         Config `optional:"true"`
	DelinquencySvc delinquencydomain.Service
	ImportRepo     importerdomain.Repository
	Locker         *lock.Locker `optional:"true"`
}

type Scheduler struct {
	db             *gorm.DB
	log            *zap.Logger
	cfg            Config
	clock          clock.Clock
	delinquencySvc delinquencydomain.Service
	importRepo     importerdomain.Repository
	locker         *lock.Locker
}

func New(p Params) (*Scheduler, error) {
	if p.DB == nil || p.Log == nil || p.Clock == nil || p.DelinquencySvc == nil || p.ImportRepo == nil {
		return nil, ErrInvalidConfig
	}
	return &Scheduler{
		db:             p.DB,
		log:            p.Log.Named("scheduler").With(zap.String("component", "scheduler")),
		cfg:            p.Config.withDefaults(),
		clock:          p.Clock,
		delinquencySvc: p.DelinquencySvc,
		importRepo:     p.ImportRepo,
		locker:         p.Locker,
	}, nil
}

func (s *Scheduler) runJob(
	parent context.Context,
	name string,
	timeout time.Duration,
	fn func(ctx context.Context) error,
) error {
	start := time.Now()
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	log := s.log.With(zap.String("job", name))
	schedMetrics := obsmetrics.Scheduler()
	schedMetrics.IncJobRun(name)

	err := fn(ctx)
	schedMetrics.ObserveJobDuration(name, time.Since(start))
	if err == nil {
		return nil
	}

	isTimeout := errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
	if isTimeout {
		schedMetrics.IncJobTimeout(name)
	}
	schedMetrics.IncJobError(name, err)
	if isTimeout {
		log.Warn("job timed out",
			zap.Duration("timeout", timeout),
			zap.Error(err),
		)
		return nil
	}

	return fmt.Errorf("%s: %w", name, err)
}

func (s *Scheduler) RunOnce(parent context.Context) error {
	var err error

	jobs := []struct {
		Name    string
		Timeout time.Duration
		Run     func(context.Context) error
	}{
		{"delinquency_sweep", s.cfg.JobTimeout, s.DelinquencySweepJob},
		{"stale_import_recovery", time.Minute, s.StaleImportRecoveryJob},
	}

	for _, job := range jobs {
		if !s.isJobEnabled(job.Name) {
			continue
		}
		err = errors.Join(err, s.runJob(parent, job.Name, job.Timeout, job.Run))
	}
	return err
}

func (s *Scheduler) RunForever(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.RunInterval)
	defer ticker.Stop()
	nextRun := s.clock.Now().Add(s.cfg.RunInterval)
	schedMetrics := obsmetrics.Scheduler()

	for {
		runLag := time.Since(nextRun)
		if runLag > 0 {
			schedMetrics.ObserveRunLoopLag(runLag)
		}
		if err := s.RunOnce(ctx); err != nil {
			s.log.Warn("scheduler run failed", zap.Error(err))
		}
		nextRun = nextRun.Add(s.cfg.RunInterval)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *Scheduler) isJobEnabled(jobName string) bool {
	if len(s.cfg.EnabledJobs) == 0 {
		return true
	}
	for _, enabled := range s.cfg.EnabledJobs {
		if strings.EqualFold(enabled, jobName) {
			return true
		}
	}
	return false
}

// DelinquencySweepJob serializes the sweep across instances with a redis
// lock when one is configured. Losing the race is a no-op, not an error.
func (s *Scheduler) DelinquencySweepJob(ctx context.Context) error {
	if s.locker != nil {
		token, acquired, err := s.locker.TryLock(ctx, sweepLockKey, s.cfg.LockTTL)
		if err != nil {
			return fmt.Errorf("acquire sweep lock: %w", err)
		}
		if !acquired {
			s.log.Info("sweep lock held elsewhere, skipping")
			return nil
		}
		defer func() {
			if err := s.locker.Release(context.WithoutCancel(ctx), sweepLockKey, token); err != nil {
				s.log.Warn("release sweep lock", zap.Error(err))
			}
		}()
	}

	result, err := s.delinquencySvc.ProcessDelinquentPayments(ctx)
	if err != nil {
		return err
	}
	s.log.Info("delinquency sweep job done",
		zap.Int("payments_checked", result.PaymentsChecked),
		zap.Int("actions_sent", result.ActionsSent),
		zap.Int("payment_errors", len(result.Errors)),
	)
	return nil
}

// StaleImportRecoveryJob fails import jobs abandoned mid-pipeline, e.g.
// after a crash between claiming a job and finishing it.
func (s *Scheduler) StaleImportRecoveryJob(ctx context.Context) error {
	cutoff := s.clock.Now().Add(-s.cfg.StaleImportThreshold)
	recovered, err := s.importRepo.FailStale(ctx, s.db, cutoff)
	if err != nil {
		return err
	}
	if recovered > 0 {
		s.log.Warn("recovered stale import jobs", zap.Int64("count", recovered))
	}
	return nil
}
