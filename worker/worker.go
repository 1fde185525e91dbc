package worker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"telconova-dispatch/dal"
	"telconova-dispatch/models"
	"telconova-dispatch/utils/logger"

	"github.com/google/uuid"
	"github.com/robfig/cron"
)

const (
	JobUndoExpiry    = "undo-expiry"
	JobLockoutPrune  = "lockout-prune"
	JobTokenCleanup  = "token-cleanup"
	JobWorkloadAudit = "workload-audit"

	bootstrapLockTimeout = 5 * time.Minute
	jobTimeout           = time.Minute
)

type HistoryExpirer interface {
	ExpireHistory() int
}

type LockoutPruner interface {
	PruneExpired() int
}

type TokenCleaner interface {
	CleanupExpiredTokens() int
}

type WorkloadAuditor interface {
	AuditWorkloads() []models.WorkloadDiscrepancy
}

// Dependencies are the components the maintenance jobs act on. A nil
// dependency disables its job; Tables is set only on the dynamodb driver.
type Dependencies struct {
	History  HistoryExpirer
	Lockouts LockoutPruner
	Tokens   TokenCleaner
	Auditor  WorkloadAuditor
	Tables   dal.TableManagerInterface
}

// Job is one scheduled maintenance task.
type Job struct {
	Name     string
	Schedule string
	Run      func(ctx context.Context) error
}

// Worker runs the maintenance jobs on a cron scheduler and records every run
// in the status file.
type Worker struct {
	config    *models.Config
	logger    logger.Logger
	cron      *cron.Cron
	status    *StatusManager
	lock      *LockManager
	bootstrap *TableBootstrapper
	jobs      []Job
	ownerID   string

	ctx      context.Context
	cancel   context.CancelFunc
	mu       sync.Mutex
	running  bool
	stopOnce sync.Once
}

func NewWorker(ctx context.Context, cfg *models.Config, log logger.Logger, deps Dependencies) (*Worker, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if log == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if cfg.WorkerStatusFile == "" {
		return nil, fmt.Errorf("worker status file is required")
	}
	for _, spec := range []string{cfg.WorkerSweepSchedule, cfg.WorkerMaintenanceSchedule} {
		if _, err := cron.Parse(spec); err != nil {
			return nil, fmt.Errorf("invalid cron schedule '%s': %w", spec, err)
		}
	}

	hostname := os.Getenv("HOSTNAME")
	if hostname == "" {
		hostname = "localhost"
	}
	ownerID := fmt.Sprintf("worker-%s-%s", hostname, uuid.New().String()[:8])

	w := &Worker{
		config:  cfg,
		logger:  log,
		cron:    cron.New(),
		status:  NewStatusManager(cfg.WorkerStatusFile, cfg.AppEnv, ownerID),
		lock:    NewLockManager(strings.TrimSuffix(cfg.WorkerStatusFile, ".json")+".lock", bootstrapLockTimeout, cfg.AppEnv),
		ownerID: ownerID,
	}
	w.ctx, w.cancel = context.WithCancel(ctx)
	if deps.Tables != nil {
		w.bootstrap = NewTableBootstrapper(deps.Tables, log)
	}
	w.jobs = w.buildJobs(deps)

	log.Infof("Worker %s configured with %d jobs", ownerID, len(w.jobs))
	return w, nil
}

func (w *Worker) buildJobs(deps Dependencies) []Job {
	var jobs []Job
	if deps.History != nil {
		jobs = append(jobs, Job{Name: JobUndoExpiry, Schedule: w.config.WorkerSweepSchedule, Run: func(context.Context) error {
			if n := deps.History.ExpireHistory(); n > 0 {
				w.logger.Infof("Expired %d undo entries", n)
			}
			return nil
		}})
	}
	if deps.Lockouts != nil {
		jobs = append(jobs, Job{Name: JobLockoutPrune, Schedule: w.config.WorkerMaintenanceSchedule, Run: func(context.Context) error {
			if n := deps.Lockouts.PruneExpired(); n > 0 {
				w.logger.Infof("Pruned %d expired login attempts", n)
			}
			return nil
		}})
	}
	if deps.Tokens != nil {
		jobs = append(jobs, Job{Name: JobTokenCleanup, Schedule: w.config.WorkerMaintenanceSchedule, Run: func(context.Context) error {
			if n := deps.Tokens.CleanupExpiredTokens(); n > 0 {
				w.logger.Infof("Removed %d expired revoked tokens", n)
			}
			return nil
		}})
	}
	if deps.Auditor != nil {
		jobs = append(jobs, Job{Name: JobWorkloadAudit, Schedule: w.config.WorkerMaintenanceSchedule, Run: func(context.Context) error {
			discrepancies := deps.Auditor.AuditWorkloads()
			if len(discrepancies) == 0 {
				return nil
			}
			w.logger.Warnf("Workload audit found %d technicians whose workload differs from their assigned orders", len(discrepancies))
			for _, d := range discrepancies {
				w.logger.Debugf("Technician %s: workload %d, assigned orders %d", d.TechnicianID, d.Workload, d.AssignedOrders)
			}
			return nil
		}})
	}
	return jobs
}

// Start bootstraps the collections table when needed and then schedules the jobs.
func (w *Worker) Start() error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("worker is already running")
	}
	w.mu.Unlock()

	select {
	case <-w.ctx.Done():
		return fmt.Errorf("worker context is cancelled, cannot start")
	default:
	}

	if err := w.status.SetStatus(models.StatusInitializing); err != nil {
		w.logger.Errorf("Failed to save worker status: %v", err)
	}

	if w.bootstrap != nil {
		if err := w.ensureTables(); err != nil {
			w.logger.Errorf("Table bootstrap failed: %v", err)
			if serr := w.status.SetStatus(models.StatusFailed); serr != nil {
				w.logger.Errorf("Failed to save worker status: %v", serr)
			}
			return err
		}
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	for _, job := range w.jobs {
		name := job.Name
		if err := w.cron.AddFunc(job.Schedule, func() { w.RunJob(name) }); err != nil {
			return fmt.Errorf("failed to add cron job %s: %w", name, err)
		}
		if err := w.status.RegisterJob(name, job.Schedule); err != nil {
			w.logger.Errorf("Failed to save worker status: %v", err)
		}
		w.logger.Infof("Scheduled job %s (%s)", name, job.Schedule)
	}

	w.cron.Start()
	w.running = true
	if err := w.status.SetStatus(models.StatusRunning); err != nil {
		w.logger.Errorf("Failed to save worker status: %v", err)
	}
	w.logger.Info("Maintenance worker started")
	return nil
}

func (w *Worker) ensureTables() error {
	lockInfo, err := w.lock.AcquireLock(w.ownerID)
	if err != nil {
		if errors.Is(err, ErrLockHeld) {
			w.logger.Infof("Skipping table bootstrap: %v", err)
			return nil
		}
		return err
	}
	defer func() {
		if err := w.lock.ReleaseLock(lockInfo); err != nil {
			w.logger.Errorf("Failed to release bootstrap lock: %v", err)
		}
	}()

	ready, err := w.bootstrap.EnsureTables(w.ctx, []string{w.config.CollectionsTable()})
	if serr := w.status.MarkTablesReady(ready); serr != nil {
		w.logger.Errorf("Failed to save worker status: %v", serr)
	}
	return err
}

// RunJob executes the named job once and records the outcome.
func (w *Worker) RunJob(name string) error {
	var job *Job
	for i := range w.jobs {
		if w.jobs[i].Name == name {
			job = &w.jobs[i]
			break
		}
	}
	if job == nil {
		return fmt.Errorf("unknown job %s", name)
	}
	if w.ctx.Err() != nil {
		return w.ctx.Err()
	}

	started := time.Now()
	err := w.safeRun(job)
	duration := time.Since(started)

	log := w.logger.WithFields(map[string]interface{}{"job": name, "owner": w.ownerID})
	if err != nil {
		log.Errorf("Job %s failed after %v: %v", name, duration, err)
	} else {
		log.Debugf("Job %s finished in %v", name, duration)
	}
	if serr := w.status.RecordRun(name, started, duration, err); serr != nil {
		w.logger.Errorf("Failed to save worker status: %v", serr)
	}
	return err
}

func (w *Worker) safeRun(job *Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job %s panicked: %v", job.Name, r)
		}
	}()

	ctx, cancel := context.WithTimeout(w.ctx, jobTimeout)
	defer cancel()
	return job.Run(ctx)
}

// Jobs lists the scheduled job names.
func (w *Worker) Jobs() []string {
	names := make([]string, 0, len(w.jobs))
	for _, job := range w.jobs {
		names = append(names, job.Name)
	}
	return names
}

// Status returns the in-memory status document.
func (w *Worker) Status() *models.ExecutionResult {
	return w.status.Snapshot()
}

func (w *Worker) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// Stop cancels running jobs and stops the scheduler.
func (w *Worker) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		w.mu.Lock()
		defer w.mu.Unlock()

		w.logger.Info("Stopping maintenance worker")
		w.cancel()
		w.cron.Stop()
		w.running = false
		err = w.status.SetStatus(models.StatusStopped)
		w.logger.Info("Maintenance worker stopped")
	})
	return err
}
