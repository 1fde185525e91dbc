package worker

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"telconova-dispatch/models"
)

// StatusManager owns the worker status document and persists every change.
type StatusManager struct {
	path    string
	mu      sync.Mutex
	current *models.ExecutionResult
	now     func() time.Time
}

func NewStatusManager(path, environment, ownerID string) *StatusManager {
	now := time.Now().UTC()
	return &StatusManager{
		path: path,
		now:  time.Now,
		current: &models.ExecutionResult{
			Status:      models.StatusIdle,
			Environment: environment,
			OwnerID:     ownerID,
			StartTime:   now,
			UpdatedAt:   now,
			Jobs:        make(map[string]*models.JobRun),
		},
	}
}

// SetStatus changes the worker state and saves the document.
func (sm *StatusManager) SetStatus(status models.WorkerStatus) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.current.Status = status
	return sm.saveLocked()
}

// RegisterJob adds a job with no runs yet so the document lists every schedule.
func (sm *StatusManager) RegisterJob(name, schedule string) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if _, ok := sm.current.Jobs[name]; !ok {
		sm.current.Jobs[name] = &models.JobRun{Name: name, Schedule: schedule}
	}
	return sm.saveLocked()
}

// RecordRun stores the outcome of one job execution. A successful run clears
// the previous error.
func (sm *StatusManager) RecordRun(name string, startedAt time.Time, duration time.Duration, runErr error) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	job, ok := sm.current.Jobs[name]
	if !ok {
		job = &models.JobRun{Name: name}
		sm.current.Jobs[name] = job
	}
	job.LastRun = startedAt.UTC()
	job.Duration = duration
	job.Runs++
	job.LastError = ""
	if runErr != nil {
		job.Failures++
		job.LastError = runErr.Error()
	}
	return sm.saveLocked()
}

// MarkTablesReady records the tables confirmed by the bootstrap.
func (sm *StatusManager) MarkTablesReady(tables []string) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.current.TablesReady = append([]string(nil), tables...)
	return sm.saveLocked()
}

// Snapshot returns a deep copy of the in-memory document.
func (sm *StatusManager) Snapshot() *models.ExecutionResult {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	out := *sm.current
	out.Jobs = make(map[string]*models.JobRun, len(sm.current.Jobs))
	for name, job := range sm.current.Jobs {
		copied := *job
		out.Jobs[name] = &copied
	}
	out.TablesReady = append([]string(nil), sm.current.TablesReady...)
	return &out
}

// LoadStatus reads the document from disk.
func (sm *StatusManager) LoadStatus() (*models.ExecutionResult, error) {
	data, err := os.ReadFile(sm.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read status file: %w", err)
	}

	var result models.ExecutionResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal status: %w", err)
	}
	return &result, nil
}

func (sm *StatusManager) saveLocked() error {
	sm.current.UpdatedAt = sm.now().UTC()

	if err := os.MkdirAll(filepath.Dir(sm.path), 0755); err != nil {
		return fmt.Errorf("failed to create status directory: %w", err)
	}
	data, err := json.MarshalIndent(sm.current, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal status: %w", err)
	}
	return writeFileAtomic(sm.path, data)
}
