package models

import "time"

// WorkerStatus represents the current state of the maintenance worker
type WorkerStatus string

const (
	StatusIdle         WorkerStatus = "idle"
	StatusInitializing WorkerStatus = "initializing"
	StatusRunning      WorkerStatus = "running"
	StatusStopped      WorkerStatus = "stopped"
	StatusFailed       WorkerStatus = "failed"
)

// JobRun records the latest execution of one scheduled job.
type JobRun struct {
	Name      string        `json:"name"`
	Schedule  string        `json:"schedule"`
	LastRun   time.Time     `json:"last_run"`
	Duration  time.Duration `json:"duration"`
	Runs      int           `json:"runs"`
	Failures  int           `json:"failures"`
	LastError string        `json:"last_error,omitempty"`
}

// ExecutionResult is the persisted worker status document
type ExecutionResult struct {
	Status      WorkerStatus       `json:"status"`
	Environment string             `json:"environment"`
	OwnerID     string             `json:"owner_id"`
	StartTime   time.Time          `json:"start_time"`
	UpdatedAt   time.Time          `json:"updated_at"`
	Jobs        map[string]*JobRun `json:"jobs"`
	TablesReady []string           `json:"tables_ready,omitempty"`
}
