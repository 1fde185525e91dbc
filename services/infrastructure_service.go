package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"telconova-dispatch/models"
	"telconova-dispatch/utils/logger"
)

// staleStatusAfter is how long the worker may go without updating its status file
const staleStatusAfter = 10 * time.Minute

// InfrastructureService reports on the maintenance worker through its status file.
type InfrastructureService struct {
	statusFile string
	logger     logger.Logger
	now        func() time.Time
}

func NewInfrastructureService(config *models.Config, logger logger.Logger) *InfrastructureService {
	return &InfrastructureService{
		statusFile: config.WorkerStatusFile,
		logger:     logger,
		now:        time.Now,
	}
}

// getWorkerStatus reads worker status from the status file
func (s *InfrastructureService) getWorkerStatus() (*models.ExecutionResult, error) {
	data, err := os.ReadFile(s.statusFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read worker status file: %w", err)
	}

	var result models.ExecutionResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal worker status: %w", err)
	}

	return &result, nil
}

// GetWorkerStatus returns the current worker status
func (s *InfrastructureService) GetWorkerStatus(ctx context.Context) (*models.ExecutionResult, error) {
	s.logger.Debug("Getting worker status")
	return s.getWorkerStatus()
}

// IsWorkerHealthy checks if worker is in a healthy state
func (s *InfrastructureService) IsWorkerHealthy() (bool, string, error) {
	workerStatus, err := s.getWorkerStatus()
	if err != nil {
		return false, "Cannot read worker status", err
	}

	switch workerStatus.Status {
	case models.StatusRunning:
		if s.now().Sub(workerStatus.UpdatedAt) > staleStatusAfter {
			return false, "Worker status is stale", nil
		}
		names := make([]string, 0, len(workerStatus.Jobs))
		for name := range workerStatus.Jobs {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if job := workerStatus.Jobs[name]; job.LastError != "" {
				return false, fmt.Sprintf("Job %s failing: %s", name, job.LastError), nil
			}
		}
		return true, "Worker is running normally", nil
	case models.StatusInitializing:
		return true, "Worker is initializing", nil
	case models.StatusFailed:
		return false, "Worker failed", nil
	case models.StatusStopped, models.StatusIdle:
		return false, "Worker is not running", nil
	default:
		return false, "Worker status unknown", nil
	}
}
