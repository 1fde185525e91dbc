package worker

import (
	"context"
	"fmt"

	"telconova-dispatch/models"
	"telconova-dispatch/utils/logger"
)

// Service wraps the maintenance worker for the HTTP process
type Service struct {
	worker *Worker
	logger logger.Logger
}

func NewService(ctx context.Context, cfg *models.Config, log logger.Logger, deps Dependencies) (*Service, error) {
	w, err := NewWorker(ctx, cfg, log, deps)
	if err != nil {
		return nil, fmt.Errorf("failed to create maintenance worker: %w", err)
	}
	return &Service{worker: w, logger: log}, nil
}

// StartInBackground starts the worker without blocking on the table bootstrap.
func (s *Service) StartInBackground() {
	s.logger.Info("Starting maintenance worker in background")
	go func() {
		if err := s.worker.Start(); err != nil {
			s.logger.Errorf("Maintenance worker failed to start: %v", err)
		}
	}()
}

func (s *Service) Stop() error {
	return s.worker.Stop()
}

// GetStatus reads the persisted status document.
func (s *Service) GetStatus() (*models.ExecutionResult, error) {
	return s.worker.status.LoadStatus()
}

// RunJob triggers a job outside its schedule.
func (s *Service) RunJob(name string) error {
	return s.worker.RunJob(name)
}

func (s *Service) IsRunning() bool {
	return s.worker.IsRunning()
}
