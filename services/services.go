package services

import (
	"telconova-dispatch/events"
	"telconova-dispatch/models"
	"telconova-dispatch/repository"
	"telconova-dispatch/utils/logger"
)

// Service implements ServiceContainerInterface
type Service struct {
	assignmentService     *AssignmentService
	catalogService        *CatalogService
	advisorService        *AdvisorService
	authService           *AuthService
	infrastructureService *InfrastructureService
}

// NewService creates a new service container with all dependencies injected
func NewService(
	store *repository.CatalogStore,
	dispatcher events.Dispatcher,
	supervisor models.Supervisor,
	logger logger.Logger,
	config *models.Config,
) *Service {
	ledger := NewLedger(config.LedgerCapacity, config.LedgerUndoTTL, nil)
	assignment := NewAssignmentService(store, ledger, dispatcher, logger)

	return &Service{
		assignmentService:     assignment,
		catalogService:        NewCatalogService(store, assignment, dispatcher, logger),
		advisorService:        NewAdvisorService(store, logger),
		authService:           NewAuthService(supervisor, config.LoginMaxAttempts, config.LoginLockoutWindow, logger),
		infrastructureService: NewInfrastructureService(config, logger),
	}
}

// GetAssignmentService returns the assignment service interface
func (s *Service) GetAssignmentService() AssignmentServiceInterface {
	return s.assignmentService
}

// GetCatalogService returns the catalog service interface
func (s *Service) GetCatalogService() CatalogServiceInterface {
	return s.catalogService
}

// GetAdvisorService returns the advisor service interface
func (s *Service) GetAdvisorService() AdvisorServiceInterface {
	return s.advisorService
}

// GetAuthService returns the auth service interface
func (s *Service) GetAuthService() AuthServiceInterface {
	return s.authService
}

// GetInfrastructureService returns the infrastructure service interface
func (s *Service) GetInfrastructureService() InfrastructureServiceInterface {
	return s.infrastructureService
}
