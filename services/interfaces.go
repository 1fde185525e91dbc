package services

import (
	"context"

	"telconova-dispatch/models"
)

// AssignmentServiceInterface defines the contract for the assignment transaction manager
type AssignmentServiceInterface interface {
	Assign(ctx context.Context, orderID, technicianID string) (*models.Command, error)
	Unassign(ctx context.Context, orderID string) (*models.Command, error)
	AutoAssign(ctx context.Context, orderID string) (*models.Command, error)
	AutoAssignAll(ctx context.Context) models.AutoAssignReport
	Undo(ctx context.Context) (bool, error)
	Redo(ctx context.Context) (bool, error)
	History() models.HistoryState
	HistoryEntries() []models.Command
	ExpireHistory() int
	ClearHistory()
}

// CatalogServiceInterface defines the contract for technician and order management
type CatalogServiceInterface interface {
	ListTechnicians(spec models.FilterSpec) []models.Candidate
	GetTechnician(id string) (*models.Technician, error)
	CreateTechnician(ctx context.Context, req *models.CreateTechnicianRequest) (*models.Technician, error)
	DeleteTechnician(ctx context.Context, id string) error
	ReconcileWorkload(id string, reported int) (*models.Technician, error)
	ListOrders(filter models.OrderFilter) []models.Order
	GetOrder(id string) (*models.Order, error)
	CreateOrder(ctx context.Context, req *models.CreateOrderRequest) (*models.Order, error)
	Stats() models.AssignmentStats
	AuditWorkloads() []models.WorkloadDiscrepancy
	Reset(ctx context.Context) error
}

// AdvisorServiceInterface defines the contract for recommendations and conflict checks
type AdvisorServiceInterface interface {
	Recommend(orderID string) ([]models.Recommendation, error)
	CheckConflicts(technicianID, orderID string) ([]models.Conflict, error)
	BestMatch(orderID string) (*models.Technician, error)
}

// AuthServiceInterface defines the contract for the login lockout
type AuthServiceInterface interface {
	AttemptLogin(email, password string) models.LoginResult
	PruneExpired() int
	Supervisor() models.Supervisor
}

// InfrastructureServiceInterface defines the contract for infrastructure service
type InfrastructureServiceInterface interface {
	GetWorkerStatus(ctx context.Context) (*models.ExecutionResult, error)
	IsWorkerHealthy() (bool, string, error)
}

// ServiceContainerInterface defines the main service container contract
type ServiceContainerInterface interface {
	GetAssignmentService() AssignmentServiceInterface
	GetCatalogService() CatalogServiceInterface
	GetAdvisorService() AdvisorServiceInterface
	GetAuthService() AuthServiceInterface
	GetInfrastructureService() InfrastructureServiceInterface
}
