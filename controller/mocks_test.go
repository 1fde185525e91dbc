package controller

import (
	"context"

	"telconova-dispatch/models"
	"telconova-dispatch/services"
	"telconova-dispatch/utils/logger"

	"github.com/stretchr/testify/mock"
)

// MockControllerLogger implements logger.Logger for testing
type MockControllerLogger struct {
	mock.Mock
}

func (m *MockControllerLogger) Debug(args ...interface{})                 { m.Called(args...) }
func (m *MockControllerLogger) Debugf(format string, args ...interface{}) { m.Called(format, args) }
func (m *MockControllerLogger) Info(args ...interface{})                  { m.Called(args...) }
func (m *MockControllerLogger) Infof(format string, args ...interface{})  { m.Called(format, args) }
func (m *MockControllerLogger) Warn(args ...interface{})                  { m.Called(args...) }
func (m *MockControllerLogger) Warnf(format string, args ...interface{})  { m.Called(format, args) }
func (m *MockControllerLogger) Error(args ...interface{})                 { m.Called(args...) }
func (m *MockControllerLogger) Errorf(format string, args ...interface{}) { m.Called(format, args) }
func (m *MockControllerLogger) Fatal(args ...interface{})                 { m.Called(args...) }
func (m *MockControllerLogger) Fatalf(format string, args ...interface{}) { m.Called(format, args) }

func (m *MockControllerLogger) WithFields(fields map[string]interface{}) logger.Logger { return m }

func newMockLogger() *MockControllerLogger {
	m := &MockControllerLogger{}
	m.On("Debug", mock.Anything).Maybe()
	m.On("Info", mock.Anything).Maybe()
	m.On("Warn", mock.Anything).Maybe()
	m.On("Error", mock.Anything).Maybe()
	m.On("Debugf", mock.Anything, mock.Anything).Maybe()
	m.On("Infof", mock.Anything, mock.Anything).Maybe()
	m.On("Warnf", mock.Anything, mock.Anything).Maybe()
	m.On("Errorf", mock.Anything, mock.Anything).Maybe()
	return m
}

// MockCatalogService implements services.CatalogServiceInterface
type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) ListTechnicians(spec models.FilterSpec) []models.Candidate {
	args := m.Called(spec)
	return args.Get(0).([]models.Candidate)
}

func (m *MockCatalogService) GetTechnician(id string) (*models.Technician, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Technician), args.Error(1)
}

func (m *MockCatalogService) CreateTechnician(ctx context.Context, req *models.CreateTechnicianRequest) (*models.Technician, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Technician), args.Error(1)
}

func (m *MockCatalogService) DeleteTechnician(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCatalogService) ReconcileWorkload(id string, reported int) (*models.Technician, error) {
	args := m.Called(id, reported)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Technician), args.Error(1)
}

func (m *MockCatalogService) ListOrders(filter models.OrderFilter) []models.Order {
	args := m.Called(filter)
	return args.Get(0).([]models.Order)
}

func (m *MockCatalogService) GetOrder(id string) (*models.Order, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockCatalogService) CreateOrder(ctx context.Context, req *models.CreateOrderRequest) (*models.Order, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockCatalogService) Stats() models.AssignmentStats {
	return m.Called().Get(0).(models.AssignmentStats)
}

func (m *MockCatalogService) AuditWorkloads() []models.WorkloadDiscrepancy {
	return m.Called().Get(0).([]models.WorkloadDiscrepancy)
}

func (m *MockCatalogService) Reset(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// MockAssignmentService implements services.AssignmentServiceInterface
type MockAssignmentService struct {
	mock.Mock
}

func (m *MockAssignmentService) Assign(ctx context.Context, orderID, technicianID string) (*models.Command, error) {
	args := m.Called(ctx, orderID, technicianID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Command), args.Error(1)
}

func (m *MockAssignmentService) Unassign(ctx context.Context, orderID string) (*models.Command, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Command), args.Error(1)
}

func (m *MockAssignmentService) AutoAssign(ctx context.Context, orderID string) (*models.Command, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Command), args.Error(1)
}

func (m *MockAssignmentService) AutoAssignAll(ctx context.Context) models.AutoAssignReport {
	return m.Called(ctx).Get(0).(models.AutoAssignReport)
}

func (m *MockAssignmentService) Undo(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func (m *MockAssignmentService) Redo(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func (m *MockAssignmentService) History() models.HistoryState {
	return m.Called().Get(0).(models.HistoryState)
}

func (m *MockAssignmentService) HistoryEntries() []models.Command {
	return m.Called().Get(0).([]models.Command)
}

func (m *MockAssignmentService) ExpireHistory() int {
	return m.Called().Int(0)
}

func (m *MockAssignmentService) ClearHistory() {
	m.Called()
}

// MockAdvisorService implements services.AdvisorServiceInterface
type MockAdvisorService struct {
	mock.Mock
}

func (m *MockAdvisorService) Recommend(orderID string) ([]models.Recommendation, error) {
	args := m.Called(orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Recommendation), args.Error(1)
}

func (m *MockAdvisorService) CheckConflicts(technicianID, orderID string) ([]models.Conflict, error) {
	args := m.Called(technicianID, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Conflict), args.Error(1)
}

func (m *MockAdvisorService) BestMatch(orderID string) (*models.Technician, error) {
	args := m.Called(orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Technician), args.Error(1)
}

// MockAuthService implements services.AuthServiceInterface
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) AttemptLogin(email, password string) models.LoginResult {
	return m.Called(email, password).Get(0).(models.LoginResult)
}

func (m *MockAuthService) PruneExpired() int {
	return m.Called().Int(0)
}

func (m *MockAuthService) Supervisor() models.Supervisor {
	return m.Called().Get(0).(models.Supervisor)
}

// MockInfrastructureService implements services.InfrastructureServiceInterface
type MockInfrastructureService struct {
	mock.Mock
}

func (m *MockInfrastructureService) GetWorkerStatus(ctx context.Context) (*models.ExecutionResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ExecutionResult), args.Error(1)
}

func (m *MockInfrastructureService) IsWorkerHealthy() (bool, string, error) {
	args := m.Called()
	return args.Bool(0), args.String(1), args.Error(2)
}

// mockContainer implements services.ServiceContainerInterface over the mocks
type mockContainer struct {
	catalog        *MockCatalogService
	assignment     *MockAssignmentService
	advisor        *MockAdvisorService
	auth           *MockAuthService
	infrastructure *MockInfrastructureService
}

func newMockContainer() *mockContainer {
	return &mockContainer{
		catalog:        &MockCatalogService{},
		assignment:     &MockAssignmentService{},
		advisor:        &MockAdvisorService{},
		auth:           &MockAuthService{},
		infrastructure: &MockInfrastructureService{},
	}
}

func (c *mockContainer) GetCatalogService() services.CatalogServiceInterface       { return c.catalog }
func (c *mockContainer) GetAssignmentService() services.AssignmentServiceInterface { return c.assignment }
func (c *mockContainer) GetAdvisorService() services.AdvisorServiceInterface       { return c.advisor }
func (c *mockContainer) GetAuthService() services.AuthServiceInterface             { return c.auth }
func (c *mockContainer) GetInfrastructureService() services.InfrastructureServiceInterface {
	return c.infrastructure
}

func strPtr(s string) *string { return &s }
