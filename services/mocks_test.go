package services

import (
	"context"
	"testing"

	"telconova-dispatch/dal"
	"telconova-dispatch/models"
	"telconova-dispatch/repository"
	"telconova-dispatch/utils/logger"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockLogger implements logger.Logger for testing
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(args ...interface{})                 { m.Called(args) }
func (m *MockLogger) Debugf(format string, args ...interface{}) { m.Called(format, args) }
func (m *MockLogger) Info(args ...interface{})                  { m.Called(args) }
func (m *MockLogger) Infof(format string, args ...interface{})  { m.Called(format, args) }
func (m *MockLogger) Warn(args ...interface{})                  { m.Called(args) }
func (m *MockLogger) Warnf(format string, args ...interface{})  { m.Called(format, args) }
func (m *MockLogger) Error(args ...interface{})                 { m.Called(args) }
func (m *MockLogger) Errorf(format string, args ...interface{}) { m.Called(format, args) }
func (m *MockLogger) Fatal(args ...interface{})                 { m.Called(args) }
func (m *MockLogger) Fatalf(format string, args ...interface{}) { m.Called(format, args) }

func (m *MockLogger) WithFields(fields map[string]interface{}) logger.Logger { return m }

func newMockLogger() *MockLogger {
	l := &MockLogger{}
	for _, method := range []string{"Debug", "Info", "Warn", "Error"} {
		l.On(method, mock.Anything).Return().Maybe()
		l.On(method+"f", mock.AnythingOfType("string"), mock.Anything).Return().Maybe()
	}
	return l
}

// MockCatalogRepository implements repository.CatalogRepositoryInterface
type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) LoadTechnicians(ctx context.Context) ([]models.Technician, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Technician), args.Error(1)
}

func (m *MockCatalogRepository) LoadOrders(ctx context.Context) ([]models.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *MockCatalogRepository) SaveTechnicians(ctx context.Context, technicians []models.Technician) error {
	return m.Called(ctx, technicians).Error(0)
}

func (m *MockCatalogRepository) SaveOrders(ctx context.Context, orders []models.Order) error {
	return m.Called(ctx, orders).Error(0)
}

// newSeedStore returns a catalog store over an in-memory collection store
// loaded with the seed dataset.
func newSeedStore(t *testing.T, log *MockLogger) (*repository.CatalogStore, *repository.CatalogRepository) {
	repo := repository.NewCatalogRepository(dal.NewMemoryStore(), &models.Config{StorageKeyPrefix: "test"}, log)
	store := repository.NewCatalogStore(repo, log)
	require.NoError(t, store.Load(context.Background()))
	return store, repo
}

// newCatalogStore returns a store holding exactly the given collections.
func newCatalogStore(t *testing.T, log *MockLogger, technicians []models.Technician, orders []models.Order) *repository.CatalogStore {
	repo := &MockCatalogRepository{}
	repo.On("LoadTechnicians", mock.Anything).Return(technicians, nil)
	repo.On("LoadOrders", mock.Anything).Return(orders, nil)
	repo.On("SaveTechnicians", mock.Anything, mock.Anything).Return(nil).Maybe()
	repo.On("SaveOrders", mock.Anything, mock.Anything).Return(nil).Maybe()
	store := repository.NewCatalogStore(repo, log)
	require.NoError(t, store.Load(context.Background()))
	return store
}
