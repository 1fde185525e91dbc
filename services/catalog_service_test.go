package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"telconova-dispatch/events"
	"telconova-dispatch/models"
	"telconova-dispatch/repository"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type CatalogServiceTestSuite struct {
	suite.Suite
	service     *CatalogService
	assignments *AssignmentService
	store       *repository.CatalogStore
	mockLogger  *MockLogger
	published   []events.Event
	ctx         context.Context
	now         time.Time
}

func (suite *CatalogServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.mockLogger = newMockLogger()
	suite.store, _ = newSeedStore(suite.T(), suite.mockLogger)
	suite.now = time.Date(2025, 9, 23, 8, 30, 0, 0, time.FixedZone("COT", -5*3600))

	dispatcher := events.NewInMemoryDispatcher(suite.mockLogger)
	suite.published = nil
	for _, eventType := range []events.EventType{
		events.EventOrderCreated,
		events.EventTechnicianCreated,
		events.EventTechnicianDeleted,
		events.EventCatalogReset,
	} {
		dispatcher.Subscribe(eventType, func(_ context.Context, e events.Event) error {
			suite.published = append(suite.published, e)
			return nil
		})
	}

	suite.assignments = NewAssignmentService(suite.store, NewLedger(50, 0, nil), nil, suite.mockLogger)
	suite.service = NewCatalogService(suite.store, suite.assignments, dispatcher, suite.mockLogger)
	suite.service.now = func() time.Time { return suite.now }
}

func TestCatalogServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CatalogServiceTestSuite))
}

func validTechnicianRequest() *models.CreateTechnicianRequest {
	return &models.CreateTechnicianRequest{
		Name:         "  Valentina Torres ",
		Email:        "valentina.torres@example.com",
		Phone:        "+57-300-7777777",
		Zone:         models.ZoneEast,
		Specialty:    models.SpecialtyHVAC,
		Availability: []models.TimeBlock{models.TimeBlockMorning},
	}
}

func (suite *CatalogServiceTestSuite) TestListTechnicians() {
	candidates := suite.service.ListTechnicians(models.FilterSpec{Zones: []models.Zone{models.ZoneCenter}})

	suite.Require().Len(candidates, 1)
	suite.Equal("t3", candidates[0].ID)
	suite.False(candidates[0].Selectable)
}

func (suite *CatalogServiceTestSuite) TestGetTechnicianAndOrder() {
	technician, err := suite.service.GetTechnician("t4")
	suite.Require().NoError(err)
	suite.Equal("María Ruiz", technician.Name)

	order, err := suite.service.GetOrder("O-1004")
	suite.Require().NoError(err)
	suite.Equal("t4", order.AssignedToID())

	_, err = suite.service.GetTechnician("t0")
	suite.True(models.IsKind(err, models.KindNotFound))
	_, err = suite.service.GetOrder("O-0")
	suite.True(models.IsKind(err, models.KindNotFound))
}

func (suite *CatalogServiceTestSuite) TestCreateTechnician() {
	technician, err := suite.service.CreateTechnician(suite.ctx, validTechnicianRequest())

	suite.Require().NoError(err)
	suite.Contains(technician.ID, "tech_")
	suite.Equal("Valentina Torres", technician.Name)
	suite.Equal(0, technician.Workload)

	stored, err := suite.store.GetTechnician(technician.ID)
	suite.Require().NoError(err)
	suite.Equal(*technician, stored)
	suite.Len(suite.store.Technicians(), 7)
	suite.Equal(events.EventTechnicianCreated, suite.published[0].Type)
}

func (suite *CatalogServiceTestSuite) TestCreateTechnicianValidation() {
	testCases := []struct {
		name      string
		mutate    func(r *models.CreateTechnicianRequest)
		wantField string
	}{
		{"short name", func(r *models.CreateTechnicianRequest) { r.Name = " A " }, "name"},
		{"missing email", func(r *models.CreateTechnicianRequest) { r.Email = "" }, "email"},
		{"malformed email", func(r *models.CreateTechnicianRequest) { r.Email = "valentina@example" }, "email"},
		{"email with spaces", func(r *models.CreateTechnicianRequest) { r.Email = "val entina@example.com" }, "email"},
		{"short phone", func(r *models.CreateTechnicianRequest) { r.Phone = "123" }, "phone"},
		{"unknown zone", func(r *models.CreateTechnicianRequest) { r.Zone = "downtown" }, "zone"},
		{"unknown specialty", func(r *models.CreateTechnicianRequest) { r.Specialty = "Carpentry" }, "specialty"},
		{"no availability", func(r *models.CreateTechnicianRequest) { r.Availability = nil }, "availability"},
		{"bad time block", func(r *models.CreateTechnicianRequest) {
			r.Availability = []models.TimeBlock{"09:00-10:00"}
		}, "availability[0]"},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			req := validTechnicianRequest()
			tc.mutate(req)

			technician, err := suite.service.CreateTechnician(suite.ctx, req)

			suite.Nil(technician)
			suite.Require().True(models.IsKind(err, models.KindValidation), "got %v", err)
			suite.Equal(tc.wantField, models.ToDomainError(err).Field)
		})
	}
	suite.Len(suite.store.Technicians(), 6)
}

func (suite *CatalogServiceTestSuite) TestCreateTechnicianPersistenceFailure() {
	repo := &MockCatalogRepository{}
	repo.On("LoadTechnicians", mock.Anything).Return([]models.Technician{}, nil)
	repo.On("LoadOrders", mock.Anything).Return([]models.Order{}, nil)
	repo.On("SaveTechnicians", mock.Anything, mock.Anything).Return(errors.New("connection reset"))
	store := repository.NewCatalogStore(repo, suite.mockLogger)
	suite.Require().NoError(store.Load(suite.ctx))
	service := NewCatalogService(store, nil, nil, suite.mockLogger)

	technician, err := service.CreateTechnician(suite.ctx, validTechnicianRequest())

	suite.NotNil(technician)
	suite.True(models.IsKind(err, models.KindPersistenceFailure))
	suite.Len(store.Technicians(), 1)
}

func (suite *CatalogServiceTestSuite) TestDeleteTechnician() {
	suite.Require().NoError(suite.service.DeleteTechnician(suite.ctx, "t5"))
	_, err := suite.store.GetTechnician("t5")
	suite.True(models.IsKind(err, models.KindNotFound))
	suite.Equal(events.EventTechnicianDeleted, suite.published[0].Type)

	err = suite.service.DeleteTechnician(suite.ctx, "t5")
	suite.True(models.IsKind(err, models.KindNotFound))
}

func (suite *CatalogServiceTestSuite) TestDeleteTechnicianWithWorkload() {
	err := suite.service.DeleteTechnician(suite.ctx, "t4")

	suite.True(models.IsKind(err, models.KindConflict))
	suite.Equal(1, models.ToDomainError(err).Details["assignedOrders"])
	suite.Len(suite.store.Technicians(), 6)

	_, err = suite.assignments.Unassign(suite.ctx, "O-1004")
	suite.Require().NoError(err)
	err = suite.service.DeleteTechnician(suite.ctx, "t4")
	suite.True(models.IsKind(err, models.KindConflict))
	suite.Equal(1, models.ToDomainError(err).Details["historyEntries"])

	suite.assignments.ClearHistory()
	suite.NoError(suite.service.DeleteTechnician(suite.ctx, "t4"))
}

func (suite *CatalogServiceTestSuite) TestDeleteTechnicianKeepsHistoryUndoable() {
	created, err := suite.service.CreateTechnician(suite.ctx, validTechnicianRequest())
	suite.Require().NoError(err)
	_, err = suite.assignments.Assign(suite.ctx, "O-1001", created.ID)
	suite.Require().NoError(err)
	_, err = suite.assignments.Assign(suite.ctx, "O-1001", "t5")
	suite.Require().NoError(err)
	former, err := suite.store.GetTechnician(created.ID)
	suite.Require().NoError(err)
	suite.Equal(0, former.Workload)

	err = suite.service.DeleteTechnician(suite.ctx, created.ID)
	suite.True(models.IsKind(err, models.KindConflict))
	suite.Equal(2, models.ToDomainError(err).Details["historyEntries"])
	_, err = suite.store.GetTechnician(created.ID)
	suite.NoError(err)

	for i := 0; i < 2; i++ {
		ok, err := suite.assignments.Undo(suite.ctx)
		suite.Require().NoError(err)
		suite.True(ok)
	}
	suite.False(suite.assignments.History().CanUndo)
	order, _ := suite.store.GetOrder("O-1001")
	suite.True(order.Pending())
}

func (suite *CatalogServiceTestSuite) TestReconcileWorkload() {
	technician, err := suite.service.ReconcileWorkload("t1", 2)
	suite.Require().NoError(err)
	suite.Equal(2, technician.Workload)

	technician, err = suite.service.ReconcileWorkload("t1", 3)
	suite.True(models.IsKind(err, models.KindConflict))
	suite.Equal(2, technician.Workload)
	suite.Equal(map[string]any{"current": 2, "reported": 3}, models.ToDomainError(err).Details)

	stored, _ := suite.store.GetTechnician("t1")
	suite.Equal(2, stored.Workload)

	_, err = suite.service.ReconcileWorkload("tx", 0)
	suite.True(models.IsKind(err, models.KindNotFound))
}

func (suite *CatalogServiceTestSuite) TestListOrders() {
	orders := suite.service.ListOrders(models.OrderFilter{Zone: models.ZoneCenter})

	suite.Require().Len(orders, 2)
	suite.Equal("O-1008", orders[0].ID)
}

func (suite *CatalogServiceTestSuite) TestCreateOrder() {
	order, err := suite.service.CreateOrder(suite.ctx, &models.CreateOrderRequest{
		Zone:        models.ZoneWest,
		ServiceName: " Network configuration ",
		Description: "Router replacement at branch office",
	})

	suite.Require().NoError(err)
	suite.Equal("O-1009", order.ID)
	suite.Equal("Network configuration", order.ServiceName)
	suite.True(order.Pending())
	suite.Equal(suite.now.UTC(), order.CreatedAt)
	suite.Equal(time.UTC, order.CreatedAt.Location())

	listed := suite.service.ListOrders(models.OrderFilter{})
	suite.Equal("O-1009", listed[0].ID)
	suite.Equal(events.EventOrderCreated, suite.published[0].Type)
}

func (suite *CatalogServiceTestSuite) TestCreateOrderValidation() {
	order, err := suite.service.CreateOrder(suite.ctx, &models.CreateOrderRequest{
		Zone:        models.ZoneWest,
		ServiceName: "Network",
		Description: "short",
	})

	suite.Nil(order)
	suite.True(models.IsKind(err, models.KindValidation))
	suite.Equal("description", models.ToDomainError(err).Field)
	suite.Len(suite.store.Orders(), 8)
}

func (suite *CatalogServiceTestSuite) TestStats() {
	stats := suite.service.Stats()

	suite.Equal(8, stats.Orders.Total)
	suite.Equal(6, stats.Orders.Pending)
	suite.Equal(2, stats.Orders.Assigned)
	suite.Equal(25, stats.Orders.AssignmentRate)
	suite.Equal(models.ZoneStats{Total: 2, Pending: 1, Assigned: 1}, stats.Orders.Zones[models.ZoneSouth])
	suite.Equal(models.ZoneStats{Total: 1, Pending: 1}, stats.Orders.Zones[models.ZoneEast])

	suite.Equal(models.TechnicianStats{
		Total:           6,
		Available:       5,
		Busy:            2,
		Idle:            1,
		Utilization:     17,
		AverageWorkload: 2.5,
	}, stats.Technicians)
}

func (suite *CatalogServiceTestSuite) TestStatsEmptyCatalog() {
	store := newCatalogStore(suite.T(), suite.mockLogger, []models.Technician{}, []models.Order{})
	stats := NewCatalogService(store, nil, nil, suite.mockLogger).Stats()

	suite.Equal(0, stats.Orders.AssignmentRate)
	suite.Equal(0, stats.Technicians.Utilization)
	suite.Equal(0.0, stats.Technicians.AverageWorkload)
}

func (suite *CatalogServiceTestSuite) TestAuditWorkloads() {
	discrepancies := suite.service.AuditWorkloads()

	ids := make([]string, len(discrepancies))
	for i, d := range discrepancies {
		ids[i] = d.TechnicianID
	}
	suite.Equal([]string{"t1", "t2", "t3", "t6"}, ids)
	suite.Equal(models.WorkloadDiscrepancy{TechnicianID: "t2", Workload: 4, AssignedOrders: 1}, discrepancies[1])
}

func (suite *CatalogServiceTestSuite) TestReset() {
	seed := suite.store.Snapshot()
	_, err := suite.assignments.Assign(suite.ctx, "O-1001", "t5")
	suite.Require().NoError(err)
	_, err = suite.service.CreateOrder(suite.ctx, &models.CreateOrderRequest{
		Zone:        models.ZoneNorth,
		ServiceName: "Electrical repair",
		Description: "Flickering lights in lobby",
	})
	suite.Require().NoError(err)

	suite.Require().NoError(suite.service.Reset(suite.ctx))

	suite.Equal(seed, suite.store.Snapshot())
	suite.False(suite.assignments.History().CanUndo)
	suite.Equal(events.EventCatalogReset, suite.published[len(suite.published)-1].Type)
}
