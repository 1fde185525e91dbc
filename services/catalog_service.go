package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"telconova-dispatch/events"
	"telconova-dispatch/models"
	"telconova-dispatch/repository"
	"telconova-dispatch/utils"
	"telconova-dispatch/utils/logger"

	"github.com/go-playground/validator/v10"
)

// historyKeeper is implemented by AssignmentService.
type historyKeeper interface {
	ClearHistory()
	RemoveUnreferenced(technicianID string, remove func() error) error
}

// CatalogService handles creation, listing and housekeeping of technicians
// and orders. Assignment changes go through AssignmentService.
type CatalogService struct {
	store      *repository.CatalogStore
	history    historyKeeper
	dispatcher events.Dispatcher
	validator  *validator.Validate
	logger     logger.Logger
	now        func() time.Time
}

// NewCatalogService creates a catalog service. history may be nil when no
// assignment ledger is attached.
func NewCatalogService(store *repository.CatalogStore, history historyKeeper, dispatcher events.Dispatcher, log logger.Logger) *CatalogService {
	return &CatalogService{
		store:      store,
		history:    history,
		dispatcher: dispatcher,
		validator:  newValidator(),
		logger:     log,
		now:        time.Now,
	}
}

func (s *CatalogService) ListTechnicians(spec models.FilterSpec) []models.Candidate {
	return Candidates(s.store.Technicians(), spec)
}

func (s *CatalogService) GetTechnician(id string) (*models.Technician, error) {
	t, err := s.store.GetTechnician(id)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateTechnician validates req and adds a technician with no workload.
func (s *CatalogService) CreateTechnician(ctx context.Context, req *models.CreateTechnicianRequest) (*models.Technician, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)

	if err := validateStruct(s.validator, req); err != nil {
		return nil, err
	}
	if !emailPattern.MatchString(req.Email) {
		return nil, models.NewValidationError("email", "email must look like local@domain.tld")
	}

	technician := models.Technician{
		ID:           "tech_" + utils.GenerateUUID(),
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		Zone:         req.Zone,
		Specialty:    req.Specialty,
		Workload:     0,
		Availability: append([]models.TimeBlock(nil), req.Availability...),
		PhotoURL:     req.PhotoURL,
	}

	_ = s.store.Mutate(func(c *repository.Catalog) error {
		c.Technicians = append(c.Technicians, technician)
		return nil
	})

	s.publish(ctx, events.EventTechnicianCreated, events.TechnicianPayload{Technician: technician})
	if err := s.store.SaveTechnicians(context.WithoutCancel(ctx)); err != nil {
		s.logger.Errorf("Technician %s created but not saved: %v", technician.ID, err)
		return &technician, models.NewPersistenceFailure("technicians", err)
	}

	s.logger.Infof("Technician created: %s (%s)", technician.ID, technician.Name)
	return &technician, nil
}

// DeleteTechnician removes a technician that holds no orders, has no workload
// and is not named by any undo or redo entry. Those entries could never be
// applied again once the technician is gone.
func (s *CatalogService) DeleteTechnician(ctx context.Context, id string) error {
	var removed models.Technician
	remove := func() error {
		return s.store.Mutate(func(c *repository.Catalog) error {
			return removeTechnician(c, id, &removed)
		})
	}
	var err error
	if s.history != nil {
		err = s.history.RemoveUnreferenced(id, remove)
	} else {
		err = remove()
	}
	if err != nil {
		return err
	}

	s.publish(ctx, events.EventTechnicianDeleted, events.TechnicianPayload{Technician: removed})
	if err := s.store.SaveTechnicians(context.WithoutCancel(ctx)); err != nil {
		return models.NewPersistenceFailure("technicians", err)
	}
	s.logger.Infof("Technician deleted: %s", id)
	return nil
}

func removeTechnician(c *repository.Catalog, id string, removed *models.Technician) error {
	i := c.TechnicianIndex(id)
	if i < 0 {
		return models.NewNotFound("technician", id)
	}
	held := c.AssignedCount(id)
	if c.Technicians[i].Workload > 0 || held > 0 {
		return models.NewConflict(
			fmt.Sprintf("technician %s still has workload; unassign their orders first", id),
			map[string]any{"workload": c.Technicians[i].Workload, "assignedOrders": held},
		)
	}
	*removed = c.Technicians[i]
	c.Technicians = append(c.Technicians[:i], c.Technicians[i+1:]...)
	return nil
}

// ReconcileWorkload checks a client-reported workload against the catalog.
// It never writes; a mismatch is a Conflict carrying both values.
func (s *CatalogService) ReconcileWorkload(id string, reported int) (*models.Technician, error) {
	t, err := s.store.GetTechnician(id)
	if err != nil {
		return nil, err
	}
	if t.Workload != reported {
		return &t, models.NewConflict(
			fmt.Sprintf("workload of technician %s is %d, not %d; workload changes only through assignments", id, t.Workload, reported),
			map[string]any{"current": t.Workload, "reported": reported},
		)
	}
	return &t, nil
}

func (s *CatalogService) ListOrders(filter models.OrderFilter) []models.Order {
	return FilterOrders(s.store.Orders(), filter)
}

func (s *CatalogService) GetOrder(id string) (*models.Order, error) {
	o, err := s.store.GetOrder(id)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// CreateOrder validates req and adds a pending order.
func (s *CatalogService) CreateOrder(ctx context.Context, req *models.CreateOrderRequest) (*models.Order, error) {
	req.ServiceName = strings.TrimSpace(req.ServiceName)
	req.Description = strings.TrimSpace(req.Description)

	if err := validateStruct(s.validator, req); err != nil {
		return nil, err
	}

	var order models.Order
	_ = s.store.Mutate(func(c *repository.Catalog) error {
		order = models.Order{
			ID:          c.NextOrderID(),
			Zone:        req.Zone,
			CreatedAt:   s.now().UTC(),
			ServiceName: req.ServiceName,
			Description: req.Description,
		}
		c.Orders = append(c.Orders, order)
		return nil
	})

	s.publish(ctx, events.EventOrderCreated, events.OrderCreatedPayload{Order: order})
	if err := s.store.SaveOrders(context.WithoutCancel(ctx)); err != nil {
		s.logger.Errorf("Order %s created but not saved: %v", order.ID, err)
		return &order, models.NewPersistenceFailure("orders", err)
	}

	s.logger.Infof("Order created: %s", order.ID)
	return &order, nil
}

// Stats summarizes orders and technician utilization.
func (s *CatalogService) Stats() models.AssignmentStats {
	snap := s.store.Snapshot()

	orders := models.OrderStats{Zones: map[models.Zone]models.ZoneStats{}}
	for _, o := range snap.Orders {
		zs := orders.Zones[o.Zone]
		zs.Total++
		orders.Total++
		if o.Pending() {
			zs.Pending++
			orders.Pending++
		} else {
			zs.Assigned++
			orders.Assigned++
		}
		orders.Zones[o.Zone] = zs
	}
	orders.AssignmentRate = percent(orders.Assigned, orders.Total)

	techs := models.TechnicianStats{Total: len(snap.Technicians)}
	sum := 0
	for _, t := range snap.Technicians {
		sum += t.Workload
		if t.HasCapacity() {
			techs.Available++
		}
		if t.Workload >= models.MaxWorkload-1 {
			techs.Busy++
		}
		if t.Workload == 0 {
			techs.Idle++
		}
	}
	techs.Utilization = percent(techs.Total-techs.Available, techs.Total)
	if techs.Total > 0 {
		techs.AverageWorkload = math.Round(float64(sum)/float64(techs.Total)*100) / 100
	}

	return models.AssignmentStats{Orders: orders, Technicians: techs}
}

// AuditWorkloads lists technicians whose counter differs from their assigned
// order count.
func (s *CatalogService) AuditWorkloads() []models.WorkloadDiscrepancy {
	snap := s.store.Snapshot()
	out := []models.WorkloadDiscrepancy{}
	for _, t := range snap.Technicians {
		if n := snap.AssignedCount(t.ID); n != t.Workload {
			out = append(out, models.WorkloadDiscrepancy{TechnicianID: t.ID, Workload: t.Workload, AssignedOrders: n})
		}
	}
	return out
}

// Reset restores the seed dataset and clears the undo history.
func (s *CatalogService) Reset(ctx context.Context) error {
	if s.history != nil {
		s.history.ClearHistory()
	}
	err := s.store.Reset(context.WithoutCancel(ctx))
	s.publish(ctx, events.EventCatalogReset, nil)
	return err
}

func (s *CatalogService) publish(ctx context.Context, eventType events.EventType, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        utils.GenerateUUID(),
		Type:      eventType,
		Timestamp: s.now(),
		Payload:   payload,
	})
}

func percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}
