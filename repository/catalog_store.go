package repository

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"telconova-dispatch/models"
	"telconova-dispatch/utils/logger"
)

// Catalog is one consistent view of both collections.
type Catalog struct {
	Technicians []models.Technician
	Orders      []models.Order
}

// TechnicianIndex returns the position of id, or -1.
func (c *Catalog) TechnicianIndex(id string) int {
	for i := range c.Technicians {
		if c.Technicians[i].ID == id {
			return i
		}
	}
	return -1
}

// OrderIndex returns the position of id, or -1.
func (c *Catalog) OrderIndex(id string) int {
	for i := range c.Orders {
		if c.Orders[i].ID == id {
			return i
		}
	}
	return -1
}

// AdjustWorkload moves a technician's workload by delta, clamped to
// [0, MaxWorkload], and returns the change actually applied.
func (c *Catalog) AdjustWorkload(technicianID string, delta int) (int, error) {
	i := c.TechnicianIndex(technicianID)
	if i < 0 {
		return 0, models.NewNotFound("technician", technicianID)
	}
	before := c.Technicians[i].Workload
	after := before + delta
	if after < 0 {
		after = 0
	}
	if after > models.MaxWorkload {
		after = models.MaxWorkload
	}
	c.Technicians[i].Workload = after
	return after - before, nil
}

// AssignedCount counts orders held by technicianID.
func (c *Catalog) AssignedCount(technicianID string) int {
	n := 0
	for _, o := range c.Orders {
		if o.AssignedToID() == technicianID {
			n++
		}
	}
	return n
}

// NextOrderID returns "O-" followed by one more than the highest numeric suffix.
func (c *Catalog) NextOrderID() string {
	highest := 1000
	for _, o := range c.Orders {
		n, err := strconv.Atoi(strings.TrimPrefix(o.ID, "O-"))
		if err == nil && n > highest {
			highest = n
		}
	}
	return fmt.Sprintf("O-%d", highest+1)
}

// Clone deep-copies the catalog.
func (c *Catalog) Clone() Catalog {
	out := Catalog{
		Technicians: make([]models.Technician, len(c.Technicians)),
		Orders:      make([]models.Order, len(c.Orders)),
	}
	for i, t := range c.Technicians {
		t.Availability = append([]models.TimeBlock(nil), t.Availability...)
		out.Technicians[i] = t
	}
	for i, o := range c.Orders {
		if o.AssignedTo != nil {
			o.AssignedTo = models.StringPtr(*o.AssignedTo)
		}
		out.Orders[i] = o
	}
	return out
}

// CatalogStore owns the canonical collections for one session. Callers get
// copies; changes go through Mutate and are written back with the Save methods.
type CatalogStore struct {
	mu      sync.RWMutex
	catalog Catalog
	repo    CatalogRepositoryInterface
	logger  logger.Logger
}

func NewCatalogStore(repo CatalogRepositoryInterface, log logger.Logger) *CatalogStore {
	return &CatalogStore{
		repo:   repo,
		logger: log,
	}
}

// Load replaces the in-memory collections with the persisted ones.
func (s *CatalogStore) Load(ctx context.Context) error {
	technicians, err := s.repo.LoadTechnicians(ctx)
	if err != nil {
		return err
	}
	orders, err := s.repo.LoadOrders(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.catalog = Catalog{Technicians: technicians, Orders: orders}
	s.mu.Unlock()

	s.logger.Infof("Catalog loaded: %d technicians, %d orders", len(technicians), len(orders))
	return nil
}

// Snapshot returns a deep copy of both collections.
func (s *CatalogStore) Snapshot() Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog.Clone()
}

func (s *CatalogStore) Technicians() []models.Technician {
	return s.Snapshot().Technicians
}

func (s *CatalogStore) Orders() []models.Order {
	return s.Snapshot().Orders
}

func (s *CatalogStore) GetTechnician(id string) (models.Technician, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.catalog.TechnicianIndex(id)
	if i < 0 {
		return models.Technician{}, models.NewNotFound("technician", id)
	}
	t := s.catalog.Technicians[i]
	t.Availability = append([]models.TimeBlock(nil), t.Availability...)
	return t, nil
}

func (s *CatalogStore) GetOrder(id string) (models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.catalog.OrderIndex(id)
	if i < 0 {
		return models.Order{}, models.NewNotFound("order", id)
	}
	o := s.catalog.Orders[i]
	if o.AssignedTo != nil {
		o.AssignedTo = models.StringPtr(*o.AssignedTo)
	}
	return o, nil
}

// Mutate runs fn with exclusive access to the live catalog. fn must either
// return an error before changing anything or complete its change.
func (s *CatalogStore) Mutate(fn func(c *Catalog) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&s.catalog)
}

// SaveOrders writes the current orders collection.
func (s *CatalogStore) SaveOrders(ctx context.Context) error {
	return s.repo.SaveOrders(ctx, s.Snapshot().Orders)
}

// SaveTechnicians writes the current technicians collection.
func (s *CatalogStore) SaveTechnicians(ctx context.Context) error {
	return s.repo.SaveTechnicians(ctx, s.Snapshot().Technicians)
}

// Reset replaces both collections with the seed dataset and saves them.
func (s *CatalogStore) Reset(ctx context.Context) error {
	s.mu.Lock()
	s.catalog = Catalog{Technicians: SeedTechnicians(), Orders: SeedOrders()}
	s.mu.Unlock()

	if err := s.SaveOrders(ctx); err != nil {
		return models.NewPersistenceFailure(orderCollection, err)
	}
	if err := s.SaveTechnicians(ctx); err != nil {
		return models.NewPersistenceFailure(technicianCollection, err)
	}
	s.logger.Info("Catalog reset to seed dataset")
	return nil
}
