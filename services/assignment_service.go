package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"telconova-dispatch/events"
	"telconova-dispatch/models"
	"telconova-dispatch/repository"
	"telconova-dispatch/utils"
	"telconova-dispatch/utils/logger"
)

// AssignmentService binds orders to technicians, keeps workload counters in
// step and records every change in the undo ledger.
type AssignmentService struct {
	mu         sync.Mutex
	store      *repository.CatalogStore
	ledger     *Ledger
	dispatcher events.Dispatcher
	logger     logger.Logger
	now        func() time.Time
}

// NewAssignmentService creates an assignment service. A nil dispatcher
// disables event publishing.
func NewAssignmentService(store *repository.CatalogStore, ledger *Ledger, dispatcher events.Dispatcher, log logger.Logger) *AssignmentService {
	return &AssignmentService{
		store:      store,
		ledger:     ledger,
		dispatcher: dispatcher,
		logger:     log,
		now:        time.Now,
	}
}

// Assign binds orderID to technicianID. Assigning an order to its current
// assignee returns a noop command and changes nothing.
//
// A PersistenceFailure comes with a non-nil command: the change is live in
// memory and recorded in the ledger, only the save failed.
func (s *AssignmentService) Assign(ctx context.Context, orderID, technicianID string) (*models.Command, error) {
	if technicianID == "" {
		return nil, models.NewValidationError("technicianId", "technician id is required")
	}
	return s.execute(ctx, orderID, fixedTarget(&technicianID))
}

// Unassign returns orderID to pending. Unassigning a pending order is a noop.
func (s *AssignmentService) Unassign(ctx context.Context, orderID string) (*models.Command, error) {
	return s.execute(ctx, orderID, fixedTarget(nil))
}

// targetFunc picks the assignee for order inside the catalog mutation; nil
// means unassign.
type targetFunc func(c *repository.Catalog, order models.Order) (*string, error)

func fixedTarget(technicianID *string) targetFunc {
	return func(*repository.Catalog, models.Order) (*string, error) {
		return technicianID, nil
	}
}

// bestMatchTarget only accepts pending orders. It runs under the same lock as
// the assignment, so a concurrent Assign cannot slip in between.
func bestMatchTarget(c *repository.Catalog, order models.Order) (*string, error) {
	if !order.Pending() {
		return nil, models.NewValidationError("orderId", fmt.Sprintf("order %s is already assigned", order.ID))
	}
	best, ok := BestMatch(order, c.Technicians)
	if !ok {
		return nil, models.NewNoAvailableTechnician()
	}
	return models.StringPtr(best.ID), nil
}

func (s *AssignmentService) execute(ctx context.Context, orderID string, target targetFunc) (*models.Command, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	change, err := s.applyChange(ctx, orderID, target)
	if err != nil {
		s.logger.Warnf("Assignment of order %s rejected: %v", orderID, err)
		return nil, err
	}
	cmd := change.cmd
	if cmd.IsNoop() {
		s.logger.Debugf("Order %s already in requested state", orderID)
		return &cmd, nil
	}

	s.publish(ctx, eventFor(cmd), cmd, cmd.TechnicianID, change.workloads)

	if change.persistErr != nil {
		s.logger.Errorf("%s applied in memory but not saved: %v", cmd.Description(), change.persistErr)
	} else {
		s.logger.Infof("%s", cmd.Description())
	}
	return &cmd, change.persistErr
}

type appliedChange struct {
	cmd        models.Command
	workloads  map[string]int
	persistErr error
}

// applyChange changes the catalog, saves it and records the command, all
// under s.mu. Events are published by the caller once the lock is released.
func (s *AssignmentService) applyChange(ctx context.Context, orderID string, target targetFunc) (appliedChange, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var cmd models.Command
	var workloads map[string]int
	err := s.store.Mutate(func(c *repository.Catalog) error {
		oi := c.OrderIndex(orderID)
		if oi < 0 {
			return models.NewNotFound("order", orderID)
		}
		technicianID, err := target(c, c.Orders[oi])
		if err != nil {
			return err
		}
		ti := -1
		if technicianID != nil {
			if ti = c.TechnicianIndex(*technicianID); ti < 0 {
				return models.NewNotFound("technician", *technicianID)
			}
		}

		previous := c.Orders[oi].AssignedTo
		if sameAssignee(previous, technicianID) {
			cmd = models.Command{Kind: models.CommandNoop, OrderID: orderID, TechnicianID: copyID(technicianID), PreviousTechnicianID: copyID(previous)}
			return nil
		}
		if ti >= 0 && !c.Technicians[ti].HasCapacity() {
			return models.NewCapacityExceeded(*technicianID)
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		cmd = models.Command{
			ID:                   utils.GenerateUUID(),
			Kind:                 commandKind(previous, technicianID),
			OrderID:              orderID,
			TechnicianID:         copyID(technicianID),
			PreviousTechnicianID: copyID(previous),
			ExecutedAt:           s.now(),
		}
		c.Orders[oi].AssignedTo = copyID(technicianID)
		if previous != nil {
			// a missing previous technician has no counter to release
			cmd.PreviousWorkloadDelta, _ = c.AdjustWorkload(*previous, -1)
		}
		if technicianID != nil {
			cmd.NewWorkloadDelta, _ = c.AdjustWorkload(*technicianID, 1)
		}
		workloads = touchedWorkloads(c, cmd)
		return nil
	})
	if err != nil || cmd.IsNoop() {
		return appliedChange{cmd: cmd}, err
	}

	persistErr := s.persist(ctx)
	s.ledger.Record(cmd)
	return appliedChange{cmd: cmd, workloads: workloads, persistErr: persistErr}, nil
}

// Undo reverses the newest undoable command. It returns false when there is
// nothing to undo.
func (s *AssignmentService) Undo(ctx context.Context) (bool, error) {
	return s.step(ctx, true)
}

// Redo re-applies the command most recently undone.
func (s *AssignmentService) Redo(ctx context.Context) (bool, error) {
	return s.step(ctx, false)
}

func (s *AssignmentService) step(ctx context.Context, undo bool) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	move := s.ledger.Redo
	apply, eventType := Reapply, events.EventAssignmentReapplied
	if undo {
		move = s.ledger.Undo
		apply, eventType = Reverse, events.EventAssignmentReverted
	}

	var applied models.Command
	var workloads map[string]int
	var assignedTo *string
	ok, err := func() (bool, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		return move(func(cmd models.Command) error {
			err := s.store.Mutate(func(c *repository.Catalog) error {
				if err := apply(c, cmd); err != nil {
					return err
				}
				workloads = touchedWorkloads(c, cmd)
				assignedTo = copyID(c.Orders[c.OrderIndex(cmd.OrderID)].AssignedTo)
				return nil
			})
			if err != nil {
				return err
			}
			applied = cmd
			return s.persist(ctx)
		})
	}()
	if !ok {
		if err != nil {
			s.logger.Warnf("History step failed: %v", err)
		}
		return false, err
	}

	s.publish(ctx, eventType, applied, assignedTo, workloads)
	verb := "Redid"
	if undo {
		verb = "Undid"
	}
	s.logger.Infof("%s: %s", verb, applied.Description())
	return true, err
}

// Reverse restores the state before cmd: the previous assignee and both
// workload counters. Nothing changes when an entity is missing.
func Reverse(c *repository.Catalog, cmd models.Command) error {
	if err := checkCommandTargets(c, cmd); err != nil {
		return err
	}
	c.Orders[c.OrderIndex(cmd.OrderID)].AssignedTo = copyID(cmd.PreviousTechnicianID)
	if cmd.TechnicianID != nil {
		_, _ = c.AdjustWorkload(*cmd.TechnicianID, -cmd.NewWorkloadDelta)
	}
	if cmd.PreviousTechnicianID != nil {
		_, _ = c.AdjustWorkload(*cmd.PreviousTechnicianID, -cmd.PreviousWorkloadDelta)
	}
	return nil
}

// Reapply redoes cmd's forward effect.
func Reapply(c *repository.Catalog, cmd models.Command) error {
	if err := checkCommandTargets(c, cmd); err != nil {
		return err
	}
	c.Orders[c.OrderIndex(cmd.OrderID)].AssignedTo = copyID(cmd.TechnicianID)
	if cmd.PreviousTechnicianID != nil {
		_, _ = c.AdjustWorkload(*cmd.PreviousTechnicianID, cmd.PreviousWorkloadDelta)
	}
	if cmd.TechnicianID != nil {
		_, _ = c.AdjustWorkload(*cmd.TechnicianID, cmd.NewWorkloadDelta)
	}
	return nil
}

func checkCommandTargets(c *repository.Catalog, cmd models.Command) error {
	if c.OrderIndex(cmd.OrderID) < 0 {
		return models.NewNotFound("order", cmd.OrderID)
	}
	for _, id := range []*string{cmd.TechnicianID, cmd.PreviousTechnicianID} {
		if id != nil && c.TechnicianIndex(*id) < 0 {
			return models.NewNotFound("technician", *id)
		}
	}
	return nil
}

// AutoAssign assigns a pending order to its best match. The pending check
// and the choice happen in the same mutation as the assignment.
func (s *AssignmentService) AutoAssign(ctx context.Context, orderID string) (*models.Command, error) {
	return s.execute(ctx, orderID, bestMatchTarget)
}

// AutoAssignAll auto-assigns every pending order, oldest first.
func (s *AssignmentService) AutoAssignAll(ctx context.Context) models.AutoAssignReport {
	pending := FilterOrders(s.store.Orders(), models.OrderFilter{Assigned: boolPtr(false)})
	sort.SliceStable(pending, func(i, j int) bool {
		return pending[i].CreatedAt.Before(pending[j].CreatedAt)
	})

	report := models.AutoAssignReport{Results: []models.AutoAssignResult{}}
	for _, order := range pending {
		result := models.AutoAssignResult{OrderID: order.ID}
		cmd, err := s.AutoAssign(ctx, order.ID)
		if cmd != nil && !cmd.IsNoop() {
			result.Success = true
			result.TechnicianID = *cmd.TechnicianID
		}
		if err != nil {
			result.Reason = err.Error()
		}
		if result.Success {
			report.Success++
		} else {
			report.Failed++
		}
		report.Results = append(report.Results, result)
	}

	s.logger.Infof("Auto-assign finished: %d assigned, %d failed", report.Success, report.Failed)
	return report
}

func (s *AssignmentService) History() models.HistoryState {
	return s.ledger.State()
}

func (s *AssignmentService) HistoryEntries() []models.Command {
	return s.ledger.Undoable()
}

// RemoveUnreferenced runs remove while no assignment or history step can
// interleave. It fails with Conflict while an undo or redo entry still names
// technicianID, since that entry could never be applied again.
func (s *AssignmentService) RemoveUnreferenced(technicianID string, remove func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if refs := s.ledger.References(technicianID); refs > 0 {
		return models.NewConflict(
			fmt.Sprintf("technician %s is still referenced by the assignment history", technicianID),
			map[string]any{"historyEntries": refs},
		)
	}
	return remove()
}

// ExpireHistory drops undo entries past their time window.
func (s *AssignmentService) ExpireHistory() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.ledger.Expire()
	if n > 0 {
		s.logger.Debugf("Expired %d undo entries", n)
	}
	return n
}

func (s *AssignmentService) ClearHistory() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledger.Clear()
}

// persist saves orders, then technicians. The write is finished even if the
// caller's context is cancelled after the in-memory change.
func (s *AssignmentService) persist(ctx context.Context) error {
	ctx = context.WithoutCancel(ctx)
	if err := s.store.SaveOrders(ctx); err != nil {
		return models.NewPersistenceFailure("orders", err)
	}
	if err := s.store.SaveTechnicians(ctx); err != nil {
		return models.NewPersistenceFailure("technicians", err)
	}
	return nil
}

func (s *AssignmentService) publish(ctx context.Context, eventType events.EventType, cmd models.Command, assignedTo *string, workloads map[string]int) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        utils.GenerateUUID(),
		Type:      eventType,
		Timestamp: s.now(),
		Payload: events.AssignmentPayload{
			Command:    cmd,
			AssignedTo: assignedTo,
			Workloads:  workloads,
		},
	})
}

func eventFor(cmd models.Command) events.EventType {
	if cmd.Kind == models.CommandUnassign {
		return events.EventOrderUnassigned
	}
	return events.EventOrderAssigned
}

func commandKind(previous, next *string) models.CommandKind {
	switch {
	case next == nil:
		return models.CommandUnassign
	case previous == nil:
		return models.CommandAssign
	default:
		return models.CommandReassign
	}
}

func touchedWorkloads(c *repository.Catalog, cmd models.Command) map[string]int {
	out := map[string]int{}
	for _, id := range []*string{cmd.PreviousTechnicianID, cmd.TechnicianID} {
		if id == nil {
			continue
		}
		if i := c.TechnicianIndex(*id); i >= 0 {
			out[*id] = c.Technicians[i].Workload
		}
	}
	return out
}

func sameAssignee(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func copyID(id *string) *string {
	if id == nil {
		return nil
	}
	return models.StringPtr(*id)
}

func boolPtr(b bool) *bool {
	return &b
}
