package client

import (
	"context"
	"fmt"

	"telconova-dispatch/events"
	"telconova-dispatch/models"
	"telconova-dispatch/utils/logger"
)

// RemotePusher is the write side of the remote API.
type RemotePusher interface {
	CreateOrder(ctx context.Context, order models.Order) error
	AssignOrder(ctx context.Context, orderID string, technicianID *string) error
	UpdateWorkload(ctx context.Context, technicianID string, workload int) error
}

// RemoteSync mirrors local changes to the remote API. Failures are returned to
// the dispatcher, which logs them; local state is never affected.
type RemoteSync struct {
	remote RemotePusher
	logger logger.Logger
}

func NewRemoteSync(remote RemotePusher, log logger.Logger) *RemoteSync {
	return &RemoteSync{remote: remote, logger: log}
}

// Register subscribes the sync handlers on d.
func (s *RemoteSync) Register(d events.Dispatcher) {
	d.Subscribe(events.EventOrderCreated, s.handleOrderCreated)
	for _, t := range []events.EventType{
		events.EventOrderAssigned,
		events.EventOrderUnassigned,
		events.EventAssignmentReverted,
		events.EventAssignmentReapplied,
	} {
		d.Subscribe(t, s.handleAssignment)
	}
}

func (s *RemoteSync) handleOrderCreated(ctx context.Context, e events.Event) error {
	payload, ok := e.Payload.(events.OrderCreatedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", e.Payload, e.Type)
	}
	return s.remote.CreateOrder(ctx, payload.Order)
}

func (s *RemoteSync) handleAssignment(ctx context.Context, e events.Event) error {
	payload, ok := e.Payload.(events.AssignmentPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", e.Payload, e.Type)
	}
	if err := s.remote.AssignOrder(ctx, payload.Command.OrderID, payload.AssignedTo); err != nil {
		return err
	}
	for id, workload := range payload.Workloads {
		if err := s.remote.UpdateWorkload(ctx, id, workload); err != nil {
			return err
		}
	}
	s.logger.Debugf("synced %s for order %s", e.Type, payload.Command.OrderID)
	return nil
}
