package events

import (
	"time"

	"telconova-dispatch/models"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventOrderCreated        EventType = "order_created"
	EventOrderAssigned       EventType = "order_assigned"
	EventOrderUnassigned     EventType = "order_unassigned"
	EventAssignmentReverted  EventType = "assignment_reverted"
	EventAssignmentReapplied EventType = "assignment_reapplied"
	EventTechnicianCreated   EventType = "technician_created"
	EventTechnicianDeleted   EventType = "technician_deleted"
	EventCatalogReset        EventType = "catalog_reset"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ActorID   string      `json:"actor_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// AssignmentPayload carries the command behind an assignment event, the
// order's assignee afterwards and the resulting workloads of the technicians
// it touched.
type AssignmentPayload struct {
	Command    models.Command `json:"command"`
	AssignedTo *string        `json:"assigned_to"`
	Workloads  map[string]int `json:"workloads"`
}

// OrderCreatedPayload payload.
type OrderCreatedPayload struct {
	Order models.Order `json:"order"`
}

// TechnicianPayload payload.
type TechnicianPayload struct {
	Technician models.Technician `json:"technician"`
}
