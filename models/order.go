package models

import (
	"strings"
	"time"
)

type Order struct {
	ID          string    `json:"id" dynamodbav:"id"`
	Zone        Zone      `json:"zone" dynamodbav:"zone"`
	CreatedAt   time.Time `json:"createdAt" dynamodbav:"createdAt"`
	ServiceName string    `json:"serviceName" dynamodbav:"serviceName"`
	Description string    `json:"description" dynamodbav:"description"`
	AssignedTo  *string   `json:"assignedTo" dynamodbav:"assignedTo"`
}

// Pending reports whether the order has no assignee.
func (o Order) Pending() bool {
	return o.AssignedTo == nil
}

// AssignedToID returns the assignee id or "" when pending.
func (o Order) AssignedToID() string {
	if o.AssignedTo == nil {
		return ""
	}
	return *o.AssignedTo
}

func (o Order) Matches(term string) bool {
	term = strings.ToLower(term)
	return strings.Contains(strings.ToLower(o.ID), term) ||
		strings.Contains(strings.ToLower(o.ServiceName), term) ||
		strings.Contains(strings.ToLower(o.Description), term)
}

type CreateOrderRequest struct {
	Zone        Zone   `json:"zone" validate:"required,zone"`
	ServiceName string `json:"serviceName" validate:"required,min=3,max=120"`
	Description string `json:"description" validate:"required,min=10,max=500"`
}

type AssignOrderRequest struct {
	OrderID      string `json:"orderId" validate:"required"`
	TechnicianID string `json:"technicianId" validate:"required"`
}

// OrderFilter narrows an order listing. Assigned nil means both pending and assigned.
type OrderFilter struct {
	SearchTerm string `json:"searchTerm,omitempty"`
	Zone       Zone   `json:"zone,omitempty"`
	Assigned   *bool  `json:"assigned,omitempty"`
}

// WorkloadUpdate is the body of the workload reconcile endpoint.
type WorkloadUpdate struct {
	Workload *int `json:"workload" validate:"required,min=0,max=5"`
}

// StringPtr returns a pointer to a copy of s.
func StringPtr(s string) *string {
	return &s
}
