package models

import (
	"fmt"
	"time"
)

type CommandKind string

const (
	CommandAssign   CommandKind = "assign"
	CommandReassign CommandKind = "reassign"
	CommandUnassign CommandKind = "unassign"
	CommandNoop     CommandKind = "noop"
)

// Command records one assignment mutation as plain data. Deltas are the
// workload changes actually applied, after clamping to [0, MaxWorkload].
type Command struct {
	ID                    string      `json:"id"`
	Kind                  CommandKind `json:"kind"`
	OrderID               string      `json:"orderId"`
	TechnicianID          *string     `json:"technicianId"`
	PreviousTechnicianID  *string     `json:"previousTechnicianId"`
	PreviousWorkloadDelta int         `json:"previousWorkloadDelta"`
	NewWorkloadDelta      int         `json:"newWorkloadDelta"`
	ExecutedAt            time.Time   `json:"executedAt"`
}

// IsNoop reports whether the command changed nothing.
func (c Command) IsNoop() bool {
	return c.Kind == CommandNoop
}

func (c Command) Description() string {
	switch c.Kind {
	case CommandAssign:
		return fmt.Sprintf("Assign order %s to technician %s", c.OrderID, deref(c.TechnicianID))
	case CommandReassign:
		return fmt.Sprintf("Reassign order %s from technician %s to technician %s",
			c.OrderID, deref(c.PreviousTechnicianID), deref(c.TechnicianID))
	case CommandUnassign:
		return fmt.Sprintf("Unassign order %s from technician %s", c.OrderID, deref(c.PreviousTechnicianID))
	default:
		return fmt.Sprintf("No change to order %s", c.OrderID)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// HistoryState summarizes the undo ledger for clients.
type HistoryState struct {
	CanUndo  bool    `json:"canUndo"`
	CanRedo  bool    `json:"canRedo"`
	LastDesc *string `json:"lastDescription"`
	Size     int     `json:"size"`
}
