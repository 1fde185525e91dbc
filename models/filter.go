package models

// FilterSpec selects technicians. Empty sets place no constraint and a nil
// MaxWorkload means MaxWorkload.
type FilterSpec struct {
	Zones       []Zone      `json:"zones,omitempty"`
	Specialties []Specialty `json:"specialties,omitempty"`
	TimeBlocks  []TimeBlock `json:"timeBlocks,omitempty"`
	MaxWorkload *int        `json:"maxWorkload,omitempty"`
	SearchTerm  string      `json:"searchTerm,omitempty"`
}

// WorkloadLimit resolves MaxWorkload to its effective value.
func (f FilterSpec) WorkloadLimit() int {
	if f.MaxWorkload == nil {
		return MaxWorkload
	}
	return *f.MaxWorkload
}

type Recommendation struct {
	Technician Technician `json:"technician"`
	Score      int        `json:"score"`
	Reasons    []string   `json:"reasons"`
}

type ConflictKind string

const (
	ConflictWorkload ConflictKind = "workload"
	ConflictZone     ConflictKind = "zone"
)

type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

type Conflict struct {
	Kind     ConflictKind `json:"kind"`
	Severity Severity     `json:"severity"`
	Message  string       `json:"message"`
}

type ZoneStats struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Assigned int `json:"assigned"`
}

type OrderStats struct {
	Total          int                `json:"total"`
	Pending        int                `json:"pending"`
	Assigned       int                `json:"assigned"`
	AssignmentRate int                `json:"assignmentRate"`
	Zones          map[Zone]ZoneStats `json:"zones"`
}

type TechnicianStats struct {
	Total           int     `json:"total"`
	Available       int     `json:"available"`
	Busy            int     `json:"busy"`
	Idle            int     `json:"idle"`
	Utilization     int     `json:"utilization"`
	AverageWorkload float64 `json:"averageWorkload"`
}

type AssignmentStats struct {
	Orders      OrderStats      `json:"orders"`
	Technicians TechnicianStats `json:"technicians"`
}

// WorkloadDiscrepancy reports a technician whose counter differs from the
// number of orders assigned to them.
type WorkloadDiscrepancy struct {
	TechnicianID   string `json:"technicianId"`
	Workload       int    `json:"workload"`
	AssignedOrders int    `json:"assignedOrders"`
}

type AutoAssignResult struct {
	OrderID      string `json:"orderId"`
	Success      bool   `json:"success"`
	TechnicianID string `json:"technicianId,omitempty"`
	Reason       string `json:"reason,omitempty"`
}

type AutoAssignReport struct {
	Success int                `json:"success"`
	Failed  int                `json:"failed"`
	Results []AutoAssignResult `json:"results"`
}
