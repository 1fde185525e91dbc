package services

import (
	"sort"

	"telconova-dispatch/models"
)

// FilterTechnicians returns the technicians matching spec, least busy first.
// Ties keep their input order. all is not modified.
func FilterTechnicians(all []models.Technician, spec models.FilterSpec) []models.Technician {
	limit := spec.WorkloadLimit()
	term := spec.SearchTerm

	out := make([]models.Technician, 0, len(all))
	for _, t := range all {
		if len(spec.Zones) > 0 && !containsZone(spec.Zones, t.Zone) {
			continue
		}
		if len(spec.Specialties) > 0 && !containsSpecialty(spec.Specialties, t.Specialty) {
			continue
		}
		if len(spec.TimeBlocks) > 0 && !t.AvailableIn(spec.TimeBlocks) {
			continue
		}
		if t.Workload > limit {
			continue
		}
		if term != "" && !t.Matches(term) {
			continue
		}
		out = append(out, t)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Workload < out[j].Workload
	})
	return out
}

// Candidates filters like FilterTechnicians and flags who can take an order.
func Candidates(all []models.Technician, spec models.FilterSpec) []models.Candidate {
	filtered := FilterTechnicians(all, spec)
	out := make([]models.Candidate, len(filtered))
	for i, t := range filtered {
		out[i] = models.Candidate{Technician: t, Selectable: t.HasCapacity()}
	}
	return out
}

// FilterOrders returns the matching orders, newest first.
func FilterOrders(all []models.Order, filter models.OrderFilter) []models.Order {
	term := filter.SearchTerm

	out := make([]models.Order, 0, len(all))
	for _, o := range all {
		if filter.Zone != "" && o.Zone != filter.Zone {
			continue
		}
		if filter.Assigned != nil && *filter.Assigned == o.Pending() {
			continue
		}
		if term != "" && !o.Matches(term) {
			continue
		}
		out = append(out, o)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func containsZone(zones []models.Zone, z models.Zone) bool {
	for _, candidate := range zones {
		if candidate == z {
			return true
		}
	}
	return false
}

func containsSpecialty(specialties []models.Specialty, s models.Specialty) bool {
	for _, candidate := range specialties {
		if candidate == s {
			return true
		}
	}
	return false
}
