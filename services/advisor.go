package services

import (
	"fmt"
	"sort"
	"strings"

	"telconova-dispatch/models"
	"telconova-dispatch/repository"
	"telconova-dispatch/utils/logger"
)

const (
	sameZoneBonus  = 30
	specialtyBonus = 25
	workloadWeight = 20
)

// specialtyKeywords maps each specialty to substrings of a lowercased service
// name that indicate it.
var specialtyKeywords = map[models.Specialty][]string{
	models.SpecialtyElectrical: {"electric"},
	models.SpecialtyPlumbing:   {"plumb", "pipe", "leak"},
	models.SpecialtyHVAC:       {"hvac", "climat"},
	models.SpecialtyNetworking: {"network", "config"},
}

// MatchesSpecialty reports whether the order's service name suggests specialty.
func MatchesSpecialty(order models.Order, specialty models.Specialty) bool {
	service := strings.ToLower(order.ServiceName)
	for _, keyword := range specialtyKeywords[specialty] {
		if strings.Contains(service, keyword) {
			return true
		}
	}
	return false
}

// Recommend scores every technician with spare capacity for order, best first.
func Recommend(order models.Order, technicians []models.Technician) []models.Recommendation {
	out := make([]models.Recommendation, 0, len(technicians))
	for _, t := range technicians {
		if !t.HasCapacity() {
			continue
		}
		score := (models.MaxWorkload - t.Workload) * workloadWeight
		reasons := []string{fmt.Sprintf("Workload: %d/%d", t.Workload, models.MaxWorkload)}

		if t.Zone == order.Zone {
			score += sameZoneBonus
			reasons = append(reasons, "Same zone")
		}
		if MatchesSpecialty(order, t.Specialty) {
			score += specialtyBonus
			reasons = append(reasons, "Compatible specialty")
		}
		out = append(out, models.Recommendation{Technician: t, Score: score, Reasons: reasons})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

// CheckConflicts lists advisory warnings for assigning order to technician.
func CheckConflicts(technician models.Technician, order models.Order) []models.Conflict {
	conflicts := []models.Conflict{}

	switch {
	case technician.Workload >= models.MaxWorkload:
		conflicts = append(conflicts, models.Conflict{
			Kind:     models.ConflictWorkload,
			Severity: models.SeverityError,
			Message:  fmt.Sprintf("Technician at maximum workload (%d/%d)", models.MaxWorkload, models.MaxWorkload),
		})
	case technician.Workload == models.MaxWorkload-1:
		conflicts = append(conflicts, models.Conflict{
			Kind:     models.ConflictWorkload,
			Severity: models.SeverityWarning,
			Message:  fmt.Sprintf("Technician has a high workload (%d/%d)", technician.Workload, models.MaxWorkload),
		})
	}

	if technician.Zone != order.Zone {
		conflicts = append(conflicts, models.Conflict{
			Kind:     models.ConflictZone,
			Severity: models.SeverityWarning,
			Message:  fmt.Sprintf("Technician in %s, order in %s", technician.Zone, order.Zone),
		})
	}
	return conflicts
}

// BestMatch picks the least busy technician with capacity, restricted to the
// order's zone when anyone there has capacity. Ties go to the earlier one.
func BestMatch(order models.Order, technicians []models.Technician) (models.Technician, bool) {
	var available, sameZone []models.Technician
	for _, t := range technicians {
		if !t.HasCapacity() {
			continue
		}
		available = append(available, t)
		if t.Zone == order.Zone {
			sameZone = append(sameZone, t)
		}
	}

	pool := available
	if len(sameZone) > 0 {
		pool = sameZone
	}
	if len(pool) == 0 {
		return models.Technician{}, false
	}

	best := pool[0]
	for _, t := range pool[1:] {
		if t.Workload < best.Workload {
			best = t
		}
	}
	return best, true
}

// AdvisorService resolves ids against the catalog for the advisory functions.
type AdvisorService struct {
	store  *repository.CatalogStore
	logger logger.Logger
}

// NewAdvisorService creates an advisor reading from the shared catalog store.
func NewAdvisorService(store *repository.CatalogStore, log logger.Logger) *AdvisorService {
	return &AdvisorService{store: store, logger: log}
}

func (s *AdvisorService) Recommend(orderID string) ([]models.Recommendation, error) {
	order, err := s.store.GetOrder(orderID)
	if err != nil {
		return nil, err
	}
	return Recommend(order, s.store.Technicians()), nil
}

func (s *AdvisorService) CheckConflicts(technicianID, orderID string) ([]models.Conflict, error) {
	order, err := s.store.GetOrder(orderID)
	if err != nil {
		return nil, err
	}
	technician, err := s.store.GetTechnician(technicianID)
	if err != nil {
		return nil, err
	}
	return CheckConflicts(technician, order), nil
}

func (s *AdvisorService) BestMatch(orderID string) (*models.Technician, error) {
	order, err := s.store.GetOrder(orderID)
	if err != nil {
		return nil, err
	}
	best, ok := BestMatch(order, s.store.Technicians())
	if !ok {
		return nil, models.NewNoAvailableTechnician()
	}
	return &best, nil
}
