package services

import (
	"testing"
	"time"

	"telconova-dispatch/models"
	"telconova-dispatch/repository"

	"github.com/stretchr/testify/assert"
)

func ids(technicians []models.Technician) []string {
	out := make([]string, len(technicians))
	for i, t := range technicians {
		out[i] = t.ID
	}
	return out
}

func intPtr(i int) *int {
	return &i
}

func TestFilterTechniciansEmptySpecSortsStably(t *testing.T) {
	technicians := []models.Technician{
		{ID: "a", Workload: 3},
		{ID: "b", Workload: 1},
		{ID: "c", Workload: 3},
		{ID: "d", Workload: 0},
		{ID: "e", Workload: 1},
	}

	got := FilterTechnicians(technicians, models.FilterSpec{})
	assert.Equal(t, []string{"d", "b", "e", "a", "c"}, ids(got))
	assert.Equal(t, "a", technicians[0].ID, "input is not reordered")
}

func TestFilterTechniciansSeed(t *testing.T) {
	seed := repository.SeedTechnicians()

	testCases := []struct {
		name string
		spec models.FilterSpec
		want []string
	}{
		{"empty spec", models.FilterSpec{}, []string{"t5", "t4", "t1", "t6", "t2", "t3"}},
		{"zone", models.FilterSpec{Zones: []models.Zone{models.ZoneNorth}}, []string{"t1", "t6"}},
		{"zones", models.FilterSpec{Zones: []models.Zone{models.ZoneNorth, models.ZoneCenter}}, []string{"t1", "t6", "t3"}},
		{"specialty", models.FilterSpec{Specialties: []models.Specialty{models.SpecialtyElectrical}}, []string{"t5", "t1"}},
		{"time block intersects", models.FilterSpec{TimeBlocks: []models.TimeBlock{models.TimeBlockNight}}, []string{"t5", "t2"}},
		{"max workload", models.FilterSpec{MaxWorkload: intPtr(2)}, []string{"t5", "t4", "t1"}},
		{"max workload zero", models.FilterSpec{MaxWorkload: intPtr(0)}, []string{"t5"}},
		{"search name case-insensitive", models.FilterSpec{SearchTerm: "ANA"}, []string{"t2"}},
		{"search email", models.FilterSpec{SearchTerm: "ruiz@"}, []string{"t4"}},
		{"search phone", models.FilterSpec{SearchTerm: "5555"}, []string{"t5"}},
		{"combined", models.FilterSpec{
			Zones:      []models.Zone{models.ZoneNorth},
			TimeBlocks: []models.TimeBlock{models.TimeBlockAfternoon},
			SearchTerm: "sofía",
		}, []string{"t6"}},
		{"no match", models.FilterSpec{SearchTerm: "nobody"}, []string{}},
		{"search leading space is literal", models.FilterSpec{SearchTerm: " gómez"}, []string{"t2"}},
		{"search trailing space is literal", models.FilterSpec{SearchTerm: "gómez "}, []string{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ids(FilterTechnicians(seed, tc.spec)))
		})
	}
}

func TestCandidatesFlagFullTechnicians(t *testing.T) {
	candidates := Candidates(repository.SeedTechnicians(), models.FilterSpec{})
	assert.Len(t, candidates, 6)
	for _, c := range candidates {
		assert.Equal(t, c.Workload < models.MaxWorkload, c.Selectable, c.ID)
	}
	assert.Equal(t, "t3", candidates[5].ID)
	assert.False(t, candidates[5].Selectable)
}

func TestFilterOrders(t *testing.T) {
	orders := repository.SeedOrders()
	yes, no := true, false

	testCases := []struct {
		name   string
		filter models.OrderFilter
		want   []string
	}{
		{"all newest first", models.OrderFilter{}, []string{"O-1008", "O-1005", "O-1004", "O-1003", "O-1007", "O-1002", "O-1001", "O-1006"}},
		{"zone", models.OrderFilter{Zone: models.ZoneSouth}, []string{"O-1007", "O-1002"}},
		{"assigned", models.OrderFilter{Assigned: &yes}, []string{"O-1004", "O-1002"}},
		{"pending", models.OrderFilter{Assigned: &no, Zone: models.ZoneNorth}, []string{"O-1001", "O-1006"}},
		{"search description", models.OrderFilter{SearchTerm: "LEAK"}, []string{"O-1002"}},
		{"search id", models.OrderFilter{SearchTerm: "o-1003"}, []string{"O-1003"}},
		{"search spaces are literal", models.OrderFilter{SearchTerm: " pipe"}, []string{"O-1006"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := FilterOrders(orders, tc.filter)
			gotIDs := make([]string, len(got))
			for i, o := range got {
				gotIDs[i] = o.ID
			}
			assert.Equal(t, tc.want, gotIDs)
		})
	}
}

func TestFilterOrdersStableOnEqualTimes(t *testing.T) {
	at := time.Date(2025, 9, 22, 10, 0, 0, 0, time.UTC)
	orders := []models.Order{{ID: "x", CreatedAt: at}, {ID: "y", CreatedAt: at}, {ID: "z", CreatedAt: at.Add(time.Minute)}}

	got := FilterOrders(orders, models.OrderFilter{})
	assert.Equal(t, "z", got[0].ID)
	assert.Equal(t, "x", got[1].ID)
	assert.Equal(t, "y", got[2].ID)
}
