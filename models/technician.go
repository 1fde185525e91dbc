package models

import "strings"

// MaxWorkload is the capacity ceiling of a technician.
const MaxWorkload = 5

type Zone string

const (
	ZoneNorth  Zone = "north"
	ZoneSouth  Zone = "south"
	ZoneCenter Zone = "center"
	ZoneWest   Zone = "west"
	ZoneEast   Zone = "east"
)

// Zones lists every service zone in display order.
var Zones = []Zone{ZoneCenter, ZoneSouth, ZoneNorth, ZoneWest, ZoneEast}

type Specialty string

const (
	SpecialtyElectrical Specialty = "Electrical"
	SpecialtyPlumbing   Specialty = "Plumbing"
	SpecialtyHVAC       Specialty = "HVAC"
	SpecialtyNetworking Specialty = "Networking"
)

// Specialties lists the skills a technician can hold.
var Specialties = []Specialty{SpecialtyElectrical, SpecialtyPlumbing, SpecialtyHVAC, SpecialtyNetworking}

// TimeBlock is one slot of the fixed four-slot day partition.
type TimeBlock string

const (
	TimeBlockNight     TimeBlock = "00:00-06:00"
	TimeBlockMorning   TimeBlock = "06:00-12:00"
	TimeBlockAfternoon TimeBlock = "12:00-18:00"
	TimeBlockEvening   TimeBlock = "18:00-00:00"
)

// TimeBlocks lists the day partition in chronological order.
var TimeBlocks = []TimeBlock{TimeBlockNight, TimeBlockMorning, TimeBlockAfternoon, TimeBlockEvening}

type Technician struct {
	ID           string      `json:"id" dynamodbav:"id"`
	Name         string      `json:"name" dynamodbav:"name"`
	Email        string      `json:"email" dynamodbav:"email"`
	Phone        string      `json:"phone" dynamodbav:"phone"`
	Zone         Zone        `json:"zone" dynamodbav:"zone"`
	Specialty    Specialty   `json:"specialty" dynamodbav:"specialty"`
	Workload     int         `json:"workload" dynamodbav:"workload"`
	Availability []TimeBlock `json:"availability" dynamodbav:"availability"`
	PhotoURL     string      `json:"photoUrl,omitempty" dynamodbav:"photoUrl,omitempty"`
}

// HasCapacity reports whether the technician can take another order.
func (t Technician) HasCapacity() bool {
	return t.Workload < MaxWorkload
}

// AvailableIn reports whether any of the technician's time blocks is in blocks.
func (t Technician) AvailableIn(blocks []TimeBlock) bool {
	for _, have := range t.Availability {
		for _, want := range blocks {
			if have == want {
				return true
			}
		}
	}
	return false
}

// Matches does a case-insensitive substring match on name, email and phone.
func (t Technician) Matches(term string) bool {
	term = strings.ToLower(term)
	return strings.Contains(strings.ToLower(t.Name), term) ||
		strings.Contains(strings.ToLower(t.Email), term) ||
		strings.Contains(strings.ToLower(t.Phone), term)
}

type CreateTechnicianRequest struct {
	Name         string      `json:"name" validate:"required,min=2,max=100"`
	Email        string      `json:"email" validate:"required"`
	Phone        string      `json:"phone" validate:"required,min=7,max=20"`
	Zone         Zone        `json:"zone" validate:"required,zone"`
	Specialty    Specialty   `json:"specialty" validate:"required,specialty"`
	Availability []TimeBlock `json:"availability" validate:"required,min=1,dive,timeblock"`
	PhotoURL     string      `json:"photoUrl,omitempty" validate:"omitempty,url"`
}

// Candidate is a filtered technician annotated for selection.
type Candidate struct {
	Technician
	Selectable bool `json:"selectable"`
}
