package model

import "gorm.io/gorm"

// AmbulanceStatus tracks the duty state of an ambulance unit.
type AmbulanceStatus string

const (
	AmbulanceAvailable   AmbulanceStatus = "AVAILABLE"
	AmbulanceOnDuty      AmbulanceStatus = "ON_DUTY"
	AmbulanceUnavailable AmbulanceStatus = "UNAVAILABLE"
)

// ValidAmbulanceStatus reports whether s is one of the known duty states.
func ValidAmbulanceStatus(s AmbulanceStatus) bool {
	switch s {
	case AmbulanceAvailable, AmbulanceOnDuty, AmbulanceUnavailable:
		return true
	}
	return false
}

// Ambulance represents an ambulance unit profile owning a User account.
// @Description Ambulance unit information
type Ambulance struct {
	gorm.Model
	UserID    uint            `json:"userId" gorm:"uniqueIndex;not null"`
	Latitude  *float64        `json:"latitude,omitempty" example:"52.2297"`
	Longitude *float64        `json:"longitude,omitempty" example:"21.0122"`
	Status    AmbulanceStatus `json:"status" gorm:"size:20;default:'AVAILABLE'" example:"AVAILABLE"`

	User         User          `json:"user" gorm:"foreignKey:UserID"`
	Appointments []Appointment `json:"appointments,omitempty" gorm:"foreignKey:AmbulanceID"`
	Ratings      []Rating      `json:"ratings,omitempty" gorm:"foreignKey:AmbulanceID"`
}
