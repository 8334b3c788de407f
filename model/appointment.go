package model

import (
	"time"

	"gorm.io/gorm"
)

// Appointment represents a scheduled or pending clinical encounter between a
// patient and, optionally, a doctor or ambulance unit.
// @Description Appointment information
type Appointment struct {
	gorm.Model
	PatientID      uint              `json:"patientId" gorm:"not null;index"`
	DoctorID       *uint             `json:"doctorId,omitempty" gorm:"index"`
	AmbulanceID    *uint             `json:"ambulanceId,omitempty" gorm:"index"`
	DateTime       *time.Time        `json:"dateTime,omitempty"`
	Condition      string            `json:"condition,omitempty" gorm:"size:255" example:"Chest pain"`
	Description    string            `json:"description,omitempty" gorm:"type:text"`
	Specialization string            `json:"specialization,omitempty" gorm:"size:100" example:"Cardiology"`
	Status         AppointmentStatus `json:"status" gorm:"size:20;default:'NEW';index" example:"NEW"`
	Comments       string            `json:"comments,omitempty" gorm:"type:text"`

	Patient       Patient        `json:"patient,omitempty" gorm:"foreignKey:PatientID"`
	Doctor        *Doctor        `json:"doctor,omitempty" gorm:"foreignKey:DoctorID"`
	Ambulance     *Ambulance     `json:"ambulance,omitempty" gorm:"foreignKey:AmbulanceID"`
	Prescriptions []Prescription `json:"prescriptions" gorm:"foreignKey:AppointmentID"`
	Tests         []MedicalTest  `json:"tests" gorm:"foreignKey:AppointmentID"`

	// RelatedAppointmentIDs lists follow-up/origin links resolved from the
	// appointment_relations table; populated on read, never written directly.
	RelatedAppointmentIDs []uint `json:"relatedAppointmentIds" gorm:"-"`
}

// Prescription is a medication order owned by a single appointment. It never
// outlives the appointment it belongs to.
// @Description Prescription information
type Prescription struct {
	gorm.Model
	AppointmentID uint   `json:"appointmentId" gorm:"not null;index"`
	Medication    string `json:"medication" gorm:"size:255;not null" example:"Amoxicillin"`
	Dosage        string `json:"dosage" gorm:"size:100;not null" example:"500mg twice daily"`
	Instructions  string `json:"instructions,omitempty" gorm:"type:text" example:"Take with food"`
}

// MedicalTest is a diagnostic test owned by a single appointment.
// @Description Medical test information
type MedicalTest struct {
	gorm.Model
	AppointmentID uint      `json:"appointmentId" gorm:"not null;index"`
	TestType      string    `json:"testType" gorm:"size:255;not null" example:"ECG"`
	Results       string    `json:"results,omitempty" gorm:"type:text"`
	DatePerformed time.Time `json:"datePerformed"`
}
