package model

import "gorm.io/gorm"

// Role identifies which owning profile a user account belongs to.
type Role string

const (
	RolePatient   Role = "PATIENT"
	RoleDoctor    Role = "DOCTOR"
	RoleAmbulance Role = "AMBULANCE"
	RoleAdmin     Role = "ADMIN"
)

// User represents a login account. Every non-admin user is owned by exactly
// one Patient, Doctor, or Ambulance profile through a 1:1 relation.
// @Description User account information
type User struct {
	gorm.Model
	Email    string `json:"email" gorm:"uniqueIndex;size:255;not null" example:"jane@example.com"`
	Password string `json:"-" gorm:"size:255;not null"`
	Name     string `json:"name" gorm:"size:255;not null" example:"Jane Doe"`
	Role     Role   `json:"role" gorm:"size:20;not null" example:"PATIENT"`
}
