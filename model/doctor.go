package model

import "gorm.io/gorm"

// Doctor represents a doctor profile owning a User account.
// @Description Doctor profile information
type Doctor struct {
	gorm.Model
	UserID         uint   `json:"userId" gorm:"uniqueIndex;not null"`
	Specialization string `json:"specialization" gorm:"size:100;not null" example:"Cardiology"`
	License        string `json:"license" gorm:"size:100;not null" example:"MD-48213"`
	Verified       bool   `json:"verified" gorm:"default:false" example:"false"`

	User         User          `json:"user" gorm:"foreignKey:UserID"`
	Appointments []Appointment `json:"appointments,omitempty" gorm:"foreignKey:DoctorID"`
	Ratings      []Rating      `json:"ratings,omitempty" gorm:"foreignKey:DoctorID"`
}
