package model

import "gorm.io/gorm"

// Patient represents a patient profile owning a User account.
// @Description Patient profile information
type Patient struct {
	gorm.Model
	UserID uint   `json:"userId" gorm:"uniqueIndex;not null"`
	Age    *int   `json:"age,omitempty" example:"42"`
	Gender string `json:"gender,omitempty" gorm:"size:20" example:"female"`

	User         User          `json:"user" gorm:"foreignKey:UserID"`
	Appointments []Appointment `json:"appointments,omitempty" gorm:"foreignKey:PatientID"`
}
