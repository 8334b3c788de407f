package model

import "gorm.io/gorm"

// Rating is a 1-5 star review left for a doctor or an ambulance unit.
// Exactly one of DoctorID/AmbulanceID is set.
// @Description Rating information
type Rating struct {
	gorm.Model
	DoctorID    *uint `json:"doctorId,omitempty" gorm:"index"`
	AmbulanceID *uint `json:"ambulanceId,omitempty" gorm:"index"`
	Stars       int   `json:"stars" gorm:"not null" example:"5"`
}

// ValidateRating checks the stars range and the one-target rule.
func ValidateRating(r *Rating) error {
	if r.Stars < 1 || r.Stars > 5 {
		return ErrStarsOutOfRange
	}
	if (r.DoctorID == nil) == (r.AmbulanceID == nil) {
		return ErrRatingTarget
	}
	return nil
}
