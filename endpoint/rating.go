package endpoint

import (
	"errors"

	"github.com/clinicbook/clinic-server/model"
	"github.com/clinicbook/clinic-server/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RatingRequest is the payload for leaving a rating.
type RatingRequest struct {
	DoctorID    *uint `json:"doctorId,omitempty" example:"2"`
	AmbulanceID *uint `json:"ambulanceId,omitempty" example:"3"`
	Stars       int   `json:"stars" example:"5"`
}

// CreateRating godoc
// @Summary      Rate a doctor or ambulance unit
// @Tags         Rating
// @Accept       json
// @Produce      json
// @Param        rating body RatingRequest true "Rating payload"
// @Success      201 {object} model.Rating "Created rating"
// @Failure      400 {object} util.APIError "Validation failed"
// @Failure      404 {object} util.APIError "Referenced entity missing"
// @Failure      500 {object} util.APIError "Server error"
// @Router       /ratings [post]
func CreateRating(c *gin.Context) {
	var req RatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.CallValidationError(c, []util.FieldError{{Path: "body", Message: "invalid JSON payload"}})
		return
	}
	rating := model.Rating{
		DoctorID:    req.DoctorID,
		AmbulanceID: req.AmbulanceID,
		Stars:       req.Stars,
	}
	if err := model.ValidateRating(&rating); err != nil {
		switch {
		case errors.Is(err, model.ErrStarsOutOfRange):
			util.CallValidationError(c, []util.FieldError{{Path: "stars", Message: "must be between 1 and 5"}})
		default:
			util.CallValidationError(c, []util.FieldError{{Path: "doctorId", Message: "rating must target exactly one of doctorId or ambulanceId"}})
		}
		return
	}
	db := getDBOrAbort(c)
	if db == nil {
		return
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if rating.DoctorID != nil {
			if err := ensureExists(tx, &model.Doctor{}, "doctorId", *rating.DoctorID); err != nil {
				return err
			}
		}
		if rating.AmbulanceID != nil {
			if err := ensureExists(tx, &model.Ambulance{}, "ambulanceId", *rating.AmbulanceID); err != nil {
				return err
			}
		}
		return tx.Create(&rating).Error
	})
	if err != nil {
		respondMutationError(c, err, "Rating")
		return
	}
	util.CallCreated(c, rating)
}

// ListDoctorRatings godoc
// @Summary      List a doctor's ratings with the average
// @Tags         Rating
// @Produce      json
// @Param        id path int true "Doctor ID"
// @Success      200 {object} map[string]interface{} "items + average"
// @Failure      404 {object} util.APIError "Doctor not found"
// @Failure      500 {object} util.APIError "Server error"
// @Router       /doctors/{id}/ratings [get]
func ListDoctorRatings(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	db := getDBOrAbort(c)
	if db == nil {
		return
	}
	if err := ensureExists(db, &model.Doctor{}, "doctorId", id); err != nil {
		respondMutationError(c, err, "Doctor")
		return
	}

	var ratings []model.Rating
	if err := db.Where("doctor_id = ?", id).Order("id").Find(&ratings).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to fetch ratings", Err: err})
		return
	}
	var average float64
	if len(ratings) > 0 {
		sum := 0
		for _, r := range ratings {
			sum += r.Stars
		}
		average = float64(sum) / float64(len(ratings))
	}
	util.CallSuccessOK(c, gin.H{"items": ratings, "average": average})
}
