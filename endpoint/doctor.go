package endpoint

import (
	"fmt"

	"github.com/clinicbook/clinic-server/model"
	"github.com/clinicbook/clinic-server/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// DoctorRequest is the mutation payload for doctor profiles.
type DoctorRequest struct {
	Email          string `json:"email" example:"dr.smith@example.com"`
	Password       string `json:"password" example:"secret123"`
	Name           string `json:"name" example:"Dr. John Smith"`
	Specialization string `json:"specialization" example:"Cardiology"`
	License        string `json:"license" example:"MD-48213"`
	Verified       *bool  `json:"verified,omitempty" example:"true"`
}

func (req *DoctorRequest) validate(requireCreate bool) []util.FieldError {
	var details []util.FieldError
	if requireCreate {
		if req.Email == "" {
			details = append(details, util.FieldError{Path: "email", Message: "email is required"})
		}
		if req.Password == "" {
			details = append(details, util.FieldError{Path: "password", Message: "password is required"})
		}
		if req.Name == "" {
			details = append(details, util.FieldError{Path: "name", Message: "name is required"})
		}
		if req.Specialization == "" {
			details = append(details, util.FieldError{Path: "specialization", Message: "specialization is required"})
		}
		if req.License == "" {
			details = append(details, util.FieldError{Path: "license", Message: "license is required"})
		}
	}
	return details
}

// CreateDoctor godoc
// @Summary      Create a doctor
// @Description  Provision a doctor profile together with its owning user account in one transaction
// @Tags         Doctor
// @Accept       json
// @Produce      json
// @Param        doctor body DoctorRequest true "Doctor payload"
// @Success      201 {object} model.Doctor "Created doctor"
// @Failure      400 {object} util.APIError "Validation failed"
// @Failure      409 {object} util.APIError "Email already exists"
// @Failure      500 {object} util.APIError "Server error"
// @Router       /doctors [post]
func CreateDoctor(c *gin.Context) {
	var req DoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.CallValidationError(c, []util.FieldError{{Path: "body", Message: "invalid JSON payload"}})
		return
	}
	if details := req.validate(true); len(details) > 0 {
		util.CallValidationError(c, details)
		return
	}
	db := getDBOrAbort(c)
	if db == nil {
		return
	}

	var doctor model.Doctor
	err := db.Transaction(func(tx *gorm.DB) error {
		user, err := createOwnedUser(tx, req.Email, req.Password, req.Name, model.RoleDoctor)
		if err != nil {
			return err
		}
		doctor = model.Doctor{
			UserID:         user.ID,
			Specialization: req.Specialization,
			License:        req.License,
		}
		if req.Verified != nil {
			doctor.Verified = *req.Verified
		}
		return tx.Create(&doctor).Error
	})
	if err != nil {
		respondMutationError(c, err, "Doctor")
		return
	}

	if err := db.Preload("User").First(&doctor, doctor.ID).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to reload doctor", Err: err})
		return
	}
	util.CallCreated(c, doctor)
}

// GetDoctor godoc
// @Summary      Get a doctor
// @Tags         Doctor
// @Produce      json
// @Param        id path int true "Doctor ID"
// @Success      200 {object} model.Doctor "Doctor"
// @Failure      404 {object} util.APIError "Not found"
// @Failure      500 {object} util.APIError "Server error"
// @Router       /doctors/{id} [get]
func GetDoctor(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	db := getDBOrAbort(c)
	if db == nil {
		return
	}
	var doctor model.Doctor
	err := db.Preload("User").Preload("Ratings").First(&doctor, id).Error
	if err != nil {
		respondMutationError(c, err, "Doctor")
		return
	}
	util.CallSuccessOK(c, doctor)
}

// ListDoctors godoc
// @Summary      List doctors
// @Description  Paginated doctor list with optional search over name and specialization
// @Tags         Doctor
// @Produce      json
// @Param        page query int false "Page number"
// @Param        limit query int false "Page size"
// @Param        search query string false "Search in user name and specialization"
// @Success      200 {object} map[string]interface{} "items + pagination"
// @Failure      500 {object} util.APIError "Server error"
// @Router       /doctors [get]
func ListDoctors(c *gin.Context) {
	db := getDBOrAbort(c)
	if db == nil {
		return
	}
	q := parsePageQuery(c)

	query := db.Model(&model.Doctor{}).
		Joins("JOIN users ON users.id = doctors.user_id")
	if q.Search != "" {
		kw := "%" + q.Search + "%"
		query = query.Where("users.name LIKE ? OR doctors.specialization LIKE ?", kw, kw)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to count doctors", Err: err})
		return
	}
	var doctors []model.Doctor
	err := query.
		Preload("User").
		Order("doctors.id").
		Limit(q.Limit).Offset(q.offset()).
		Find(&doctors).Error
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to fetch doctors", Err: err})
		return
	}
	util.CallSuccessOK(c, pageResponse(doctors, q, total))
}

// UpdateDoctor godoc
// @Summary      Update a doctor
// @Tags         Doctor
// @Accept       json
// @Produce      json
// @Param        id path int true "Doctor ID"
// @Param        doctor body DoctorRequest true "Fields to update"
// @Success      200 {object} model.Doctor "Updated doctor"
// @Failure      400 {object} util.APIError "Validation failed"
// @Failure      404 {object} util.APIError "Not found"
// @Failure      409 {object} util.APIError "Email already exists"
// @Failure      500 {object} util.APIError "Server error"
// @Router       /doctors/{id} [put]
func UpdateDoctor(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req DoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.CallValidationError(c, []util.FieldError{{Path: "body", Message: "invalid JSON payload"}})
		return
	}
	db := getDBOrAbort(c)
	if db == nil {
		return
	}

	var doctor model.Doctor
	if err := db.Preload("User").First(&doctor, id).Error; err != nil {
		respondMutationError(c, err, "Doctor")
		return
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if req.Email != "" && req.Email != doctor.User.Email {
			var count int64
			if err := tx.Model(&model.User{}).
				Where("email = ? AND id <> ?", req.Email, doctor.UserID).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return model.ErrEmailTaken
			}
			doctor.User.Email = req.Email
		}
		if req.Name != "" {
			doctor.User.Name = util.NormalizeName(req.Name)
		}
		if req.Password != "" {
			doctor.User.Password = util.HashPassword(req.Password)
		}
		if req.Specialization != "" {
			doctor.Specialization = req.Specialization
		}
		if req.License != "" {
			doctor.License = req.License
		}
		if req.Verified != nil {
			doctor.Verified = *req.Verified
		}
		if err := tx.Save(&doctor.User).Error; err != nil {
			return err
		}
		return tx.Save(&doctor).Error
	})
	if err != nil {
		respondMutationError(c, err, "Doctor")
		return
	}
	util.UserEmailCacheInvalidate(doctor.UserID)
	util.CallSuccessOK(c, doctor)
}

// DeleteDoctor godoc
// @Summary      Delete a doctor
// @Description  Unconditional cascade: ratings, appointments with their prescriptions/tests, the doctor, and the owning user
// @Tags         Doctor
// @Produce      json
// @Param        id path int true "Doctor ID"
// @Success      200 {object} map[string]string "Confirmation"
// @Failure      404 {object} util.APIError "Not found"
// @Failure      500 {object} util.APIError "Server error"
// @Router       /doctors/{id} [delete]
func DeleteDoctor(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	db := getDBOrAbort(c)
	if db == nil {
		return
	}
	if err := model.CascadeDeleteDoctor(db, id); err != nil {
		respondMutationError(c, err, "Doctor")
		return
	}
	util.ScheduleCacheInvalidate(id)
	util.LogAuditEvent(util.AuditEvent{
		EventType: util.EventDoctorCascade,
		IP:        c.ClientIP(),
		Message:   fmt.Sprintf("doctor %d deleted with dependents", id),
		Details:   map[string]interface{}{"doctor_id": id},
	})
	util.CallDeleted(c, "Doctor deleted successfully")
}
