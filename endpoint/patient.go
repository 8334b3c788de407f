package endpoint

import (
	"fmt"

	"github.com/clinicbook/clinic-server/model"
	"github.com/clinicbook/clinic-server/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// PatientRequest is the mutation payload for patient profiles. Email,
// password, and name feed the owning User row.
type PatientRequest struct {
	Email    string  `json:"email" example:"jane@example.com"`
	Password string  `json:"password" example:"secret123"`
	Name     string  `json:"name" example:"Jane Doe"`
	Age      *int    `json:"age,omitempty" example:"42"`
	Gender   *string `json:"gender,omitempty" example:"female"`
}

func (req *PatientRequest) validate(requireCreate bool) []util.FieldError {
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
	}
	if req.Age != nil && (*req.Age < 0 || *req.Age > 150) {
		details = append(details, util.FieldError{Path: "age", Message: "age must be between 0 and 150"})
	}
	return details
}

// CreatePatient godoc
// @Summary      Create a patient
// @Description  Provision a patient profile together with its owning user account in one transaction
// @Tags         Patient
// @Accept       json
// @Produce      json
// @Param        patient body PatientRequest true "Patient payload"
// @Success      201 {object} model.Patient "Created patient"
// @Failure      400 {object} util.APIError "Validation failed"
// @Failure      409 {object} util.APIError "Email already exists"
// @Failure      500 {object} util.APIError "Server error"
// @Router       /patients [post]
func CreatePatient(c *gin.Context) {
	var req PatientRequest
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

	var patient model.Patient
	err := db.Transaction(func(tx *gorm.DB) error {
		user, err := createOwnedUser(tx, req.Email, req.Password, req.Name, model.RolePatient)
		if err != nil {
			return err
		}
		patient = model.Patient{UserID: user.ID, Age: req.Age}
		if req.Gender != nil {
			patient.Gender = *req.Gender
		}
		return tx.Create(&patient).Error
	})
	if err != nil {
		respondMutationError(c, err, "Patient")
		return
	}

	if err := db.Preload("User").First(&patient, patient.ID).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to reload patient", Err: err})
		return
	}
	util.CallCreated(c, patient)
}

// GetPatient godoc
// @Summary      Get a patient
// @Tags         Patient
// @Produce      json
// @Param        id path int true "Patient ID"
// @Success      200 {object} model.Patient "Patient"
// @Failure      404 {object} util.APIError "Not found"
// @Failure      500 {object} util.APIError "Server error"
// @Router       /patients/{id} [get]
func GetPatient(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	db := getDBOrAbort(c)
	if db == nil {
		return
	}
	var patient model.Patient
	err := db.Preload("User").Preload("Appointments").First(&patient, id).Error
	if err != nil {
		respondMutationError(c, err, "Patient")
		return
	}
	util.CallSuccessOK(c, patient)
}

// ListPatients godoc
// @Summary      List patients
// @Description  Paginated patient list with optional name/email search
// @Tags         Patient
// @Produce      json
// @Param        page query int false "Page number"
// @Param        limit query int false "Page size"
// @Param        search query string false "Search in user name and email"
// @Success      200 {object} map[string]interface{} "items + pagination"
// @Failure      500 {object} util.APIError "Server error"
// @Router       /patients [get]
func ListPatients(c *gin.Context) {
	db := getDBOrAbort(c)
	if db == nil {
		return
	}
	q := parsePageQuery(c)

	query := db.Model(&model.Patient{}).
		Joins("JOIN users ON users.id = patients.user_id")
	if q.Search != "" {
		kw := "%" + q.Search + "%"
		query = query.Where("users.name LIKE ? OR users.email LIKE ?", kw, kw)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to count patients", Err: err})
		return
	}
	var patients []model.Patient
	err := query.
		Preload("User").
		Order("patients.id").
		Limit(q.Limit).Offset(q.offset()).
		Find(&patients).Error
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to fetch patients", Err: err})
		return
	}
	util.CallSuccessOK(c, pageResponse(patients, q, total))
}

// UpdatePatient godoc
// @Summary      Update a patient
// @Tags         Patient
// @Accept       json
// @Produce      json
// @Param        id path int true "Patient ID"
// @Param        patient body PatientRequest true "Fields to update"
// @Success      200 {object} model.Patient "Updated patient"
// @Failure      400 {object} util.APIError "Validation failed"
// @Failure      404 {object} util.APIError "Not found"
// @Failure      409 {object} util.APIError "Email already exists"
// @Failure      500 {object} util.APIError "Server error"
// @Router       /patients/{id} [put]
func UpdatePatient(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req PatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.CallValidationError(c, []util.FieldError{{Path: "body", Message: "invalid JSON payload"}})
		return
	}
	if details := req.validate(false); len(details) > 0 {
		util.CallValidationError(c, details)
		return
	}
	db := getDBOrAbort(c)
	if db == nil {
		return
	}

	var patient model.Patient
	if err := db.Preload("User").First(&patient, id).Error; err != nil {
		respondMutationError(c, err, "Patient")
		return
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if req.Email != "" && req.Email != patient.User.Email {
			var count int64
			if err := tx.Model(&model.User{}).
				Where("email = ? AND id <> ?", req.Email, patient.UserID).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return model.ErrEmailTaken
			}
			patient.User.Email = req.Email
		}
		if req.Name != "" {
			patient.User.Name = util.NormalizeName(req.Name)
		}
		if req.Password != "" {
			patient.User.Password = util.HashPassword(req.Password)
		}
		if req.Age != nil {
			patient.Age = req.Age
		}
		if req.Gender != nil {
			patient.Gender = *req.Gender
		}
		if err := tx.Save(&patient.User).Error; err != nil {
			return err
		}
		return tx.Save(&patient).Error
	})
	if err != nil {
		respondMutationError(c, err, "Patient")
		return
	}
	util.UserEmailCacheInvalidate(patient.UserID)
	util.CallSuccessOK(c, patient)
}

// DeletePatient godoc
// @Summary      Delete a patient
// @Description  Cascades to the patient's appointments and their prescriptions/tests, then the owning user
// @Tags         Patient
// @Produce      json
// @Param        id path int true "Patient ID"
// @Success      200 {object} map[string]string "Confirmation"
// @Failure      404 {object} util.APIError "Not found"
// @Failure      500 {object} util.APIError "Server error"
// @Router       /patients/{id} [delete]
func DeletePatient(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	db := getDBOrAbort(c)
	if db == nil {
		return
	}
	if err := model.CascadeDeletePatient(db, id); err != nil {
		respondMutationError(c, err, "Patient")
		return
	}
	util.LogAuditEvent(util.AuditEvent{
		EventType: util.EventPatientCascade,
		IP:        c.ClientIP(),
		Message:   fmt.Sprintf("patient %d deleted with dependents", id),
		Details:   map[string]interface{}{"patient_id": id},
	})
	util.CallDeleted(c, "Patient deleted successfully")
}
