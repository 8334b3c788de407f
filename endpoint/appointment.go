package endpoint

import (
	"fmt"
	"time"

	"github.com/clinicbook/clinic-server/config"
	"github.com/clinicbook/clinic-server/model"
	"github.com/clinicbook/clinic-server/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// PrescriptionInput is an inline prescription supplied with a mutation.
type PrescriptionInput struct {
	Medication   string `json:"medication" example:"Amoxicillin"`
	Dosage       string `json:"dosage" example:"500mg twice daily"`
	Instructions string `json:"instructions,omitempty" example:"Take with food"`
}

// MedicalTestInput is an inline medical test supplied with a mutation.
type MedicalTestInput struct {
	TestType      string  `json:"testType" example:"ECG"`
	Results       string  `json:"results,omitempty"`
	DatePerformed *string `json:"datePerformed,omitempty" example:"2025-06-02T15:00:00Z"`
}

// AppointmentRequest is the mutation payload for appointments. All fields
// are optional on update; patientId is required on create.
type AppointmentRequest struct {
	PatientID            *uint                    `json:"patientId,omitempty" example:"1"`
	DoctorID             *uint                    `json:"doctorId,omitempty" example:"2"`
	AmbulanceID          *uint                    `json:"ambulanceId,omitempty" example:"3"`
	DateTime             *string                  `json:"dateTime,omitempty" example:"2025-06-02T15:15:00Z"`
	Condition            *string                  `json:"condition,omitempty" example:"Chest pain"`
	Description          *string                  `json:"description,omitempty"`
	Specialization       *string                  `json:"specialization,omitempty" example:"Cardiology"`
	Status               *model.AppointmentStatus `json:"status,omitempty" example:"PENDING"`
	Comments             *string                  `json:"comments,omitempty"`
	RelatedAppointmentID *uint                    `json:"relatedAppointmentId,omitempty" example:"7"`
	Prescriptions        []PrescriptionInput      `json:"prescriptions,omitempty"`
	Tests                []MedicalTestInput       `json:"tests,omitempty"`
}

// validate shape-checks the payload before any store access. requireCreate
// adds the create-only constraints.
func (req *AppointmentRequest) validate(requireCreate bool) []util.FieldError {
	var details []util.FieldError
	if requireCreate && (req.PatientID == nil || *req.PatientID == 0) {
		details = append(details, util.FieldError{Path: "patientId", Message: "patientId is required"})
	}
	if req.DateTime != nil {
		if _, err := time.Parse(time.RFC3339, *req.DateTime); err != nil {
			details = append(details, util.FieldError{Path: "dateTime", Message: "must be an RFC 3339 timestamp"})
		}
	}
	if req.Status != nil && !model.ValidStatus(*req.Status) {
		details = append(details, util.FieldError{Path: "status", Message: "unknown status"})
	}
	for i, p := range req.Prescriptions {
		if p.Medication == "" || p.Dosage == "" {
			details = append(details, util.FieldError{
				Path:    fmt.Sprintf("prescriptions[%d]", i),
				Message: "medication and dosage are required",
			})
		}
	}
	for i, tst := range req.Tests {
		if tst.TestType == "" {
			details = append(details, util.FieldError{
				Path:    fmt.Sprintf("tests[%d]", i),
				Message: "testType is required",
			})
		}
		if tst.DatePerformed != nil {
			if _, err := time.Parse(time.RFC3339, *tst.DatePerformed); err != nil {
				details = append(details, util.FieldError{
					Path:    fmt.Sprintf("tests[%d].datePerformed", i),
					Message: "must be an RFC 3339 timestamp",
				})
			}
		}
	}
	return details
}

func (req *AppointmentRequest) parsedDateTime() *time.Time {
	if req.DateTime == nil {
		return nil
	}
	t, err := time.Parse(time.RFC3339, *req.DateTime)
	if err != nil {
		return nil
	}
	return &t
}

// transitionPolicy selects the status validation mode from configuration.
func transitionPolicy() model.TransitionPolicy {
	mode := model.TransitionsUnenforced
	if cfg := config.LoadConfig(); cfg != nil && cfg.StatusEnforcement == string(model.TransitionsEnforced) {
		mode = model.TransitionsEnforced
	}
	return model.TransitionPolicy{Mode: mode}
}

// checkReferences validates every foreign id carried by the request.
func checkReferences(tx *gorm.DB, req *AppointmentRequest) error {
	if req.PatientID != nil {
		if err := ensureExists(tx, &model.Patient{}, "patientId", *req.PatientID); err != nil {
			return err
		}
	}
	if req.DoctorID != nil {
		if err := ensureExists(tx, &model.Doctor{}, "doctorId", *req.DoctorID); err != nil {
			return err
		}
	}
	if req.AmbulanceID != nil {
		if err := ensureExists(tx, &model.Ambulance{}, "ambulanceId", *req.AmbulanceID); err != nil {
			return err
		}
	}
	return nil
}

// createChildRows persists inline prescriptions and tests as owned child
// entities inside the caller's transaction. Child rows are the canonical
// representation; there is no raw string-array form.
func createChildRows(tx *gorm.DB, appointmentID uint, req *AppointmentRequest) error {
	for _, p := range req.Prescriptions {
		row := model.Prescription{
			AppointmentID: appointmentID,
			Medication:    p.Medication,
			Dosage:        p.Dosage,
			Instructions:  p.Instructions,
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
	}
	for _, t := range req.Tests {
		performed := time.Now()
		if t.DatePerformed != nil {
			if parsed, err := time.Parse(time.RFC3339, *t.DatePerformed); err == nil {
				performed = parsed
			}
		}
		row := model.MedicalTest{
			AppointmentID: appointmentID,
			TestType:      t.TestType,
			Results:       t.Results,
			DatePerformed: performed,
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
	}
	return nil
}

// loadAppointmentView fetches an appointment with every relation the read
// contract includes, plus its related appointment ids.
func loadAppointmentView(db *gorm.DB, id uint) (*model.Appointment, error) {
	var appointment model.Appointment
	err := db.
		Preload("Patient.User").
		Preload("Doctor.User").
		Preload("Ambulance.User").
		Preload("Prescriptions").
		Preload("Tests").
		First(&appointment, id).Error
	if err != nil {
		return nil, err
	}
	related, err := model.RelatedAppointmentIDs(db, appointment.ID)
	if err != nil {
		return nil, err
	}
	appointment.RelatedAppointmentIDs = related
	return &appointment, nil
}

func invalidateDoctorSchedule(doctorID *uint) {
	if doctorID != nil {
		util.ScheduleCacheInvalidate(*doctorID)
	}
}

// GetAppointment godoc
// @Summary      Get an appointment
// @Description  Fetch a single appointment with patient, doctor, ambulance, prescriptions, tests, and related appointment ids
// @Tags         Appointment
// @Produce      json
// @Param        id path int true "Appointment ID"
// @Success      200 {object} model.Appointment "Appointment"
// @Failure      404 {object} util.APIError "Not found"
// @Failure      500 {object} util.APIError "Server error"
// @Router       /appointments/{id} [get]
func GetAppointment(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	db := getDBOrAbort(c)
	if db == nil {
		return
	}
	appointment, err := loadAppointmentView(db, id)
	if err != nil {
		respondMutationError(c, err, "Appointment")
		return
	}
	util.CallSuccessOK(c, appointment)
}

// ListAppointments godoc
// @Summary      List appointments
// @Description  Paginated appointment list with optional status filter and condition/description search
// @Tags         Appointment
// @Produce      json
// @Param        page query int false "Page number"
// @Param        limit query int false "Page size"
// @Param        search query string false "Search in condition and description"
// @Param        status query string false "Filter by status"
// @Success      200 {object} map[string]interface{} "items + pagination"
// @Failure      500 {object} util.APIError "Server error"
// @Router       /appointments [get]
func ListAppointments(c *gin.Context) {
	db := getDBOrAbort(c)
	if db == nil {
		return
	}
	q := parsePageQuery(c)

	query := db.Model(&model.Appointment{})
	if q.Status != "" {
		query = query.Where("status = ?", q.Status)
	}
	if q.Search != "" {
		kw := "%" + q.Search + "%"
		// CONDITION is a reserved word in MySQL, so the column is quoted.
		query = query.Where("`condition` LIKE ? OR description LIKE ?", kw, kw)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to count appointments", Err: err})
		return
	}

	var appointments []model.Appointment
	err := query.
		Preload("Patient.User").
		Order("appointments.id").
		Limit(q.Limit).Offset(q.offset()).
		Find(&appointments).Error
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to fetch appointments", Err: err})
		return
	}
	util.CallSuccessOK(c, pageResponse(appointments, q, total))
}

// ListUnscheduledAppointments godoc
// @Summary      List unscheduled appointments
// @Description  Appointments without a date/time; these never appear in the weekly view
// @Tags         Appointment
// @Produce      json
// @Success      200 {object} map[string]interface{} "items + pagination"
// @Failure      500 {object} util.APIError "Server error"
// @Router       /appointments/unscheduled [get]
func ListUnscheduledAppointments(c *gin.Context) {
	db := getDBOrAbort(c)
	if db == nil {
		return
	}
	q := parsePageQuery(c)

	query := db.Model(&model.Appointment{}).Where("date_time IS NULL")
	var total int64
	if err := query.Count(&total).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to count appointments", Err: err})
		return
	}
	var appointments []model.Appointment
	err := query.
		Preload("Patient.User").
		Order("appointments.id").
		Limit(q.Limit).Offset(q.offset()).
		Find(&appointments).Error
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to fetch appointments", Err: err})
		return
	}
	util.CallSuccessOK(c, pageResponse(appointments, q, total))
}

// CreateAppointment godoc
// @Summary      Create an appointment
// @Description  Create an appointment for an existing patient; inline prescriptions/tests become child rows
// @Tags         Appointment
// @Accept       json
// @Produce      json
// @Param        appointment body AppointmentRequest true "Appointment payload"
// @Success      201 {object} model.Appointment "Created appointment"
// @Failure      400 {object} util.APIError "Validation failed"
// @Failure      404 {object} util.APIError "Referenced entity missing"
// @Failure      500 {object} util.APIError "Server error"
// @Router       /appointments [post]
func CreateAppointment(c *gin.Context) {
	var req AppointmentRequest
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

	status := model.StatusNew
	if req.Status != nil {
		status = *req.Status
	}
	appointment := model.Appointment{
		PatientID:   *req.PatientID,
		DoctorID:    req.DoctorID,
		AmbulanceID: req.AmbulanceID,
		DateTime:    req.parsedDateTime(),
		Status:      status,
	}
	if req.Condition != nil {
		appointment.Condition = *req.Condition
	}
	if req.Description != nil {
		appointment.Description = *req.Description
	}
	if req.Specialization != nil {
		appointment.Specialization = *req.Specialization
	}
	if req.Comments != nil {
		appointment.Comments = *req.Comments
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := checkReferences(tx, &req); err != nil {
			return err
		}
		if err := tx.Create(&appointment).Error; err != nil {
			return err
		}
		if err := createChildRows(tx, appointment.ID, &req); err != nil {
			return err
		}
		if req.RelatedAppointmentID != nil {
			if err := model.LinkAppointments(tx, appointment.ID, *req.RelatedAppointmentID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		respondMutationError(c, err, "Appointment")
		return
	}

	invalidateDoctorSchedule(appointment.DoctorID)
	util.LogAuditEvent(util.AuditEvent{
		EventType: util.EventAppointmentCreated,
		IP:        c.ClientIP(),
		Message:   fmt.Sprintf("appointment %d created for patient %d", appointment.ID, appointment.PatientID),
		Details:   map[string]interface{}{"appointment_id": appointment.ID, "status": appointment.Status},
	})

	view, err := loadAppointmentView(db, appointment.ID)
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to reload appointment", Err: err})
		return
	}
	util.CallCreated(c, view)
}

// UpdateAppointment godoc
// @Summary      Update an appointment
// @Description  Partially update an appointment; returns the full record with all relations re-resolved
// @Tags         Appointment
// @Accept       json
// @Produce      json
// @Param        id path int true "Appointment ID"
// @Param        appointment body AppointmentRequest true "Fields to update"
// @Success      200 {object} model.Appointment "Updated appointment"
// @Failure      400 {object} util.APIError "Validation failed"
// @Failure      404 {object} util.APIError "Appointment or referenced entity missing"
// @Failure      500 {object} util.APIError "Server error"
// @Router       /appointments/{id} [put]
func UpdateAppointment(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req AppointmentRequest
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

	var previousDoctor *uint
	err := db.Transaction(func(tx *gorm.DB) error {
		var appointment model.Appointment
		if err := tx.First(&appointment, id).Error; err != nil {
			return err
		}
		previousDoctor = appointment.DoctorID

		if err := checkReferences(tx, &req); err != nil {
			return err
		}
		if req.Status != nil {
			if err := transitionPolicy().Validate(appointment.Status, *req.Status); err != nil {
				return err
			}
			appointment.Status = *req.Status
		}
		if req.PatientID != nil {
			appointment.PatientID = *req.PatientID
		}
		if req.DoctorID != nil {
			appointment.DoctorID = req.DoctorID
		}
		if req.AmbulanceID != nil {
			appointment.AmbulanceID = req.AmbulanceID
		}
		if req.DateTime != nil {
			appointment.DateTime = req.parsedDateTime()
		}
		if req.Condition != nil {
			appointment.Condition = *req.Condition
		}
		if req.Description != nil {
			appointment.Description = *req.Description
		}
		if req.Specialization != nil {
			appointment.Specialization = *req.Specialization
		}
		if req.Comments != nil {
			appointment.Comments = *req.Comments
		}
		if err := tx.Save(&appointment).Error; err != nil {
			return err
		}
		if err := createChildRows(tx, appointment.ID, &req); err != nil {
			return err
		}
		if req.RelatedAppointmentID != nil {
			if err := model.LinkAppointments(tx, appointment.ID, *req.RelatedAppointmentID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		respondMutationError(c, err, "Appointment")
		return
	}

	invalidateDoctorSchedule(previousDoctor)
	invalidateDoctorSchedule(req.DoctorID)
	util.LogAuditEvent(util.AuditEvent{
		EventType: util.EventAppointmentUpdated,
		IP:        c.ClientIP(),
		Message:   fmt.Sprintf("appointment %d updated", id),
		Details:   map[string]interface{}{"appointment_id": id},
	})

	view, err := loadAppointmentView(db, id)
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to reload appointment", Err: err})
		return
	}
	util.CallSuccessOK(c, view)
}

// DeleteAppointment godoc
// @Summary      Delete an appointment
// @Description  Removes the appointment with its prescriptions and tests, disconnecting follow-up links first
// @Tags         Appointment
// @Produce      json
// @Param        id path int true "Appointment ID"
// @Success      200 {object} map[string]string "Confirmation"
// @Failure      404 {object} util.APIError "Not found"
// @Failure      500 {object} util.APIError "Server error"
// @Router       /appointments/{id} [delete]
func DeleteAppointment(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	db := getDBOrAbort(c)
	if db == nil {
		return
	}

	var appointment model.Appointment
	if err := db.First(&appointment, id).Error; err != nil {
		respondMutationError(c, err, "Appointment")
		return
	}
	if err := model.DeleteAppointmentCascade(db, id); err != nil {
		respondMutationError(c, err, "Appointment")
		return
	}

	invalidateDoctorSchedule(appointment.DoctorID)
	util.LogAuditEvent(util.AuditEvent{
		EventType: util.EventAppointmentDeleted,
		IP:        c.ClientIP(),
		Message:   fmt.Sprintf("appointment %d deleted", id),
		Details:   map[string]interface{}{"appointment_id": id},
	})
	util.CallDeleted(c, "Appointment deleted successfully")
}
