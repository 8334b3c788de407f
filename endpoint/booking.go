package endpoint

import (
	"fmt"
	"time"

	"github.com/clinicbook/clinic-server/model"
	"github.com/clinicbook/clinic-server/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// BookingRequest registers a new patient and their first appointment in one
// call. Both writes share a transaction, so a failed appointment insert can
// never leave an orphan patient behind.
type BookingRequest struct {
	Email          string  `json:"email" example:"jane@example.com"`
	Password       string  `json:"password" example:"secret123"`
	Name           string  `json:"name" example:"Jane Doe"`
	Age            *int    `json:"age,omitempty" example:"42"`
	Gender         *string `json:"gender,omitempty" example:"female"`
	DateTime       *string `json:"dateTime,omitempty" example:"2025-06-02T15:15:00Z"`
	Condition      string  `json:"condition,omitempty" example:"Chest pain"`
	Description    string  `json:"description,omitempty"`
	Specialization string  `json:"specialization,omitempty" example:"Cardiology"`
	DoctorID       *uint   `json:"doctorId,omitempty" example:"2"`
}

func (req *BookingRequest) validate() []util.FieldError {
	var details []util.FieldError
	if req.Email == "" {
		details = append(details, util.FieldError{Path: "email", Message: "email is required"})
	}
	if req.Password == "" {
		details = append(details, util.FieldError{Path: "password", Message: "password is required"})
	}
	if req.Name == "" {
		details = append(details, util.FieldError{Path: "name", Message: "name is required"})
	}
	if req.Age != nil && (*req.Age < 0 || *req.Age > 150) {
		details = append(details, util.FieldError{Path: "age", Message: "age must be between 0 and 150"})
	}
	if req.DateTime != nil {
		if _, err := time.Parse(time.RFC3339, *req.DateTime); err != nil {
			details = append(details, util.FieldError{Path: "dateTime", Message: "must be an RFC 3339 timestamp"})
		}
	}
	return details
}

// BookAppointment godoc
// @Summary      Book a first appointment
// @Description  Registers a patient account and creates their first appointment atomically
// @Tags         Booking
// @Accept       json
// @Produce      json
// @Param        booking body BookingRequest true "Booking payload"
// @Success      201 {object} map[string]interface{} "patient + appointment"
// @Failure      400 {object} util.APIError "Validation failed"
// @Failure      404 {object} util.APIError "Referenced doctor missing"
// @Failure      409 {object} util.APIError "Email already exists"
// @Failure      500 {object} util.APIError "Server error"
// @Router       /appointments/book [post]
func BookAppointment(c *gin.Context) {
	var req BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.CallValidationError(c, []util.FieldError{{Path: "body", Message: "invalid JSON payload"}})
		return
	}
	if details := req.validate(); len(details) > 0 {
		util.CallValidationError(c, details)
		return
	}
	db := getDBOrAbort(c)
	if db == nil {
		return
	}

	var patient model.Patient
	var appointment model.Appointment
	err := db.Transaction(func(tx *gorm.DB) error {
		user, err := createOwnedUser(tx, req.Email, req.Password, req.Name, model.RolePatient)
		if err != nil {
			return err
		}
		patient = model.Patient{UserID: user.ID, Age: req.Age}
		if req.Gender != nil {
			patient.Gender = *req.Gender
		}
		if err := tx.Create(&patient).Error; err != nil {
			return err
		}
		if req.DoctorID != nil {
			if err := ensureExists(tx, &model.Doctor{}, "doctorId", *req.DoctorID); err != nil {
				return err
			}
		}
		appointment = model.Appointment{
			PatientID:      patient.ID,
			DoctorID:       req.DoctorID,
			Condition:      req.Condition,
			Description:    req.Description,
			Specialization: req.Specialization,
			Status:         model.StatusNew,
		}
		if req.DateTime != nil {
			if t, err := time.Parse(time.RFC3339, *req.DateTime); err == nil {
				appointment.DateTime = &t
			}
		}
		return tx.Create(&appointment).Error
	})
	if err != nil {
		respondMutationError(c, err, "Booking")
		return
	}

	invalidateDoctorSchedule(appointment.DoctorID)
	util.LogAuditEvent(util.AuditEvent{
		EventType: util.EventBookingCompleted,
		IP:        c.ClientIP(),
		Message:   fmt.Sprintf("patient %d booked appointment %d", patient.ID, appointment.ID),
		Details:   map[string]interface{}{"patient_id": patient.ID, "appointment_id": appointment.ID},
	})

	view, err := loadAppointmentView(db, appointment.ID)
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to reload appointment", Err: err})
		return
	}
	util.CallCreated(c, gin.H{"patient": view.Patient, "appointment": view})
}
