package endpoint

import (
	"errors"
	"fmt"
	"time"

	"github.com/clinicbook/clinic-server/model"
	"github.com/clinicbook/clinic-server/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AmbulanceRequest is the mutation payload for ambulance unit profiles.
type AmbulanceRequest struct {
	Email     string                 `json:"email" example:"unit7@example.com"`
	Password  string                 `json:"password" example:"secret123"`
	Name      string                 `json:"name" example:"Unit 7"`
	Latitude  *float64               `json:"latitude,omitempty" example:"52.2297"`
	Longitude *float64               `json:"longitude,omitempty" example:"21.0122"`
	Status    *model.AmbulanceStatus `json:"status,omitempty" example:"AVAILABLE"`
}

func (req *AmbulanceRequest) validate(requireCreate bool) []util.FieldError {
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
	if req.Status != nil && !model.ValidAmbulanceStatus(*req.Status) {
		details = append(details, util.FieldError{Path: "status", Message: "unknown ambulance status"})
	}
	if (req.Latitude == nil) != (req.Longitude == nil) {
		details = append(details, util.FieldError{Path: "latitude", Message: "latitude and longitude must be supplied together"})
	}
	return details
}

// CreateAmbulance godoc
// @Summary      Create an ambulance unit
// @Description  Provision an ambulance profile together with its owning user account in one transaction
// @Tags         Ambulance
// @Accept       json
// @Produce      json
// @Param        ambulance body AmbulanceRequest true "Ambulance payload"
// @Success      201 {object} model.Ambulance "Created ambulance"
// @Failure      400 {object} util.APIError "Validation failed"
// @Failure      409 {object} util.APIError "Email already exists"
// @Failure      500 {object} util.APIError "Server error"
// @Router       /ambulances [post]
func CreateAmbulance(c *gin.Context) {
	var req AmbulanceRequest
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

	var ambulance model.Ambulance
	err := db.Transaction(func(tx *gorm.DB) error {
		user, err := createOwnedUser(tx, req.Email, req.Password, req.Name, model.RoleAmbulance)
		if err != nil {
			return err
		}
		ambulance = model.Ambulance{
			UserID:    user.ID,
			Latitude:  req.Latitude,
			Longitude: req.Longitude,
			Status:    model.AmbulanceAvailable,
		}
		if req.Status != nil {
			ambulance.Status = *req.Status
		}
		return tx.Create(&ambulance).Error
	})
	if err != nil {
		respondMutationError(c, err, "Ambulance")
		return
	}

	if err := db.Preload("User").First(&ambulance, ambulance.ID).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to reload ambulance", Err: err})
		return
	}
	util.CallCreated(c, ambulance)
}

// GetAmbulance godoc
// @Summary      Get an ambulance unit
// @Tags         Ambulance
// @Produce      json
// @Param        id path int true "Ambulance ID"
// @Success      200 {object} model.Ambulance "Ambulance"
// @Failure      404 {object} util.APIError "Not found"
// @Failure      500 {object} util.APIError "Server error"
// @Router       /ambulances/{id} [get]
func GetAmbulance(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	db := getDBOrAbort(c)
	if db == nil {
		return
	}
	var ambulance model.Ambulance
	err := db.Preload("User").First(&ambulance, id).Error
	if err != nil {
		respondMutationError(c, err, "Ambulance")
		return
	}
	util.CallSuccessOK(c, ambulance)
}

// ListAmbulances godoc
// @Summary      List ambulance units
// @Description  Paginated ambulance list filtered by duty status and searched by unit name
// @Tags         Ambulance
// @Produce      json
// @Param        page query int false "Page number"
// @Param        limit query int false "Page size"
// @Param        search query string false "Search in unit name"
// @Param        status query string false "Filter by duty status"
// @Success      200 {object} map[string]interface{} "items + pagination"
// @Failure      500 {object} util.APIError "Server error"
// @Router       /ambulances [get]
func ListAmbulances(c *gin.Context) {
	db := getDBOrAbort(c)
	if db == nil {
		return
	}
	q := parsePageQuery(c)

	query := db.Model(&model.Ambulance{}).
		Joins("JOIN users ON users.id = ambulances.user_id")
	if q.Status != "" {
		query = query.Where("ambulances.status = ?", q.Status)
	}
	if q.Search != "" {
		query = query.Where("users.name LIKE ?", "%"+q.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to count ambulances", Err: err})
		return
	}
	var ambulances []model.Ambulance
	err := query.
		Preload("User").
		Order("ambulances.id").
		Limit(q.Limit).Offset(q.offset()).
		Find(&ambulances).Error
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to fetch ambulances", Err: err})
		return
	}
	util.CallSuccessOK(c, pageResponse(ambulances, q, total))
}

// UpdateAmbulanceLocation godoc
// @Summary      Update an ambulance's location and duty status
// @Tags         Ambulance
// @Accept       json
// @Produce      json
// @Param        id path int true "Ambulance ID"
// @Param        ambulance body AmbulanceRequest true "Location/status fields"
// @Success      200 {object} model.Ambulance "Updated ambulance"
// @Failure      400 {object} util.APIError "Validation failed"
// @Failure      404 {object} util.APIError "Not found"
// @Failure      500 {object} util.APIError "Server error"
// @Router       /ambulances/{id}/location [patch]
func UpdateAmbulanceLocation(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req AmbulanceRequest
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

	var ambulance model.Ambulance
	if err := db.First(&ambulance, id).Error; err != nil {
		respondMutationError(c, err, "Ambulance")
		return
	}
	if req.Latitude != nil {
		ambulance.Latitude = req.Latitude
		ambulance.Longitude = req.Longitude
	}
	if req.Status != nil {
		ambulance.Status = *req.Status
	}
	if err := db.Save(&ambulance).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to update ambulance", Err: err})
		return
	}
	util.CallSuccessOK(c, ambulance)
}

// DeleteAmbulance godoc
// @Summary      Delete an ambulance unit
// @Description  Guarded cascade: refused while future non-canceled appointments reference the unit; otherwise its appointments are detached and canceled, not deleted
// @Tags         Ambulance
// @Produce      json
// @Param        id path int true "Ambulance ID"
// @Success      200 {object} map[string]string "Confirmation"
// @Failure      400 {object} util.APIError "Future appointments exist"
// @Failure      404 {object} util.APIError "Not found"
// @Failure      500 {object} util.APIError "Server error"
// @Router       /ambulances/{id} [delete]
func DeleteAmbulance(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	db := getDBOrAbort(c)
	if db == nil {
		return
	}
	if err := model.CascadeDeleteAmbulance(db, id, time.Now()); err != nil {
		// Guard refusals are audited; they are a deliberate policy outcome.
		var futureErr *model.FutureAppointmentsError
		if errors.As(err, &futureErr) {
			util.LogAuditEvent(util.AuditEvent{
				EventType: util.EventAmbulanceRefused,
				IP:        c.ClientIP(),
				Message:   fmt.Sprintf("ambulance %d delete refused", id),
				Details:   map[string]interface{}{"ambulance_id": id, "future_appointments": futureErr.Count},
			})
		}
		respondMutationError(c, err, "Ambulance")
		return
	}
	util.LogAuditEvent(util.AuditEvent{
		EventType: util.EventAmbulanceCascade,
		IP:        c.ClientIP(),
		Message:   fmt.Sprintf("ambulance %d deleted, appointments canceled", id),
		Details:   map[string]interface{}{"ambulance_id": id},
	})
	util.CallDeleted(c, "Ambulance deleted successfully")
}
