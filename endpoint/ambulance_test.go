package endpoint

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/clinicbook/clinic-server/model"
	"github.com/stretchr/testify/assert"
)

func TestCreateAmbulance(t *testing.T) {
	db := setupTestDB(t, "ambulance_create")
	router := newTestRouter(db)

	w := performRequest(router, http.MethodPost, "/ambulances", map[string]interface{}{
		"email":    uniqueEmail("unit"),
		"password": "secret123",
		"name":     "Unit 7",
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "AVAILABLE", body["status"])
	assert.Equal(t, int64(1), countRows(t, db, &model.Ambulance{}, ""))
	assert.Equal(t, int64(1), countRows(t, db, &model.User{}, "role = ?", model.RoleAmbulance))
}

func TestCreateAmbulanceUnpairedCoordinates(t *testing.T) {
	db := setupTestDB(t, "ambulance_unpaired")
	router := newTestRouter(db)

	w := performRequest(router, http.MethodPost, "/ambulances", map[string]interface{}{
		"email":    uniqueEmail("unit"),
		"password": "secret123",
		"name":     "Unit 8",
		"latitude": 52.2297,
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Validation failed", decodeBody(t, w)["error"])
	assert.Equal(t, int64(0), countRows(t, db, &model.Ambulance{}, ""))
}

func TestDeleteAmbulanceGuardedByFutureAppointments(t *testing.T) {
	db := setupTestDB(t, "ambulance_delete_guarded")
	router := newTestRouter(db)
	ambulance := seedAmbulance(t, db)
	patient := seedPatient(t, db)
	future := time.Now().Add(72 * time.Hour)
	appointment := seedAppointment(t, db, patient.ID, func(a *model.Appointment) {
		a.AmbulanceID = &ambulance.ID
		a.DateTime = &future
		a.Status = model.StatusPending
	})

	w := performRequest(router, http.MethodDelete, fmt.Sprintf("/ambulances/%d", ambulance.ID), nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Cannot delete: 1 future non-canceled appointment(s) reference this ambulance", body["error"])

	// The refused delete leaves everything in place.
	assert.Equal(t, int64(1), countRows(t, db, &model.Ambulance{}, "id = ?", ambulance.ID))
	var found model.Appointment
	assert.NoError(t, db.First(&found, appointment.ID).Error)
	assert.Equal(t, model.StatusPending, found.Status)
	assert.NotNil(t, found.AmbulanceID)
}

func TestDeleteAmbulanceCancelsServedAppointments(t *testing.T) {
	db := setupTestDB(t, "ambulance_delete_ok")
	router := newTestRouter(db)
	ambulance := seedAmbulance(t, db)
	patient := seedPatient(t, db)
	past := time.Now().Add(-72 * time.Hour)
	served := seedAppointment(t, db, patient.ID, func(a *model.Appointment) {
		a.AmbulanceID = &ambulance.ID
		a.DateTime = &past
		a.Status = model.StatusCompleted
	})

	w := performRequest(router, http.MethodDelete, fmt.Sprintf("/ambulances/%d", ambulance.ID), nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Ambulance deleted successfully", decodeBody(t, w)["message"])
	assert.Equal(t, int64(0), countRows(t, db, &model.Ambulance{}, "id = ?", ambulance.ID))

	var found model.Appointment
	assert.NoError(t, db.First(&found, served.ID).Error)
	assert.Nil(t, found.AmbulanceID)
	assert.Equal(t, model.StatusCanceled, found.Status)
}

func TestUpdateAmbulanceLocation(t *testing.T) {
	db := setupTestDB(t, "ambulance_location")
	router := newTestRouter(db)
	ambulance := seedAmbulance(t, db)

	w := performRequest(router, http.MethodPatch, fmt.Sprintf("/ambulances/%d/location", ambulance.ID), map[string]interface{}{
		"latitude":  52.2297,
		"longitude": 21.0122,
		"status":    "ON_DUTY",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	var found model.Ambulance
	assert.NoError(t, db.First(&found, ambulance.ID).Error)
	assert.Equal(t, model.AmbulanceOnDuty, found.Status)
	assert.NotNil(t, found.Latitude)
	assert.InDelta(t, 52.2297, *found.Latitude, 0.0001)
}

func TestListAmbulancesStatusFilter(t *testing.T) {
	db := setupTestDB(t, "ambulance_list")
	router := newTestRouter(db)
	seedAmbulance(t, db)
	busy := seedAmbulance(t, db)
	assert.NoError(t, db.Model(&model.Ambulance{}).Where("id = ?", busy.ID).
		Update("status", model.AmbulanceOnDuty).Error)

	w := performRequest(router, http.MethodGet, "/ambulances?status=ON_DUTY", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	items := body["items"].([]interface{})
	assert.Len(t, items, 1)
	pagination := body["pagination"].(map[string]interface{})
	assert.Equal(t, float64(1), pagination["total"])
}
