package endpoint

import (
	"net/http"
	"testing"

	"github.com/clinicbook/clinic-server/model"
	"github.com/stretchr/testify/assert"
)

func TestBookAppointment(t *testing.T) {
	db := setupTestDB(t, "booking")
	router := newTestRouter(db)
	doctor := seedDoctor(t, db)

	w := performRequest(router, http.MethodPost, "/appointments/book", map[string]interface{}{
		"email":     uniqueEmail("jane"),
		"password":  "secret123",
		"name":      "Jane Doe",
		"age":       42,
		"gender":    "female",
		"dateTime":  "2025-06-02T15:15:00Z",
		"condition": "Chest pain",
		"doctorId":  doctor.ID,
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	body := decodeBody(t, w)

	appointment := body["appointment"].(map[string]interface{})
	assert.Equal(t, "NEW", appointment["status"])
	assert.Equal(t, "Chest pain", appointment["condition"])
	assert.Equal(t, float64(doctor.ID), appointment["doctorId"])

	patient := body["patient"].(map[string]interface{})
	assert.Equal(t, float64(42), patient["age"])

	assert.Equal(t, int64(1), countRows(t, db, &model.Patient{}, ""))
	assert.Equal(t, int64(1), countRows(t, db, &model.Appointment{}, ""))
}

func TestBookAppointmentMissingDoctorIsAtomic(t *testing.T) {
	db := setupTestDB(t, "booking_atomic")
	router := newTestRouter(db)

	w := performRequest(router, http.MethodPost, "/appointments/book", map[string]interface{}{
		"email":    uniqueEmail("jane"),
		"password": "secret123",
		"name":     "Jane Doe",
		"doctorId": 9999,
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Referenced doctorId does not exist", decodeBody(t, w)["error"])

	// The failed appointment insert rolled back the patient and user too.
	assert.Equal(t, int64(0), countRows(t, db, &model.Patient{}, ""))
	assert.Equal(t, int64(0), countRows(t, db, &model.User{}, ""))
	assert.Equal(t, int64(0), countRows(t, db, &model.Appointment{}, ""))
}

func TestBookAppointmentDuplicateEmail(t *testing.T) {
	db := setupTestDB(t, "booking_dup")
	router := newTestRouter(db)
	existing := seedPatient(t, db)

	w := performRequest(router, http.MethodPost, "/appointments/book", map[string]interface{}{
		"email":    existing.User.Email,
		"password": "secret123",
		"name":     "Jane Doe",
	})

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, int64(1), countRows(t, db, &model.Patient{}, ""))
}

func TestBookAppointmentValidation(t *testing.T) {
	db := setupTestDB(t, "booking_validation")
	router := newTestRouter(db)

	w := performRequest(router, http.MethodPost, "/appointments/book", map[string]interface{}{
		"email": "",
		"age":   200,
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Validation failed", body["error"])
	details := body["details"].([]interface{})
	paths := make([]string, 0, len(details))
	for _, d := range details {
		paths = append(paths, d.(map[string]interface{})["path"].(string))
	}
	assert.Contains(t, paths, "email")
	assert.Contains(t, paths, "password")
	assert.Contains(t, paths, "name")
	assert.Contains(t, paths, "age")
}
