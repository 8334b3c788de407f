package endpoint

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/clinicbook/clinic-server/model"
	"github.com/stretchr/testify/assert"
)

func TestCreateRatingForDoctor(t *testing.T) {
	db := setupTestDB(t, "rating_create")
	router := newTestRouter(db)
	doctor := seedDoctor(t, db)

	w := performRequest(router, http.MethodPost, "/ratings", map[string]interface{}{
		"doctorId": doctor.ID,
		"stars":    5,
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, int64(1), countRows(t, db, &model.Rating{}, "doctor_id = ?", doctor.ID))
}

func TestCreateRatingStarsOutOfRange(t *testing.T) {
	db := setupTestDB(t, "rating_stars")
	router := newTestRouter(db)
	doctor := seedDoctor(t, db)

	w := performRequest(router, http.MethodPost, "/ratings", map[string]interface{}{
		"doctorId": doctor.ID,
		"stars":    6,
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Validation failed", body["error"])
	detail := body["details"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "stars", detail["path"])
}

func TestCreateRatingBothTargets(t *testing.T) {
	db := setupTestDB(t, "rating_targets")
	router := newTestRouter(db)
	doctor := seedDoctor(t, db)
	ambulance := seedAmbulance(t, db)

	w := performRequest(router, http.MethodPost, "/ratings", map[string]interface{}{
		"doctorId":    doctor.ID,
		"ambulanceId": ambulance.ID,
		"stars":       3,
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, int64(0), countRows(t, db, &model.Rating{}, ""))
}

func TestCreateRatingMissingDoctor(t *testing.T) {
	db := setupTestDB(t, "rating_missing")
	router := newTestRouter(db)

	w := performRequest(router, http.MethodPost, "/ratings", map[string]interface{}{
		"doctorId": 9999,
		"stars":    4,
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Referenced doctorId does not exist", decodeBody(t, w)["error"])
}

func TestListDoctorRatingsAverage(t *testing.T) {
	db := setupTestDB(t, "rating_average")
	router := newTestRouter(db)
	doctor := seedDoctor(t, db)
	for _, stars := range []int{3, 4, 5} {
		assert.NoError(t, db.Create(&model.Rating{DoctorID: &doctor.ID, Stars: stars}).Error)
	}

	w := performRequest(router, http.MethodGet, fmt.Sprintf("/doctors/%d/ratings", doctor.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Len(t, body["items"].([]interface{}), 3)
	assert.Equal(t, float64(4), body["average"])
}
