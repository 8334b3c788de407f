package endpoint

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/clinicbook/clinic-server/middleware"
	"github.com/clinicbook/clinic-server/model"
	"github.com/clinicbook/clinic-server/util"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	os.Setenv("APPENV", "test")
	os.Setenv("JWTSECRET", "endpoint-test-secret")
	util.SetJWTSecret("endpoint-test-secret")
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func setupTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:endpointdb_%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(model.AllModels()...); err != nil {
		t.Fatalf("failed to auto-migrate models: %v", err)
	}
	return db
}

// newTestRouter wires the API routes the way main does, minus the rate
// limiter and endpoint logger.
func newTestRouter(db *gorm.DB) *gin.Engine {
	router := gin.New()
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.DatabaseMiddleware(db))

	router.GET("/appointments", ListAppointments)
	router.POST("/appointments", CreateAppointment)
	router.GET("/appointments/unscheduled", ListUnscheduledAppointments)
	router.POST("/appointments/book", BookAppointment)
	router.GET("/appointments/:id", GetAppointment)
	router.PUT("/appointments/:id", UpdateAppointment)
	router.DELETE("/appointments/:id", DeleteAppointment)

	router.GET("/patients", ListPatients)
	router.POST("/patients", CreatePatient)
	router.GET("/patients/:id", GetPatient)
	router.PUT("/patients/:id", UpdatePatient)
	router.DELETE("/patients/:id", DeletePatient)

	router.GET("/doctors", ListDoctors)
	router.POST("/doctors", CreateDoctor)
	router.GET("/doctors/schedule", middleware.SessionAuth(), GetMySchedule)
	router.GET("/doctors/:id", GetDoctor)
	router.PUT("/doctors/:id", UpdateDoctor)
	router.DELETE("/doctors/:id", DeleteDoctor)
	router.GET("/doctors/:id/schedule", GetDoctorSchedule)
	router.GET("/doctors/:id/ratings", ListDoctorRatings)

	router.GET("/ambulances", ListAmbulances)
	router.POST("/ambulances", CreateAmbulance)
	router.GET("/ambulances/:id", GetAmbulance)
	router.PATCH("/ambulances/:id/location", UpdateAmbulanceLocation)
	router.DELETE("/ambulances/:id", DeleteAmbulance)

	router.POST("/ratings", CreateRating)

	router.GET("/triage/:sessionId", GetTriageSession)
	router.POST("/triage/:sessionId", PostTriageMessage)

	return router
}

func performRequest(router *gin.Engine, method, path string, body interface{}, headers ...map[string]string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, h := range headers {
		for k, v := range h {
			req.Header.Set(k, v)
		}
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

var fixtureSeq int

func uniqueEmail(prefix string) string {
	fixtureSeq++
	return fmt.Sprintf("%s%d_%d@test.com", prefix, time.Now().UnixNano(), fixtureSeq)
}

func seedUser(t *testing.T, db *gorm.DB, role model.Role, name string) model.User {
	t.Helper()
	user := model.User{
		Email:    uniqueEmail("user"),
		Password: util.HashPassword("secret123"),
		Name:     name,
		Role:     role,
	}
	assert.NoError(t, db.Create(&user).Error)
	return user
}

func seedPatient(t *testing.T, db *gorm.DB) model.Patient {
	t.Helper()
	user := seedUser(t, db, model.RolePatient, "Seed Patient")
	age := 30
	patient := model.Patient{UserID: user.ID, Age: &age, Gender: "female"}
	assert.NoError(t, db.Create(&patient).Error)
	patient.User = user
	return patient
}

func seedDoctor(t *testing.T, db *gorm.DB) model.Doctor {
	t.Helper()
	user := seedUser(t, db, model.RoleDoctor, "Seed Doctor")
	doctor := model.Doctor{UserID: user.ID, Specialization: "Cardiology", License: "MD-1000"}
	assert.NoError(t, db.Create(&doctor).Error)
	doctor.User = user
	return doctor
}

func seedAmbulance(t *testing.T, db *gorm.DB) model.Ambulance {
	t.Helper()
	user := seedUser(t, db, model.RoleAmbulance, "Seed Unit")
	ambulance := model.Ambulance{UserID: user.ID, Status: model.AmbulanceAvailable}
	assert.NoError(t, db.Create(&ambulance).Error)
	ambulance.User = user
	return ambulance
}

func seedAppointment(t *testing.T, db *gorm.DB, patientID uint, mutate func(*model.Appointment)) model.Appointment {
	t.Helper()
	appointment := model.Appointment{PatientID: patientID, Status: model.StatusNew}
	if mutate != nil {
		mutate(&appointment)
	}
	assert.NoError(t, db.Create(&appointment).Error)
	return appointment
}

func countRows(t *testing.T, db *gorm.DB, value interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var count int64
	q := db.Model(value)
	if query != "" {
		q = q.Where(query, args...)
	}
	assert.NoError(t, q.Count(&count).Error)
	return count
}

func mustParseTime(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	assert.NoError(t, err)
	return parsed
}

func strPtr(s string) *string { return &s }

func uintPtr(u uint) *uint { return &u }
