package model

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

var userSeq uint64

func createTestUser(t *testing.T, db *gorm.DB, role Role) User {
	t.Helper()
	user := User{
		Email:    fmt.Sprintf("user%d@test.com", atomic.AddUint64(&userSeq, 1)),
		Password: "hashed",
		Name:     "Test User",
		Role:     role,
	}
	assert.NoError(t, db.Create(&user).Error)
	return user
}

func createTestPatient(t *testing.T, db *gorm.DB) Patient {
	t.Helper()
	user := createTestUser(t, db, RolePatient)
	age := 42
	patient := Patient{UserID: user.ID, Age: &age, Gender: "female"}
	assert.NoError(t, db.Create(&patient).Error)
	patient.User = user
	return patient
}

func createTestDoctor(t *testing.T, db *gorm.DB) Doctor {
	t.Helper()
	user := createTestUser(t, db, RoleDoctor)
	doctor := Doctor{UserID: user.ID, Specialization: "Cardiology", License: "MD-1"}
	assert.NoError(t, db.Create(&doctor).Error)
	doctor.User = user
	return doctor
}

func createTestAmbulance(t *testing.T, db *gorm.DB) Ambulance {
	t.Helper()
	user := createTestUser(t, db, RoleAmbulance)
	ambulance := Ambulance{UserID: user.ID, Status: AmbulanceAvailable}
	assert.NoError(t, db.Create(&ambulance).Error)
	ambulance.User = user
	return ambulance
}

func createTestAppointment(t *testing.T, db *gorm.DB, patientID uint, mutate func(*Appointment)) Appointment {
	t.Helper()
	appointment := Appointment{PatientID: patientID, Status: StatusNew}
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
