package model

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Cascade policies. Each owning entity has its own named delete policy
// rather than one shared routine: doctors cascade unconditionally, ambulance
// deletion is guarded and cancels instead of deleting, patients cascade like
// doctors. Every policy runs inside a single transaction so a half-cascaded
// store is never observable.

// FutureAppointmentsError blocks ambulance deletion while upcoming
// non-canceled appointments still reference the unit.
type FutureAppointmentsError struct {
	Count int64
}

func (e *FutureAppointmentsError) Error() string {
	return fmt.Sprintf("ambulance has %d future non-canceled appointment(s)", e.Count)
}

func (e *FutureAppointmentsError) Unwrap() error { return ErrAmbulanceInService }

func appointmentIDs(tx *gorm.DB, column string, ownerID uint) ([]uint, error) {
	var ids []uint
	err := tx.Model(&Appointment{}).Where(column+" = ?", ownerID).Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// deleteAppointmentDependents removes prescriptions, tests, and relation rows
// for the given appointment ids inside the caller's transaction.
func deleteAppointmentDependents(tx *gorm.DB, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	if err := tx.Where("appointment_id IN ?", ids).Delete(&Prescription{}).Error; err != nil {
		return err
	}
	if err := tx.Where("appointment_id IN ?", ids).Delete(&MedicalTest{}).Error; err != nil {
		return err
	}
	return tx.Where("from_appointment_id IN ? OR to_appointment_id IN ?", ids, ids).
		Delete(&AppointmentRelation{}).Error
}

// DeleteAppointmentCascade removes an appointment together with its
// prescriptions and tests, disconnecting both directions of any follow-up
// links first. Returns gorm.ErrRecordNotFound for an unknown id.
func DeleteAppointmentCascade(db *gorm.DB, appointmentID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var appointment Appointment
		if err := tx.First(&appointment, appointmentID).Error; err != nil {
			return err
		}
		if err := deleteAppointmentDependents(tx, []uint{appointment.ID}); err != nil {
			return err
		}
		return tx.Delete(&appointment).Error
	})
}

// CascadeDeleteDoctor removes a doctor unconditionally: its ratings, the
// prescriptions and tests of its appointments, the appointments themselves,
// the doctor row, and finally the owning user row. There is no guard on
// future appointments.
func CascadeDeleteDoctor(db *gorm.DB, doctorID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var doctor Doctor
		if err := tx.First(&doctor, doctorID).Error; err != nil {
			return err
		}
		if err := tx.Where("doctor_id = ?", doctor.ID).Delete(&Rating{}).Error; err != nil {
			return err
		}
		ids, err := appointmentIDs(tx, "doctor_id", doctor.ID)
		if err != nil {
			return err
		}
		if err := deleteAppointmentDependents(tx, ids); err != nil {
			return err
		}
		if err := tx.Where("doctor_id = ?", doctor.ID).Delete(&Appointment{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&doctor).Error; err != nil {
			return err
		}
		return tx.Delete(&User{}, doctor.UserID).Error
	})
}

// CascadeDeleteAmbulance removes an ambulance unit, but only when no future
// non-canceled appointment still references it; otherwise it returns a
// FutureAppointmentsError and writes nothing. Appointments the unit served
// are kept for history: they are detached and marked CANCELED, not deleted.
func CascadeDeleteAmbulance(db *gorm.DB, ambulanceID uint, now time.Time) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var ambulance Ambulance
		if err := tx.First(&ambulance, ambulanceID).Error; err != nil {
			return err
		}
		var upcoming int64
		err := tx.Model(&Appointment{}).
			Where("ambulance_id = ? AND status <> ? AND date_time >= ?",
				ambulance.ID, StatusCanceled, now).
			Count(&upcoming).Error
		if err != nil {
			return err
		}
		if upcoming > 0 {
			return &FutureAppointmentsError{Count: upcoming}
		}
		err = tx.Model(&Appointment{}).
			Where("ambulance_id = ?", ambulance.ID).
			Updates(map[string]interface{}{"ambulance_id": nil, "status": StatusCanceled}).Error
		if err != nil {
			return err
		}
		if err := tx.Where("ambulance_id = ?", ambulance.ID).Delete(&Rating{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&ambulance).Error; err != nil {
			return err
		}
		return tx.Delete(&User{}, ambulance.UserID).Error
	})
}

// CascadeDeletePatient removes a patient with all of its appointments and
// their dependents, then the owning user row.
func CascadeDeletePatient(db *gorm.DB, patientID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var patient Patient
		if err := tx.First(&patient, patientID).Error; err != nil {
			return err
		}
		ids, err := appointmentIDs(tx, "patient_id", patient.ID)
		if err != nil {
			return err
		}
		if err := deleteAppointmentDependents(tx, ids); err != nil {
			return err
		}
		if err := tx.Where("patient_id = ?", patient.ID).Delete(&Appointment{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&patient).Error; err != nil {
			return err
		}
		return tx.Delete(&User{}, patient.UserID).Error
	})
}
