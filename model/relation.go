package model

import "gorm.io/gorm"

// AppointmentRelation is one direction of a follow-up/origin link between two
// appointments. Links are stored as plain (from, to) index rows rather than
// in-memory object references, so disconnect-on-delete is an indexed delete
// instead of a graph traversal. Rows are hard-deleted.
type AppointmentRelation struct {
	FromAppointmentID uint `json:"fromAppointmentId" gorm:"primaryKey;autoIncrement:false"`
	ToAppointmentID   uint `json:"toAppointmentId" gorm:"primaryKey;autoIncrement:false"`
}

// LinkAppointments records a bidirectional relation between two appointments.
// The target must exist; linking twice is a no-op.
func LinkAppointments(tx *gorm.DB, fromID, toID uint) error {
	if fromID == toID {
		return nil
	}
	var count int64
	if err := tx.Model(&Appointment{}).Where("id = ?", toID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return &ReferenceError{Field: "relatedAppointmentId", ID: toID}
	}
	pairs := []AppointmentRelation{
		{FromAppointmentID: fromID, ToAppointmentID: toID},
		{FromAppointmentID: toID, ToAppointmentID: fromID},
	}
	for _, pair := range pairs {
		var existing AppointmentRelation
		err := tx.Where(&pair).FirstOrCreate(&existing).Error
		if err != nil {
			return err
		}
	}
	return nil
}

// DisconnectAppointment removes every relation row that references the given
// appointment on either side. Called before the appointment row itself is
// deleted so no reverse reference to a dead id survives.
func DisconnectAppointment(tx *gorm.DB, appointmentID uint) error {
	return tx.Where("from_appointment_id = ? OR to_appointment_id = ?",
		appointmentID, appointmentID).
		Delete(&AppointmentRelation{}).Error
}

// RelatedAppointmentIDs returns the ids linked from the given appointment.
func RelatedAppointmentIDs(db *gorm.DB, appointmentID uint) ([]uint, error) {
	var ids []uint
	err := db.Model(&AppointmentRelation{}).
		Where("from_appointment_id = ?", appointmentID).
		Order("to_appointment_id").
		Pluck("to_appointment_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
