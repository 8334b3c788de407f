package model

// AllModels lists every entity migrated at startup and in test databases.
// AppointmentRelation comes last so the appointment table exists first.
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&Patient{},
		&Doctor{},
		&Ambulance{},
		&Appointment{},
		&Prescription{},
		&MedicalTest{},
		&Rating{},
		&AppointmentRelation{},
		&AuditLog{},
	}
}
