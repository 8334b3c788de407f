package model

import "time"

// The weekly schedule view buckets a doctor's appointments for the next 7
// calendar days into per-weekday entries annotated with a static
// working-hours template. Pure transformation, no store access.

// workingHoursTemplate is the static per-weekday availability string. It is
// display-only and never used for conflict prevention.
var workingHoursTemplate = map[time.Weekday]string{
	time.Monday:    "2 PM - 4 PM",
	time.Tuesday:   "2 PM - 4 PM",
	time.Wednesday: "2 PM - 4 PM",
	time.Thursday:  "7 PM - 9 PM",
	time.Friday:    "7 PM - 9 PM",
	time.Saturday:  "Day off",
	time.Sunday:    "Day off",
}

// WorkingHoursFor returns the working-hours template string for a weekday.
func WorkingHoursFor(day time.Weekday) string {
	return workingHoursTemplate[day]
}

// ScheduleEntry is one appointment rendered for the weekly view.
type ScheduleEntry struct {
	AppointmentID uint              `json:"appointmentId"`
	Time          string            `json:"time" example:"3:15 PM"`
	PatientName   string            `json:"patientName"`
	Age           *int              `json:"age,omitempty"`
	Gender        string            `json:"gender,omitempty"`
	Condition     string            `json:"condition,omitempty"`
	Status        AppointmentStatus `json:"status"`
	IsNew         bool              `json:"isNew"`
}

// ScheduleDay is one bucket of the 7-day view.
type ScheduleDay struct {
	Date         string          `json:"date" example:"2025-06-02"`
	Weekday      string          `json:"weekday" example:"Monday"`
	WorkingHours string          `json:"workingHours" example:"2 PM - 4 PM"`
	NewCount     int             `json:"newCount"`
	Appointments []ScheduleEntry `json:"appointments"`
}

// BuildWeeklySchedule buckets appointments into the 7 calendar days starting
// at now, in now's location. Buckets are keyed by ISO date rather than
// weekday name, so an appointment on the same weekday two weeks out never
// aliases into the current window. Appointments without a date/time are
// skipped; the admin layer lists those separately. Appointments are expected
// to carry a preloaded Patient (with User).
func BuildWeeklySchedule(now time.Time, appointments []Appointment) []ScheduleDay {
	loc := now.Location()
	days := make([]ScheduleDay, 7)
	index := make(map[string]int, 7)
	for i := 0; i < 7; i++ {
		date := now.AddDate(0, 0, i)
		iso := date.Format("2006-01-02")
		days[i] = ScheduleDay{
			Date:         iso,
			Weekday:      date.Weekday().String(),
			WorkingHours: WorkingHoursFor(date.Weekday()),
			Appointments: []ScheduleEntry{},
		}
		index[iso] = i
	}

	for _, appointment := range appointments {
		if appointment.DateTime == nil {
			continue
		}
		local := appointment.DateTime.In(loc)
		i, ok := index[local.Format("2006-01-02")]
		if !ok {
			continue
		}
		entry := ScheduleEntry{
			AppointmentID: appointment.ID,
			Time:          local.Format("3:04 PM"),
			PatientName:   appointment.Patient.User.Name,
			Age:           appointment.Patient.Age,
			Gender:        appointment.Patient.Gender,
			Condition:     appointment.Condition,
			Status:        appointment.Status,
			IsNew:         appointment.Status == StatusNew,
		}
		days[i].Appointments = append(days[i].Appointments, entry)
		if entry.IsNew {
			days[i].NewCount++
		}
	}
	return days
}
