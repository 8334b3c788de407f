package endpoint

import (
	"fmt"
	"time"

	"github.com/clinicbook/clinic-server/config"
	"github.com/clinicbook/clinic-server/middleware"
	"github.com/clinicbook/clinic-server/model"
	"github.com/clinicbook/clinic-server/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// WeeklyScheduleResponse is the 7-day doctor view.
type WeeklyScheduleResponse struct {
	DoctorID uint                `json:"doctorId"`
	Days     []model.ScheduleDay `json:"days"`
}

// scheduleLocation resolves the configured zone for calendar bucketing.
func scheduleLocation() *time.Location {
	cfg := config.LoadConfig()
	if cfg != nil && cfg.ScheduleTZ != "" {
		if loc, err := time.LoadLocation(cfg.ScheduleTZ); err == nil {
			return loc
		}
	}
	return time.Local
}

// buildDoctorSchedule fetches the doctor's appointments inside the 7-day
// window and buckets them. The window is [today 00:00, today+7d 00:00) in
// the schedule zone.
func buildDoctorSchedule(db *gorm.DB, doctorID uint, now time.Time) (*WeeklyScheduleResponse, error) {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 0, 7)

	var appointments []model.Appointment
	err := db.
		Preload("Patient.User").
		Where("doctor_id = ? AND date_time >= ? AND date_time < ?", doctorID, start, end).
		Order("date_time").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return &WeeklyScheduleResponse{
		DoctorID: doctorID,
		Days:     model.BuildWeeklySchedule(now, appointments),
	}, nil
}

func respondDoctorSchedule(c *gin.Context, db *gorm.DB, doctorID uint) {
	if cached, ok := util.ScheduleCacheGet(doctorID); ok {
		util.CallSuccessOK(c, cached)
		return
	}
	if err := ensureExists(db, &model.Doctor{}, "doctorId", doctorID); err != nil {
		respondMutationError(c, err, "Doctor")
		return
	}
	schedule, err := buildDoctorSchedule(db, doctorID, time.Now().In(scheduleLocation()))
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to build weekly schedule", Err: err})
		return
	}
	util.ScheduleCacheSet(doctorID, schedule)
	util.CallSuccessOK(c, schedule)
}

// GetDoctorSchedule godoc
// @Summary      Weekly schedule for a doctor
// @Description  The next 7 calendar days bucketed by weekday with the working-hours template and new-appointment counts
// @Tags         Schedule
// @Produce      json
// @Param        id path int true "Doctor ID"
// @Success      200 {object} WeeklyScheduleResponse "Weekly schedule"
// @Failure      404 {object} util.APIError "Doctor not found"
// @Failure      500 {object} util.APIError "Server error"
// @Router       /doctors/{id}/schedule [get]
func GetDoctorSchedule(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	db := getDBOrAbort(c)
	if db == nil {
		return
	}
	respondDoctorSchedule(c, db, id)
}

// GetMySchedule godoc
// @Summary      Weekly schedule for the authenticated doctor
// @Description  Resolves the doctor profile behind the session token and returns its weekly schedule
// @Tags         Schedule
// @Produce      json
// @Security     SessionToken
// @Success      200 {object} WeeklyScheduleResponse "Weekly schedule"
// @Failure      401 {object} util.APIError "Unauthorized"
// @Failure      404 {object} util.APIError "Doctor profile not found"
// @Failure      500 {object} util.APIError "Server error"
// @Router       /doctors/schedule [get]
func GetMySchedule(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		util.CallUserNotAuthorized(c, util.APIErrorParams{
			Msg: "Session required",
			Err: fmt.Errorf("no user in context"),
		})
		return
	}
	db := getDBOrAbort(c)
	if db == nil {
		return
	}
	var doctor model.Doctor
	if err := db.Where("user_id = ?", userID).First(&doctor).Error; err != nil {
		respondMutationError(c, err, "Doctor")
		return
	}
	respondDoctorSchedule(c, db, doctor.ID)
}
