package util

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/clinicbook/clinic-server/model"
	"gorm.io/gorm"
)

// AuditEventType represents the kinds of events the platform records.
type AuditEventType string

const (
	EventAppointmentCreated AuditEventType = "APPOINTMENT_CREATED"
	EventAppointmentUpdated AuditEventType = "APPOINTMENT_UPDATED"
	EventAppointmentDeleted AuditEventType = "APPOINTMENT_DELETED"
	EventDoctorCascade      AuditEventType = "DOCTOR_CASCADE_DELETE"
	EventPatientCascade     AuditEventType = "PATIENT_CASCADE_DELETE"
	EventAmbulanceCascade   AuditEventType = "AMBULANCE_CASCADE_DELETE"
	EventAmbulanceRefused   AuditEventType = "AMBULANCE_DELETE_REFUSED"
	EventBookingCompleted   AuditEventType = "BOOKING_COMPLETED"
	EventRateLimitExceeded  AuditEventType = "RATE_LIMIT_EXCEEDED"
	EventUnauthorizedAccess AuditEventType = "UNAUTHORIZED_ACCESS"
	EventEndpointCall       AuditEventType = "ENDPOINT_CALL"
	EventSuspiciousActivity AuditEventType = "SUSPICIOUS_ACTIVITY"
)

// AuditEvent is one event to be logged and persisted.
type AuditEvent struct {
	EventType AuditEventType
	UserID    uint
	Email     string
	IP        string
	UserAgent string
	Message   string
	Details   map[string]interface{}
}

var auditLogger *log.Logger
var auditDB *gorm.DB

// SetAuditLoggerDB sets the gorm DB used to persist audit events. Call
// during startup after DB initialization.
func SetAuditLoggerDB(db *gorm.DB) {
	auditDB = db
}

func init() {
	auditLogger = log.New(os.Stdout, "[AUDIT] ", log.LstdFlags|log.Lmsgprefix)
}

// sanitizeLogValue removes newlines and other characters that could break
// log parsing, and truncates very long values.
func sanitizeLogValue(value string) string {
	value = strings.ReplaceAll(value, "\n", " ")
	value = strings.ReplaceAll(value, "\r", " ")
	value = strings.ReplaceAll(value, "\t", " ")
	if len(value) > 200 {
		value = value[:200] + "..."
	}
	return value
}

// LogAuditEvent writes an audit event to the process log and, when a DB has
// been configured, to the audit_logs table. The event's email is resolved
// through the user-email LRU cache when absent, and the client IP is
// enriched with a GeoIP country when a database is loaded.
func LogAuditEvent(event AuditEvent) {
	if event.Email == "" && event.UserID != 0 {
		event.Email = ResolveUserEmail(auditDB, event.UserID)
	}
	country := CountryForIP(event.IP)

	msg := fmt.Sprintf("Event=%s UserID=%d Email=%s IP=%s Country=%s UserAgent=%s Message=%s",
		sanitizeLogValue(string(event.EventType)),
		event.UserID,
		sanitizeLogValue(event.Email),
		sanitizeLogValue(event.IP),
		sanitizeLogValue(country),
		sanitizeLogValue(event.UserAgent),
		sanitizeLogValue(event.Message),
	)
	auditLogger.Println(msg)

	if auditDB == nil {
		return
	}
	var details []byte
	if event.Details != nil {
		if b, err := json.Marshal(event.Details); err == nil {
			details = b
		}
	}
	row := model.AuditLog{
		EventType: string(event.EventType),
		UserID:    event.UserID,
		Email:     event.Email,
		IP:        event.IP,
		Country:   country,
		Message:   event.Message,
		Details:   details,
	}
	if err := auditDB.Create(&row).Error; err != nil {
		auditLogger.Printf("failed to persist audit event: %v", err)
	}
}
