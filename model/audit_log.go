package model

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AuditLog persists one audit event emitted by the util audit logger, e.g.
// an appointment mutation or a refused cascade.
// @Description Audit log entry
type AuditLog struct {
	gorm.Model
	EventType string         `json:"eventType" gorm:"size:50;index"`
	UserID    uint           `json:"userId"`
	Email     string         `json:"email" gorm:"size:255"`
	IP        string         `json:"ip" gorm:"size:45"`
	Country   string         `json:"country" gorm:"size:64"`
	Message   string         `json:"message" gorm:"size:500"`
	Details   datatypes.JSON `json:"details"`
}
