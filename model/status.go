package model

import "fmt"

// AppointmentStatus is the lifecycle tag of an appointment.
type AppointmentStatus string

const (
	StatusNew       AppointmentStatus = "NEW"
	StatusPending   AppointmentStatus = "PENDING"
	StatusCompleted AppointmentStatus = "COMPLETED"
	StatusCanceled  AppointmentStatus = "CANCELED"
	StatusEmergency AppointmentStatus = "EMERGENCY"
)

// ValidStatus reports whether s is one of the known appointment statuses.
func ValidStatus(s AppointmentStatus) bool {
	switch s {
	case StatusNew, StatusPending, StatusCompleted, StatusCanceled, StatusEmergency:
		return true
	}
	return false
}

// TransitionMode selects how strictly status transitions are checked.
type TransitionMode string

const (
	// TransitionsUnenforced allows any status to move to any other status.
	// Administrative overrides are common in clinical workflows, so this is
	// the default.
	TransitionsUnenforced TransitionMode = "unenforced"
	// TransitionsEnforced rejects transitions not present in the transition
	// table. Enabled with STATUS_ENFORCEMENT=strict.
	TransitionsEnforced TransitionMode = "strict"
)

// statusTransitions is the declarative table consulted in strict mode.
// COMPLETED and CANCELED are terminal.
var statusTransitions = map[AppointmentStatus][]AppointmentStatus{
	StatusNew:       {StatusPending, StatusCanceled, StatusEmergency},
	StatusPending:   {StatusCompleted, StatusCanceled, StatusEmergency},
	StatusEmergency: {StatusCompleted, StatusCanceled},
	StatusCompleted: {},
	StatusCanceled:  {},
}

// TransitionPolicy validates requested status changes under a given mode.
type TransitionPolicy struct {
	Mode TransitionMode
}

// Validate returns nil when moving from one status to another is acceptable
// under the policy. Setting the same status again is always a no-op.
func (p TransitionPolicy) Validate(from, to AppointmentStatus) error {
	if !ValidStatus(to) {
		return fmt.Errorf("status: %w", ErrUnknownStatus)
	}
	if p.Mode != TransitionsEnforced || from == to {
		return nil
	}
	for _, allowed := range statusTransitions[from] {
		if allowed == to {
			return nil
		}
	}
	return fmt.Errorf("status transition %s -> %s: %w", from, to, ErrTransitionNotAllowed)
}
