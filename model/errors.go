package model

import (
	"errors"
	"fmt"
)

// Sentinel errors raised by the model layer. Handlers translate these into
// HTTP responses; transactional helpers return them without partial writes.
var (
	ErrUnknownStatus        = errors.New("unknown appointment status")
	ErrTransitionNotAllowed = errors.New("transition not allowed")
	ErrStarsOutOfRange      = errors.New("stars must be between 1 and 5")
	ErrRatingTarget         = errors.New("rating must target exactly one of doctor or ambulance")
	ErrAmbulanceInService   = errors.New("ambulance has upcoming appointments")
	ErrEmailTaken           = errors.New("email already exists")
)

// ReferenceError reports that an id supplied in a mutation does not resolve
// to an existing row. Field names the offending request field.
type ReferenceError struct {
	Field string
	ID    uint
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("%s: no record with id %d", e.Field, e.ID)
}

// AsReferenceError unwraps err into a ReferenceError when possible.
func AsReferenceError(err error) (*ReferenceError, bool) {
	var refErr *ReferenceError
	if errors.As(err, &refErr) {
		return refErr, true
	}
	return nil, false
}
