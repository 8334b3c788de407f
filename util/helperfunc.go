package util

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// APIErrorParams carries a user-facing message plus the underlying error.
type APIErrorParams struct {
	Msg string
	Err error
}

// FieldError is one field-level validation failure.
type FieldError struct {
	Path    string `json:"path" example:"dateTime"`
	Message string `json:"message" example:"must be an RFC 3339 timestamp"`
}

// APIError is the error response body: {error, details?}.
type APIError struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

func callError(c *gin.Context, status int, params APIErrorParams) {
	body := APIError{Error: params.Msg}
	if params.Err != nil {
		body.Details = params.Err.Error()
	}
	c.JSON(status, body)
}

// CallErrorNotFound returns a 404 response for a missing record.
func CallErrorNotFound(c *gin.Context, params APIErrorParams) {
	callError(c, http.StatusNotFound, params)
}

// CallUserError returns a 400 response for an error on the caller's side.
func CallUserError(c *gin.Context, params APIErrorParams) {
	callError(c, http.StatusBadRequest, params)
}

// CallConflictError returns a 409 response for duplicate unique fields.
func CallConflictError(c *gin.Context, params APIErrorParams) {
	callError(c, http.StatusConflict, params)
}

// CallPreconditionError returns a 400 response for a mutation refused by a
// guard, e.g. deleting an ambulance with upcoming appointments.
func CallPreconditionError(c *gin.Context, params APIErrorParams) {
	callError(c, http.StatusBadRequest, params)
}

// CallServerError returns a 500 response for unexpected store failures.
func CallServerError(c *gin.Context, params APIErrorParams) {
	callError(c, http.StatusInternalServerError, params)
}

// CallUserNotAuthorized returns a 401 response.
func CallUserNotAuthorized(c *gin.Context, params APIErrorParams) {
	callError(c, http.StatusUnauthorized, params)
}

// CallValidationError returns the structured field-level 400 body:
// {error: "Validation failed", details: [{path, message}, ...]}.
func CallValidationError(c *gin.Context, details []FieldError) {
	c.JSON(http.StatusBadRequest, APIError{Error: "Validation failed", Details: details})
}

// CallSuccessOK returns data with status 200.
func CallSuccessOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// CallCreated returns data with status 201.
func CallCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// CallDeleted returns a 200 confirmation message after a delete.
func CallDeleted(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, gin.H{"message": msg})
}

// Contains reports whether d is present in dl.
func Contains(d string, dl []string) bool {
	for _, v := range dl {
		if v == d {
			return true
		}
	}
	return false
}

// NormalizeName trims leading/trailing whitespace and collapses internal
// runs of spaces, keeping stored names consistent.
func NormalizeName(name string) string {
	name = strings.TrimSpace(name)
	return strings.Join(strings.Fields(name), " ")
}
