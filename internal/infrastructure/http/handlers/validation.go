package handlers

import (
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validation limits.
const (
	MaxEmailLength = 254
	MaxNameLength  = 255
	MaxTitleLength = 500
)

var validate = validator.New()

// SanitizeEmail trims and lowercases email; returns empty if invalid length.
func SanitizeEmail(email string) string {
	s := strings.TrimSpace(strings.ToLower(email))
	if len(s) > MaxEmailLength {
		return ""
	}
	return s
}

// fieldError is one entry of a structured validation failure breakdown.
type fieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// writeValidationErr validates v and, on failure, writes the 400 response with
// a per-field breakdown. Returns true if a response was written.
func writeValidationErr(w http.ResponseWriter, v interface{}) bool {
	err := validate.Struct(v)
	if err == nil {
		return false
	}
	var fields []fieldError
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range verrs {
			fields = append(fields, fieldError{
				Field: strings.ToLower(fe.Field()),
				Rule:  fe.Tag(),
			})
		}
	}
	writeJSON(w, http.StatusBadRequest, map[string]interface{}{
		"error":  "validation failed",
		"code":   ErrCodeInvalidRequest,
		"fields": fields,
	})
	return true
}
