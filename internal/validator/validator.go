package validator

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// MaxContentLength is the maximum comment length in Unicode code points.
const MaxContentLength = 5000

// Validator provides validation methods for request payloads.
type Validator struct{}

// NewValidator creates a new Validator instance.
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateContent validates comment content. Length is counted in code
// points, not bytes.
func (v *Validator) ValidateContent(content string) error {
	return validation.Validate(content,
		validation.Required.Error("content_required"),
		validation.RuneLength(1, MaxContentLength).Error("content_too_long"),
	)
}

// ValidateID validates that an identifier is a well-formed UUID.
func (v *Validator) ValidateID(id string) error {
	return validation.Validate(id,
		validation.Required.Error("id_required"),
		is.UUIDv4.Error("invalid_id_format"),
	)
}
