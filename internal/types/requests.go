package types

import (
	"github.com/go-playground/validator/v10"
)

// SanitizeRequest represents a request to sanitize raw resume text.
type SanitizeRequest struct {
	Text string `json:"text" validate:"required"`
}

// WrapRequest represents a request to wrap sanitized text for model consumption.
type WrapRequest struct {
	Text string `json:"text" validate:"required"`
}

// Validate validates the SanitizeRequest using the validator.
func (r *SanitizeRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the WrapRequest using the validator.
func (r *WrapRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
