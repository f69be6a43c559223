package models

import "errors"

// Sentinel errors returned by the service layer. Handlers map them to the
// response boundary: ErrNotFound to a 404 page, ErrValidation back to the
// submitting form, ErrForbidden to a redirect onto the read-only view.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	ErrForbidden  = errors.New("forbidden")
)
