package wizard

import "errors"

// Validation errors for the interactive wizard.
var (
	errUserRequired     = errors.New("target user is required")
	errUserRoot         = errors.New("target user must be a regular account, not root")
	errTimezoneRequired = errors.New("timezone is required")
	errTimezoneInvalid  = errors.New("timezone must look like Area/City or UTC")
)
