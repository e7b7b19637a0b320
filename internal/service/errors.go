package service

import "errors"

// ErrForbidden is returned when a user attempts to touch a scenario they do not own.
var ErrForbidden = errors.New("forbidden")
