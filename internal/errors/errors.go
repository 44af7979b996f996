package errors

import "errors"

var ErrNotFound = errors.New("resource not found")
var ErrUnauthorized = errors.New("user is not authorized")
var ErrForbidden = errors.New("operation is forbidden for user")
var ErrNoCurrentEvent = errors.New("no current event is configured")
var ErrRegistrationClosed = errors.New("registration is closed for the current event")
var ErrWorkshopFull = errors.New("workshop has no spots left")
var ErrInvalidSelection = errors.New("selection is invalid")
