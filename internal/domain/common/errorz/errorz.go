package errorz

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrForbidden      = errors.New("forbidden")
	ErrUnauthorized   = errors.New("authentication required")
	ErrValidation     = errors.New("validation failed")
	ErrVenueProtected = errors.New("venue is referenced by events")
	ErrAlreadyExists  = errors.New("already exists")

	ErrUnknownPlaceholder = errors.New("unknown template placeholder")
	ErrInvalidTemplate    = errors.New("invalid template")

	ErrNoCoordinates   = errors.New("no coordinates")
	ErrUnknownTask     = errors.New("unknown task")
	ErrWeatherProvider = errors.New("weather provider failed")
	ErrUnreadableFile  = errors.New("unreadable spreadsheet")
)
