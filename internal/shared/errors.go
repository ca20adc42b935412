package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrRunLocked          = fmt.Errorf("another run holds the state directory lock")

	// Authentication errors
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrTimeout          = fmt.Errorf("operation timed out")

	// API and service errors
	ErrAPIRequest = fmt.Errorf("API request failed")

	// Input errors
	ErrPathNotFound        = fmt.Errorf("file or directory not found")
	ErrUnsupportedFileType = fmt.Errorf("unsupported file type")
	ErrNoTracks            = fmt.Errorf("no valid tracks found in the input")
	ErrNoSeeds             = fmt.Errorf("no seed tracks could be resolved")
	ErrNoRecommendations   = fmt.Errorf("no recommended tracks found")
	ErrMissingArgument     = fmt.Errorf("missing required argument")
	ErrInvalidArgument     = fmt.Errorf("invalid argument")
	ErrInvalidFlag         = fmt.Errorf("invalid flag value")
)
