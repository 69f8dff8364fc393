package shared

import "fmt"

var (
	// Configuration errors
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Backend errors
	ErrTransport          = fmt.Errorf("transport failure")
	ErrRejected           = fmt.Errorf("request rejected")
	ErrPartialOutcome     = fmt.Errorf("partial outcome")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")

	// Local playback errors
	ErrPlayback       = fmt.Errorf("playback failed")
	ErrNoPlayer       = fmt.Errorf("no audio player available")
	ErrInvalidPath    = fmt.Errorf("invalid sound path")
	ErrNotFound       = fmt.Errorf("not found")
	ErrNotAnAudioFile = fmt.Errorf("not an audio file")

	// Input validation errors
	ErrValidation      = fmt.Errorf("validation failed")
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
