package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error types for common failure scenarios.
var (
	ErrAlreadyRunning      = errors.New("playback already running")
	ErrInvalidHour         = errors.New("hour must be between 0 and 23")
	ErrPlaybackFailed      = errors.New("playback failed")
	ErrNoAudioPlayer       = errors.New("no audio player found")
	ErrWeatherUnavailable  = errors.New("weather unavailable")
	ErrLocationUnavailable = errors.New("location unavailable")
	ErrMusicDirNotFound    = errors.New("music directory not found")
	ErrConfigNotFound      = errors.New("config file not found")
	ErrInvalidConfig       = errors.New("invalid configuration")
)

// ChromieError wraps an error with a user-friendly suggestion.
type ChromieError struct {
	Err        error
	Suggestion string
}

func (e *ChromieError) Error() string {
	return e.Err.Error()
}

func (e *ChromieError) Unwrap() error {
	return e.Err
}

// WithSuggestion wraps an error with a helpful suggestion.
func WithSuggestion(err error, suggestion string) error {
	return &ChromieError{
		Err:        err,
		Suggestion: suggestion,
	}
}

// PlaybackError reports a single track that could not be played.
type PlaybackError struct {
	Path string
	Err  error
}

func (e *PlaybackError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrPlaybackFailed, e.Path, e.Err)
}

// Unwrap exposes both ErrPlaybackFailed and the underlying cause.
func (e *PlaybackError) Unwrap() []error {
	return []error{ErrPlaybackFailed, e.Err}
}

// GetSuggestion returns a suggestion for the given error.
func GetSuggestion(err error) string {
	if err == nil {
		return ""
	}

	var chromieErr *ChromieError
	if errors.As(err, &chromieErr) && chromieErr.Suggestion != "" {
		return chromieErr.Suggestion
	}

	errStr := strings.ToLower(err.Error())

	if errors.Is(err, ErrNoAudioPlayer) {
		return "Install ffplay, mpv or mpg123, or set player.command in ~/.chromierc"
	}

	if errors.Is(err, ErrInvalidHour) {
		return "Pass an hour between 0 and 23, e.g. --hour 9"
	}

	if errors.Is(err, ErrMusicDirNotFound) || strings.Contains(errStr, "no such file or directory") {
		return "Run 'chromie init' to create the hour folders"
	}

	if errors.Is(err, ErrLocationUnavailable) || errors.Is(err, ErrWeatherUnavailable) {
		return "Set weather.latitude and weather.longitude in ~/.chromierc, or run without --weather"
	}

	// Network errors
	if strings.Contains(errStr, "network") || strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "connection refused") {
		return "Check your internet connection and try again"
	}

	// Config errors
	if errors.Is(err, ErrConfigNotFound) || errors.Is(err, ErrInvalidConfig) || strings.Contains(errStr, "config") {
		return "Run 'chromie config init' to create a configuration file"
	}

	return ""
}

// Format returns a formatted error message with suggestion if available.
func Format(err error) string {
	if err == nil {
		return ""
	}

	suggestion := GetSuggestion(err)
	if suggestion != "" {
		return fmt.Sprintf("Error: %s\n\nSuggestion: %s", err.Error(), suggestion)
	}

	return fmt.Sprintf("Error: %s", err.Error())
}

// PartialResult represents a result that may have partial failures.
type PartialResult[T any] struct {
	Data   T
	Errors []error
}

// HasErrors returns true if there were any errors.
func (p *PartialResult[T]) HasErrors() bool {
	return len(p.Errors) > 0
}

// AddError adds an error to the partial result.
func (p *PartialResult[T]) AddError(err error) {
	if err != nil {
		p.Errors = append(p.Errors, err)
	}
}

// Err joins all collected errors, or returns nil.
func (p *PartialResult[T]) Err() error {
	return errors.Join(p.Errors...)
}

// ErrorSummary returns a summary of all errors.
func (p *PartialResult[T]) ErrorSummary() string {
	if len(p.Errors) == 0 {
		return ""
	}
	if len(p.Errors) == 1 {
		return p.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d errors occurred:\n", len(p.Errors)))
	for i, err := range p.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}
