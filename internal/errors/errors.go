package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error types for common failure scenarios.
var (
	ErrUnresolvableMedia = errors.New("no playable media url")
	ErrPlaybackRejected  = errors.New("playback rejected")
	ErrTransport         = errors.New("transport error")
	ErrAudioUnavailable  = errors.New("audio output unavailable in this build")
	ErrStorage           = errors.New("session storage failure")
	ErrNotFound          = errors.New("key not found")
	ErrUpstream          = errors.New("upstream search failed")
	ErrNoResults         = errors.New("no songs found")
	ErrTimeout           = errors.New("request timeout")
	ErrConfigNotFound    = errors.New("config file not found")
	ErrInvalidConfig     = errors.New("invalid configuration")
)

// AuralynError wraps an error with a user-friendly suggestion.
type AuralynError struct {
	Err        error
	Suggestion string
}

func (e *AuralynError) Error() string {
	return e.Err.Error()
}

func (e *AuralynError) Unwrap() error {
	return e.Err
}

// WithSuggestion wraps an error with a helpful suggestion.
func WithSuggestion(err error, suggestion string) error {
	return &AuralynError{
		Err:        err,
		Suggestion: suggestion,
	}
}

// GetSuggestion returns a suggestion for the given error.
func GetSuggestion(err error) string {
	if err == nil {
		return ""
	}

	var aErr *AuralynError
	if errors.As(err, &aErr) && aErr.Suggestion != "" {
		return aErr.Suggestion
	}

	errStr := strings.ToLower(err.Error())

	if errors.Is(err, ErrUnresolvableMedia) {
		return "This song has no streamable source. Pick another result"
	}

	if errors.Is(err, ErrPlaybackRejected) || errors.Is(err, ErrTransport) {
		return "Press space to retry, or n to skip to the next song"
	}

	if errors.Is(err, ErrAudioUnavailable) {
		return "Rebuild with CGO_ENABLED=1 to enable audio output"
	}

	if errors.Is(err, ErrStorage) || strings.Contains(errStr, "redis") ||
		strings.Contains(errStr, "sqlite") {
		return "Check the [session] section of your config; playback continues in memory"
	}

	if errors.Is(err, ErrNoResults) {
		return "Try a shorter or different search term"
	}

	if errors.Is(err, ErrUpstream) || errors.Is(err, ErrTimeout) ||
		strings.Contains(errStr, "timeout") || strings.Contains(errStr, "connection refused") {
		return "Make sure 'auralyn serve' is running and reachable at client.api_base"
	}

	if errors.Is(err, ErrConfigNotFound) || errors.Is(err, ErrInvalidConfig) {
		return "Run 'auralyn config init' to create a configuration file"
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
