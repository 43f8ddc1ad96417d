package appErrors

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError aborts a run before any side effect (missing products,
// missing recipients, unconfigured channel).
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("campaign validation failed: %s", e.Reason)
}

func NewValidation(reason string) error {
	return &ValidationError{Reason: reason}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// CreativeGenerationError is fatal to the whole run. Auth marks the
// credentials/key-invalid sub-class so the caller can prompt for
// re-authentication instead of just reporting a failure.
type CreativeGenerationError struct {
	Err  error
	Auth bool
}

func (e *CreativeGenerationError) Error() string {
	if e.Auth {
		return fmt.Sprintf("creative generation failed (credentials/key invalid): %v", e.Err)
	}
	return fmt.Sprintf("creative generation failed: %v", e.Err)
}

func (e *CreativeGenerationError) Unwrap() error { return e.Err }

func NewCreativeGeneration(err error) error {
	return &CreativeGenerationError{Err: err, Auth: looksLikeAuthFailure(err)}
}

// IsAuth reports whether err carries the credentials-invalid classification.
func IsAuth(err error) bool {
	var ce *CreativeGenerationError
	return errors.As(err, &ce) && ce.Auth
}

// The generative API reports expired or revoked keys with ordinary error
// strings, so classification has to inspect the message content. This is the
// one place an error's content, not just its occurrence, drives control flow.
func looksLikeAuthFailure(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{
		"api key",
		"unauthorized",
		"unauthenticated",
		"permission denied",
		"not found",
		"401",
		"403",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
