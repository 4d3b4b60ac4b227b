// Package errors provides standardized error handling for the assistant engine.
package errors

import (
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodePatternFetchFailed ErrorCode = "PATTERN_FETCH_FAILED"
	ErrCodePatternFetchTimeout ErrorCode = "PATTERN_FETCH_TIMEOUT"
	ErrCodePatternInvalid     ErrorCode = "PATTERN_INVALID"

	ErrCodeOutcomeLogFailed ErrorCode = "OUTCOME_LOG_FAILED"

	ErrCodeSessionLoadFailed ErrorCode = "SESSION_LOAD_FAILED"
	ErrCodeSessionSaveFailed ErrorCode = "SESSION_SAVE_FAILED"

	ErrCodeAmountUnparsable ErrorCode = "AMOUNT_UNPARSABLE"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// NewPatternFetchError marks a retryable remote pattern-store failure.
// The library fails open to its current set, so this is never surfaced
// to the end user.
func NewPatternFetchError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodePatternFetchFailed,
		Message:   "Remote pattern store unavailable",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewPatternInvalidError marks a single malformed pattern from a remote
// source. The pattern is skipped; classification continues.
func NewPatternInvalidError(patternID, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodePatternInvalid,
		Message:   "Malformed pattern skipped",
		Details:   details,
		Retryable: false,
		Metadata:  map[string]interface{}{"patternId": patternID},
		Timestamp: time.Now().UTC(),
	}
}

// NewOutcomeLogError marks a best-effort outcome report that failed.
func NewOutcomeLogError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeOutcomeLogFailed,
		Message:   "Recognition outcome could not be reported",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSessionError marks a session-store failure.
func NewSessionError(code ErrorCode, details string) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   "Session store operation failed",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}
