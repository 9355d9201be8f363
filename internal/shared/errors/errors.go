package errors

import "errors"

// Domain errors
var (
	// Review errors
	ErrReviewNotFound   = errors.New("review not found")
	ErrInvalidReviewID  = errors.New("invalid review ID")
	ErrEmptySnippet     = errors.New("snippet cannot be empty")
	ErrSnippetTooLarge  = errors.New("snippet exceeds size limit")
	ErrUnsupportedLang  = errors.New("unsupported language")
	ErrReviewInProgress = errors.New("review already in progress")

	// Analyzer errors
	ErrToolNotInstalled = errors.New("analyzer tool not installed")
	ErrToolTimeout      = errors.New("analyzer tool timed out")
	ErrInvalidToolOut   = errors.New("analyzer produced unparseable output")

	// Advisor errors
	ErrAdvisorDisabled = errors.New("advisor not configured")
	ErrAdvisorEmpty    = errors.New("advisor returned no suggestions")

	// Sandbox errors
	ErrSandboxDisabled    = errors.New("runtime sandbox not enabled")
	ErrInterpreterMissing = errors.New("python interpreter not found")

	// Repository errors
	ErrRepositoryOperation   = errors.New("repository operation failed")
	ErrSerializationFailed   = errors.New("serialization failed")
	ErrDeserializationFailed = errors.New("deserialization failed")

	// Validation errors
	ErrValidation      = errors.New("validation error")
	ErrInvalidInput    = errors.New("invalid input")
	ErrMissingRequired = errors.New("missing required field")
)
