package usecase

import "errors"

// Sentinel errors for use case layer
var (
	// ErrRepositoryNotConfigured aborts a scan that has no data source
	ErrRepositoryNotConfigured = errors.New("repository is not configured")

	// ErrLLMNotConfigured is returned by assist on a cache miss without an LLM client
	ErrLLMNotConfigured = errors.New("LLM client is not configured")

	// ErrInvalidInput marks requests rejected before any work is done
	ErrInvalidInput = errors.New("invalid input")

	ErrNotificationNotFound = errors.New("notification not found")
)
