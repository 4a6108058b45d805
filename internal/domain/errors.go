package domain

import "errors"

var (
	// ErrInvalidRepository signals a user-supplied repository reference that
	// could not be reduced to an owner/name pair.
	ErrInvalidRepository = errors.New("invalid GitHub repository reference")

	// ErrRepositoryUnavailable signals that the base repository lookup
	// failed: the repository does not exist, is private, or the API quota is
	// exhausted. This is the only fatal condition during analysis.
	ErrRepositoryUnavailable = errors.New("repository not found or API limit exceeded")
)
