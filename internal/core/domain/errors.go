package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested form does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates a form with the same ID is already stored.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input, such as an empty
	// or oversized synthesis prompt.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// ErrInvalidForm indicates a form tree violates a structural invariant.
	ErrInvalidForm = errors.New("invalid form")

	// Storage Errors.

	// ErrStorageUnavailable indicates no backend could serve a persistence call.
	// Only surfaced when the local fallback itself fails.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrRemoteUnavailable indicates the remote backend is not configured,
	// its configuration is a placeholder, or it did not answer.
	ErrRemoteUnavailable = errors.New("remote backend unavailable")

	// Synthesis Errors.

	// ErrSynthesisBusy indicates a generation request is already in flight
	// for the session.
	ErrSynthesisBusy = errors.New("synthesis in progress")
)
