package tui

import "errors"

// ErrMissingFormService is returned when the form service is not provided.
var ErrMissingFormService = errors.New("tui: form service is required")
