package tui

import "errors"

// ErrMissingCurationService is returned when the curation service is not provided.
var ErrMissingCurationService = errors.New("tui: curation service is required")

// ErrInvalidPorts is returned when ports validation fails.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")
