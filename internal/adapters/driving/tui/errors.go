package tui

import "errors"

// ErrMissingExplorer is returned when the explorer is not provided.
var ErrMissingExplorer = errors.New("tui: explorer is required")

// ErrEmptyInput is returned for a blank input line.
var ErrEmptyInput = errors.New("tui: empty input")

// errUsage reports a malformed slash command.
type errUsage string

func (e errUsage) Error() string {
	return "usage: " + string(e)
}
