// Package messages defines Bubbletea message types for the chat panel.
package messages

// CommandFinished carries the rendered output of a chat command.
type CommandFinished struct {
	// Input is the line the user entered.
	Input string

	// Output is markdown produced by the command.
	Output string

	// Err is the user-presentable failure, if any.
	Err error
}

// ConnectivityChanged reports a change of remote reachability.
type ConnectivityChanged struct {
	Connected bool
}

// ModeChanged reports the configured mode after a toggle.
type ModeChanged struct {
	Online bool
}

// Quit signals the application should exit.
type Quit struct{}
