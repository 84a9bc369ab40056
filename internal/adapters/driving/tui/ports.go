// Package tui provides the interactive chat panel for lexmap.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"context"

	"github.com/custodia-labs/lexmap/internal/core/ports/driving"
	"github.com/custodia-labs/lexmap/internal/pubsub"
)

// ConnectivityFeed streams remote reachability changes.
type ConnectivityFeed interface {
	Subscribe(ctx context.Context) <-chan pubsub.Event[bool]
}

// Ports aggregates the driving ports the chat panel needs.
type Ports struct {
	// Explorer routes document operations.
	Explorer driving.Explorer

	// Settings persists mode toggles. Optional.
	Settings driving.SettingsService

	// Connectivity drives the status line. Optional.
	Connectivity ConnectivityFeed
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Explorer == nil {
		return ErrMissingExplorer
	}
	return nil
}
