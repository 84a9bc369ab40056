package mcp

import (
	"github.com/custodia-labs/lexmap/internal/core/ports/driving"
)

// Ports aggregates the driving ports the MCP server needs.
type Ports struct {
	// Explorer routes document operations.
	Explorer driving.Explorer

	// Settings persists mode changes. Optional.
	Settings driving.SettingsService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Explorer == nil {
		return ErrMissingExplorer
	}
	return nil
}
