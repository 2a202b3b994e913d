package mcp

import (
	"github.com/custodia-labs/anchora/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP
// server. This provides a single injection point for dependency
// injection.
type Ports struct {
	// Answer provides retrieval and cited answering.
	Answer driving.AnswerService

	// Memory processes conversation turns into durable facts.
	// Optional: without it the memory tools are not registered.
	Memory driving.MemoryService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Answer == nil {
		return ErrMissingAnswerService
	}
	return nil
}
