// Package driving provides interfaces for application entry points
// (primary/inbound ports). The CLI and MCP adapters call services
// through these interfaces.
package driving
