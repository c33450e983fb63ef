// Package domain defines the MCP tool schemas and handlers for aolastar
// commands.
//
// Handlers translate tool input into command calls and command results into
// MCP content; they own no query state of their own.
package domain
