// Package service wires the MCP protocol to aolastar commands.
//
// It knows how to run MCP over stdio or streamable HTTP and delegates every
// tool call to the handlers in the MCP domain package.
package service
