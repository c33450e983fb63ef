// Package timeouts defines the timeout constants shared across services.
package timeouts

import "time"

// BackendRequest caps one HTTP call to the game-data backend.
const BackendRequest = 30 * time.Second

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long an HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second
