// Package chat hosts the WebSocket command transport.
//
// Each connection is bound to one conversation whose paging state lives in the
// query engine, so a client that rejoins with the same conversation id resumes
// where it left off.
package chat
