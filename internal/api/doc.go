// Package api defines the daemon HTTP API payloads and a client for them,
// shared between the daemon server and the CLI.
package api
