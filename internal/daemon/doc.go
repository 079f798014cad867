// Package daemon combines the bridge poll loop and the HTTP status API into
// a single lifecycle with flock-based locking to prevent multiple concurrent
// daemon instances.
package daemon
