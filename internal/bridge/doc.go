// Package bridge runs the poll loop that connects the shared request inbox
// to the playback queue and the in-world playback slot.
package bridge
