// Package inbox drains song requests written by the in-world script into the
// playback queue.
package inbox
