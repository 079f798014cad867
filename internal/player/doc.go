// Package player holds the polled playback state machine.
package player
