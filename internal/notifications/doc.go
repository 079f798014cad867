// Package notifications delivers operator-facing push notifications via ntfy.
package notifications
