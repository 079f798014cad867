// Package resolver turns free-text song queries into playable songs via the
// audio relay endpoint.
package resolver
