// Package queuesync keeps the in-memory playback queue and the remote queue
// object in agreement.
//
// The remote value is a JSON document wrapped in a Lua long-string envelope so
// the in-world script can hold it without evaluating it. Writes are guarded by
// opaque version tokens; a lost race re-reads the remote queue, re-applies the
// local mutation on top of it, and retries exactly once.
package queuesync
