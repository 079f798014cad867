// Package storage adapts the world storage HTTP API: versioned GET/PUT of
// string-valued objects addressed by key.
//
// Absent keys are a nil object, not an error. Every object carries an opaque
// version token used for optimistic concurrency; a conditional write that
// loses the race fails with services.ErrVersionConflict and does not apply.
package storage
