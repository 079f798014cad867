// Package services defines the shared error taxonomy for external service
// adapters.
//
// Every error leaving a service client is tagged with one of the sentinel
// markers so the bridge loop can classify failures with errors.Is: absent keys
// read as empty values, version conflicts trigger reconciliation, transient
// transport failures are retried on the next poll cycle, and resolver failures
// drop the drained request.
package services
