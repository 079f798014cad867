// Package main hosts the jukebridge CLI entrypoint and command graph.
//
// The Cobra-based command tree translates terminal invocations into daemon
// API calls, direct storage reads, and configuration scaffolding. It
// centralizes configuration resolution so subcommands can focus on user
// experience instead of wiring.
package main
