package main

import (
	"testing"

	"jukebridge/internal/logging"
	"jukebridge/internal/testsupport"
)

func TestBuildDaemonWiresDependencies(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	d, err := buildDaemon(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("build daemon: %v", err)
	}
	if d == nil {
		t.Fatal("expected daemon")
	}
	if d.Status().Running {
		t.Fatal("daemon should start stopped")
	}
}
