package storage

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"jukebridge/internal/services"
)

func TestGetReturnsObjectWithNestedVersion(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/storage/object/music_queue" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Fatalf("unexpected authorization header: %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"key":"music_queue","value":"payload","metadata":{"version":7}}`))
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "secret", server.Client())
	obj, err := client.Get(context.Background(), "music_queue")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if obj == nil {
		t.Fatal("expected object")
	}
	if obj.Value != "payload" {
		t.Fatalf("unexpected value: %q", obj.Value)
	}
	if string(obj.Version) != "7" {
		t.Fatalf("unexpected version token: %s", obj.Version)
	}
}

func TestGetAbsentKeyIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "secret", server.Client())
	obj, err := client.Get(context.Background(), "bot_inbox")
	if err != nil {
		t.Fatalf("expected nil error for absent key, got %v", err)
	}
	if obj != nil {
		t.Fatalf("expected nil object for absent key, got %#v", obj)
	}
}

func TestPutSendsExpectedVersionAndParsesNewToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Fatalf("unexpected method: %s", r.Method)
		}
		var payload struct {
			Value      string          `json:"value"`
			Attributes []string        `json:"attributes"`
			Version    json.RawMessage `json:"version"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
		if payload.Value != "next" {
			t.Fatalf("unexpected value: %q", payload.Value)
		}
		if payload.Attributes == nil {
			t.Fatal("expected attributes array in payload")
		}
		if string(payload.Version) != "3" {
			t.Fatalf("unexpected expected-version: %s", payload.Version)
		}
		_, _ = w.Write([]byte(`{"version":4}`))
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "secret", server.Client())
	next, err := client.Put(context.Background(), "music_queue", "next", Version("3"))
	if err != nil {
		t.Fatalf("Put returned error: %v", err)
	}
	if string(next) != "4" {
		t.Fatalf("unexpected new version: %s", next)
	}
}

func TestPutOmitsVersionForUnconditionalWrite(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
		if _, present := payload["version"]; present {
			t.Fatal("expected version to be omitted for unconditional write")
		}
		_, _ = w.Write([]byte(`{"metadata":{"version":1}}`))
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "secret", server.Client())
	next, err := client.Put(context.Background(), "music_queue", "value", nil)
	if err != nil {
		t.Fatalf("Put returned error: %v", err)
	}
	if string(next) != "1" {
		t.Fatalf("unexpected new version: %s", next)
	}
}

func TestPutConflictIsTagged(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "secret", server.Client())
	_, err := client.Put(context.Background(), "music_queue", "value", Version("1"))
	if !errors.Is(err, services.ErrVersionConflict) {
		t.Fatalf("expected version conflict, got %v", err)
	}
}

func TestServerErrorIsTransient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "backend down", http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "secret", server.Client())
	_, err := client.Get(context.Background(), "music_queue")
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient error, got %v", err)
	}
}
