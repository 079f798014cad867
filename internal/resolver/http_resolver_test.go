package resolver_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"jukebridge/internal/request"
	"jukebridge/internal/resolver"
	"jukebridge/internal/services"
)

func TestResolveUsesRelayMetadata(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "some song" {
			t.Fatalf("unexpected query param: %q", got)
		}
		if got := r.URL.Query().Get("user"); got != "u1" {
			t.Fatalf("unexpected user param: %q", got)
		}
		if got := r.URL.Query().Get("userid"); got != "42" {
			t.Fatalf("unexpected userid param: %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"title":"Some Song (Official)","duration":187}`))
	}))
	defer server.Close()

	res := resolver.NewHTTPResolver(server.URL, "http://stream.example/radio", 30, server.Client())
	song, err := res.Resolve(context.Background(), request.Request{Query: "some song", User: "u1", UserID: "42"})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if song.Title != "Some Song (Official)" {
		t.Fatalf("unexpected title: %q", song.Title)
	}
	if song.DurationSeconds != 187 {
		t.Fatalf("unexpected duration: %d", song.DurationSeconds)
	}
	if song.URL != "http://stream.example/radio" {
		t.Fatalf("unexpected url: %q", song.URL)
	}
}

func TestResolveFallsBackToDefaultsOnBadBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer server.Close()

	res := resolver.NewHTTPResolver(server.URL, "http://stream.example/radio", 30, server.Client())
	song, err := res.Resolve(context.Background(), request.Request{Query: "abc"})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if song.Title != "abc" || song.DurationSeconds != 30 || song.URL != "http://stream.example/radio" {
		t.Fatalf("expected defaults, got %+v", song)
	}
}

func TestResolveErrorStatusIsResolverFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no match", http.StatusNotFound)
	}))
	defer server.Close()

	res := resolver.NewHTTPResolver(server.URL, "http://stream.example/radio", 30, server.Client())
	_, err := res.Resolve(context.Background(), request.Request{Query: "abc"})
	if !errors.Is(err, services.ErrResolver) {
		t.Fatalf("expected resolver failure, got %v", err)
	}
}

func TestStaticResolver(t *testing.T) {
	res := &resolver.Static{StreamURL: "http://stream.example/radio", DurationSeconds: 12}
	song, err := res.Resolve(context.Background(), request.Request{Query: "abc"})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if song.Title != "abc" || song.DurationSeconds != 12 {
		t.Fatalf("unexpected song: %+v", song)
	}
}
