package inbox_test

import (
	"context"
	"errors"
	"testing"

	"jukebridge/internal/inbox"
	"jukebridge/internal/logging"
	"jukebridge/internal/queuesync"
	"jukebridge/internal/request"
	"jukebridge/internal/resolver"
	"jukebridge/internal/services"
	"jukebridge/internal/testsupport"
)

const (
	inboxKey = "bot_inbox"
	queueKey = "music_queue"
)

func newProcessor(store *testsupport.MemoryStorage, songs resolver.Resolver) (*inbox.Processor, *queuesync.Synchronizer) {
	queue := queuesync.New(store, queueKey, logging.NewNop())
	if songs == nil {
		songs = &resolver.Static{StreamURL: "http://stream.example/radio", DurationSeconds: 30}
	}
	return inbox.NewProcessor(store, inboxKey, songs, queue, logging.NewNop()), queue
}

func TestProcessEmptyInboxIsNoop(t *testing.T) {
	store := testsupport.NewMemoryStorage()
	proc, _ := newProcessor(store, nil)

	appended, err := proc.Process(context.Background())
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if appended {
		t.Fatal("nothing to append from an absent inbox")
	}
	if store.Puts() != 0 {
		t.Fatal("absent inbox must not be written")
	}
}

func TestProcessDrainsClearsAndAppends(t *testing.T) {
	store := testsupport.NewMemoryStorage()
	store.Seed(inboxKey, `{"query":"abc","user":"u1","userId":"42"}`)
	proc, queue := newProcessor(store, nil)
	ctx := context.Background()

	appended, err := proc.Process(ctx)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if !appended {
		t.Fatal("expected an appended entry")
	}

	// Inbox cleared.
	value, ok := store.Value(inboxKey)
	if !ok || value != "" {
		t.Fatalf("expected cleared inbox, got %q", value)
	}

	head, ok := queue.Head()
	if !ok {
		t.Fatal("expected a queued entry")
	}
	if head.Title != "abc" || head.RequestedBy != "u1" || head.RequestedByID != "42" {
		t.Fatalf("unexpected entry: %+v", head)
	}
	if head.DurationSeconds != 30 {
		t.Fatalf("unexpected duration: %d", head.DurationSeconds)
	}

	// A second read before a new producer write finds nothing.
	appended, err = proc.Process(ctx)
	if err != nil || appended {
		t.Fatalf("expected drained inbox to be empty: appended=%v err=%v", appended, err)
	}
}

func TestProcessClearsBeforeResolving(t *testing.T) {
	store := testsupport.NewMemoryStorage()
	store.Seed(inboxKey, "just text")
	songs := &resolver.Static{Err: services.Wrap(services.ErrResolver, "resolver", "resolve", "down", nil)}
	proc, queue := newProcessor(store, songs)

	appended, err := proc.Process(context.Background())
	if !errors.Is(err, services.ErrResolver) {
		t.Fatalf("expected resolver failure, got %v", err)
	}
	if appended {
		t.Fatal("failed resolution must not append")
	}

	// The clear already happened: the request is dropped, never retried.
	value, _ := store.Value(inboxKey)
	if value != "" {
		t.Fatalf("expected cleared inbox despite resolver failure, got %q", value)
	}
	if queue.Len() != 0 {
		t.Fatalf("queue must stay empty, got %d entries", queue.Len())
	}
}

func TestProcessDefersWhenProducerOverwritesInbox(t *testing.T) {
	store := testsupport.NewMemoryStorage()
	store.Seed(inboxKey, "first request")
	proc, queue := newProcessor(store, nil)

	// Producer writes again between our read and our clear.
	store.PutHook = func(key string) {
		store.Seed(inboxKey, "second request")
	}

	appended, err := proc.Process(context.Background())
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if appended {
		t.Fatal("conflicted drain must not append")
	}
	if queue.Len() != 0 {
		t.Fatal("conflicted drain must not touch the queue")
	}

	// The newer request survives for the next cycle.
	value, _ := store.Value(inboxKey)
	if value != "second request" {
		t.Fatalf("expected newer request preserved, got %q", value)
	}
}

func TestProcessPlainTextRequestGetsUnknownUser(t *testing.T) {
	store := testsupport.NewMemoryStorage()
	store.Seed(inboxKey, "play something good")
	proc, queue := newProcessor(store, nil)

	if _, err := proc.Process(context.Background()); err != nil {
		t.Fatalf("Process: %v", err)
	}
	head, ok := queue.Head()
	if !ok {
		t.Fatal("expected a queued entry")
	}
	if head.RequestedBy != request.UnknownUser || head.RequestedByID != "" {
		t.Fatalf("unexpected requester identity: %+v", head)
	}
}

func TestProcessTransientGetFailureSurfaces(t *testing.T) {
	store := testsupport.NewMemoryStorage()
	store.Seed(inboxKey, "request")
	store.FailGets = 1
	proc, _ := newProcessor(store, nil)

	_, err := proc.Process(context.Background())
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient error, got %v", err)
	}

	// The request is untouched and drains on the next attempt.
	appended, err := proc.Process(context.Background())
	if err != nil || !appended {
		t.Fatalf("expected successful drain on retry: appended=%v err=%v", appended, err)
	}
}
