package queuesync_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"jukebridge/internal/logging"
	"jukebridge/internal/queuesync"
	"jukebridge/internal/services"
	"jukebridge/internal/testsupport"
)

const queueKey = "music_queue"

func newSynchronizer(store *testsupport.MemoryStorage) *queuesync.Synchronizer {
	return queuesync.New(store, queueKey, logging.NewNop())
}

func TestLoadAbsentKeyYieldsEmptyQueue(t *testing.T) {
	store := testsupport.NewMemoryStorage()
	sync := newSynchronizer(store)

	if err := sync.Load(context.Background()); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if sync.Len() != 0 {
		t.Fatalf("expected empty queue, got %d entries", sync.Len())
	}
}

func TestLoadUnparsableValueYieldsEmptyQueue(t *testing.T) {
	store := testsupport.NewMemoryStorage()
	store.Seed(queueKey, "return [[corrupted")
	sync := newSynchronizer(store)

	if err := sync.Load(context.Background()); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if sync.Len() != 0 {
		t.Fatalf("expected empty queue, got %d entries", sync.Len())
	}
}

func TestAppendKeepsFIFOOrderAndPersistsWrapped(t *testing.T) {
	store := testsupport.NewMemoryStorage()
	sync := newSynchronizer(store)
	ctx := context.Background()

	if err := sync.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	for _, title := range []string{"first", "second", "third"} {
		if err := sync.Append(ctx, queuesync.Entry{Title: title, DurationSeconds: 30}); err != nil {
			t.Fatalf("Append(%s): %v", title, err)
		}
	}

	entries := sync.Entries()
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	for i, want := range []string{"first", "second", "third"} {
		if entries[i].Title != want {
			t.Fatalf("position %d: got %q want %q", i, entries[i].Title, want)
		}
	}

	value, ok := store.Value(queueKey)
	if !ok {
		t.Fatal("expected queue object to exist")
	}
	if !strings.HasPrefix(value, "return [[") || !strings.HasSuffix(value, "]]") {
		t.Fatalf("expected wrapped value, got %q", value)
	}
	remote, ok := queuesync.DecodeValue(value)
	if !ok || len(remote) != 3 {
		t.Fatalf("remote value should parse to 3 entries: %v %v", remote, ok)
	}
}

func TestAppendReconcilesAfterConflict(t *testing.T) {
	store := testsupport.NewMemoryStorage()
	store.Seed(queueKey, `return [[{"q":[]}]]`)
	sync := newSynchronizer(store)
	ctx := context.Background()

	if err := sync.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}

	// A competing writer lands between our load and our write.
	store.PutHook = func(key string) {
		store.Seed(queueKey, `return [[{"q":[{"title":"rival","duration":10}]}]]`)
	}

	if err := sync.Append(ctx, queuesync.Entry{Title: "mine", DurationSeconds: 20}); err != nil {
		t.Fatalf("Append after conflict: %v", err)
	}

	value, _ := store.Value(queueKey)
	remote, ok := queuesync.DecodeValue(value)
	if !ok {
		t.Fatalf("remote value unparsable: %q", value)
	}
	if len(remote) != 2 {
		t.Fatalf("expected both writers' entries, got %v", remote)
	}
	if remote[0].Title != "rival" || remote[1].Title != "mine" {
		t.Fatalf("unexpected reconciled order: %v", remote)
	}
}

func TestAppendSurfacesSecondConflict(t *testing.T) {
	store := testsupport.NewMemoryStorage()
	store.Seed(queueKey, `return [[{"q":[]}]]`)
	sync := newSynchronizer(store)
	ctx := context.Background()

	if err := sync.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}

	var interfere func(string)
	interfere = func(key string) {
		store.Seed(queueKey, `return [[{"q":[]}]]`)
		store.PutHook = interfere
	}
	store.PutHook = interfere

	err := sync.Append(ctx, queuesync.Entry{Title: "mine"})
	if !errors.Is(err, services.ErrVersionConflict) {
		t.Fatalf("expected surfaced conflict, got %v", err)
	}
	// The failed append must not linger in local state.
	if sync.Len() != 0 {
		t.Fatalf("expected local queue unchanged, got %d entries", sync.Len())
	}
}

func TestPopHeadRemovesExactlyOne(t *testing.T) {
	store := testsupport.NewMemoryStorage()
	store.Seed(queueKey, `return [[{"q":[{"title":"a","duration":5},{"title":"b","duration":5}]}]]`)
	sync := newSynchronizer(store)
	ctx := context.Background()

	if err := sync.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}

	popped, err := sync.PopHead(ctx)
	if err != nil {
		t.Fatalf("PopHead: %v", err)
	}
	if popped == nil || popped.Title != "a" {
		t.Fatalf("unexpected popped entry: %+v", popped)
	}
	if head, ok := sync.Head(); !ok || head.Title != "b" {
		t.Fatalf("unexpected new head: %+v ok=%v", head, ok)
	}

	value, _ := store.Value(queueKey)
	remote, _ := queuesync.DecodeValue(value)
	if len(remote) != 1 || remote[0].Title != "b" {
		t.Fatalf("unexpected remote queue after pop: %v", remote)
	}
}

func TestPopHeadOnEmptyQueueIsNoop(t *testing.T) {
	store := testsupport.NewMemoryStorage()
	sync := newSynchronizer(store)
	ctx := context.Background()

	if err := sync.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	before := store.Puts()

	popped, err := sync.PopHead(ctx)
	if err != nil {
		t.Fatalf("PopHead: %v", err)
	}
	if popped != nil {
		t.Fatalf("expected nil entry, got %+v", popped)
	}
	if store.Puts() != before {
		t.Fatal("empty pop should not write")
	}
}

func TestPopHeadDoesNotDropRivalHeadAfterConflict(t *testing.T) {
	store := testsupport.NewMemoryStorage()
	store.Seed(queueKey, `return [[{"q":[{"title":"a","duration":5}]}]]`)
	sync := newSynchronizer(store)
	ctx := context.Background()

	if err := sync.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}

	// A competing instance already popped "a" and started "b".
	store.PutHook = func(key string) {
		store.Seed(queueKey, `return [[{"q":[{"title":"b","duration":5}]}]]`)
	}

	if _, err := sync.PopHead(ctx); err != nil {
		t.Fatalf("PopHead after conflict: %v", err)
	}

	value, _ := store.Value(queueKey)
	remote, _ := queuesync.DecodeValue(value)
	if len(remote) != 1 || remote[0].Title != "b" {
		t.Fatalf("rival's head must survive the reconciled pop: %v", remote)
	}
}

func TestSanitizeRewritesLegacyValueWrapped(t *testing.T) {
	store := testsupport.NewMemoryStorage()
	store.Seed(queueKey, `{"q":[{"title":"legacy","duration":15}]}`)
	sync := newSynchronizer(store)
	ctx := context.Background()

	if err := sync.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := sync.Sanitize(ctx); err != nil {
		t.Fatalf("Sanitize: %v", err)
	}

	value, _ := store.Value(queueKey)
	if !strings.HasPrefix(value, "return [[") {
		t.Fatalf("expected sanitized value to be wrapped, got %q", value)
	}
	remote, ok := queuesync.DecodeValue(value)
	if !ok || len(remote) != 1 || remote[0].Title != "legacy" {
		t.Fatalf("sanitize must preserve entries: %v %v", remote, ok)
	}
}
