package testsupport

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"jukebridge/internal/services"
	"jukebridge/internal/storage"
)

// MemoryStorage is an in-memory storage.Client with real version-token
// semantics: every write bumps a per-key counter and conditional writes fail
// with services.ErrVersionConflict on token mismatch.
type MemoryStorage struct {
	mu      sync.Mutex
	objects map[string]*memoryObject

	// FailGets and FailPuts, when set, make the next N calls fail with a
	// transient error.
	FailGets int
	FailPuts int

	// PutHook runs once before the next Put applies. Tests use it to
	// interleave a competing writer; calling Seed from the hook is safe.
	PutHook func(key string)

	puts int
	gets int
}

type memoryObject struct {
	value   string
	version int
}

// NewMemoryStorage returns an empty in-memory storage backend.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{objects: make(map[string]*memoryObject)}
}

func (m *MemoryStorage) Get(ctx context.Context, key string) (*storage.Object, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.gets++
	if m.FailGets > 0 {
		m.FailGets--
		return nil, services.Wrap(services.ErrTransient, "storage", "get", key, fmt.Errorf("injected failure"))
	}

	obj, ok := m.objects[key]
	if !ok {
		return nil, nil
	}
	return &storage.Object{
		Key:     key,
		Value:   obj.value,
		Version: storage.Version(strconv.Itoa(obj.version)),
	}, nil
}

func (m *MemoryStorage) Put(ctx context.Context, key, value string, expected storage.Version) (storage.Version, error) {
	m.mu.Lock()
	hook := m.PutHook
	m.PutHook = nil
	m.mu.Unlock()
	if hook != nil {
		hook(key)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.puts++
	if m.FailPuts > 0 {
		m.FailPuts--
		return nil, services.Wrap(services.ErrTransient, "storage", "put", key, fmt.Errorf("injected failure"))
	}

	obj, ok := m.objects[key]
	if !expected.IsZero() {
		if !ok || string(expected) != strconv.Itoa(obj.version) {
			return nil, services.Wrap(services.ErrVersionConflict, "storage", "put", key, nil)
		}
	}
	if !ok {
		obj = &memoryObject{}
		m.objects[key] = obj
	}
	obj.value = value
	obj.version++
	return storage.Version(strconv.Itoa(obj.version)), nil
}

// Seed writes a value directly, bypassing failure injection, and returns its
// version token.
func (m *MemoryStorage) Seed(key, value string) storage.Version {
	m.mu.Lock()
	defer m.mu.Unlock()

	obj, ok := m.objects[key]
	if !ok {
		obj = &memoryObject{}
		m.objects[key] = obj
	}
	obj.value = value
	obj.version++
	return storage.Version(strconv.Itoa(obj.version))
}

// Value returns the stored value and whether the key exists.
func (m *MemoryStorage) Value(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	obj, ok := m.objects[key]
	if !ok {
		return "", false
	}
	return obj.value, true
}

// Puts returns the number of Put calls observed.
func (m *MemoryStorage) Puts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.puts
}

// Gets returns the number of Get calls observed.
func (m *MemoryStorage) Gets() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gets
}
