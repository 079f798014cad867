package queuesync

import (
	"encoding/json"
	"fmt"
)

// Entry is one song in the playback queue. Entries are immutable while
// queued; they are appended and removed, never edited or reordered.
//
// JSON field names match the wire format the in-world script consumes.
type Entry struct {
	Title           string `json:"title"`
	URL             string `json:"url"`
	DurationSeconds int    `json:"duration"`
	RequestedBy     string `json:"user"`
	RequestedByID   string `json:"userid"`
}

// document is the structured payload stored under the queue key.
type document struct {
	Entries []Entry `json:"q"`
}

func encodeValue(entries []Entry) (string, error) {
	doc := document{Entries: entries}
	if doc.Entries == nil {
		doc.Entries = []Entry{}
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encode queue document: %w", err)
	}
	return string(data), nil
}

// DecodeValue parses a raw queue object value into entries. Both enveloped
// and legacy raw-JSON values are accepted; anything unparsable reads as an
// empty queue.
func DecodeValue(value string) ([]Entry, bool) {
	payload := value
	if inner, ok := stripEnvelope(value); ok {
		payload = inner
	}
	var doc document
	if err := json.Unmarshal([]byte(payload), &doc); err != nil {
		return nil, false
	}
	return doc.Entries, true
}

func cloneEntries(entries []Entry) []Entry {
	if len(entries) == 0 {
		return nil
	}
	cp := make([]Entry, len(entries))
	copy(cp, entries)
	return cp
}
