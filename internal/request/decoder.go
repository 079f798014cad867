package request

import (
	"encoding/json"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// UnknownUser is attributed to requests whose payload carried no usable
// requester identity.
const UnknownUser = "Unknown"

// Request is one drained inbox entry: a free-text song query plus the
// requester's identity.
type Request struct {
	Query  string `json:"query"`
	User   string `json:"user"`
	UserID string `json:"userId"`
}

// Decode turns a raw inbox value into a Request. The second return value is
// false when the inbox is empty.
//
// The inbox is written by an external producer whose encoding has varied
// between versions, so decoding is an ordered fallback chain: a structured
// JSON parse first; when the payload is itself a JSON string, the embedded
// document is parsed a second time; when nothing parses, the raw text becomes
// the query so a request is never dropped outright.
func Decode(raw string) (Request, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Request{}, false
	}

	if req, ok := parseStructured(trimmed); ok {
		return normalize(req), true
	}

	var embedded string
	if err := json.Unmarshal([]byte(trimmed), &embedded); err == nil {
		if req, ok := parseStructured(embedded); ok {
			return normalize(req), true
		}
	}

	return normalize(Request{Query: trimmed}), true
}

func parseStructured(value string) (Request, bool) {
	var req Request
	if err := json.Unmarshal([]byte(value), &req); err != nil {
		return Request{}, false
	}
	if strings.TrimSpace(req.Query) == "" {
		return Request{}, false
	}
	return req, true
}

func normalize(req Request) Request {
	req.Query = norm.NFC.String(strings.TrimSpace(req.Query))
	req.User = strings.TrimSpace(req.User)
	if req.User == "" {
		req.User = UnknownUser
	}
	req.UserID = strings.TrimSpace(req.UserID)
	return req
}
