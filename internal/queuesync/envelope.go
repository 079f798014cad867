package queuesync

import "strings"

// The in-world script evaluates the raw queue value as Lua. Wrapping the JSON
// document in a long-string literal makes the interpreter treat it as opaque
// text instead of code.
const (
	envelopePrefix = "return [["
	envelopeSuffix = "]]"
)

func wrapPayload(payload string) string {
	return envelopePrefix + payload + envelopeSuffix
}

func stripEnvelope(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, envelopePrefix) || !strings.HasSuffix(trimmed, envelopeSuffix) {
		return "", false
	}
	inner := strings.TrimPrefix(trimmed, envelopePrefix)
	inner = strings.TrimSuffix(inner, envelopeSuffix)
	return inner, true
}
