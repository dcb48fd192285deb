package logging

import (
	"regexp"
	"strings"
)

const redacted = "[REDACTED]"

var keySegments = regexp.MustCompile(`[^a-z0-9]+`)

// redactor masks values whose key contains a sensitive word as a whole
// segment: "task_title" matches "title", "subtitle" does not.
type redactor struct {
	words map[string]bool
}

func newRedactor(words ...string) *redactor {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[strings.ToLower(w)] = true
	}
	return &redactor{words: m}
}

// redact returns a copy of the flattened key/value pairs with sensitive
// values replaced.
func (r *redactor) redact(pairs []any) []any {
	if len(pairs) == 0 {
		return pairs
	}
	out := make([]any, len(pairs))
	copy(out, pairs)
	for i := 0; i+1 < len(out); i += 2 {
		if key, ok := out[i].(string); ok && r.isSensitive(key) {
			out[i+1] = redacted
		}
	}
	return out
}

func (r *redactor) isSensitive(key string) bool {
	for _, part := range keySegments.Split(strings.ToLower(key), -1) {
		if r.words[part] {
			return true
		}
	}
	return false
}
