package analyzer

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// parseObject decodes reply as a JSON object, retrying once with any
// markdown code fence removed.
func parseObject(reply string) (map[string]json.RawMessage, bool) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(reply), &obj); err == nil && obj != nil {
		return obj, true
	}

	if err := json.Unmarshal([]byte(extractJSON(reply)), &obj); err == nil && obj != nil {
		return obj, true
	}

	return nil, false
}

// extractJSON strips a surrounding markdown code block, with or without a
// language tag, and surrounding whitespace.
func extractJSON(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}

	start := strings.IndexByte(content, '\n')
	if start < 0 {
		return content
	}
	body := content[start+1:]

	if end := strings.LastIndex(body, "```"); end >= 0 {
		body = body[:end]
	}
	return strings.TrimSpace(body)
}

// Text accepts any JSON scalar. Models are inconsistent about quoting ids
// and dates; numbers and booleans keep their literal form, null is empty and
// objects or arrays keep their compact JSON.
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*t = ""
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Text(s)
	default:
		var buf bytes.Buffer
		if err := json.Compact(&buf, b); err != nil {
			return err
		}
		*t = Text(buf.String())
	}
	return nil
}

func (t Text) String() string {
	return string(t)
}

// Int64 reads t as an integer, returning 0 when it is not one.
func (t Text) Int64() int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(string(t)), 10, 64)
	if err != nil {
		// 12.0 from a model that emits floats.
		if f, ferr := strconv.ParseFloat(strings.TrimSpace(string(t)), 64); ferr == nil && f == float64(int64(f)) {
			return int64(f)
		}
		return 0
	}
	return n
}

// field returns obj[key] as text and whether the key was present and non-null.
func field(obj map[string]json.RawMessage, key string) (*string, bool) {
	raw, ok := obj[key]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, false
	}
	var t Text
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, false
	}
	s := string(t)
	return &s, true
}

func fieldString(obj map[string]json.RawMessage, key, fallback string) string {
	if s, ok := field(obj, key); ok {
		return *s
	}
	return fallback
}

// list returns obj[key] as a slice of raw elements. A present array yields a
// non-nil slice even when empty; anything else yields nil.
func list(obj map[string]json.RawMessage, key string) []json.RawMessage {
	raw, ok := obj[key]
	if !ok {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil || items == nil {
		return nil
	}
	return items
}
