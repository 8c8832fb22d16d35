package extraction

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"poextract/internal/domain"
)

// DecodeError reports a model response that could not be turned into a JSON
// object. It matches domain.ErrMalformedResponse under errors.Is.
type DecodeError struct {
	Reason string
	Raw    string
	Err    error
}

func (e *DecodeError) Error() string {
	msg := "decode model response: " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return fmt.Sprintf("%s (raw: %s)", msg, truncate(e.Raw, 300))
}

func (e *DecodeError) Unwrap() error { return e.Err }

func (e *DecodeError) Is(target error) bool { return target == domain.ErrMalformedResponse }

// SliceJSON returns the substring from the first '{' to the last '}'
// inclusive. It is a best-effort tolerance for prose around the JSON: a '}'
// in trailing prose or a response cut off by the token limit still breaks it.
func SliceJSON(raw string) (string, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end < start {
		return "", &DecodeError{Reason: "no JSON object found", Raw: raw}
	}
	return raw[start : end+1], nil
}

// DecodeObject slices the JSON object out of raw and decodes it generically.
func DecodeObject(raw string) (map[string]any, error) {
	var out map[string]any
	if err := decodeInto(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// decodeInto is the shared first step: slice the object, then unmarshal it.
func decodeInto(raw string, v any) error {
	sliced, err := SliceJSON(raw)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(sliced), v); err != nil {
		return &DecodeError{Reason: "invalid JSON", Raw: raw, Err: err}
	}
	return nil
}

type rawExtraction struct {
	Header *orderedmap.OrderedMap[string, json.RawMessage]   `json:"header"`
	Items  []*orderedmap.OrderedMap[string, json.RawMessage] `json:"items"`
}

// ParseExtraction decodes a model response into header and items, keeping
// the key order the model used. Values are rendered as strings; the result
// is not checked against the schema.
func ParseExtraction(docType domain.DocumentType, raw string) (*domain.ExtractionResult, error) {
	var parsed rawExtraction
	if err := decodeInto(raw, &parsed); err != nil {
		return nil, err
	}

	result := &domain.ExtractionResult{
		DocumentType: docType,
		Header:       toRecord(parsed.Header),
		Items:        make([]*domain.Record, 0, len(parsed.Items)),
	}
	for _, item := range parsed.Items {
		result.Items = append(result.Items, toRecord(item))
	}
	return result, nil
}

func toRecord(m *orderedmap.OrderedMap[string, json.RawMessage]) *domain.Record {
	rec := domain.NewRecord()
	if m == nil {
		return rec
	}
	for p := m.Oldest(); p != nil; p = p.Next() {
		rec.Set(p.Key, cellText(p.Value))
	}
	return rec
}

// cellText renders a raw JSON value as cell text. Strings are unquoted and
// null is empty. Numbers and booleans keep their literal text, so 5.0 and
// long integers reach the sheet exactly as the model wrote them.
func cellText(v json.RawMessage) string {
	v = bytes.TrimSpace(v)
	switch {
	case len(v) == 0, bytes.Equal(v, []byte("null")):
		return ""
	case v[0] == '"':
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return string(v)
		}
		return s
	case v[0] == '{', v[0] == '[':
		var buf bytes.Buffer
		if err := json.Compact(&buf, v); err != nil {
			return string(v)
		}
		return buf.String()
	default:
		return string(v)
	}
}

// truncate cuts s to at most maxLen bytes without splitting a rune.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
