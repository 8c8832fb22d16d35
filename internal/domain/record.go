package domain

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Record is a flat field-name to value mapping that remembers insertion order.
// Overwriting an existing key keeps its original position.
type Record struct {
	fields *orderedmap.OrderedMap[string, string]
}

// NewRecord returns an empty Record.
func NewRecord() *Record {
	return &Record{fields: orderedmap.New[string, string]()}
}

// RecordOf builds a Record from alternating key/value arguments.
func RecordOf(kv ...string) *Record {
	r := NewRecord()
	for i := 0; i+1 < len(kv); i += 2 {
		r.Set(kv[i], kv[i+1])
	}
	return r
}

func (r *Record) init() {
	if r.fields == nil {
		r.fields = orderedmap.New[string, string]()
	}
}

// Set stores value under key.
func (r *Record) Set(key, value string) {
	r.init()
	r.fields.Set(key, value)
}

// Lookup returns the value for key and whether it was present.
func (r *Record) Lookup(key string) (string, bool) {
	if r == nil || r.fields == nil {
		return "", false
	}
	return r.fields.Get(key)
}

// Get returns the value for key, or "" when absent.
func (r *Record) Get(key string) string {
	v, _ := r.Lookup(key)
	return v
}

// Len returns the number of fields.
func (r *Record) Len() int {
	if r == nil || r.fields == nil {
		return 0
	}
	return r.fields.Len()
}

// Keys returns the field names in insertion order.
func (r *Record) Keys() []string {
	if r == nil || r.fields == nil {
		return nil
	}
	keys := make([]string, 0, r.fields.Len())
	for p := r.fields.Oldest(); p != nil; p = p.Next() {
		keys = append(keys, p.Key)
	}
	return keys
}

// Merge copies every field of other into r, in other's order.
func (r *Record) Merge(other *Record) {
	if other == nil || other.fields == nil {
		return
	}
	for p := other.fields.Oldest(); p != nil; p = p.Next() {
		r.Set(p.Key, p.Value)
	}
}

// MarshalJSON encodes the record as a JSON object in insertion order.
func (r *Record) MarshalJSON() ([]byte, error) {
	r.init()
	return r.fields.MarshalJSON()
}
