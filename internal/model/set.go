package model

import (
	"encoding/json"
	"sort"
)

// StringSet is an unordered collection of unique keys. The zero value is
// usable for reads; Add allocates on first use when called on a pointer
// receiver via ensure below, so constructors should use NewStringSet.
type StringSet map[string]struct{}

// NewStringSet builds a set from the given keys.
func NewStringSet(keys ...string) StringSet {
	s := make(StringSet, len(keys))
	for _, k := range keys {
		s[k] = struct{}{}
	}
	return s
}

// Has reports whether key is a member of the set.
func (s StringSet) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// Add inserts key into the set. Inserting an existing key is a no-op.
func (s StringSet) Add(key string) {
	s[key] = struct{}{}
}

// Len returns the number of members.
func (s StringSet) Len() int {
	return len(s)
}

// Clone returns an independent copy of the set.
func (s StringSet) Clone() StringSet {
	c := make(StringSet, len(s))
	for k := range s {
		c[k] = struct{}{}
	}
	return c
}

// Sorted returns the members as a sorted slice.
func (s StringSet) Sorted() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Equal reports whether both sets contain exactly the same members.
func (s StringSet) Equal(other StringSet) bool {
	if len(s) != len(other) {
		return false
	}
	for k := range s {
		if !other.Has(k) {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the set as a sorted JSON array so stored payloads
// are deterministic.
func (s StringSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

// UnmarshalJSON decodes a JSON array of strings. Malformed payloads decode
// to the empty set rather than failing; stored blobs predate the current
// schema and must never block a read.
func (s *StringSet) UnmarshalJSON(data []byte) error {
	var keys []string
	if err := json.Unmarshal(data, &keys); err != nil {
		*s = NewStringSet()
		return nil
	}
	*s = NewStringSet(keys...)
	return nil
}

// DecodeStringSet decodes a stored JSON payload into a set. It never
// fails: malformed or empty input yields an empty set.
func DecodeStringSet(data []byte) StringSet {
	if len(data) == 0 {
		return NewStringSet()
	}
	var s StringSet
	_ = s.UnmarshalJSON(data)
	return s
}
