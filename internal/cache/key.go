package cache

import (
	"encoding/json"
	"strings"
)

// Key identifies one cached result. Keys are hierarchical: {"members"} is a
// prefix of {"members", "list", "family=Ebenezer"} and of {"members", "m1"}.
type Key []string

// NewKey builds a key from its parts
func NewKey(parts ...string) Key {
	return Key(parts)
}

// String is the canonical form used as the map and flight identity
func (k Key) String() string {
	data, err := json.Marshal([]string(k))
	if err != nil {
		// []string always marshals
		return strings.Join(k, "\x00")
	}
	return string(data)
}

// HasPrefix reports whether every element of prefix matches the start of k
func (k Key) HasPrefix(prefix Key) bool {
	if len(prefix) > len(k) {
		return false
	}
	for i, part := range prefix {
		if k[i] != part {
			return false
		}
	}
	return true
}

// Append returns a new key extended with parts; k is not modified
func (k Key) Append(parts ...string) Key {
	out := make(Key, 0, len(k)+len(parts))
	out = append(out, k...)
	return append(out, parts...)
}

// Equal reports element-wise equality
func (k Key) Equal(other Key) bool {
	return len(k) == len(other) && k.HasPrefix(other)
}
