package value

import (
	"sort"
	"strconv"
	"strings"
)

// Array is an ordered sequence of values.
type Array struct {
	base
	items []Value
}

// NewArray creates an array holding a copy of items. Nil items become Null.
func NewArray(items ...Value) Array {
	cp := make([]Value, len(items))
	for i, v := range items {
		cp[i] = OrNull(v)
	}
	return Array{items: cp}
}

func (a Array) IsArray() bool  { return true }
func (a Array) AsArray() Array { return a }

// Len returns the number of elements.
func (a Array) Len() int { return len(a.items) }

// Get returns the element at i, or Null when i is out of range.
func (a Array) Get(i int) Value {
	if i < 0 || i >= len(a.items) {
		return NullValue
	}
	return a.items[i]
}

// Items returns a copy of the elements.
func (a Array) Items() []Value {
	cp := make([]Value, len(a.items))
	copy(cp, a.items)
	return cp
}

func (a Array) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, v := range a.items {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(v.String())
	}
	sb.WriteByte(']')
	return sb.String()
}

// Map is a mapping of unique string keys to values.
type Map struct {
	base
	entries map[string]Value
}

// NewMap creates a map holding a copy of entries. Nil values become Null.
func NewMap(entries map[string]Value) Map {
	cp := make(map[string]Value, len(entries))
	for k, v := range entries {
		cp[k] = OrNull(v)
	}
	return Map{entries: cp}
}

// MapOf creates a map from alternating key/value pairs. It is a shorthand
// for tests and literals; a trailing key without a value is ignored.
func MapOf(pairs ...any) Map {
	entries := make(map[string]Value, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		k, ok := pairs[i].(string)
		if !ok {
			continue
		}
		entries[k] = FromNative(pairs[i+1])
	}
	return Map{entries: entries}
}

func (m Map) IsMap() bool { return true }
func (m Map) AsMap() Map  { return m }

// Len returns the number of entries.
func (m Map) Len() int { return len(m.entries) }

// Get returns the value stored under key.
func (m Map) Get(key string) (Value, bool) {
	v, ok := m.entries[key]
	return v, ok
}

// Lookup returns the value stored under key, or Null.
func (m Map) Lookup(key string) Value {
	if v, ok := m.entries[key]; ok {
		return v
	}
	return NullValue
}

// Keys returns the keys in sorted order.
func (m Map) Keys() []string {
	keys := make([]string, 0, len(m.entries))
	for k := range m.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Entries returns a copy of the underlying mapping.
func (m Map) Entries() map[string]Value {
	cp := make(map[string]Value, len(m.entries))
	for k, v := range m.entries {
		cp[k] = v
	}
	return cp
}

// Merge returns a new map with other's entries laid over m's.
func (m Map) Merge(other Map) Map {
	out := make(map[string]Value, len(m.entries)+len(other.entries))
	for k, v := range m.entries {
		out[k] = v
	}
	for k, v := range other.entries {
		out[k] = v
	}
	return Map{entries: out}
}

// With returns a new map with key set to v.
func (m Map) With(key string, v Value) Map {
	return m.Merge(Map{entries: map[string]Value{key: OrNull(v)}})
}

func (m Map) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, k := range m.Keys() {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(strconv.Quote(k))
		sb.WriteString(": ")
		sb.WriteString(m.entries[k].String())
	}
	sb.WriteByte('}')
	return sb.String()
}
