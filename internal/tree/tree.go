// Package tree holds the generic value tree decoded from a snippet store
// payload. Maps keep their keys in document order so that anything derived
// from a walk over the tree is deterministic.
package tree

import (
	"math"
	"strconv"
)

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindList
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Entry is a single key/value pair of a map Value.
type Entry struct {
	Key   string
	Value *Value
}

// Value is one node of the tree. The zero Value is null.
type Value struct {
	kind    Kind
	boolean bool
	number  float64
	literal string // original number text
	str     string
	items   []*Value
	entries []Entry
}

// Null returns a null value.
func Null() *Value {
	return &Value{kind: KindNull}
}

// Bool returns a boolean value.
func Bool(b bool) *Value {
	return &Value{kind: KindBool, boolean: b}
}

// Number returns a numeric value.
func Number(f float64) *Value {
	return &Value{kind: KindNumber, number: f, literal: formatNumber(f)}
}

// String returns a string value.
func String(s string) *Value {
	return &Value{kind: KindString, str: s}
}

// List returns a list holding items in order.
func List(items ...*Value) *Value {
	if items == nil {
		items = []*Value{}
	}
	return &Value{kind: KindList, items: items}
}

// Map returns a map holding entries in order. A repeated key keeps its first
// position and takes the last value.
func Map(entries ...Entry) *Value {
	m := &Value{kind: KindMap, entries: make([]Entry, 0, len(entries))}
	for _, e := range entries {
		m.set(e.Key, e.Value)
	}
	return m
}

func (v *Value) set(key string, child *Value) {
	for i := range v.entries {
		if v.entries[i].Key == key {
			v.entries[i].Value = child
			return
		}
	}
	v.entries = append(v.entries, Entry{Key: key, Value: child})
}

// Kind reports the variant held by v. A nil Value is null.
func (v *Value) Kind() Kind {
	if v == nil {
		return KindNull
	}
	return v.kind
}

// IsNull reports whether v is null or nil.
func (v *Value) IsNull() bool { return v.Kind() == KindNull }

// IsMap reports whether v is a map.
func (v *Value) IsMap() bool { return v.Kind() == KindMap }

// IsList reports whether v is a list.
func (v *Value) IsList() bool { return v.Kind() == KindList }

// AsBool returns the boolean held by v.
func (v *Value) AsBool() (bool, bool) {
	if v.Kind() != KindBool {
		return false, false
	}
	return v.boolean, true
}

// AsNumber returns the number held by v.
func (v *Value) AsNumber() (float64, bool) {
	if v.Kind() != KindNumber {
		return 0, false
	}
	return v.number, true
}

// Literal returns the number as it was written in the source document.
func (v *Value) Literal() string {
	if v.Kind() != KindNumber {
		return ""
	}
	return v.literal
}

// AsString returns the string held by v.
func (v *Value) AsString() (string, bool) {
	if v.Kind() != KindString {
		return "", false
	}
	return v.str, true
}

// Items returns the elements of a list, or nil for any other kind.
func (v *Value) Items() []*Value {
	if v.Kind() != KindList {
		return nil
	}
	return v.items
}

// Entries returns the entries of a map in document order, or nil.
func (v *Value) Entries() []Entry {
	if v.Kind() != KindMap {
		return nil
	}
	return v.entries
}

// Len returns the number of list items or map entries.
func (v *Value) Len() int {
	switch v.Kind() {
	case KindList:
		return len(v.items)
	case KindMap:
		return len(v.entries)
	}
	return 0
}

// Lookup returns the value stored under key and whether it was present.
func (v *Value) Lookup(key string) (*Value, bool) {
	if v.Kind() != KindMap {
		return nil, false
	}
	for _, e := range v.entries {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

// Get returns the value stored under key, or nil when v is not a map or the
// key is absent.
func (v *Value) Get(key string) *Value {
	child, _ := v.Lookup(key)
	return child
}

// Equal reports whether a and b hold the same data. Map key order is ignored.
func Equal(a, b *Value) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch a.Kind() {
	case KindNull:
		return true
	case KindBool:
		return a.boolean == b.boolean
	case KindNumber:
		return a.number == b.number || (math.IsNaN(a.number) && math.IsNaN(b.number))
	case KindString:
		return a.str == b.str
	case KindList:
		if len(a.items) != len(b.items) {
			return false
		}
		for i := range a.items {
			if !Equal(a.items[i], b.items[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if len(a.entries) != len(b.entries) {
			return false
		}
		for _, e := range a.entries {
			other, ok := b.Lookup(e.Key)
			if !ok || !Equal(e.Value, other) {
				return false
			}
		}
		return true
	}
	return false
}

func formatNumber(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
