// Package kv provides a small tagged union used to pass typed
// solver metrics and problem statistics to observers without forcing
// either side to stringify eagerly.
package kv

import "fmt"

// Kind identifies which field of a Value is populated.
type Kind int

const (
	KindFloat Kind = iota
	KindInt
	KindUint
	KindBool
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindFloat:
		return "float"
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	default:
		return "unknown"
	}
}

// Value is a tagged scalar. The zero Value is a Float of 0.
type Value struct {
	kind Kind
	f    float64
	i    int64
	u    uint64
	b    bool
	s    string
}

func Float(v float64) Value { return Value{kind: KindFloat, f: v} }
func Int(v int64) Value     { return Value{kind: KindInt, i: v} }
func Uint(v uint64) Value   { return Value{kind: KindUint, u: v} }
func Bool(v bool) Value     { return Value{kind: KindBool, b: v} }
func String(v string) Value { return Value{kind: KindString, s: v} }

// Kind reports which accessor is valid.
func (v Value) Kind() Kind { return v.kind }

// Float returns the float64 payload and whether the Value holds one.
func (v Value) Float() (float64, bool) { return v.f, v.kind == KindFloat }

// Int returns the int64 payload and whether the Value holds one.
func (v Value) Int() (int64, bool) { return v.i, v.kind == KindInt }

// Uint returns the uint64 payload and whether the Value holds one.
func (v Value) Uint() (uint64, bool) { return v.u, v.kind == KindUint }

// Bool returns the bool payload and whether the Value holds one.
func (v Value) Bool() (bool, bool) { return v.b, v.kind == KindBool }

// String returns the string payload and whether the Value holds one.
func (v Value) String() (string, bool) { return v.s, v.kind == KindString }

// Render renders the Value for display purposes only. Observers that
// care about the underlying type should use the typed accessors instead.
func (v Value) Render() string {
	switch v.kind {
	case KindFloat:
		return fmt.Sprintf("%g", v.f)
	case KindInt:
		return fmt.Sprintf("%d", v.i)
	case KindUint:
		return fmt.Sprintf("%d", v.u)
	case KindBool:
		return fmt.Sprintf("%t", v.b)
	case KindString:
		return v.s
	default:
		return "<invalid>"
	}
}

// KV is an ordered set of named Values reported at init and at each
// observed iteration. Order is insertion order, matching the order a
// solver or the engine produced the entries.
type KV struct {
	keys   []string
	values map[string]Value
}

// New returns an empty KV ready for use.
func New() *KV {
	return &KV{values: make(map[string]Value)}
}

// Set assigns key to value, preserving first-insertion order for Keys.
func (kv *KV) Set(key string, value Value) *KV {
	if kv.values == nil {
		kv.values = make(map[string]Value)
	}
	if _, exists := kv.values[key]; !exists {
		kv.keys = append(kv.keys, key)
	}
	kv.values[key] = value
	return kv
}

// Get returns the Value stored under key, if any.
func (kv *KV) Get(key string) (Value, bool) {
	if kv == nil {
		return Value{}, false
	}
	v, ok := kv.values[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (kv *KV) Keys() []string {
	if kv == nil {
		return nil
	}
	out := make([]string, len(kv.keys))
	copy(out, kv.keys)
	return out
}

// Len reports the number of entries, treating a nil receiver as empty.
func (kv *KV) Len() int {
	if kv == nil {
		return 0
	}
	return len(kv.keys)
}
