// Package runtime implements the Queitite value model, lexical
// environments, the Callable protocol, and the RuntimeEvent channel
// that the evaluator uses to propagate return/break/continue/errors.
package runtime

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Value is the tagged union of every runtime representation a
// Queitite program can produce. Go has no sum types, so the "tag" is
// the concrete type implementing this interface; type switches over
// Value stand in for the pattern match the spec describes.
type Value interface {
	Type() string
	String() string
	value()
}

// Null is the singleton null value.
type Null struct{}

func (Null) Type() string   { return "Null" }
func (Null) String() string { return "null" }
func (Null) value()         {}

// NullValue is the single shared Null instance.
var NullValue Value = Null{}

// Bool is a boolean value.
type Bool bool

func (b Bool) Type() string   { return "Bool" }
func (b Bool) String() string { return strconv.FormatBool(bool(b)) }
func (b Bool) value()         {}

// Num is a 64-bit float with total-order equality: NaN is a legal
// value and, unlike IEEE-754 `==`, a NaN equals itself (and every
// other NaN), which is what makes Num usable as a Go map key via
// NumKey below (see §9 "Numeric key-ability").
type Num float64

func (n Num) Type() string { return "Num" }
func (n Num) String() string {
	f := float64(n)
	if math.IsNaN(f) {
		return "NaN"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
func (n Num) value() {}

// NumKey is a hashable projection of a Num (its IEEE-754 bit pattern)
// suitable as a Go map key, folding every NaN bit pattern to one key.
func NumKey(n Num) uint64 {
	if math.IsNaN(float64(n)) {
		return math.Float64bits(math.NaN())
	}
	return math.Float64bits(float64(n))
}

// Str is a shared, interior-mutable string buffer. Multiple bindings
// may alias the same *Str; mutating Buf through one alias is visible
// through all of them.
type Str struct {
	Buf string
}

func NewStr(s string) *Str    { return &Str{Buf: s} }
func (s *Str) Type() string   { return "Str" }
func (s *Str) String() string { return s.Buf }
func (s *Str) value()         {}

// List is a shared, interior-mutable ordered sequence of Value.
type List struct {
	Items []Value
}

func NewList(items []Value) *List { return &List{Items: items} }
func (l *List) Type() string      { return "List" }
func (l *List) String() string {
	parts := make([]string, len(l.Items))
	for i, v := range l.Items {
		parts[i] = v.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
func (l *List) value() {}

// CallableValue wraps any Callable so it can flow through the value
// algebra as a first-class Value. A Callable never equals another
// Callable (§3 invariants).
type CallableValue struct {
	Callable Callable
}

func (c CallableValue) Type() string   { return "Callable" }
func (c CallableValue) String() string { return fmt.Sprintf("<fn %s>", c.Callable.Name()) }
func (c CallableValue) value()         {}

// IsTruthy implements §3's truthiness contract: false, Null, and
// Num(0) are falsey; everything else is truthy. The reference source
// inverts this for Num (see SPEC_FULL.md §9); this implementation
// uses the corrected contract.
func IsTruthy(v Value) bool {
	switch x := v.(type) {
	case Bool:
		return bool(x)
	case Null:
		return false
	case Num:
		return float64(x) != 0
	default:
		return true
	}
}

// IsEqual implements §3 Value equality: structural for Null/Bool/Num/Str,
// name-based for Obj, never-equal for Callable/List/Instance.
func IsEqual(a, b Value) bool {
	switch av := a.(type) {
	case Null:
		_, ok := b.(Null)
		return ok
	case Bool:
		bv, ok := b.(Bool)
		return ok && av == bv
	case Num:
		bv, ok := b.(Num)
		if !ok {
			return false
		}
		if math.IsNaN(float64(av)) && math.IsNaN(float64(bv)) {
			return true
		}
		return av == bv
	case *Str:
		bv, ok := b.(*Str)
		return ok && av.Buf == bv.Buf
	case *Obj:
		bv, ok := b.(*Obj)
		return ok && av.Name == bv.Name
	default:
		// Callable, *List, *Instance: identity-only, and this spec
		// never treats two distinct such values as equal.
		return false
	}
}
