package runtime

import (
	"math"
	"testing"
)

func TestIsTruthy(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want bool
	}{
		{"false", Bool(false), false},
		{"true", Bool(true), true},
		{"null", NullValue, false},
		{"zero", Num(0), false},
		{"nonzero", Num(1), true},
		{"negative", Num(-1), true},
		{"nan", Num(math.NaN()), true},
		{"empty str", NewStr(""), true},
		{"empty list", NewList(nil), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsTruthy(tt.v); got != tt.want {
				t.Errorf("IsTruthy(%v) = %v, want %v", tt.v, got, tt.want)
			}
		})
	}
}

func TestIsEqualNum(t *testing.T) {
	if !IsEqual(Num(1), Num(1)) {
		t.Error("expected 1 == 1")
	}
	if IsEqual(Num(1), Num(2)) {
		t.Error("expected 1 != 2")
	}
	if !IsEqual(Num(math.NaN()), Num(math.NaN())) {
		t.Error("expected NaN == NaN under this value model")
	}
}

func TestIsEqualStr(t *testing.T) {
	a := NewStr("hi")
	b := NewStr("hi")
	if !IsEqual(a, b) {
		t.Error("expected structurally-equal strings to be equal")
	}
	if IsEqual(a, NewStr("bye")) {
		t.Error("expected different strings to be unequal")
	}
}

func TestIsEqualObjByName(t *testing.T) {
	a := NewObj("Point", nil)
	b := NewObj("Point", nil)
	if !IsEqual(a, b) {
		t.Error("expected Obj equality to be name-based")
	}
	if IsEqual(a, NewObj("Other", nil)) {
		t.Error("expected differently-named Obj to be unequal")
	}
}

func TestIsEqualListNeverEqual(t *testing.T) {
	l := NewList([]Value{Num(1)})
	if IsEqual(l, l) {
		t.Error("expected List to never compare equal, even to itself")
	}
}

func TestNumKeyFoldsNaN(t *testing.T) {
	nan1 := math.Float64frombits(0x7ff8000000000001)
	nan2 := math.Float64frombits(0x7ff8000000000002)
	if NumKey(Num(nan1)) != NumKey(Num(nan2)) {
		t.Error("expected all NaN bit patterns to fold to the same key")
	}
	if NumKey(Num(1)) == NumKey(Num(math.NaN())) {
		t.Error("expected NaN key to differ from a real number's key")
	}
}

func TestNumString(t *testing.T) {
	tests := []struct {
		n    Num
		want string
	}{
		{Num(3), "3"},
		{Num(3.5), "3.5"},
		{Num(math.NaN()), "NaN"},
		{Num(math.Inf(1)), "+Inf"},
	}
	for _, tt := range tests {
		if got := tt.n.String(); got != tt.want {
			t.Errorf("Num(%v).String() = %q, want %q", float64(tt.n), got, tt.want)
		}
	}
}
