package runtime

import (
	"testing"

	"github.com/qewer33/queitite/internal/token"
)

func TestEnvironmentDefineGet(t *testing.T) {
	env := NewEnvironment()
	env.Define("x", Num(42))
	v, event := env.Get("x", token.Cursor{})
	if event != nil {
		t.Fatalf("unexpected event: %+v", event)
	}
	if n, ok := v.(Num); !ok || n != 42 {
		t.Fatalf("expected Num(42), got %v", v)
	}
}

func TestEnvironmentGetUnbound(t *testing.T) {
	env := NewEnvironment()
	_, event := env.Get("missing", token.Cursor{})
	if event == nil || event.Kind != EventErr || event.ErrorKind != NameErr {
		t.Fatalf("expected NameErr, got %+v", event)
	}
}

func TestEnvironmentEnclosedWalksParent(t *testing.T) {
	outer := NewEnvironment()
	outer.Define("x", Num(1))
	inner := NewEnclosedEnvironment(outer)
	v, event := inner.Get("x", token.Cursor{})
	if event != nil {
		t.Fatalf("unexpected event: %+v", event)
	}
	if n, _ := v.(Num); n != 1 {
		t.Fatalf("expected to resolve x from parent, got %v", v)
	}
}

func TestEnvironmentAssignMutatesNearestBinding(t *testing.T) {
	outer := NewEnvironment()
	outer.Define("x", Num(1))
	inner := NewEnclosedEnvironment(outer)

	if event := inner.Assign("x", Num(2), token.Cursor{}); event != nil {
		t.Fatalf("unexpected event: %+v", event)
	}
	v, _ := outer.Get("x", token.Cursor{})
	if n, _ := v.(Num); n != 2 {
		t.Fatalf("expected outer binding mutated to 2, got %v", v)
	}
}

func TestEnvironmentAssignUnboundFails(t *testing.T) {
	env := NewEnvironment()
	event := env.Assign("missing", Num(1), token.Cursor{})
	if event == nil || event.ErrorKind != NameErr {
		t.Fatalf("expected NameErr assigning an unbound name, got %+v", event)
	}
}

func TestEnvironmentShadowing(t *testing.T) {
	outer := NewEnvironment()
	outer.Define("x", Num(1))
	inner := NewEnclosedEnvironment(outer)
	inner.Define("x", Num(99))

	v, _ := inner.Get("x", token.Cursor{})
	if n, _ := v.(Num); n != 99 {
		t.Fatalf("expected shadowed binding 99, got %v", v)
	}
	outerV, _ := outer.Get("x", token.Cursor{})
	if n, _ := outerV.(Num); n != 1 {
		t.Fatalf("expected outer binding untouched at 1, got %v", outerV)
	}
}
