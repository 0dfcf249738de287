package evaluator

import (
	"bytes"
	"strings"
	"testing"

	"github.com/qewer33/queitite/internal/natives"
	"github.com/qewer33/queitite/internal/parser"
	"github.com/qewer33/queitite/internal/platform"
	"github.com/qewer33/queitite/internal/runtime"
)

// run parses and evaluates src against a fresh native registry
// (print/println/read/err and the native objects) backed by
// stdin/stdout buffers, returning captured stdout and the terminal
// RuntimeEvent (nil on success).
func run(t *testing.T, src string) (string, *runtime.RuntimeEvent) {
	t.Helper()
	p := parser.New(src)
	prog := p.ParseProgram()
	if len(p.Errors()) > 0 {
		t.Fatalf("parse errors: %v", p.Errors())
	}
	var out bytes.Buffer
	stdin := strings.NewReader("")
	globals := natives.Registry(&out, stdin, platform.NewNativeTerminal())
	ev := New(globals, &out, stdin)
	event := ev.Run(prog)
	return out.String(), event
}

func TestArithmeticPrecedence(t *testing.T) {
	out, event := run(t, `println(1 + 2 * 3)`)
	if event != nil {
		t.Fatalf("unexpected event: %+v", event)
	}
	if strings.TrimSpace(out) != "7" {
		t.Fatalf("expected 7, got %q", out)
	}
}

func TestPowRightAssociative(t *testing.T) {
	out, event := run(t, `println(2 ** 3 ** 2)`)
	if event != nil {
		t.Fatalf("unexpected event: %+v", event)
	}
	if strings.TrimSpace(out) != "512" {
		t.Fatalf("expected 512 (2**(3**2)), got %q", out)
	}
}

func TestClosureCapturesEnvironment(t *testing.T) {
	src := `
counter(start) = do
  n = start
  inc() = do
    n = n + 1
    return n
  end
  return inc
end

c = counter(10)
println(c())
println(c())
`
	out, event := run(t, src)
	if event != nil {
		t.Fatalf("unexpected event: %+v", event)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 || lines[0] != "11" || lines[1] != "12" {
		t.Fatalf("expected closure to retain state across calls, got %v", lines)
	}
}

func TestObjectConstructorAndMethod(t *testing.T) {
	src := `
object Point(x, y) = do
  init(px, py) = do
    this.x = px
    this.y = py
  end
  sum() = do
    return this.x + this.y
  end
end

p = Point(3, 4)
println(p.sum())
`
	out, event := run(t, src)
	if event != nil {
		t.Fatalf("unexpected event: %+v", event)
	}
	if strings.TrimSpace(out) != "7" {
		t.Fatalf("expected 7, got %q", out)
	}
}

func TestWhileBreakContinue(t *testing.T) {
	src := `
i = 0
total = 0
while i < 10 do
  i = i + 1
  if i == 5 do
    continue
  end
  if i == 8 do
    break
  end
  total = total + i
end
println(total)
`
	out, event := run(t, src)
	if event != nil {
		t.Fatalf("unexpected event: %+v", event)
	}
	// 1+2+3+4+6+7 = 23 (5 skipped via continue, loop stops before adding 8)
	if strings.TrimSpace(out) != "23" {
		t.Fatalf("expected 23, got %q", out)
	}
}

func TestYeetIsReturnSynonym(t *testing.T) {
	src := `
f() = do
  yeet 42
end
println(f())
`
	out, event := run(t, src)
	if event != nil {
		t.Fatalf("unexpected event: %+v", event)
	}
	if strings.TrimSpace(out) != "42" {
		t.Fatalf("expected 42, got %q", out)
	}
}

func TestThrowProducesUserErr(t *testing.T) {
	_, event := run(t, `throw "boom"`)
	if event == nil || event.Kind != runtime.EventUserErr {
		t.Fatalf("expected EventUserErr, got %+v", event)
	}
	if event.UserValue.String() != "boom" {
		t.Fatalf("expected user value %q, got %q", "boom", event.UserValue.String())
	}
}

func TestErrNativeRaisesNarrowErr(t *testing.T) {
	_, event := run(t, `err("ValueErr", "bad input")`)
	if event == nil || event.Kind != runtime.EventErr || event.ErrorKind != runtime.ValueErr {
		t.Fatalf("expected Err{ValueErr}, got %+v", event)
	}
}

func TestListIndexingAndAssignment(t *testing.T) {
	src := `
xs = [1, 2, 3]
xs[1] = 99
println(xs[0])
println(xs[1])
println(xs[2])
`
	out, event := run(t, src)
	if event != nil {
		t.Fatalf("unexpected event: %+v", event)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	want := []string{"1", "99", "3"}
	for i, w := range want {
		if lines[i] != w {
			t.Errorf("line %d: expected %q, got %q", i, w, lines[i])
		}
	}
}

func TestListIndexOutOfRange(t *testing.T) {
	_, event := run(t, `xs = [1, 2]
println(xs[5])`)
	if event == nil || event.Kind != runtime.EventErr || event.ErrorKind != runtime.ValueErr {
		t.Fatalf("expected ValueErr for out-of-range index, got %+v", event)
	}
}

func TestUnboundReturnIsTopLevelError(t *testing.T) {
	_, event := run(t, `return 1`)
	if event == nil || event.ErrorKind != runtime.ValueErr {
		t.Fatalf("expected top-level return to be reported as ValueErr, got %+v", event)
	}
}

func TestForLoopAccumulates(t *testing.T) {
	src := `
total = 0
for i = 0; i < 5; i++ do
  total += i
end
println(total)
`
	out, event := run(t, src)
	if event != nil {
		t.Fatalf("unexpected event: %+v", event)
	}
	if strings.TrimSpace(out) != "10" {
		t.Fatalf("expected 10, got %q", out)
	}
}

func TestBareAssignmentDefinesThenMutates(t *testing.T) {
	src := `
x = 1
println(x)
x = 2
println(x)
`
	out, event := run(t, src)
	if event != nil {
		t.Fatalf("unexpected event: %+v", event)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 || lines[0] != "1" || lines[1] != "2" {
		t.Fatalf("expected [1 2], got %v", lines)
	}
}

func TestCompoundAssignToUnboundNameFails(t *testing.T) {
	_, event := run(t, `total += 1`)
	if event == nil || event.Kind != runtime.EventErr || event.ErrorKind != runtime.NameErr {
		t.Fatalf("expected NameErr for compound-assigning an unbound name, got %+v", event)
	}
}
