package natives

import (
	"testing"

	"github.com/qewer33/queitite/internal/runtime"
	"github.com/qewer33/queitite/internal/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTerminal substitutes for platform.Terminal in tests, per the
// Terminal interface's "tests can substitute a fake" contract.
type fakeTerminal struct {
	cols, rows int
	tty        bool
	cleared    int
}

func (f *fakeTerminal) Cols() int  { return f.cols }
func (f *fakeTerminal) Rows() int  { return f.rows }
func (f *fakeTerminal) IsTTY() bool { return f.tty }
func (f *fakeTerminal) Clear()     { f.cleared++ }

func callMethod(t *testing.T, obj *runtime.Obj, name string, args ...runtime.Value) runtime.Value {
	t.Helper()
	fn, ok := obj.Methods[name]
	require.True(t, ok, "expected method %q to exist", name)
	v, event := fn.Call(nil, args, token.Cursor{})
	require.Nil(t, event, "unexpected event calling %s: %+v", name, event)
	return v
}

func TestNativeTermReportsGeometry(t *testing.T) {
	fake := &fakeTerminal{cols: 120, rows: 40, tty: true}
	term := nativeTerm(fake)

	assert.Equal(t, runtime.Num(120), callMethod(t, term, "width"))
	assert.Equal(t, runtime.Num(40), callMethod(t, term, "height"))
	assert.Equal(t, runtime.Bool(true), callMethod(t, term, "is_tty"))
}

func TestNativeTermClearDelegatesToBackend(t *testing.T) {
	fake := &fakeTerminal{cols: 80, rows: 24}
	term := nativeTerm(fake)

	callMethod(t, term, "clear")
	assert.Equal(t, 1, fake.cleared)
}
