package natives

import (
	"testing"

	"github.com/qewer33/queitite/internal/runtime"
	"github.com/qewer33/queitite/internal/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanvasStateFillCoversEveryCell(t *testing.T) {
	c := newCanvasState(3, 2)
	c.fill('x', "red")
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			assert.Equal(t, 'x', c.cells[y][x])
			assert.Equal(t, "red", c.colors[y][x])
		}
	}
}

func TestCanvasStateSetOutOfBoundsIsANoop(t *testing.T) {
	c := newCanvasState(2, 2)
	c.set(-1, 0, 'x', "red")
	c.set(0, 5, 'x', "red")
	assert.Equal(t, ' ', c.cells[0][0])
}

func TestCanvasStateLineDrawsHorizontalSegment(t *testing.T) {
	c := newCanvasState(5, 1)
	c.line(0, 0, 4, 0, '#', "blue")
	for x := 0; x < 5; x++ {
		assert.Equal(t, '#', c.cells[0][x])
	}
}

func TestCanvasStateRectOutlineLeavesInteriorUntouched(t *testing.T) {
	c := newCanvasState(4, 4)
	c.rect(0, 0, 4, 4, '#', "green", false)
	assert.Equal(t, '#', c.cells[0][0])
	assert.Equal(t, ' ', c.cells[1][1], "unfilled rect must not touch the interior")
}

func TestCanvasStateRectFilledCoversInterior(t *testing.T) {
	c := newCanvasState(4, 4)
	c.rect(0, 0, 4, 4, '#', "green", true)
	assert.Equal(t, '#', c.cells[1][1])
}

func TestCanvasStateTextOverlaysRunes(t *testing.T) {
	c := newCanvasState(5, 1)
	c.text(0, 0, "hi", "white")
	assert.Equal(t, 'h', c.cells[0][0])
	assert.Equal(t, 'i', c.cells[0][1])
}

func TestCanvasStateRenderJoinsRowsWithNewlines(t *testing.T) {
	c := newCanvasState(2, 2)
	out := c.render()
	assert.Equal(t, "  \n  ", out)
}

func TestP5DrawingBeforeSetupIsNativeErr(t *testing.T) {
	session := newTuiSession(&fakeTerminal{cols: 80, rows: 24})
	p5 := nativeP5(session)

	fn, ok := p5.Methods["point"]
	require.True(t, ok)
	_, event := fn.Call(nil, []runtime.Value{runtime.Num(0), runtime.Num(0), runtime.NewStr("red")}, token.Cursor{})
	require.NotNil(t, event)
	assert.Equal(t, runtime.EventErr, event.Kind)
	assert.Equal(t, runtime.NativeErr, event.ErrorKind)
}

func TestP5SetupThenPointSucceeds(t *testing.T) {
	session := newTuiSession(&fakeTerminal{cols: 80, rows: 24})
	p5 := nativeP5(session)

	callMethod(t, p5, "setup", runtime.Num(10), runtime.Num(10))

	_, event := p5.Methods["point"].Call(nil, []runtime.Value{runtime.Num(1), runtime.Num(1), runtime.NewStr("red")}, token.Cursor{})
	assert.Nil(t, event)
}

func TestP5FrameRateRejectsNonPositive(t *testing.T) {
	session := newTuiSession(&fakeTerminal{cols: 80, rows: 24})
	p5 := nativeP5(session)

	_, event := p5.Methods["frame_rate"].Call(nil, []runtime.Value{runtime.Num(0)}, token.Cursor{})
	require.NotNil(t, event)
	assert.Equal(t, runtime.ValueErr, event.ErrorKind)
}
