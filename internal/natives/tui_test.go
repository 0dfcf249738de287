package natives

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTuiSessionStartsWithRootRect(t *testing.T) {
	session := newTuiSession(&fakeTerminal{cols: 100, rows: 50})
	require.Len(t, session.rects, 1)
	assert.Equal(t, rect{x: 0, y: 0, w: 100, h: 50}, session.rects[0])
}

func TestTuiSessionSplitRowDividesWidth(t *testing.T) {
	session := newTuiSession(&fakeTerminal{cols: 90, rows: 30})
	ids, ok := session.splitRow(0, 3)
	require.True(t, ok)
	require.Len(t, ids, 3)
	for _, id := range ids {
		assert.Equal(t, 30, session.rects[id].w)
		assert.Equal(t, 30, session.rects[id].h)
	}
}

func TestTuiSessionSplitColDividesHeight(t *testing.T) {
	session := newTuiSession(&fakeTerminal{cols: 40, rows: 60})
	ids, ok := session.splitCol(0, 2)
	require.True(t, ok)
	require.Len(t, ids, 2)
	for _, id := range ids {
		assert.Equal(t, 30, session.rects[id].h)
	}
}

func TestTuiSessionSplitRejectsUnknownRect(t *testing.T) {
	session := newTuiSession(&fakeTerminal{cols: 80, rows: 24})
	_, ok := session.splitRow(99, 2)
	assert.False(t, ok)
}

func TestTuiSessionClearResetsWidgetsAndRects(t *testing.T) {
	session := newTuiSession(&fakeTerminal{cols: 80, rows: 24})
	session.pushWidget(widget{kind: widgetText, text: "hi"})
	session.splitRow(0, 2)
	require.Len(t, session.rects, 3)

	session.clear()
	assert.Empty(t, session.widgets)
	assert.Len(t, session.rects, 1)
}

func TestColorToANSIKnownAndUnknownNames(t *testing.T) {
	assert.NotEmpty(t, colorToANSI("red"))
	assert.NotEmpty(t, colorToANSI("DARKGRAY"))
	// an unrecognized name defaults to white rather than erroring
	assert.Equal(t, colorToANSI("white"), colorToANSI("not-a-color"))
}

func TestComposeFramePositionsWidgetsAtTheirXY(t *testing.T) {
	root := rect{x: 0, y: 0, w: 20, h: 5}
	widgets := []widget{
		{kind: widgetText, x: 2, y: 0, text: "hi"},
		{kind: widgetText, x: 0, y: 3, text: "lo"},
	}
	frame := composeFrame(widgets, root)
	lines := strings.Split(frame, "\n")
	require.Len(t, lines, 5)
	assert.True(t, strings.HasPrefix(lines[0], "  hi"), "expected line 0 indented to x=2, got %q", lines[0])
	assert.True(t, strings.HasPrefix(lines[3], "lo"), "expected line 3 to carry the y=3 widget, got %q", lines[3])
}

func TestComposeFrameHonorsSplitRectOffset(t *testing.T) {
	session := newTuiSession(&fakeTerminal{cols: 20, rows: 4})
	ids, ok := session.splitCol(0, 2)
	require.True(t, ok)
	bottom := session.rects[ids[1]]
	frame := composeFrame([]widget{{kind: widgetText, x: 0, y: 0, text: "x"}}, bottom)
	lines := strings.Split(frame, "\n")
	require.Len(t, lines, bottom.h)
	assert.Equal(t, "x", lines[0])
}

func TestComposeFrameDropsWidgetsOutsideRoot(t *testing.T) {
	root := rect{x: 0, y: 0, w: 10, h: 2}
	frame := composeFrame([]widget{{kind: widgetText, x: 0, y: 50, text: "offscreen"}}, root)
	assert.NotContains(t, frame, "offscreen")
}

func TestTuiSessionPaceSleepsOutRemainingDelay(t *testing.T) {
	session := newTuiSession(&fakeTerminal{cols: 10, rows: 10})
	session.frameDelayMS = 20
	start := time.Now()
	session.pace()
	session.pace()
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestTuiSessionPaceNoopWithoutFrameRate(t *testing.T) {
	session := newTuiSession(&fakeTerminal{cols: 10, rows: 10})
	start := time.Now()
	session.pace()
	session.pace()
	assert.Less(t, time.Since(start), 20*time.Millisecond)
}

func TestTuiSplitRowAccumulatesAcrossCalls(t *testing.T) {
	session := newTuiSession(&fakeTerminal{cols: 100, rows: 40})
	first, _ := session.splitRow(0, 2)
	second, _ := session.splitCol(first[0], 2)
	// second split's rects are appended after the first split's, not replacing them
	assert.Len(t, session.rects, 1+2+2)
	assert.Len(t, second, 2)
}
