package natives

import (
	"strings"

	"github.com/qewer33/queitite/internal/runtime"
	"github.com/qewer33/queitite/internal/token"
)

// canvasState is the pixel-grid backing store shared by P5.setup/
// background/point/line/rect/circle/text and a Tui-embedded canvas
// widget (create_canvas). Queitite has no bitmap display, so a
// "pixel" is one terminal cell: cells default to a space and carry
// an optional fill rune plus an ANSI color name, the same vocabulary
// tui.go's colorToANSI already understands. Designed by analogy with
// Processing/p5.js's setup()/background()/point()/line() surface
// named in SPEC_FULL.md §4.6.1; no retained source models this beyond
// the method names themselves.
type canvasState struct {
	w, h   int
	cells  [][]rune
	colors [][]string
}

func newCanvasState(w, h int) *canvasState {
	c := &canvasState{w: w, h: h}
	c.cells = make([][]rune, h)
	c.colors = make([][]string, h)
	for y := 0; y < h; y++ {
		c.cells[y] = make([]rune, w)
		c.colors[y] = make([]string, w)
		for x := 0; x < w; x++ {
			c.cells[y][x] = ' '
			c.colors[y][x] = "white"
		}
	}
	return c
}

func (c *canvasState) fill(ch rune, color string) {
	for y := range c.cells {
		for x := range c.cells[y] {
			c.cells[y][x] = ch
			c.colors[y][x] = color
		}
	}
}

func (c *canvasState) set(x, y int, ch rune, color string) {
	if x < 0 || y < 0 || y >= c.h || x >= c.w {
		return
	}
	c.cells[y][x] = ch
	c.colors[y][x] = color
}

// line rasterizes a straight segment with Bresenham's algorithm.
func (c *canvasState) line(x0, y0, x1, y1 int, ch rune, color string) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 >= x1 {
		sx = -1
	}
	if y0 >= y1 {
		sy = -1
	}
	err := dx + dy
	for {
		c.set(x0, y0, ch, color)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *canvasState) rect(x, y, w, h int, ch rune, color string, filled bool) {
	if filled {
		for yy := y; yy < y+h; yy++ {
			for xx := x; xx < x+w; xx++ {
				c.set(xx, yy, ch, color)
			}
		}
		return
	}
	c.line(x, y, x+w-1, y, ch, color)
	c.line(x, y+h-1, x+w-1, y+h-1, ch, color)
	c.line(x, y, x, y+h-1, ch, color)
	c.line(x+w-1, y, x+w-1, y+h-1, ch, color)
}

// circle uses the midpoint circle algorithm, rasterizing each octant
// pair; when filled, each pair is connected by a horizontal span.
func (c *canvasState) circle(cx, cy, r int, ch rune, color string, filled bool) {
	x, y := r, 0
	err := 0
	plot := func(x, y int) {
		if filled {
			c.line(cx-x, cy+y, cx+x, cy+y, ch, color)
			c.line(cx-x, cy-y, cx+x, cy-y, ch, color)
			c.line(cx-y, cy+x, cx+y, cy+x, ch, color)
			c.line(cx-y, cy-x, cx+y, cy-x, ch, color)
		} else {
			c.set(cx+x, cy+y, ch, color)
			c.set(cx-x, cy+y, ch, color)
			c.set(cx+x, cy-y, ch, color)
			c.set(cx-x, cy-y, ch, color)
			c.set(cx+y, cy+x, ch, color)
			c.set(cx-y, cy+x, ch, color)
			c.set(cx+y, cy-x, ch, color)
			c.set(cx-y, cy-x, ch, color)
		}
	}
	for x >= y {
		plot(x, y)
		y++
		if err <= 0 {
			err += 2*y + 1
		}
		if err > 0 {
			x--
			err -= 2*x + 1
		}
	}
}

func (c *canvasState) text(x, y int, s string, color string) {
	for i, r := range s {
		c.set(x+i, y, r, color)
	}
}

func (c *canvasState) render() string {
	var b strings.Builder
	for y := 0; y < c.h; y++ {
		b.WriteString(string(c.cells[y]))
		if y < c.h-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// newCanvasObj wraps a canvasState in a TextInput-style stateful
// native object, returned by Tui.create_canvas so a script can embed
// a P5-style drawing surface inside a split_row/split_col pane.
func newCanvasObj(s *tuiSession, w, h int) *runtime.Obj {
	state := newCanvasState(w, h)

	method := func(name string, arity int, fn func(c *canvasState, args []runtime.Value, cursor token.Cursor) (runtime.Value, *runtime.RuntimeEvent)) runtime.Callable {
		return &runtime.NativeMethod{FnName: name, FnArity: arity, Data: state, Fn: func(data any, args []runtime.Value, cursor token.Cursor) (runtime.Value, *runtime.RuntimeEvent) {
			return fn(data.(*canvasState), args, cursor)
		}}
	}

	methods := map[string]runtime.Callable{
		"background": method("canvas_background", 1, func(c *canvasState, args []runtime.Value, cursor token.Cursor) (runtime.Value, *runtime.RuntimeEvent) {
			color, _ := strArg(args, 0)
			c.fill(' ', color)
			return runtime.NullValue, nil
		}),
		"point": method("canvas_point", 3, func(c *canvasState, args []runtime.Value, cursor token.Cursor) (runtime.Value, *runtime.RuntimeEvent) {
			x, _ := numArg(args, 0)
			y, _ := numArg(args, 1)
			color, _ := strArg(args, 2)
			c.set(int(x), int(y), '*', color)
			return runtime.NullValue, nil
		}),
		"line": method("canvas_line", 5, func(c *canvasState, args []runtime.Value, cursor token.Cursor) (runtime.Value, *runtime.RuntimeEvent) {
			x0, _ := numArg(args, 0)
			y0, _ := numArg(args, 1)
			x1, _ := numArg(args, 2)
			y1, _ := numArg(args, 3)
			color, _ := strArg(args, 4)
			c.line(int(x0), int(y0), int(x1), int(y1), '#', color)
			return runtime.NullValue, nil
		}),
		"rect": method("canvas_rect", 6, func(c *canvasState, args []runtime.Value, cursor token.Cursor) (runtime.Value, *runtime.RuntimeEvent) {
			x, _ := numArg(args, 0)
			y, _ := numArg(args, 1)
			w, _ := numArg(args, 2)
			h, _ := numArg(args, 3)
			color, _ := strArg(args, 4)
			filled := runtime.IsTruthy(args[5])
			c.rect(int(x), int(y), int(w), int(h), '#', color, filled)
			return runtime.NullValue, nil
		}),
		"circle": method("canvas_circle", 5, func(c *canvasState, args []runtime.Value, cursor token.Cursor) (runtime.Value, *runtime.RuntimeEvent) {
			cx, _ := numArg(args, 0)
			cy, _ := numArg(args, 1)
			r, _ := numArg(args, 2)
			color, _ := strArg(args, 3)
			filled := runtime.IsTruthy(args[4])
			c.circle(int(cx), int(cy), int(r), '#', color, filled)
			return runtime.NullValue, nil
		}),
		"text": method("canvas_text", 4, func(c *canvasState, args []runtime.Value, cursor token.Cursor) (runtime.Value, *runtime.RuntimeEvent) {
			x, _ := numArg(args, 0)
			y, _ := numArg(args, 1)
			text, _ := strArg(args, 2)
			color, _ := strArg(args, 3)
			c.text(int(x), int(y), text, color)
			return runtime.NullValue, nil
		}),
		"show": method("canvas_show", 0, func(c *canvasState, args []runtime.Value, cursor token.Cursor) (runtime.Value, *runtime.RuntimeEvent) {
			s.pushWidget(widget{kind: widgetText, text: c.render()})
			s.render()
			return runtime.NullValue, nil
		}),
	}
	return runtime.NewObj("Canvas", methods)
}

// nativeP5 builds the P5 object: a top-level Processing-style drawing
// surface (setup/background/point/line/rect/circle/text/show plus
// frame_rate) that owns one implicit canvasState, created by setup().
func nativeP5(s *tuiSession) *runtime.Obj {
	var canvas *canvasState

	method := func(name string, arity int, fn func(args []runtime.Value, cursor token.Cursor) (runtime.Value, *runtime.RuntimeEvent)) runtime.Callable {
		return &runtime.NativeMethod{FnName: name, FnArity: arity, Fn: func(_ any, args []runtime.Value, cursor token.Cursor) (runtime.Value, *runtime.RuntimeEvent) {
			return fn(args, cursor)
		}}
	}

	requireCanvas := func(cursor token.Cursor) *runtime.RuntimeEvent {
		if canvas == nil {
			return runtime.NewErr(runtime.NativeErr, cursor, "P5.setup must be called before drawing")
		}
		return nil
	}

	methods := map[string]runtime.Callable{
		"setup": method("p5_setup", 2, func(args []runtime.Value, cursor token.Cursor) (runtime.Value, *runtime.RuntimeEvent) {
			w, _ := numArg(args, 0)
			h, _ := numArg(args, 1)
			canvas = newCanvasState(int(w), int(h))
			return runtime.NullValue, nil
		}),
		"background": method("p5_background", 1, func(args []runtime.Value, cursor token.Cursor) (runtime.Value, *runtime.RuntimeEvent) {
			if ev := requireCanvas(cursor); ev != nil {
				return nil, ev
			}
			color, _ := strArg(args, 0)
			canvas.fill(' ', color)
			return runtime.NullValue, nil
		}),
		"point": method("p5_point", 3, func(args []runtime.Value, cursor token.Cursor) (runtime.Value, *runtime.RuntimeEvent) {
			if ev := requireCanvas(cursor); ev != nil {
				return nil, ev
			}
			x, _ := numArg(args, 0)
			y, _ := numArg(args, 1)
			color, _ := strArg(args, 2)
			canvas.set(int(x), int(y), '*', color)
			return runtime.NullValue, nil
		}),
		"line": method("p5_line", 5, func(args []runtime.Value, cursor token.Cursor) (runtime.Value, *runtime.RuntimeEvent) {
			if ev := requireCanvas(cursor); ev != nil {
				return nil, ev
			}
			x0, _ := numArg(args, 0)
			y0, _ := numArg(args, 1)
			x1, _ := numArg(args, 2)
			y1, _ := numArg(args, 3)
			color, _ := strArg(args, 4)
			canvas.line(int(x0), int(y0), int(x1), int(y1), '#', color)
			return runtime.NullValue, nil
		}),
		"rect": method("p5_rect", 6, func(args []runtime.Value, cursor token.Cursor) (runtime.Value, *runtime.RuntimeEvent) {
			if ev := requireCanvas(cursor); ev != nil {
				return nil, ev
			}
			x, _ := numArg(args, 0)
			y, _ := numArg(args, 1)
			w, _ := numArg(args, 2)
			h, _ := numArg(args, 3)
			color, _ := strArg(args, 4)
			filled := runtime.IsTruthy(args[5])
			canvas.rect(int(x), int(y), int(w), int(h), '#', color, filled)
			return runtime.NullValue, nil
		}),
		"circle": method("p5_circle", 5, func(args []runtime.Value, cursor token.Cursor) (runtime.Value, *runtime.RuntimeEvent) {
			if ev := requireCanvas(cursor); ev != nil {
				return nil, ev
			}
			cx, _ := numArg(args, 0)
			cy, _ := numArg(args, 1)
			r, _ := numArg(args, 2)
			color, _ := strArg(args, 3)
			filled := runtime.IsTruthy(args[4])
			canvas.circle(int(cx), int(cy), int(r), '#', color, filled)
			return runtime.NullValue, nil
		}),
		"text": method("p5_text", 4, func(args []runtime.Value, cursor token.Cursor) (runtime.Value, *runtime.RuntimeEvent) {
			if ev := requireCanvas(cursor); ev != nil {
				return nil, ev
			}
			x, _ := numArg(args, 0)
			y, _ := numArg(args, 1)
			text, _ := strArg(args, 2)
			color, _ := strArg(args, 3)
			canvas.text(int(x), int(y), text, color)
			return runtime.NullValue, nil
		}),
		"frame_rate": method("p5_frame_rate", 1, func(args []runtime.Value, cursor token.Cursor) (runtime.Value, *runtime.RuntimeEvent) {
			fps, _ := numArg(args, 0)
			if fps <= 0 {
				return nil, runtime.NewErr(runtime.ValueErr, cursor, "frame_rate must be positive")
			}
			s.mu.Lock()
			s.frameDelayMS = 1000.0 / fps
			s.mu.Unlock()
			return runtime.NullValue, nil
		}),
		"show": method("p5_show", 0, func(args []runtime.Value, cursor token.Cursor) (runtime.Value, *runtime.RuntimeEvent) {
			if ev := requireCanvas(cursor); ev != nil {
				return nil, ev
			}
			s.pushWidget(widget{kind: widgetText, text: canvas.render()})
			s.render()
			return runtime.NullValue, nil
		}),
	}
	return runtime.NewObj("P5", methods)
}
