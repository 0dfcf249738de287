package natives

import (
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/qewer33/queitite/internal/platform"
	"github.com/qewer33/queitite/internal/runtime"
	"github.com/qewer33/queitite/internal/token"
)

// widgetKind tags the accumulated widgets pushed by draw_* calls,
// mirroring the Widget enum in original_source/src/evaluator/
// natives/tui.rs (Block/Text/List/Progress variants kept; Canvas/
// TextInput are handled by their own stateful native objects instead
// of living in this buffer, per SPEC_FULL.md §4.6.1).
type widgetKind int

const (
	widgetBlock widgetKind = iota
	widgetText
	widgetList
	widgetProgress
)

type widget struct {
	kind               widgetKind
	x, y, w, h         int
	title, text, color string
	items              []string
	ratio              float64
}

// rect is an assigned layout rectangle, returned to scripts as a
// numeric ID by split_row/split_col. Rect 0 is always the root frame.
type rect struct{ x, y, w, h int }

// tuiSession is the process-global (but not package-global — isolated
// behind this struct per §9 "isolate behind a single context object
// rather than process globals") frame-state model shared by Tui and
// P5: a widget list, a layout/rect table, and the one Bubble Tea
// program both native objects render through, so a script does not
// pay for two alternate-screen sessions.
type tuiSession struct {
	mu           sync.Mutex
	term         platform.Terminal
	program      *tea.Program
	done         chan struct{}
	widgets      []widget
	rects        []rect
	frameDelayMS float64
	lastFrame    time.Time
}

func newTuiSession(term platform.Terminal) *tuiSession {
	return &tuiSession{term: term, rects: []rect{{x: 0, y: 0, w: term.Cols(), h: term.Rows()}}}
}

// sessionModel is the Bubble Tea model that owns the alternate screen;
// its Update loop only ever reacts to frame-content pushes from the
// session (via frameMsg) and Ctrl+C/Ctrl+D for an emergency quit.
type sessionModel struct {
	content string
}

type frameMsg string

func (m sessionModel) Init() tea.Cmd { return nil }

func (m sessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		m.content = string(msg)
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m sessionModel) View() string { return m.content }

func (s *tuiSession) init() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.program != nil {
		return // nested init is undefined; a no-op is the safest undefined behavior
	}
	s.program = tea.NewProgram(sessionModel{}, tea.WithAltScreen())
	s.done = make(chan struct{})
	go func() {
		defer close(s.done)
		_, _ = s.program.Run()
	}()
}

func (s *tuiSession) cleanup() {
	s.mu.Lock()
	p := s.program
	s.program = nil
	s.mu.Unlock()
	if p == nil {
		return
	}
	p.Quit()
	<-s.done
}

func (s *tuiSession) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.widgets = nil
	s.rects = []rect{{x: 0, y: 0, w: s.term.Cols(), h: s.term.Rows()}}
}

func (s *tuiSession) splitRow(rectID, n int) ([]int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rectID < 0 || rectID >= len(s.rects) || n <= 0 {
		return nil, false
	}
	r := s.rects[rectID]
	ids := make([]int, n)
	colWidth := r.w / n
	for i := 0; i < n; i++ {
		s.rects = append(s.rects, rect{x: r.x + i*colWidth, y: r.y, w: colWidth, h: r.h})
		ids[i] = len(s.rects) - 1
	}
	return ids, true
}

func (s *tuiSession) splitCol(rectID, n int) ([]int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rectID < 0 || rectID >= len(s.rects) || n <= 0 {
		return nil, false
	}
	r := s.rects[rectID]
	ids := make([]int, n)
	rowHeight := r.h / n
	for i := 0; i < n; i++ {
		s.rects = append(s.rects, rect{x: r.x, y: r.y + i*rowHeight, w: r.w, h: rowHeight})
		ids[i] = len(s.rects) - 1
	}
	return ids, true
}

func (s *tuiSession) pushWidget(w widget) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.widgets = append(s.widgets, w)
}

// pace blocks until frameDelayMS has elapsed since the previous render,
// implementing the throttle P5.frame_rate promises. A delay of zero
// (frame_rate never called) renders as fast as the script drives it.
func (s *tuiSession) pace() {
	s.mu.Lock()
	delay := s.frameDelayMS
	last := s.lastFrame
	s.mu.Unlock()
	if delay <= 0 {
		return
	}
	want := time.Duration(delay * float64(time.Millisecond))
	if !last.IsZero() {
		if elapsed := time.Since(last); elapsed < want {
			time.Sleep(want - elapsed)
		}
	}
	s.mu.Lock()
	s.lastFrame = time.Now()
	s.mu.Unlock()
}

// render lays out and styles the accumulated widgets into one frame
// string and sends it to the Bubble Tea program, mirroring tui.rs's
// FnTuiRender / terminal.draw loop. Each widget is placed at its own
// x,y (set by the draw_* call that pushed it) inside the root rect
// resolved from rects[0], the area split_row/split_col carve up.
func (s *tuiSession) render() {
	s.pace()

	s.mu.Lock()
	widgets := append([]widget(nil), s.widgets...)
	root := rect{x: 0, y: 0, w: s.term.Cols(), h: s.term.Rows()}
	if len(s.rects) > 0 {
		root = s.rects[0]
	}
	p := s.program
	s.mu.Unlock()
	if p == nil {
		return
	}
	p.Send(frameMsg(composeFrame(widgets, root)))
}

// composeFrame overlays each widget's styled content at its own x,y
// offset onto a canvas spanning the root rect, then flattens it to a
// single string. Factored out of render so the positioning logic is
// testable without a live Bubble Tea program.
func composeFrame(widgets []widget, root rect) string {
	rows := make([]string, root.h)
	for _, w := range widgets {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(colorToANSI(w.color)))
		var content string
		switch w.kind {
		case widgetBlock:
			boxStyle := style.Border(lipgloss.RoundedBorder()).Width(w.w).Height(w.h)
			content = boxStyle.Render(w.title)
		case widgetText:
			content = style.Render(w.text)
		case widgetList:
			content = style.Render(strings.Join(w.items, "\n"))
		case widgetProgress:
			filled := int(w.ratio * float64(w.w))
			if filled > w.w {
				filled = w.w
			}
			bar := strings.Repeat("█", filled) + strings.Repeat("░", w.w-filled)
			content = style.Render(bar)
		}

		indent := strings.Repeat(" ", w.x)
		for i, line := range strings.Split(content, "\n") {
			row := w.y + i
			if row < 0 || row >= len(rows) {
				continue
			}
			rows[row] = indent + line
		}
	}
	return strings.Join(rows, "\n")
}

// colorToANSI maps the color-name vocabulary from tui.rs's parse_color
// to a lipgloss-friendly ANSI color index, defaulting to white.
func colorToANSI(name string) string {
	switch strings.ToLower(name) {
	case "black":
		return "0"
	case "red":
		return "1"
	case "green":
		return "2"
	case "yellow":
		return "3"
	case "blue":
		return "4"
	case "magenta":
		return "5"
	case "cyan":
		return "6"
	case "white":
		return "7"
	case "gray", "grey":
		return "8"
	case "darkgray", "darkgrey":
		return "8"
	case "lightred":
		return "9"
	case "lightgreen":
		return "10"
	case "lightyellow":
		return "11"
	case "lightblue":
		return "12"
	case "lightmagenta":
		return "13"
	case "lightcyan":
		return "14"
	default:
		return "7"
	}
}

func numArg(args []runtime.Value, i int) (float64, bool) {
	if i >= len(args) {
		return 0, false
	}
	n, ok := args[i].(runtime.Num)
	return float64(n), ok
}

func strArg(args []runtime.Value, i int) (string, bool) {
	if i >= len(args) {
		return "", false
	}
	s, ok := args[i].(*runtime.Str)
	if !ok {
		return "", false
	}
	return s.Buf, true
}

// nativeTui builds the Tui object's method table, delegating to the
// shared tuiSession.
func nativeTui(s *tuiSession) *runtime.Obj {
	method := func(name string, arity int, fn func(args []runtime.Value, cursor token.Cursor) (runtime.Value, *runtime.RuntimeEvent)) runtime.Callable {
		return &runtime.NativeMethod{FnName: name, FnArity: arity, Data: s, Fn: func(_ any, args []runtime.Value, cursor token.Cursor) (runtime.Value, *runtime.RuntimeEvent) {
			return fn(args, cursor)
		}}
	}

	methods := map[string]runtime.Callable{
		"init": method("tui_init", 0, func(args []runtime.Value, cursor token.Cursor) (runtime.Value, *runtime.RuntimeEvent) {
			s.init()
			return runtime.NullValue, nil
		}),
		"cleanup": method("tui_cleanup", 0, func(args []runtime.Value, cursor token.Cursor) (runtime.Value, *runtime.RuntimeEvent) {
			s.cleanup()
			return runtime.NullValue, nil
		}),
		"clear": method("tui_clear", 0, func(args []runtime.Value, cursor token.Cursor) (runtime.Value, *runtime.RuntimeEvent) {
			s.clear()
			return runtime.NullValue, nil
		}),
		"render": method("tui_render", 0, func(args []runtime.Value, cursor token.Cursor) (runtime.Value, *runtime.RuntimeEvent) {
			s.render()
			return runtime.NullValue, nil
		}),
		"draw_block": method("tui_draw_block", 6, func(args []runtime.Value, cursor token.Cursor) (runtime.Value, *runtime.RuntimeEvent) {
			x, _ := numArg(args, 0)
			y, _ := numArg(args, 1)
			w, _ := numArg(args, 2)
			h, _ := numArg(args, 3)
			title, _ := strArg(args, 4)
			color, _ := strArg(args, 5)
			s.pushWidget(widget{kind: widgetBlock, x: int(x), y: int(y), w: int(w), h: int(h), title: title, color: color})
			return runtime.NullValue, nil
		}),
		"draw_text": method("tui_draw_text", 4, func(args []runtime.Value, cursor token.Cursor) (runtime.Value, *runtime.RuntimeEvent) {
			x, _ := numArg(args, 0)
			y, _ := numArg(args, 1)
			text, _ := strArg(args, 2)
			color, _ := strArg(args, 3)
			s.pushWidget(widget{kind: widgetText, x: int(x), y: int(y), text: text, color: color})
			return runtime.NullValue, nil
		}),
		"draw_list": method("tui_draw_list", 5, func(args []runtime.Value, cursor token.Cursor) (runtime.Value, *runtime.RuntimeEvent) {
			x, _ := numArg(args, 0)
			y, _ := numArg(args, 1)
			w, _ := numArg(args, 2)
			h, _ := numArg(args, 3)
			list, ok := args[4].(*runtime.List)
			if !ok {
				return nil, runtime.NewErr(runtime.TypeErr, cursor, "expected List, found %s", args[4].Type())
			}
			items := make([]string, len(list.Items))
			for i, v := range list.Items {
				items[i] = v.String()
			}
			s.pushWidget(widget{kind: widgetList, x: int(x), y: int(y), w: int(w), h: int(h), items: items})
			return runtime.NullValue, nil
		}),
		"draw_progress": method("tui_draw_progress", 5, func(args []runtime.Value, cursor token.Cursor) (runtime.Value, *runtime.RuntimeEvent) {
			x, _ := numArg(args, 0)
			y, _ := numArg(args, 1)
			w, _ := numArg(args, 2)
			ratio, _ := numArg(args, 3)
			color, _ := strArg(args, 4)
			s.pushWidget(widget{kind: widgetProgress, x: int(x), y: int(y), w: int(w), ratio: ratio, color: color})
			return runtime.NullValue, nil
		}),
		"split_row": method("tui_split_row", 2, func(args []runtime.Value, cursor token.Cursor) (runtime.Value, *runtime.RuntimeEvent) {
			rectID, _ := numArg(args, 0)
			n, _ := numArg(args, 1)
			ids, ok := s.splitRow(int(rectID), int(n))
			if !ok {
				return nil, runtime.NewErr(runtime.ValueErr, cursor, "invalid rect id %d", int(rectID))
			}
			return idsToList(ids), nil
		}),
		"split_col": method("tui_split_col", 2, func(args []runtime.Value, cursor token.Cursor) (runtime.Value, *runtime.RuntimeEvent) {
			rectID, _ := numArg(args, 0)
			n, _ := numArg(args, 1)
			ids, ok := s.splitCol(int(rectID), int(n))
			if !ok {
				return nil, runtime.NewErr(runtime.ValueErr, cursor, "invalid rect id %d", int(rectID))
			}
			return idsToList(ids), nil
		}),
		"create_text_input": method("tui_create_text_input", 1, func(args []runtime.Value, cursor token.Cursor) (runtime.Value, *runtime.RuntimeEvent) {
			placeholder, _ := strArg(args, 0)
			return newTextInputObj(placeholder), nil
		}),
		"create_canvas": method("tui_create_canvas", 2, func(args []runtime.Value, cursor token.Cursor) (runtime.Value, *runtime.RuntimeEvent) {
			w, _ := numArg(args, 0)
			h, _ := numArg(args, 1)
			return newCanvasObj(s, int(w), int(h)), nil
		}),
	}
	return runtime.NewObj("Tui", methods)
}

func idsToList(ids []int) *runtime.List {
	items := make([]runtime.Value, len(ids))
	for i, id := range ids {
		items[i] = runtime.Num(float64(id))
	}
	return runtime.NewList(items)
}

// textInputState is the shared mutable data cell backing a
// create_text_input() widget — a stateful native method carrying a
// bubbles/textinput.Model, per §4.3's NativeMethod data-cell contract.
type textInputState struct {
	mu    sync.Mutex
	model textinput.Model
}

func newTextInputObj(placeholder string) *runtime.Obj {
	ti := textinput.New()
	ti.Placeholder = placeholder
	state := &textInputState{model: ti}

	method := func(name string, arity int, fn func(s *textInputState, args []runtime.Value, cursor token.Cursor) (runtime.Value, *runtime.RuntimeEvent)) runtime.Callable {
		return &runtime.NativeMethod{FnName: name, FnArity: arity, Data: state, Fn: func(data any, args []runtime.Value, cursor token.Cursor) (runtime.Value, *runtime.RuntimeEvent) {
			return fn(data.(*textInputState), args, cursor)
		}}
	}

	methods := map[string]runtime.Callable{
		"set_value": method("text_input_set_value", 1, func(s *textInputState, args []runtime.Value, cursor token.Cursor) (runtime.Value, *runtime.RuntimeEvent) {
			v, ok := strArg(args, 0)
			if !ok {
				return nil, runtime.NewErr(runtime.TypeErr, cursor, "expected Str")
			}
			s.mu.Lock()
			s.model.SetValue(v)
			s.mu.Unlock()
			return runtime.NullValue, nil
		}),
		"value": method("text_input_value", 0, func(s *textInputState, args []runtime.Value, cursor token.Cursor) (runtime.Value, *runtime.RuntimeEvent) {
			s.mu.Lock()
			defer s.mu.Unlock()
			return runtime.NewStr(s.model.Value()), nil
		}),
		"focus": method("text_input_focus", 0, func(s *textInputState, args []runtime.Value, cursor token.Cursor) (runtime.Value, *runtime.RuntimeEvent) {
			s.mu.Lock()
			s.model.Focus()
			s.mu.Unlock()
			return runtime.NullValue, nil
		}),
		"view": method("text_input_view", 0, func(s *textInputState, args []runtime.Value, cursor token.Cursor) (runtime.Value, *runtime.RuntimeEvent) {
			s.mu.Lock()
			defer s.mu.Unlock()
			return runtime.NewStr(s.model.View()), nil
		}),
	}
	return runtime.NewObj("TextInput", methods)
}
