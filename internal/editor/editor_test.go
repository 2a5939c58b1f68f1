package editor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/dshills/mzedit/internal/analysis"
	"github.com/dshills/mzedit/internal/config"
	"github.com/dshills/mzedit/internal/engine/brackets"
	"github.com/dshills/mzedit/internal/engine/debounce"
	"github.com/dshills/mzedit/internal/engine/diagnostic"
	"github.com/dshills/mzedit/internal/engine/document"
	"github.com/dshills/mzedit/internal/input"
	"github.com/dshills/mzedit/internal/logging"
	"github.com/dshills/mzedit/internal/renderer/highlight"
	"github.com/dshills/mzedit/internal/renderer/heat"
	"github.com/dshills/mzedit/internal/renderer/overlay"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func newTestEditor(t *testing.T, text string, opts ...Option) (*Editor, *debounce.ManualClock) {
	t.Helper()
	clock := debounce.NewManualClock(epoch)
	opts = append([]Option{WithClock(clock), WithLogger(logging.Discard())}, opts...)
	e := New(text, opts...)
	t.Cleanup(func() { _ = e.Close() })
	return e, clock
}

func typeText(t *testing.T, e *Editor, s string) {
	t.Helper()
	for _, r := range s {
		require.NoError(t, e.Execute(input.Action{Command: input.CmdInsertRune, Rune: r}))
	}
}

func TestSettleCoalescesEdits(t *testing.T) {
	e, clock := newTestEditor(t, "")

	var events []SettleEvent
	e.OnSettled(func(ev SettleEvent) { events = append(events, ev) })

	for i := 0; i < 4; i++ {
		typeText(t, e, "x")
		clock.Advance(100 * time.Millisecond)
	}
	// Last edit at t=300ms.
	clock.Advance(399 * time.Millisecond)
	assert.Empty(t, events)
	assert.True(t, e.SettlePending())

	clock.Advance(time.Millisecond)
	require.Len(t, events, 1)
	assert.Equal(t, epoch.Add(800*time.Millisecond), events[0].At)
	assert.Equal(t, e.ID(), events[0].Editor)
	assert.Equal(t, e.Document().Revision(), events[0].Revision)
	assert.False(t, e.SettlePending())
}

func TestSettleHandlersRunInOrder(t *testing.T) {
	e, _ := newTestEditor(t, "")

	var order []int
	e.OnSettled(func(SettleEvent) { order = append(order, 1) })
	e.OnSettled(func(SettleEvent) { order = append(order, 2) })

	typeText(t, e, "a")
	e.FlushSettle()
	assert.Equal(t, []int{1, 2}, order)
}

func TestCloseCancelsSettle(t *testing.T) {
	e, clock := newTestEditor(t, "")

	fired := false
	e.OnSettled(func(SettleEvent) { fired = true })

	typeText(t, e, "a")
	require.NoError(t, e.Close())
	clock.Advance(time.Second)

	assert.False(t, fired)
	assert.ErrorIs(t, e.Execute(input.Action{Command: input.CmdInsertRune, Rune: 'b'}), ErrClosed)
	assert.NoError(t, e.Close())
}

func TestBracketMatchOnCursorMove(t *testing.T) {
	e, _ := newTestEditor(t, "constraint (x + (y - z)) = 0;")

	e.SetCursor(12)
	m := e.BracketMatch()
	require.Equal(t, brackets.Matched, m.Kind)
	assert.Equal(t, 23, m.Partner)

	spans := e.SpansOfKind(overlay.KindBracketMatch)
	require.Len(t, spans, 2)
	assert.Equal(t, 11, spans[0].Start)
	assert.Equal(t, 23, spans[1].Start)

	e.SetCursor(5)
	assert.Empty(t, e.SpansOfKind(overlay.KindBracketMatch))
}

func TestUnmatchedBracket(t *testing.T) {
	e, _ := newTestEditor(t, "foo(bar")

	e.SetCursor(4)
	assert.Equal(t, brackets.Unmatched, e.BracketMatch().Kind)

	spans := e.SpansOfKind(overlay.KindBracketMismatch)
	require.Len(t, spans, 1)
	assert.Equal(t, overlay.Span{Kind: overlay.KindBracketMismatch, Start: 3, End: 4}, spans[0])
	assert.Empty(t, e.SpansOfKind(overlay.KindBracketMatch))
}

func TestBracketModelFollowsEdits(t *testing.T) {
	e, _ := newTestEditor(t, "x)\ny")

	e.SetCursor(0)
	typeText(t, e, "(")
	// Cursor after the new opener on line 0.
	m := e.BracketMatch()
	require.Equal(t, brackets.Matched, m.Kind)
	assert.Equal(t, 2, m.Partner)
}

func TestCurrentLineSpan(t *testing.T) {
	e, _ := newTestEditor(t, "a\nbb\nc")

	e.SetCursor(3)
	spans := e.SpansOfKind(overlay.KindCurrentLine)
	require.Len(t, spans, 1)
	assert.Equal(t, 2, spans[0].Start)
	assert.True(t, spans[0].FullWidth)

	cfg := config.Default()
	cfg.Editor.HighlightCurrentLine = false
	require.NoError(t, e.SetConfig(cfg))
	assert.Empty(t, e.SpansOfKind(overlay.KindCurrentLine))
}

func TestApplyDiagnosticsReplaces(t *testing.T) {
	e, _ := newTestEditor(t, "var int: x;\nconstraint x > ;\nsolve satisfy;")
	e.SetCursor(offsetAt(e, 1, 11))

	e.ApplyDiagnostics([]diagnostic.Record{
		{FirstLine: 1, LastLine: 1, FirstCol: 1, LastCol: 3, Message: "a"},
	})
	e.ApplyDiagnostics([]diagnostic.Record{
		{FirstLine: 2, LastLine: 2, FirstCol: 16, LastCol: 14, Message: "b"},
		{FirstLine: 3, LastLine: 3, FirstCol: 1, LastCol: 5, Message: "c", IsWarning: true},
	})

	errs := e.SpansOfKind(overlay.KindDiagnosticError)
	require.Len(t, errs, 1)
	assert.Equal(t, 12+13, errs[0].Start)
	assert.Equal(t, 12+16, errs[0].End)
	assert.Len(t, e.SpansOfKind(overlay.KindDiagnosticWarning), 1)
	assert.Len(t, e.SpansOfKind(overlay.KindCurrentLine), 1, "cursor spans survive")

	assert.Equal(t, diagnostic.GutterError, e.GutterStyleFor(1, 1))
	assert.Equal(t, diagnostic.GutterWarning, e.GutterStyleFor(2, 1))
	assert.Equal(t, diagnostic.GutterCurrent, e.GutterStyleFor(0, 0))

	e.ClearDiagnostics()
	assert.Empty(t, e.SpansOfKind(overlay.KindDiagnosticError))
	assert.Empty(t, e.Diagnostics())
}

func offsetAt(e *Editor, line, col int) int {
	return e.LineStart(line) + col
}

func TestOverlaysFollowEdits(t *testing.T) {
	e, _ := newTestEditor(t, "x = bad;\ny = 1;")
	e.ApplyDiagnostics([]diagnostic.Record{
		{FirstLine: 1, LastLine: 1, FirstCol: 5, LastCol: 7, Message: "undefined identifier 'bad'"},
	})
	e.SetHeat(map[int]heat.Stats{1: {Constraints: 4}}, heat.Totals{Constraints: 4})

	e.SetCursor(0)
	require.NoError(t, e.Execute(input.Action{Command: input.CmdNewlineAutoIndent}))
	require.Equal(t, "\nx = bad;\ny = 1;", e.Text())

	spans := e.SpansOfKind(overlay.KindDiagnosticError)
	require.Len(t, spans, 1)
	text, err := e.Document().TextRange(spans[0].Start, spans[0].End)
	require.NoError(t, err)
	assert.Equal(t, "bad", text)

	assert.Equal(t, diagnostic.GutterNormal, e.GutterStyleFor(0, -1))
	assert.Equal(t, diagnostic.GutterError, e.GutterStyleFor(1, -1))

	msg, ok := e.TooltipAt(offsetAt(e, 1, 5))
	assert.True(t, ok)
	assert.Equal(t, "Error: undefined identifier 'bad'", msg)

	_, ok = e.Heat().Stats(1)
	assert.False(t, ok, "line 1 now holds x = bad;")
	s, ok := e.Heat().Stats(2)
	require.True(t, ok)
	assert.Equal(t, 4, s.Constraints)
}

func TestApplyDiagnosticsDropsInvalidLines(t *testing.T) {
	e, _ := newTestEditor(t, "a\nb")

	dropped := e.ApplyDiagnostics([]diagnostic.Record{
		{FirstLine: 1, LastLine: 1, FirstCol: 1, LastCol: 1, Message: "ok"},
		{FirstLine: 9, LastLine: 9, FirstCol: 1, LastCol: 1, Message: "stale"},
	})
	require.Len(t, dropped, 1)
	assert.Equal(t, "stale", dropped[0].Message)
	assert.Len(t, e.Diagnostics(), 1)
}

func TestTooltipAt(t *testing.T) {
	e, _ := newTestEditor(t, "var int: x;\nconstraint x > y;", WithPath("/models/m.mzn"))

	e.ApplyDiagnostics([]diagnostic.Record{
		{FirstLine: 2, LastLine: 2, FirstCol: 16, LastCol: 16, Message: "undefined identifier 'y'"},
	})
	msg, ok := e.TooltipAt(12 + 15)
	require.True(t, ok)
	assert.Equal(t, "Error: undefined identifier 'y'", msg)

	e.SetSymbols(map[string]string{
		diagnostic.SymbolKey("m.mzn", 2, 1): "X_INTRODUCED_3_",
	})
	msg, ok = e.TooltipAt(12 + 4)
	require.True(t, ok)
	assert.Equal(t, "X_INTRODUCED_3_", msg)

	_, ok = e.TooltipAt(2)
	assert.False(t, ok)
}

func TestTabInsertsToNextStop(t *testing.T) {
	cfg := config.Default()
	cfg.Editor.IndentSize = 4
	e, _ := newTestEditor(t, "  x", WithConfig(cfg))

	e.SetCursor(2)
	require.NoError(t, e.Execute(input.Action{Command: input.CmdInsertIndent}))
	assert.Equal(t, "    x", e.Text())
	assert.Equal(t, 4, e.Selection().Head)

	require.NoError(t, e.Execute(input.Action{Command: input.CmdInsertIndent}))
	assert.Equal(t, "        x", e.Text())
}

func TestShiftIsOneUndoStep(t *testing.T) {
	e, _ := newTestEditor(t, "a\nb\nc")

	e.SetSelection(document.Selection{Anchor: 0, Head: 3})
	require.NoError(t, e.Execute(input.Action{Command: input.CmdShiftRight}))
	assert.Equal(t, "  a\n  b\nc", e.Text())

	require.NoError(t, e.Execute(input.Action{Command: input.CmdShiftLeft}))
	assert.Equal(t, "a\nb\nc", e.Text())

	require.NoError(t, e.Execute(input.Action{Command: input.CmdUndo}))
	assert.Equal(t, "  a\n  b\nc", e.Text())
	require.NoError(t, e.Execute(input.Action{Command: input.CmdUndo}))
	assert.Equal(t, "a\nb\nc", e.Text())
	require.NoError(t, e.Execute(input.Action{Command: input.CmdRedo}))
	assert.Equal(t, "  a\n  b\nc", e.Text())
}

func TestNewlineKeepsIndent(t *testing.T) {
	e, _ := newTestEditor(t, "  \tfoo")

	e.SetCursor(6)
	require.NoError(t, e.Execute(input.Action{Command: input.CmdNewlineAutoIndent}))
	assert.Equal(t, "  \tfoo\n  \t", e.Text())
	assert.Equal(t, 10, e.Selection().Head)
}

func TestCompletion(t *testing.T) {
	e, _ := newTestEditor(t, "")

	typeText(t, e, "co")
	assert.False(t, e.Completion().Visible, "below the minimum prefix")

	typeText(t, e, "n")
	c := e.Completion()
	require.True(t, c.Visible)
	assert.Equal(t, []string{"constraint"}, c.Items)

	require.NoError(t, e.Execute(input.Action{Command: input.CmdAcceptCompletion}))
	assert.Equal(t, "constraint", e.Text())
	assert.Equal(t, 10, e.Selection().Head)
	assert.False(t, e.Completion().Visible)

	require.NoError(t, e.Execute(input.Action{Command: input.CmdUndo}))
	assert.Equal(t, "con", e.Text())
}

func TestCompletionClosesOnEndOfWord(t *testing.T) {
	e, _ := newTestEditor(t, "")

	typeText(t, e, "sol")
	require.True(t, e.Completion().Visible)
	typeText(t, e, "(")
	assert.False(t, e.Completion().Visible)
}

func TestCompletionCycle(t *testing.T) {
	e, _ := newTestEditor(t, "")

	typeText(t, e, "sub")
	c := e.Completion()
	require.Equal(t, []string{"subset"}, c.Items)

	require.NoError(t, e.Execute(input.Action{Command: input.CmdBackspace}))
	assert.False(t, e.Completion().Visible)

	require.NoError(t, e.Execute(input.Action{Command: input.CmdTriggerCompletion}))
	c = e.Completion()
	require.True(t, c.Visible)
	assert.Equal(t, []string{"subset", "superset"}, c.Items)

	require.NoError(t, e.Execute(input.Action{Command: input.CmdCompletionPrev}))
	word, _ := e.Completion().Current()
	assert.Equal(t, "superset", word)

	require.NoError(t, e.Execute(input.Action{Command: input.CmdAcceptCompletion}))
	assert.Equal(t, "superset", e.Text())
}

func TestEscapeNotifies(t *testing.T) {
	e, _ := newTestEditor(t, "")

	calls := 0
	e.OnEscape(func() { calls++ })

	typeText(t, e, "sol")
	require.NoError(t, e.Execute(input.Action{Command: input.CmdEscape}))
	assert.Equal(t, 1, calls)
	assert.False(t, e.Completion().Visible)
}

func TestMovement(t *testing.T) {
	e, _ := newTestEditor(t, "  abc\nd\nefgh")

	e.SetCursor(4)
	require.NoError(t, e.Execute(input.Action{Command: input.CmdMoveDown}))
	assert.Equal(t, 7, e.Selection().Head, "clamped to the short line")
	require.NoError(t, e.Execute(input.Action{Command: input.CmdMoveDown}))
	assert.Equal(t, 12, e.Selection().Head, "goal column restored")

	e.SetCursor(4)
	require.NoError(t, e.Execute(input.Action{Command: input.CmdLineStart}))
	assert.Equal(t, 2, e.Selection().Head, "first non-blank")
	require.NoError(t, e.Execute(input.Action{Command: input.CmdLineStart}))
	assert.Equal(t, 0, e.Selection().Head)
	require.NoError(t, e.Execute(input.Action{Command: input.CmdLineEnd}))
	assert.Equal(t, 5, e.Selection().Head)

	require.NoError(t, e.Execute(input.Action{Command: input.CmdMoveLeft}))
	assert.Equal(t, 4, e.Selection().Head)
	require.NoError(t, e.Execute(input.Action{Command: input.CmdDelete}))
	assert.Equal(t, "  ab\nd\nefgh", e.Text())
}

func TestUnsupportedCommand(t *testing.T) {
	e, _ := newTestEditor(t, "")
	assert.ErrorIs(t, e.Execute(input.Action{Command: input.CmdSave}), ErrUnsupportedCommand)
}

func TestSetConfig(t *testing.T) {
	e, _ := newTestEditor(t, "x")

	light := e.Palette()
	cfg := config.Default()
	cfg.Editor.DarkMode = true
	cfg.Editor.IndentSize = 4
	cfg.Editor.DebounceMillis = 250
	require.NoError(t, e.SetConfig(cfg))

	assert.True(t, e.Dark())
	assert.NotEqual(t, light.Background, e.Palette().Background)

	e.SetCursor(0)
	require.NoError(t, e.Execute(input.Action{Command: input.CmdInsertIndent}))
	assert.Equal(t, "    x", e.Text())

	cfg.Editor.IndentSize = 0
	assert.ErrorIs(t, e.SetConfig(cfg), config.ErrInvalidIndentSize)
	assert.Equal(t, 4, e.Config().Editor.IndentSize)
}

func TestApplyAnalysis(t *testing.T) {
	e, _ := newTestEditor(t, "var int: x;\nconstraint x > 1;", WithPath("m.mzn"))

	assert.Equal(t, 4, e.GutterWidth())

	res, err := analysis.ParseString(`{"type":"warning","location":{"filename":"m.mzn","firstLine":1,"firstColumn":10,"lastLine":1,"lastColumn":10},"message":"unused"}
{"type":"profile","entries":[{"line":2,"constraints":3,"variables":1,"time":5}]}
`, "m.mzn")
	require.NoError(t, err)
	dropped := e.ApplyAnalysis(res)
	assert.Empty(t, dropped)
	assert.Len(t, e.SpansOfKind(overlay.KindDiagnosticWarning), 1)

	s, ok := e.Heat().Stats(1)
	require.True(t, ok)
	assert.Equal(t, heat.Stats{Constraints: 3, Variables: 1, Millis: 5}, s)
	assert.Equal(t, 4+heat.Columns*heat.CellWidth, e.GutterWidth())

	empty, err := analysis.ParseString("", "m.mzn")
	require.NoError(t, err)
	e.ApplyAnalysis(empty)
	assert.False(t, e.Heat().HasData())
	assert.Empty(t, e.Diagnostics())
}

func TestBracketsStayInSyncWithEdits(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		clock := debounce.NewManualClock(epoch)
		e := New("", WithClock(clock), WithLogger(logging.Discard()))
		defer e.Close()
		doc := e.Document()

		pieces := rapid.SampledFrom([]string{"(", ")", "[", "]", "{", "}", "\n", "x", "% (", "\"(\"", "  "})
		steps := rapid.IntRange(1, 30).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			n := doc.Len()
			if n > 0 && rapid.Bool().Draw(rt, "delete") {
				start := rapid.IntRange(0, n-1).Draw(rt, "start")
				end := rapid.IntRange(start+1, n).Draw(rt, "end")
				require.NoError(rt, doc.Delete(start, end))
				continue
			}
			at := rapid.IntRange(0, n).Draw(rt, "at")
			require.NoError(rt, doc.Insert(at, pieces.Draw(rt, "piece")))
		}

		fresh := brackets.NewModel(doc, highlight.NewLexer())
		for off := 0; off <= doc.Len(); off++ {
			e.SetCursor(off)
			p := doc.OffsetToPoint(off)
			require.Equal(rt, fresh.MatchAt(p.Line, p.Column), e.BracketMatch(), "offset %d in %q", off, doc.Text())
		}
	})
}
