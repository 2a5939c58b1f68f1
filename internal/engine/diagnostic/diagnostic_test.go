package diagnostic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/dshills/mzedit/internal/engine/document"
)

const model = "var 1..3: x;\nvar 1..3: y;\nconstraint x < y;\nsolve satisfy;"

func TestApply(t *testing.T) {
	doc := document.New(model)
	o := NewOverlay()

	dropped := o.Apply(doc, []Record{
		{FirstLine: 3, LastLine: 3, FirstCol: 12, LastCol: 16, Message: "type error"},
	})
	assert.Empty(t, dropped)

	diags := o.Diagnostics()
	require.Len(t, diags, 1)
	d := diags[0]
	start := doc.LineStart(2)
	assert.Equal(t, start+11, d.Start)
	assert.Equal(t, start+16, d.End)
	assert.Equal(t, "Error: type error", d.Message)
	assert.Equal(t, SeverityError, d.Severity)

	text, err := doc.TextRange(d.Start, d.End)
	require.NoError(t, err)
	assert.Equal(t, "x < y", text)
}

func TestApplyReplacesPreviousSet(t *testing.T) {
	doc := document.New(model)
	o := NewOverlay()

	o.Apply(doc, []Record{
		{FirstLine: 1, LastLine: 1, FirstCol: 1, LastCol: 3, Message: "a"},
		{FirstLine: 2, LastLine: 2, FirstCol: 1, LastCol: 3, Message: "b", IsWarning: true},
	})
	o.Apply(doc, []Record{
		{FirstLine: 4, LastLine: 4, FirstCol: 1, LastCol: 5, Message: "c"},
	})

	diags := o.Diagnostics()
	require.Len(t, diags, 1)
	assert.Equal(t, "Error: c", diags[0].Message)
	assert.Equal(t, []int{3}, o.ErrorLines())
	assert.Empty(t, o.WarningLines())
}

func TestApplyDropsInvalidLines(t *testing.T) {
	doc := document.New(model)
	o := NewOverlay()

	bad := []Record{
		{FirstLine: 0, LastLine: 1, FirstCol: 1, LastCol: 1, Message: "zero"},
		{FirstLine: 4, LastLine: 9, FirstCol: 1, LastCol: 1, Message: "past end"},
	}
	good := Record{FirstLine: 2, LastLine: 2, FirstCol: 1, LastCol: 3, Message: "ok", IsWarning: true}

	dropped := o.Apply(doc, append(bad, good))
	assert.Equal(t, bad, dropped)
	assert.Equal(t, 1, o.Len())
	assert.Equal(t, []int{1}, o.WarningLines())
}

func TestApplyMultiLine(t *testing.T) {
	doc := document.New(model)
	o := NewOverlay()

	o.Apply(doc, []Record{
		{FirstLine: 2, LastLine: 4, FirstCol: 5, LastCol: 3, Message: "span"},
	})

	d := o.Diagnostics()[0]
	assert.Equal(t, doc.LineStart(1)+2, d.Start)
	assert.Equal(t, doc.LineStart(3)+5, d.End)
	assert.Equal(t, []int{1, 2, 3}, o.ErrorLines())
}

func TestApplyClampsToDocumentEnd(t *testing.T) {
	doc := document.New("abc")
	o := NewOverlay()

	o.Apply(doc, []Record{{FirstLine: 1, LastLine: 1, FirstCol: 2, LastCol: 40, Message: "long"}})

	d := o.Diagnostics()[0]
	assert.Equal(t, 1, d.Start)
	assert.Equal(t, 3, d.End)
}

func TestResolveMissingColumn(t *testing.T) {
	doc := document.New("x = 1;\ny = bad;")

	d, ok := Resolve(doc, Record{FirstLine: 2, LastLine: 2, FirstCol: 0, LastCol: 3, Message: "no start"})
	require.True(t, ok)
	assert.Equal(t, doc.LineStart(1), d.Start, "start stays on the reported line")
	assert.Equal(t, doc.LineStart(1)+3, d.End)

	o := NewOverlay()
	o.Apply(doc, []Record{{FirstLine: 2, LastLine: 2, Message: "no columns"}})
	_, ok = o.TooltipAt(doc.LineStart(1) - 1)
	assert.False(t, ok, "the line above has no tooltip")
	msg, ok := o.TooltipAt(doc.LineStart(1))
	assert.True(t, ok)
	assert.Equal(t, "Error: no columns", msg)
}

func TestRemapFollowsEdits(t *testing.T) {
	doc := document.New("x = bad;\ny = 1;")
	o := NewOverlay()
	o.Apply(doc, []Record{
		{FirstLine: 1, LastLine: 1, FirstCol: 5, LastCol: 7, Message: "undefined identifier"},
		{FirstLine: 2, LastLine: 2, FirstCol: 1, LastCol: 1, Message: "unused", IsWarning: true},
	})
	doc.Subscribe(func(c document.Change) { o.Remap(doc, c.MapOffset) })

	require.NoError(t, doc.Insert(0, "\n"))

	diags := o.Diagnostics()
	require.Len(t, diags, 2)
	text, err := doc.TextRange(diags[0].Start, diags[0].End)
	require.NoError(t, err)
	assert.Equal(t, "bad", text)
	assert.Equal(t, []int{1}, o.ErrorLines())
	assert.Equal(t, []int{2}, o.WarningLines())
	assert.Equal(t, GutterNormal, o.GutterStyleFor(0, -1))

	// Deleting the flagged text removes its diagnostic.
	require.NoError(t, doc.Delete(diags[0].Start, diags[0].End))
	diags = o.Diagnostics()
	require.Len(t, diags, 1)
	assert.Equal(t, "Warning: unused", diags[0].Message)
	assert.Empty(t, o.ErrorLines())
}

func TestRemapWithoutDiagnostics(t *testing.T) {
	doc := document.New("abc")
	o := NewOverlay()
	assert.False(t, o.Remap(doc, func(off int) int { return off }))
}

func TestColumnNormalizationProperty(t *testing.T) {
	doc := document.New(model)
	rapid.Check(t, func(rt *rapid.T) {
		line := rapid.IntRange(1, doc.LineCount()).Draw(rt, "line")
		a := rapid.IntRange(1, 20).Draw(rt, "a")
		b := rapid.IntRange(1, 20).Draw(rt, "b")

		fwd, ok1 := Resolve(doc, Record{FirstLine: line, LastLine: line, FirstCol: a, LastCol: b})
		rev, ok2 := Resolve(doc, Record{FirstLine: line, LastLine: line, FirstCol: b, LastCol: a})
		if !ok1 || !ok2 {
			rt.Fatalf("resolve failed")
		}
		if fwd.Start != rev.Start || fwd.End != rev.End {
			rt.Fatalf("(%d,%d) gave %d..%d but (%d,%d) gave %d..%d",
				a, b, fwd.Start, fwd.End, b, a, rev.Start, rev.End)
		}
	})
}

func TestTooltipAt(t *testing.T) {
	doc := document.New(model)
	o := NewOverlay()
	o.Apply(doc, []Record{
		{FirstLine: 1, LastLine: 1, FirstCol: 1, LastCol: 12, Message: "outer"},
		{FirstLine: 1, LastLine: 1, FirstCol: 5, LastCol: 8, Message: "inner", IsWarning: true},
	})

	tests := []struct {
		offset int
		want   string
		ok     bool
	}{
		{0, "Error: outer", true},
		{6, "Error: outer", true},
		{12, "Error: outer", true},
		{13, "", false},
	}

	for _, tt := range tests {
		got, ok := o.TooltipAt(tt.offset)
		assert.Equal(t, tt.ok, ok, "offset %d", tt.offset)
		assert.Equal(t, tt.want, got, "offset %d", tt.offset)
	}
}

func TestGutterStyleForPrecedence(t *testing.T) {
	doc := document.New(model)
	o := NewOverlay()
	o.Apply(doc, []Record{
		{FirstLine: 1, LastLine: 2, FirstCol: 1, LastCol: 1, Message: "w", IsWarning: true},
		{FirstLine: 2, LastLine: 2, FirstCol: 1, LastCol: 1, Message: "e"},
	})

	tests := []struct {
		line, current int
		want          GutterClass
	}{
		{1, 1, GutterError},
		{0, 0, GutterWarning},
		{2, 2, GutterCurrent},
		{3, 2, GutterNormal},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, o.GutterStyleFor(tt.line, tt.current), "line %d", tt.line)
	}
}

func TestClear(t *testing.T) {
	doc := document.New(model)
	o := NewOverlay()
	o.Apply(doc, []Record{{FirstLine: 1, LastLine: 1, FirstCol: 1, LastCol: 1}})

	o.Clear()
	assert.Zero(t, o.Len())
	assert.Equal(t, GutterNormal, o.GutterStyleFor(0, -1))
}

func TestSymbols(t *testing.T) {
	s := NewSymbols()
	s.Replace(map[string]string{SymbolKey("model.mzn", 3, 12): "X_INTRODUCED_4_"})

	name, ok := s.Lookup("model.mzn", 3, 12)
	assert.True(t, ok)
	assert.Equal(t, "X_INTRODUCED_4_", name)

	_, ok = s.Lookup("model.mzn", 3, 13)
	assert.False(t, ok)

	s.Replace(nil)
	assert.Zero(t, s.Len())
}
