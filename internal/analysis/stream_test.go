package analysis

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/mzedit/internal/engine/diagnostic"
	"github.com/dshills/mzedit/internal/engine/document"
	"github.com/dshills/mzedit/internal/renderer/heat"
)

const sampleStream = `{"type":"warning","location":{"filename":"/tmp/m.mzn","firstLine":2,"firstColumn":1,"lastLine":2,"lastColumn":4},"message":"unused variable"}
not json at all
{"type":"error","what":"type error","location":{"filename":"m.mzn","firstLine":5,"firstColumn":9,"lastLine":5,"lastColumn":3},"message":"undefined identifier 'y'"}
{"type":"error","location":{"filename":"other.mzn","firstLine":1,"firstColumn":1,"lastLine":1,"lastColumn":2},"message":"elsewhere"}
{"type":"error","message":"model inconsistency detected"}
{"type":"paths","paths":[{"id":"X_INTRODUCED_0_","path":"m.mzn|3|5|3|9|ca|int_lin_le"},{"id":"X_INTRODUCED_1_","path":"m.mzn|3|5|3|9|ca|int_le"},{"id":"bad","path":"m.mzn|x|1"}]}
{"type":"profile","entries":[{"line":3,"constraints":7,"variables":2,"time":40},{"line":3,"constraints":1,"variables":0,"time":2},{"line":8,"constraints":2,"variables":5,"time":10},{"filename":"other.mzn","line":1,"constraints":99}]}
{"type":"statistics","statistics":{"flatTime":0.1}}
[1,2,3]
{"message":"no type"}
`

func TestParseStream(t *testing.T) {
	res, err := Parse(strings.NewReader(sampleStream), "m.mzn")
	require.NoError(t, err)

	require.Len(t, res.Records, 2)
	assert.Equal(t, diagnostic.Record{
		FirstLine: 2, LastLine: 2, FirstCol: 1, LastCol: 4,
		Message: "unused variable", IsWarning: true,
	}, res.Records[0])
	assert.Equal(t, diagnostic.Record{
		FirstLine: 5, LastLine: 5, FirstCol: 9, LastCol: 3,
		Message: "undefined identifier 'y'",
	}, res.Records[1])

	assert.Equal(t, []string{"model inconsistency detected"}, res.Messages)
	assert.Equal(t, 1, res.Foreign)
	assert.Equal(t, 3, res.Skipped)

	assert.Equal(t, map[string]string{
		"m.mzn:3.5": "X_INTRODUCED_0_, X_INTRODUCED_1_",
	}, res.Symbols)

	assert.Equal(t, map[int]heat.Stats{
		2: {Constraints: 8, Variables: 2, Millis: 42},
		7: {Constraints: 2, Variables: 5, Millis: 10},
	}, res.Profile)
	assert.True(t, res.HasProfile())
	assert.Equal(t, heat.Totals{Constraints: 8, Variables: 5, Millis: 42}, res.Totals())
}

func TestParseAcceptsAnyFileWhenUnnamed(t *testing.T) {
	res, err := ParseString(sampleStream, "")
	require.NoError(t, err)
	assert.Len(t, res.Records, 3)
	assert.Zero(t, res.Foreign)
}

func TestParseEmpty(t *testing.T) {
	res, err := ParseString("\n\n", "m.mzn")
	require.NoError(t, err)
	assert.Empty(t, res.Records)
	assert.Zero(t, res.Skipped)
	assert.False(t, res.HasProfile())
}

func TestParseSkipsOverlongLines(t *testing.T) {
	long := `{"type":"paths","paths":[` + strings.Repeat(`{"id":"x","path":"m.mzn|1|1|1|1"},`, 20) + `]}`
	stream := long + "\n" +
		`{"type":"error","location":{"filename":"m.mzn","firstLine":1,"firstColumn":1,"lastLine":1,"lastColumn":2},"message":"after"}` + "\n"

	res, err := parse(strings.NewReader(stream), "m.mzn", 200)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Skipped)
	require.Len(t, res.Records, 1)
	assert.Equal(t, "after", res.Records[0].Message)
	assert.Empty(t, res.Symbols)
}

func TestParseRecordWithoutColumns(t *testing.T) {
	res, err := ParseString(`{"type":"error","location":{"filename":"m.mzn","firstLine":2,"lastLine":2},"message":"no columns"}`, "m.mzn")
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Zero(t, res.Records[0].FirstCol)

	doc := document.New("x = 1;\ny = 2;")
	d, ok := diagnostic.Resolve(doc, res.Records[0])
	require.True(t, ok)
	assert.Equal(t, 7, d.Start, "span starts on its own line")
	assert.Equal(t, 1, d.FirstLine)
}

func TestParsePath(t *testing.T) {
	tests := []struct {
		path string
		want pathLoc
		ok   bool
	}{
		{"m.mzn|3|5|3|9|ca", pathLoc{"m.mzn", 3, 5}, true},
		{"dir/m.mzn|1|1", pathLoc{"dir/m.mzn", 1, 1}, true},
		{"m.mzn|0|5", pathLoc{}, false},
		{"m.mzn|3", pathLoc{}, false},
		{"|3|5", pathLoc{}, false},
		{"m.mzn|a|5", pathLoc{}, false},
	}
	for _, tt := range tests {
		got, ok := parsePath(tt.path)
		assert.Equal(t, tt.ok, ok, tt.path)
		assert.Equal(t, tt.want, got, tt.path)
	}
}

func TestCompilerCheckWithoutPath(t *testing.T) {
	_, err := (&Compiler{}).Check(context.Background(), "m.mzn")
	assert.True(t, errors.Is(err, ErrNoCompiler))

	var c *Compiler
	_, err = c.Check(context.Background(), "m.mzn")
	assert.ErrorIs(t, err, ErrNoCompiler)
}

func TestCompilerCheckMissingExecutable(t *testing.T) {
	c := NewCompiler("/nonexistent/minizinc-for-tests")
	_, err := c.Check(context.Background(), "m.mzn")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoCompiler)
}

// fakeCompiler writes a script that reports the first line of the model
// as an error located in the file it was given.
func fakeCompiler(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script compiler")
	}
	script := `#!/bin/sh
for f; do :; done
msg=$(head -n 1 "$f")
printf '{"type":"error","location":{"filename":"%s","firstLine":1,"firstColumn":1,"lastLine":1,"lastColumn":3},"message":"%s"}\n' "$f" "$msg"
exit 1
`
	path := filepath.Join(t.TempDir(), "minizinc")
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func TestCompilerCheckSource(t *testing.T) {
	c := NewCompiler(fakeCompiler(t))

	res, err := c.CheckSource(context.Background(), "/models/m.mzn", "x = 1;\nsolve satisfy;\n")
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, "x = 1;", res.Records[0].Message)
	assert.Equal(t, 1, res.Records[0].FirstLine)
}

func TestCompilerCheckSourceWithoutPath(t *testing.T) {
	_, err := (&Compiler{}).CheckSource(context.Background(), "m.mzn", "")
	assert.ErrorIs(t, err, ErrNoCompiler)
}
