package analysis

import (
	"bufio"
	"errors"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/dshills/mzedit/internal/engine/diagnostic"
	"github.com/dshills/mzedit/internal/renderer/heat"
)

// Message types.
const (
	TypeError   = "error"
	TypeWarning = "warning"
	TypePaths   = "paths"
	TypeProfile = "profile"
)

// maxLine bounds a single stream line. Path messages for large models
// can be several megabytes.
const maxLine = 16 * 1024 * 1024

// Result is everything extracted from one compiler run.
type Result struct {
	// Records are the located diagnostics for the model file.
	Records []diagnostic.Record

	// Messages are diagnostics without a usable location.
	Messages []string

	// Profile holds statistics per 0-based line.
	Profile map[int]heat.Stats

	// Symbols maps SymbolKey locations to the names introduced there.
	Symbols map[string]string

	// Skipped counts lines that were not valid JSON messages.
	Skipped int

	// Foreign counts diagnostics located in other files.
	Foreign int
}

// Totals returns the largest statistic of each column.
func (r *Result) Totals() heat.Totals {
	return heat.MaxTotals(r.Profile)
}

// HasProfile reports whether any profiling data was read.
func (r *Result) HasProfile() bool {
	return len(r.Profile) > 0
}

// Parse reads a message stream. file is the model the editor shows;
// located messages for other files are counted in Foreign and dropped.
// An empty file accepts every location. Lines longer than maxLine are
// counted in Skipped and parsing continues after them.
func Parse(r io.Reader, file string) (*Result, error) {
	return parse(r, file, maxLine)
}

func parse(r io.Reader, file string, limit int) (*Result, error) {
	res := &Result{
		Profile: make(map[int]heat.Stats),
		Symbols: make(map[string]string),
	}

	br := bufio.NewReaderSize(r, 64*1024)
	var (
		line    []byte
		tooLong bool
	)
	for {
		chunk, isPrefix, err := br.ReadLine()
		if errors.Is(err, io.EOF) {
			return res, nil
		}
		if err != nil {
			return res, err
		}

		if !tooLong {
			if len(line)+len(chunk) > limit {
				tooLong = true
			} else {
				line = append(line, chunk...)
			}
		}
		if isPrefix {
			continue
		}

		if tooLong {
			res.Skipped++
		} else {
			res.parseLine(string(line), file)
		}
		line = line[:0]
		tooLong = false
	}
}

// ParseString parses a complete stream held in memory.
func ParseString(s, file string) (*Result, error) {
	return Parse(strings.NewReader(s), file)
}

func (r *Result) parseLine(line, file string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	if !gjson.Valid(line) {
		r.Skipped++
		return
	}
	msg := gjson.Parse(line)
	if !msg.IsObject() {
		r.Skipped++
		return
	}

	switch msg.Get("type").String() {
	case TypeError:
		r.addDiagnostic(msg, file, false)
	case TypeWarning:
		r.addDiagnostic(msg, file, true)
	case TypePaths:
		r.addPaths(msg, file)
	case TypeProfile:
		r.addProfile(msg, file)
	case "":
		r.Skipped++
	}
}

func (r *Result) addDiagnostic(msg gjson.Result, file string, warning bool) {
	text := msg.Get("message").String()
	if what := msg.Get("what").String(); what != "" && text == "" {
		text = what
	}

	loc := msg.Get("location")
	if !loc.Exists() || !loc.Get("firstLine").Exists() {
		r.Messages = append(r.Messages, text)
		return
	}
	if !sameFile(loc.Get("filename").String(), file) {
		r.Foreign++
		return
	}

	first := int(loc.Get("firstLine").Int())
	last := first
	if v := loc.Get("lastLine"); v.Exists() {
		last = int(v.Int())
	}
	firstCol := int(loc.Get("firstColumn").Int())
	lastCol := firstCol
	if v := loc.Get("lastColumn"); v.Exists() {
		lastCol = int(v.Int())
	}

	r.Records = append(r.Records, diagnostic.Record{
		FirstLine: first,
		LastLine:  last,
		FirstCol:  firstCol,
		LastCol:   lastCol,
		Message:   text,
		IsWarning: warning,
	})
}

func (r *Result) addPaths(msg gjson.Result, file string) {
	msg.Get("paths").ForEach(func(_, entry gjson.Result) bool {
		id := entry.Get("id").String()
		loc, ok := parsePath(entry.Get("path").String())
		if id == "" || !ok || !sameFile(loc.file, file) {
			return true
		}
		key := diagnostic.SymbolKey(filepath.Base(loc.file), loc.line, loc.col)
		if prev, ok := r.Symbols[key]; ok {
			r.Symbols[key] = prev + ", " + id
		} else {
			r.Symbols[key] = id
		}
		return true
	})
}

func (r *Result) addProfile(msg gjson.Result, file string) {
	msg.Get("entries").ForEach(func(_, entry gjson.Result) bool {
		if f := entry.Get("filename").String(); f != "" && !sameFile(f, file) {
			return true
		}
		line := int(entry.Get("line").Int()) - 1
		if line < 0 {
			return true
		}
		s := r.Profile[line]
		s.Constraints += int(entry.Get("constraints").Int())
		s.Variables += int(entry.Get("variables").Int())
		s.Millis += int(entry.Get("time").Int())
		r.Profile[line] = s
		return true
	})
}

type pathLoc struct {
	file string
	line int
	col  int
}

// parsePath reads the leading "file|firstLine|firstColumn" fields of a
// compiler path. Later fields describe the call chain and are ignored.
func parsePath(p string) (pathLoc, bool) {
	fields := strings.Split(p, "|")
	if len(fields) < 3 || fields[0] == "" {
		return pathLoc{}, false
	}
	line, err := strconv.Atoi(fields[1])
	if err != nil || line < 1 {
		return pathLoc{}, false
	}
	col, err := strconv.Atoi(fields[2])
	if err != nil || col < 1 {
		return pathLoc{}, false
	}
	return pathLoc{file: fields[0], line: line, col: col}, true
}

func sameFile(a, b string) bool {
	if a == "" || b == "" {
		return true
	}
	return filepath.Base(a) == filepath.Base(b)
}
