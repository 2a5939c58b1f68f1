package editor

import (
	"sort"
	"strings"
	"unicode"
)

// completionWords are the words offered by the completion popup.
var completionWords = []string{
	"annotation", "array", "bool", "constraint", "diff", "else", "elseif",
	"endif", "enum", "float", "function", "include", "intersect",
	"maximize", "minimize", "output", "predicate", "satisfy", "solve",
	"string", "subset", "superset", "symdiff", "test", "then", "union",
	"where",
}

// endOfWord holds the characters that close the popup when typed.
const endOfWord = "~!@#$%^&*()_+{}|:\"<>?,./;'[]\\-="

// minPrefix is the word length at which typing opens the popup.
const minPrefix = 3

// Completion is the state of the completion popup.
type Completion struct {
	Visible  bool
	Prefix   string
	Items    []string
	Selected int

	// Start is the offset of the word being completed.
	Start int
}

// Current returns the selected item.
func (c Completion) Current() (string, bool) {
	if !c.Visible || c.Selected < 0 || c.Selected >= len(c.Items) {
		return "", false
	}
	return c.Items[c.Selected], true
}

// CompletionWords returns the completion vocabulary.
func CompletionWords() []string {
	out := append([]string(nil), completionWords...)
	sort.Strings(out)
	return out
}

// matchWords returns the words starting with prefix, excluding an exact
// match.
func matchWords(prefix string) []string {
	var out []string
	for _, w := range completionWords {
		if strings.HasPrefix(w, prefix) && w != prefix {
			out = append(out, w)
		}
	}
	sort.Strings(out)
	return out
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// wordBefore returns the start offset and text of the word ending at off.
func (e *Editor) wordBefore(off int) (int, string) {
	p := e.doc.OffsetToPoint(off)
	rs := []rune(e.doc.Line(p.Line))
	col := min(p.Column, len(rs))
	start := col
	for start > 0 && isWordRune(rs[start-1]) {
		start--
	}
	return off - (col - start), string(rs[start:col])
}

// Completion returns the popup state.
func (e *Editor) Completion() Completion {
	e.mu.Lock()
	defer e.mu.Unlock()
	c := e.completion
	c.Items = append([]string(nil), c.Items...)
	return c
}

// CompletionItems reports the popup for rendering.
func (e *Editor) CompletionItems() ([]string, int, bool) {
	c := e.Completion()
	return c.Items, c.Selected, c.Visible
}

// afterTyping updates the popup once r has been inserted.
func (e *Editor) afterTyping(r rune) {
	if strings.ContainsRune(endOfWord, r) || unicode.IsSpace(r) {
		e.hideCompletion()
		return
	}
	start, word := e.wordBefore(e.sel.Head)
	if len([]rune(word)) < minPrefix {
		e.hideCompletion()
		return
	}
	e.openCompletion(start, word)
}

func (e *Editor) openCompletion(start int, prefix string) {
	items := matchWords(prefix)
	if len(items) == 0 {
		e.hideCompletion()
		return
	}
	e.completion = Completion{Visible: true, Prefix: prefix, Items: items, Start: start}
}

func (e *Editor) hideCompletion() {
	e.completion = Completion{}
}

func (e *Editor) cycleCompletion(delta int) {
	n := len(e.completion.Items)
	if !e.completion.Visible || n == 0 {
		return
	}
	e.completion.Selected = ((e.completion.Selected+delta)%n + n) % n
}

// acceptCompletion inserts the rest of the selected word as one edit.
func (e *Editor) acceptCompletion() error {
	word, ok := e.completion.Current()
	prefix := e.completion.Prefix
	e.hideCompletion()
	if !ok {
		return nil
	}

	rest := strings.TrimPrefix(word, prefix)
	if rest == "" {
		return nil
	}
	head := e.sel.Head
	err := e.doc.Group("complete", func() error {
		return e.doc.Insert(head, rest)
	})
	if err != nil {
		return err
	}
	e.moveTo(head+len([]rune(rest)), false)
	return nil
}
