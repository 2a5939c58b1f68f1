package document

import (
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// edit is a single recorded replacement.
type edit struct {
	Offset Offset
	Old    string
	New    string
}

// invert returns the edit that undoes e.
func (e edit) invert() edit {
	return edit{Offset: e.Offset, Old: e.New, New: e.Old}
}

// editGroup is a set of edits that undo and redo together.
type editGroup struct {
	name  string
	edits []edit
}

// history holds undo/redo state. It is embedded in Document and guarded
// by the document lock.
type history struct {
	undo  []*editGroup
	redo  []*editGroup
	open  *editGroup
	depth int
}

// record appends e to the open group, or pushes it as its own step.
// Caller holds the write lock.
func (d *Document) record(e edit) {
	d.redo = nil
	if d.open != nil {
		d.open.edits = append(d.open.edits, e)
		return
	}
	d.undo = append(d.undo, &editGroup{edits: []edit{e}})
}

// BeginGroup starts an edit group. Every edit until the matching EndGroup
// undoes and redoes as one step. Groups nest; only the outermost counts.
func (d *Document) BeginGroup(name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.depth == 0 {
		d.open = &editGroup{name: name}
	}
	d.depth++
}

// EndGroup closes the current edit group.
func (d *Document) EndGroup() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.depth == 0 {
		return ErrGroupNotOpen
	}
	d.depth--
	if d.depth > 0 {
		return nil
	}
	if len(d.open.edits) > 0 {
		d.undo = append(d.undo, d.open)
	}
	d.open = nil
	return nil
}

// CancelGroup closes the current group and reverts every edit made in it.
func (d *Document) CancelGroup() error {
	d.mu.Lock()
	if d.depth == 0 {
		d.mu.Unlock()
		return ErrGroupNotOpen
	}
	g := d.open
	d.open = nil
	d.depth = 0
	d.mu.Unlock()

	d.replay(g.inverse())
	return nil
}

// Group runs fn inside an edit group. If fn returns an error the whole
// group, including any enclosing group, is cancelled and its edits reverted.
func (d *Document) Group(name string, fn func() error) error {
	d.BeginGroup(name)
	if err := fn(); err != nil {
		// A nested Group may already have cancelled the outer one.
		_ = d.CancelGroup()
		return err
	}
	return d.EndGroup()
}

// InGroup reports whether an edit group is open.
func (d *Document) InGroup() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.depth > 0
}

// CanUndo returns true if there is a step to undo.
func (d *Document) CanUndo() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.undo) > 0
}

// CanRedo returns true if there is a step to redo.
func (d *Document) CanRedo() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.redo) > 0
}

// Undo reverts the most recent step.
func (d *Document) Undo() error {
	d.mu.Lock()
	if len(d.undo) == 0 {
		d.mu.Unlock()
		return ErrNothingToUndo
	}
	g := d.undo[len(d.undo)-1]
	d.undo = d.undo[:len(d.undo)-1]
	d.redo = append(d.redo, g)
	d.mu.Unlock()

	d.replay(g.inverse())
	return nil
}

// Redo reapplies the most recently undone step.
func (d *Document) Redo() error {
	d.mu.Lock()
	if len(d.redo) == 0 {
		d.mu.Unlock()
		return ErrNothingToRedo
	}
	g := d.redo[len(d.redo)-1]
	d.redo = d.redo[:len(d.redo)-1]
	d.undo = append(d.undo, g)
	d.mu.Unlock()

	d.replay(g.edits)
	return nil
}

// inverse returns the edits that revert g, in application order.
func (g *editGroup) inverse() []edit {
	out := make([]edit, 0, len(g.edits))
	for i := len(g.edits) - 1; i >= 0; i-- {
		out = append(out, g.edits[i].invert())
	}
	return out
}

// replay applies edits without recording them. Each change is delivered
// before the next edit is applied so subscribers always see the content
// the change describes.
func (d *Document) replay(edits []edit) {
	for _, e := range edits {
		d.mu.Lock()
		c := d.apply(e)
		subs := d.snapshotSubs()
		d.mu.Unlock()

		notify(subs, c)
	}
}

// SetText replaces the whole content with text as a single undo step.
// Only the lines that differ are touched, so line-keyed caches held by
// subscribers survive for unchanged regions.
func (d *Document) SetText(text string) error {
	text = normalize(text)
	old := d.Text()
	if old == text {
		return nil
	}

	dmp := diffmatchpatch.New()
	a, b, lineArray := dmp.DiffLinesToChars(old, text)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lineArray)

	return d.Group("set text", func() error {
		pos := 0
		for i := 0; i < len(diffs); i++ {
			df := diffs[i]
			n := utf8.RuneCountInString(df.Text)
			switch df.Type {
			case diffmatchpatch.DiffEqual:
				pos += n
			case diffmatchpatch.DiffInsert:
				if err := d.Insert(pos, df.Text); err != nil {
					return err
				}
				pos += n
			case diffmatchpatch.DiffDelete:
				repl := ""
				if i+1 < len(diffs) && diffs[i+1].Type == diffmatchpatch.DiffInsert {
					repl = diffs[i+1].Text
					i++
				}
				if err := d.Replace(pos, pos+n, repl); err != nil {
					return err
				}
				pos += utf8.RuneCountInString(repl)
			}
		}
		return nil
	})
}
