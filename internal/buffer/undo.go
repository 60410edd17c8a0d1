package buffer

// Grouped undo. BeginUndoAction/EndUndoAction bracket any number of edits
// into one group that Undo reverts atomically; replace-all leans on this to
// make a whole pass reversible in a single step. Ungrouped edits each form
// their own group.

type edit struct {
	pos      int
	removed  []byte
	inserted []byte
}

type undoGroup struct {
	edits []edit
}

// BeginUndoAction opens an undo group. Calls nest; only the outermost pair
// delimits the group.
func (b *Buffer) BeginUndoAction() {
	if b.groupOpen == 0 {
		b.undo = append(b.undo, undoGroup{})
	}
	b.groupOpen++
}

// EndUndoAction closes the current undo group.
func (b *Buffer) EndUndoAction() {
	if b.groupOpen > 0 {
		b.groupOpen--
	}
	// Drop an empty group so Undo always has an effect.
	if b.groupOpen == 0 && len(b.undo) > 0 && len(b.undo[len(b.undo)-1].edits) == 0 {
		b.undo = b.undo[:len(b.undo)-1]
	}
}

func (b *Buffer) recordEdit(e edit) {
	if b.groupOpen == 0 {
		b.undo = append(b.undo, undoGroup{edits: []edit{e}})
		return
	}
	g := &b.undo[len(b.undo)-1]
	g.edits = append(g.edits, e)
}

// CanUndo reports whether an undo group is available.
func (b *Buffer) CanUndo() bool { return len(b.undo) > 0 && b.groupOpen == 0 }

// Undo reverts the most recent undo group, newest edit first, and returns
// true if anything was reverted.
func (b *Buffer) Undo() bool {
	if !b.CanUndo() {
		return false
	}
	g := b.undo[len(b.undo)-1]
	b.undo = b.undo[:len(b.undo)-1]

	for i := len(g.edits) - 1; i >= 0; i-- {
		e := g.edits[i]
		tail := append(append([]byte(nil), e.removed...), b.doc[e.pos+len(e.inserted):]...)
		b.doc = append(b.doc[:e.pos], tail...)
		b.GotoPos(e.pos + len(e.removed))
	}
	b.lineStarts = nil
	b.indicators = nil
	b.notifyMutate()
	return true
}
