package core

import (
	"fmt"
)

// LinkView is an ordered list of references to rows in a target table, stored
// in one link list cell.
type LinkView struct {
	owner   *Row
	col     int
	target  *Table
	indices []int
}

// TargetTable returns the table the view's links resolve into.
func (v *LinkView) TargetTable() *Table {
	return v.target
}

// Size returns the number of links in the view.
func (v *LinkView) Size() int {
	v.owner.parent.mu.RLock()
	defer v.owner.parent.mu.RUnlock()
	return len(v.indices)
}

// Add appends a link to a row in the target table.
func (v *LinkView) Add(targetRow int) error {
	v.owner.parent.gate.RLock()
	defer v.owner.parent.gate.RUnlock()

	v.owner.parent.mu.Lock()
	if v.owner.detached {
		v.owner.parent.mu.Unlock()
		return ErrDetachedRow
	}
	if v.target == nil {
		v.owner.parent.mu.Unlock()
		return fmt.Errorf("column %s: no target table bound", mustColumnName(v.owner.parent, v.col))
	}
	name := v.owner.parent.cols[v.col].Name
	v.owner.parent.mu.Unlock()

	// Validate the target index against the target table outside the owner
	// lock; self-links would otherwise deadlock.
	if targetRow < 0 || targetRow >= v.target.RowCount() {
		return fmt.Errorf("%w: link target %d of %d", ErrRowOutOfRange, targetRow, v.target.RowCount())
	}

	v.owner.parent.mu.Lock()
	v.indices = append(v.indices, targetRow)
	v.owner.parent.mu.Unlock()

	v.owner.parent.notify(&MutationEvent{
		Table:  v.owner.parent.name,
		Row:    v.owner.index,
		Column: name,
		Kind:   MutationLinkAdd,
		Value:  targetRow,
	})
	return nil
}

// RowPtr resolves the native row reference for a position in the view.
func (v *LinkView) RowPtr(index int) (*Row, error) {
	v.owner.parent.mu.RLock()
	if index < 0 || index >= len(v.indices) {
		n := len(v.indices)
		v.owner.parent.mu.RUnlock()
		return nil, fmt.Errorf("%w: link view index %d of %d", ErrRowOutOfRange, index, n)
	}
	targetRow := v.indices[index]
	v.owner.parent.mu.RUnlock()

	return v.target.RowPtr(targetRow)
}

// Indices returns a copy of the view's target row indices.
func (v *LinkView) Indices() []int {
	v.owner.parent.mu.RLock()
	defer v.owner.parent.mu.RUnlock()
	out := make([]int, len(v.indices))
	copy(out, v.indices)
	return out
}
