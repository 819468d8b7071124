package core

import (
	"fmt"
	"time"

	"github.com/rowvault/rowvault-db/internal/rowvault"
)

// cell stores one value. null is tracked separately from the value so that
// "absent" survives independently of any zero value, binary included.
type cell struct {
	val  any
	null bool
}

// Row is the native row reference: one record inside a table. A Row stays
// valid until its table detaches it (restore) and performs no safety checks
// beyond its own type dispatch; handle accessors layer lifetime guards on top.
type Row struct {
	parent   *Table
	index    int
	cells    []cell
	detached bool
}

// Parent returns the owning table.
func (r *Row) Parent() *Table {
	return r.parent
}

// Index returns the row's position in its table.
func (r *Row) Index() int {
	return r.index
}

// Detached reports whether the row has been severed from its table.
func (r *Row) Detached() bool {
	r.parent.mu.RLock()
	defer r.parent.mu.RUnlock()
	return r.detached
}

// cellOK validates the row is attached, the column exists, and (when want is
// not TypeUnknown) that the declared type matches. Callers hold the table lock.
func (r *Row) cellOK(col int, want rowvault.ColumnType) error {
	if r.detached {
		return ErrDetachedRow
	}
	if col < 0 || col >= len(r.parent.cols) {
		return fmt.Errorf("%w: index %d", ErrUnknownColumn, col)
	}
	if want != rowvault.TypeUnknown && r.parent.cols[col].Type != want {
		return fmt.Errorf("%w: column %s is %s, not %s",
			ErrTypeMismatch, r.parent.cols[col].Name, r.parent.cols[col].Type, want)
	}
	return nil
}

func (r *Row) getCell(col int, want rowvault.ColumnType) (cell, error) {
	r.parent.mu.RLock()
	defer r.parent.mu.RUnlock()
	if err := r.cellOK(col, want); err != nil {
		return cell{}, err
	}
	return r.cells[col], nil
}

// setCell applies a mutation under the table lock and reports it afterwards.
// The whole span runs under the table's mutation gate, so a Freeze never
// lands between the write and its report.
func (r *Row) setCell(col int, want rowvault.ColumnType, c cell, kind MutationKind, value any) error {
	r.parent.gate.RLock()
	defer r.parent.gate.RUnlock()

	r.parent.mu.Lock()
	if err := r.cellOK(col, want); err != nil {
		r.parent.mu.Unlock()
		return err
	}
	name := r.parent.cols[col].Name
	r.cells[col] = c
	r.parent.mu.Unlock()

	r.parent.notify(&MutationEvent{
		Table:  r.parent.name,
		Row:    r.index,
		Column: name,
		Kind:   kind,
		Value:  value,
	})
	return nil
}

func (r *Row) GetLong(col int) (int64, error) {
	c, err := r.getCell(col, rowvault.TypeInteger)
	if err != nil || c.null {
		return 0, err
	}
	return c.val.(int64), nil
}

func (r *Row) SetLong(col int, v int64) error {
	return r.setCell(col, rowvault.TypeInteger, cell{val: v}, MutationSet, v)
}

func (r *Row) GetBoolean(col int) (bool, error) {
	c, err := r.getCell(col, rowvault.TypeBoolean)
	if err != nil || c.null {
		return false, err
	}
	return c.val.(bool), nil
}

func (r *Row) SetBoolean(col int, v bool) error {
	return r.setCell(col, rowvault.TypeBoolean, cell{val: v}, MutationSet, v)
}

func (r *Row) GetFloat(col int) (float32, error) {
	c, err := r.getCell(col, rowvault.TypeFloat)
	if err != nil || c.null {
		return 0, err
	}
	return c.val.(float32), nil
}

func (r *Row) SetFloat(col int, v float32) error {
	return r.setCell(col, rowvault.TypeFloat, cell{val: v}, MutationSet, v)
}

func (r *Row) GetDouble(col int) (float64, error) {
	c, err := r.getCell(col, rowvault.TypeDouble)
	if err != nil || c.null {
		return 0, err
	}
	return c.val.(float64), nil
}

func (r *Row) SetDouble(col int, v float64) error {
	return r.setCell(col, rowvault.TypeDouble, cell{val: v}, MutationSet, v)
}

func (r *Row) GetString(col int) (string, error) {
	c, err := r.getCell(col, rowvault.TypeString)
	if err != nil || c.null {
		return "", err
	}
	return c.val.(string), nil
}

func (r *Row) SetString(col int, v string) error {
	return r.setCell(col, rowvault.TypeString, cell{val: v}, MutationSet, v)
}

func (r *Row) GetTimestamp(col int) (time.Time, error) {
	c, err := r.getCell(col, rowvault.TypeTimestamp)
	if err != nil || c.null {
		return time.Time{}, err
	}
	return c.val.(time.Time), nil
}

func (r *Row) SetTimestamp(col int, v time.Time) error {
	return r.setCell(col, rowvault.TypeTimestamp, cell{val: v}, MutationSet, v)
}

// GetBinary returns nil for an absent value. A present-but-empty value comes
// back as a non-nil empty slice; the two are not the same state.
func (r *Row) GetBinary(col int) ([]byte, error) {
	c, err := r.getCell(col, rowvault.TypeBinary)
	if err != nil || c.null {
		return nil, err
	}
	return c.val.([]byte), nil
}

// SetBinary stores data. A nil slice stores binary absence, which is how null
// is represented for binary columns.
func (r *Row) SetBinary(col int, data []byte) error {
	if data == nil {
		r.parent.mu.RLock()
		err := r.cellOK(col, rowvault.TypeBinary)
		nullable := err == nil && r.parent.cols[col].Nullable
		r.parent.mu.RUnlock()
		if err != nil {
			return err
		}
		if !nullable {
			return fmt.Errorf("%w: %s", ErrNotNullable, mustColumnName(r.parent, col))
		}
		return r.setCell(col, rowvault.TypeBinary, cell{null: true}, MutationSet, nil)
	}
	return r.setCell(col, rowvault.TypeBinary, cell{val: data}, MutationSet, data)
}

// IsNull reports whether the cell holds no value.
func (r *Row) IsNull(col int) (bool, error) {
	c, err := r.getCell(col, rowvault.TypeUnknown)
	if err != nil {
		return false, err
	}
	return c.null, nil
}

// SetNull stores a generic null. Binary columns refuse it: binary absence has
// its own representation and must go through SetBinary with a nil slice. Link
// lists are never null.
func (r *Row) SetNull(col int) error {
	r.parent.mu.RLock()
	err := r.cellOK(col, rowvault.TypeUnknown)
	var colType rowvault.ColumnType
	var nullable bool
	if err == nil {
		colType = r.parent.cols[col].Type
		nullable = r.parent.cols[col].Nullable
	}
	r.parent.mu.RUnlock()
	if err != nil {
		return err
	}

	switch {
	case colType == rowvault.TypeBinary:
		return fmt.Errorf("%w: %s", ErrBinaryNull, mustColumnName(r.parent, col))
	case colType == rowvault.TypeLinkList:
		return fmt.Errorf("%w: link list column %s cannot be null",
			ErrTypeMismatch, mustColumnName(r.parent, col))
	case !nullable:
		return fmt.Errorf("%w: %s", ErrNotNullable, mustColumnName(r.parent, col))
	}
	return r.setCell(col, rowvault.TypeUnknown, cell{null: true}, MutationSetNull, nil)
}

// IsNullLink reports whether a link cell is unset. Non-link columns are an
// error at this layer; the checked accessor above turns that case into false.
func (r *Row) IsNullLink(col int) (bool, error) {
	r.parent.mu.RLock()
	defer r.parent.mu.RUnlock()
	if err := r.cellOK(col, rowvault.TypeUnknown); err != nil {
		return false, err
	}
	switch r.parent.cols[col].Type {
	case rowvault.TypeLink:
		return r.cells[col].null, nil
	case rowvault.TypeLinkList:
		// A list is never null.
		return false, nil
	default:
		return false, fmt.Errorf("%w: %s", ErrNotLinkColumn, r.parent.cols[col].Name)
	}
}

// GetLink returns the target row index, or -1 when the link is unset.
func (r *Row) GetLink(col int) (int, error) {
	c, err := r.getCell(col, rowvault.TypeLink)
	if err != nil {
		return -1, err
	}
	if c.null {
		return -1, nil
	}
	return c.val.(int), nil
}

// SetLink points the cell at a row in the column's target table.
func (r *Row) SetLink(col int, targetRow int) error {
	r.parent.mu.RLock()
	err := r.cellOK(col, rowvault.TypeLink)
	target := (*Table)(nil)
	if err == nil {
		target = r.parent.targets[col]
	}
	r.parent.mu.RUnlock()
	if err != nil {
		return err
	}
	if target == nil {
		return fmt.Errorf("column %s: no target table bound", mustColumnName(r.parent, col))
	}
	if targetRow < 0 || targetRow >= target.RowCount() {
		return fmt.Errorf("%w: link target %d of %d", ErrRowOutOfRange, targetRow, target.RowCount())
	}
	return r.setCell(col, rowvault.TypeLink, cell{val: targetRow}, MutationSetLink, targetRow)
}

// NullifyLink clears a link cell.
func (r *Row) NullifyLink(col int) error {
	r.parent.mu.RLock()
	err := r.cellOK(col, rowvault.TypeLink)
	r.parent.mu.RUnlock()
	if err != nil {
		return err
	}
	return r.setCell(col, rowvault.TypeLink, cell{null: true}, MutationNullifyLink, nil)
}

// GetLinkList returns the link view for a link list cell, creating it on
// first access. The same view is returned for the life of the row.
func (r *Row) GetLinkList(col int) (*LinkView, error) {
	r.parent.mu.Lock()
	defer r.parent.mu.Unlock()
	if err := r.cellOK(col, rowvault.TypeLinkList); err != nil {
		return nil, err
	}
	if lv, ok := r.cells[col].val.(*LinkView); ok && lv != nil {
		return lv, nil
	}
	lv := &LinkView{owner: r, col: col, target: r.parent.targets[col]}
	r.cells[col] = cell{val: lv}
	return lv, nil
}

func mustColumnName(t *Table, col int) string {
	if col >= 0 && col < len(t.cols) {
		return t.cols[col].Name
	}
	return fmt.Sprintf("#%d", col)
}
