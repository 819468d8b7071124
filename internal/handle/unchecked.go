package handle

import (
	"time"

	"github.com/rowvault/rowvault-db/internal/core"
	"github.com/rowvault/rowvault-db/internal/rowvault"
)

// UncheckedRow is the low-level accessor: a stale-epoch guard and nothing
// else. Every operation delegates to the native row; engine errors propagate
// unmodified. Use CheckedRow where inputs have not already been validated.
type UncheckedRow struct {
	ctx    *Context
	parent *core.Table
	native *core.Row
	epoch  uint64
	ref    *Reference

	// lvRefs holds one link-view reference per column so Close can release
	// them with the row instead of leaving them tracked until invalidation.
	lvRefs map[int]*Reference
}

// GetUnchecked resolves the native row for an index in a table and registers
// the handle with the context.
func GetUnchecked(ctx *Context, table *core.Table, index int) (*UncheckedRow, error) {
	native, err := table.RowPtr(index)
	if err != nil {
		return nil, err
	}
	row := &UncheckedRow{
		ctx:    ctx,
		parent: table,
		native: native,
		epoch:  ctx.Epoch(),
		lvRefs: make(map[int]*Reference),
	}
	row.ref = ctx.AddReference(RefRow, row)
	return row, nil
}

// Close releases the handle's references, including any link views it issued;
// the reaper sweeps them later.
func (r *UncheckedRow) Close() {
	r.ctx.Release(r.ref)
	for _, ref := range r.lvRefs {
		r.ctx.Release(ref)
	}
}

// ensureValid fails fast once the context has moved past the handle's epoch.
func (r *UncheckedRow) ensureValid() error {
	if r.epoch != r.ctx.Epoch() {
		return ErrStaleHandle
	}
	return nil
}

// Parent returns the owning table.
func (r *UncheckedRow) Parent() *core.Table {
	return r.parent
}

func (r *UncheckedRow) RowIndex() (int, error) {
	if err := r.ensureValid(); err != nil {
		return -1, err
	}
	return r.native.Index(), nil
}

func (r *UncheckedRow) ColumnCount() (int, error) {
	if err := r.ensureValid(); err != nil {
		return 0, err
	}
	return r.parent.ColumnCount(), nil
}

func (r *UncheckedRow) ColumnName(col int) (string, error) {
	if err := r.ensureValid(); err != nil {
		return "", err
	}
	return r.parent.ColumnName(col)
}

func (r *UncheckedRow) ColumnIndex(name string) (int, error) {
	if err := r.ensureValid(); err != nil {
		return -1, err
	}
	return r.parent.ColumnIndex(name)
}

// ColumnType reads the declared type from the schema on every call so it
// always reflects current state.
func (r *UncheckedRow) ColumnType(col int) (rowvault.ColumnType, error) {
	if err := r.ensureValid(); err != nil {
		return rowvault.TypeUnknown, err
	}
	return r.parent.ColumnType(col)
}

func (r *UncheckedRow) GetLong(col int) (int64, error) {
	if err := r.ensureValid(); err != nil {
		return 0, err
	}
	return r.native.GetLong(col)
}

func (r *UncheckedRow) SetLong(col int, v int64) error {
	if err := r.ensureValid(); err != nil {
		return err
	}
	return r.native.SetLong(col, v)
}

func (r *UncheckedRow) GetBoolean(col int) (bool, error) {
	if err := r.ensureValid(); err != nil {
		return false, err
	}
	return r.native.GetBoolean(col)
}

func (r *UncheckedRow) SetBoolean(col int, v bool) error {
	if err := r.ensureValid(); err != nil {
		return err
	}
	return r.native.SetBoolean(col, v)
}

func (r *UncheckedRow) GetFloat(col int) (float32, error) {
	if err := r.ensureValid(); err != nil {
		return 0, err
	}
	return r.native.GetFloat(col)
}

func (r *UncheckedRow) SetFloat(col int, v float32) error {
	if err := r.ensureValid(); err != nil {
		return err
	}
	return r.native.SetFloat(col, v)
}

func (r *UncheckedRow) GetDouble(col int) (float64, error) {
	if err := r.ensureValid(); err != nil {
		return 0, err
	}
	return r.native.GetDouble(col)
}

func (r *UncheckedRow) SetDouble(col int, v float64) error {
	if err := r.ensureValid(); err != nil {
		return err
	}
	return r.native.SetDouble(col, v)
}

func (r *UncheckedRow) GetString(col int) (string, error) {
	if err := r.ensureValid(); err != nil {
		return "", err
	}
	return r.native.GetString(col)
}

func (r *UncheckedRow) SetString(col int, v string) error {
	if err := r.ensureValid(); err != nil {
		return err
	}
	return r.native.SetString(col, v)
}

func (r *UncheckedRow) GetTimestamp(col int) (time.Time, error) {
	if err := r.ensureValid(); err != nil {
		return time.Time{}, err
	}
	return r.native.GetTimestamp(col)
}

func (r *UncheckedRow) SetTimestamp(col int, v time.Time) error {
	if err := r.ensureValid(); err != nil {
		return err
	}
	return r.native.SetTimestamp(col, v)
}

func (r *UncheckedRow) GetBinary(col int) ([]byte, error) {
	if err := r.ensureValid(); err != nil {
		return nil, err
	}
	return r.native.GetBinary(col)
}

func (r *UncheckedRow) SetBinary(col int, data []byte) error {
	if err := r.ensureValid(); err != nil {
		return err
	}
	return r.native.SetBinary(col, data)
}

func (r *UncheckedRow) GetLink(col int) (int, error) {
	if err := r.ensureValid(); err != nil {
		return -1, err
	}
	return r.native.GetLink(col)
}

func (r *UncheckedRow) SetLink(col int, targetRow int) error {
	if err := r.ensureValid(); err != nil {
		return err
	}
	return r.native.SetLink(col, targetRow)
}

func (r *UncheckedRow) NullifyLink(col int) error {
	if err := r.ensureValid(); err != nil {
		return err
	}
	return r.native.NullifyLink(col)
}

// GetLinkList returns the cell's link view, registered with the context the
// first time a column's view is handed out. The reference is retained on the
// handle so Close releases it.
func (r *UncheckedRow) GetLinkList(col int) (*core.LinkView, error) {
	if err := r.ensureValid(); err != nil {
		return nil, err
	}
	lv, err := r.native.GetLinkList(col)
	if err != nil {
		return nil, err
	}
	if _, ok := r.lvRefs[col]; !ok {
		r.lvRefs[col] = r.ctx.AddReference(RefLinkView, lv)
	}
	return lv, nil
}

func (r *UncheckedRow) IsNull(col int) (bool, error) {
	if err := r.ensureValid(); err != nil {
		return false, err
	}
	return r.native.IsNull(col)
}

func (r *UncheckedRow) IsNullLink(col int) (bool, error) {
	if err := r.ensureValid(); err != nil {
		return false, err
	}
	return r.native.IsNullLink(col)
}

func (r *UncheckedRow) SetNull(col int) error {
	if err := r.ensureValid(); err != nil {
		return err
	}
	return r.native.SetNull(col)
}
