package handle

import (
	"github.com/rowvault/rowvault-db/internal/core"
	"github.com/rowvault/rowvault-db/internal/rowvault"
)

// CheckedRow wraps an UncheckedRow and validates column-type compatibility
// before the two operations where a blind delegation would either error or
// store the wrong null representation. Everything else delegates unmodified.
//
// For access paths where inputs were already validated, use UncheckedRow
// directly for less per-call work.
type CheckedRow struct {
	*UncheckedRow

	// original keeps the wrapped handle reachable so its native reference
	// cannot be reclaimed while this wrapper is alive. Never read or written.
	original *UncheckedRow
}

// Get resolves the row at an index in a table, builds a checked accessor, and
// registers it with the context.
func Get(ctx *Context, table *core.Table, index int) (*CheckedRow, error) {
	unchecked, err := GetUnchecked(ctx, table, index)
	if err != nil {
		return nil, err
	}
	return &CheckedRow{UncheckedRow: unchecked}, nil
}

// GetFromLinkView resolves the row at an index in a link view. The view's
// target table becomes the handle's owner.
func GetFromLinkView(ctx *Context, view *core.LinkView, index int) (*CheckedRow, error) {
	native, err := view.RowPtr(index)
	if err != nil {
		return nil, err
	}
	row := &UncheckedRow{
		ctx:    ctx,
		parent: view.TargetTable(),
		native: native,
		epoch:  ctx.Epoch(),
		lvRefs: make(map[int]*Reference),
	}
	row.ref = ctx.AddReference(RefRow, row)
	return &CheckedRow{UncheckedRow: row}, nil
}

// FromRow wraps an existing unchecked handle. No new native acquisition
// happens, so the context is not re-registered; the wrapper retains the
// original to keep the shared native object alive.
func FromRow(row *UncheckedRow) *CheckedRow {
	return &CheckedRow{
		UncheckedRow: &UncheckedRow{
			ctx:    row.ctx,
			parent: row.parent,
			native: row.native,
			epoch:  row.epoch,
			ref:    row.ref,
			lvRefs: row.lvRefs,
		},
		original: row,
	}
}

// IsNullLink returns whether the link at col is null. For any column whose
// declared type is not a link kind the answer is vacuously false: no native
// lookup is performed and no error is raised.
func (r *CheckedRow) IsNullLink(col int) (bool, error) {
	colType, err := r.ColumnType(col)
	if err != nil {
		return false, err
	}
	if colType.IsLinkKind() {
		return r.UncheckedRow.IsNullLink(col)
	}
	return false, nil
}

// IsNull delegates directly; the engine performs all validation.
func (r *CheckedRow) IsNull(col int) (bool, error) {
	return r.UncheckedRow.IsNull(col)
}

// SetNull stores null. Binary columns take the binary-absence representation
// instead of the generic null-setter, which the engine would refuse.
func (r *CheckedRow) SetNull(col int) error {
	colType, err := r.ColumnType(col)
	if err != nil {
		return err
	}
	if colType == rowvault.TypeBinary {
		return r.UncheckedRow.SetBinary(col, nil)
	}
	return r.UncheckedRow.SetNull(col)
}
