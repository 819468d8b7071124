package core

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rowvault/rowvault-db/internal/rowvault"
)

// Column declares one table column. Link kinds name a target table which must
// be bound with BindTarget before rows are written.
type Column struct {
	Name     string
	Type     rowvault.ColumnType
	Nullable bool
	Target   string // link kinds only
}

// Table holds rows of typed cells. It is the engine-side owner of all type
// checking: accessors above it delegate and propagate its errors unmodified.
type Table struct {
	mu       sync.RWMutex
	name     string
	cols     []Column
	targets  []*Table // per column, nil unless link kind
	rows     []*Row
	observer MutationObserver

	// gate is held shared for the span of one mutation plus its observer
	// notification. Freeze takes it exclusively, so a frozen table has no
	// mutation applied-but-unreported.
	gate sync.RWMutex
}

// NewTable validates the schema and creates an empty table.
func NewTable(name string, cols []Column) (*Table, error) {
	if name == "" {
		return nil, errors.New("table name is required")
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("table %s requires at least one column", name)
	}

	seen := make(map[string]struct{}, len(cols))
	for i, col := range cols {
		if col.Name == "" {
			return nil, fmt.Errorf("column %d: name is required", i)
		}
		if _, ok := seen[col.Name]; ok {
			return nil, fmt.Errorf("column %s: duplicate name", col.Name)
		}
		seen[col.Name] = struct{}{}

		switch {
		case col.Type == rowvault.TypeUnknown:
			return nil, fmt.Errorf("column %s: %w", col.Name, ErrTypeMismatch)
		case col.Type.IsLinkKind() && col.Target == "":
			return nil, fmt.Errorf("column %s: link columns require a target table", col.Name)
		case col.Type == rowvault.TypeLink && !col.Nullable:
			// Object links are always nullable: an unset link is null.
			return nil, fmt.Errorf("column %s: link columns must be nullable", col.Name)
		case col.Type == rowvault.TypeLinkList && col.Nullable:
			// A link list is never null, only empty.
			return nil, fmt.Errorf("column %s: link list columns cannot be nullable", col.Name)
		case !col.Type.IsLinkKind() && col.Target != "":
			return nil, fmt.Errorf("column %s: only link columns may name a target", col.Name)
		}
	}

	return &Table{
		name:    name,
		cols:    cols,
		targets: make([]*Table, len(cols)),
	}, nil
}

// BindTarget attaches the target table for a link column.
func (t *Table) BindTarget(col int, target *Table) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if col < 0 || col >= len(t.cols) {
		return fmt.Errorf("%w: index %d", ErrUnknownColumn, col)
	}
	if !t.cols[col].Type.IsLinkKind() {
		return fmt.Errorf("%w: %s", ErrNotLinkColumn, t.cols[col].Name)
	}
	if target == nil {
		return fmt.Errorf("column %s: target table cannot be nil", t.cols[col].Name)
	}
	t.targets[col] = target
	return nil
}

// Freeze blocks row mutations until Thaw. While frozen, every mutation the
// table has accepted has also been reported to its observer; the snapshot
// path relies on that to keep the exported state and the journal in step.
func (t *Table) Freeze() {
	t.gate.Lock()
}

// Thaw releases a Freeze.
func (t *Table) Thaw() {
	t.gate.Unlock()
}

// SetObserver binds a mutation observer. Passing nil detaches it.
func (t *Table) SetObserver(o MutationObserver) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.observer = o
}

func (t *Table) Name() string {
	return t.name
}

func (t *Table) ColumnCount() int {
	return len(t.cols)
}

// ColumnName returns the declared name for a column index.
func (t *Table) ColumnName(col int) (string, error) {
	if col < 0 || col >= len(t.cols) {
		return "", fmt.Errorf("%w: index %d", ErrUnknownColumn, col)
	}
	return t.cols[col].Name, nil
}

// ColumnIndex resolves a column name to its index.
func (t *Table) ColumnIndex(name string) (int, error) {
	for i, col := range t.cols {
		if col.Name == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %s", ErrUnknownColumn, name)
}

// ColumnType returns the declared type for a column index. The type is read
// from the schema on every call, never cached by callers.
func (t *Table) ColumnType(col int) (rowvault.ColumnType, error) {
	if col < 0 || col >= len(t.cols) {
		return rowvault.TypeUnknown, fmt.Errorf("%w: index %d", ErrUnknownColumn, col)
	}
	return t.cols[col].Type, nil
}

// TargetName returns the declared target table name for a link column, or
// an empty string for scalar columns.
func (t *Table) TargetName(col int) string {
	if col >= 0 && col < len(t.cols) {
		return t.cols[col].Target
	}
	return ""
}

// ColumnNullable reports whether a column accepts null.
func (t *Table) ColumnNullable(col int) (bool, error) {
	if col < 0 || col >= len(t.cols) {
		return false, fmt.Errorf("%w: index %d", ErrUnknownColumn, col)
	}
	return t.cols[col].Nullable, nil
}

func (t *Table) RowCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rows)
}

// AddRow appends an empty row. Nullable cells start null; non-nullable cells
// start at the type's zero value.
func (t *Table) AddRow() (int, error) {
	t.gate.RLock()
	defer t.gate.RUnlock()

	t.mu.Lock()
	cells := make([]cell, len(t.cols))
	for i, col := range t.cols {
		if col.Nullable {
			cells[i] = cell{null: true}
			continue
		}
		cells[i] = cell{val: zeroValue(col.Type)}
	}
	row := &Row{parent: t, index: len(t.rows), cells: cells}
	t.rows = append(t.rows, row)
	idx := row.index
	t.mu.Unlock()

	t.notify(&MutationEvent{Table: t.name, Row: idx, Kind: MutationRowInsert})
	return idx, nil
}

// RowPtr resolves the native row reference for an index. This is the factory
// handle accessors are built on.
func (t *Table) RowPtr(index int) (*Row, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if index < 0 || index >= len(t.rows) {
		return nil, fmt.Errorf("%w: %d of %d", ErrRowOutOfRange, index, len(t.rows))
	}
	return t.rows[index], nil
}

// DetachAll severs every issued row from the table. Used when a restore
// replaces the table's backing storage; detached rows fail all operations.
func (t *Table) DetachAll() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, row := range t.rows {
		row.detached = true
	}
}

// notify is called outside the table lock so observers may read the table.
func (t *Table) notify(e *MutationEvent) {
	t.mu.RLock()
	o := t.observer
	t.mu.RUnlock()
	if o != nil {
		o.RowMutated(e)
	}
}

func zeroValue(t rowvault.ColumnType) any {
	switch t {
	case rowvault.TypeInteger:
		return int64(0)
	case rowvault.TypeBoolean:
		return false
	case rowvault.TypeFloat:
		return float32(0)
	case rowvault.TypeDouble:
		return float64(0)
	case rowvault.TypeString:
		return ""
	case rowvault.TypeBinary:
		return []byte{}
	case rowvault.TypeTimestamp:
		return time.Time{}
	default:
		return nil
	}
}
