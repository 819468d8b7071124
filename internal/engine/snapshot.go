package engine

import (
	"encoding/json"
	"fmt"

	"github.com/rowvault/rowvault-db/internal/core"
	"github.com/rowvault/rowvault-db/internal/rowvault"
)

// Export dumps every table for a snapshot. Null cells are recorded as
// absent, so binary null round-trips as "no value" rather than an empty
// byte array.
func (e *Engine) Export() (*rowvault.Snapshot, error) {
	e.mu.RLock()
	order := make([]string, len(e.order))
	copy(order, e.order)
	e.mu.RUnlock()

	snap := &rowvault.Snapshot{Tables: make([]rowvault.TableDump, 0, len(order))}
	for _, name := range order {
		table, err := e.Table(name)
		if err != nil {
			return nil, err
		}
		dump, err := dumpTable(table)
		if err != nil {
			return nil, err
		}
		snap.Tables = append(snap.Tables, *dump)
	}
	return snap, nil
}

func dumpTable(table *core.Table) (*rowvault.TableDump, error) {
	dump := &rowvault.TableDump{Name: table.Name()}

	colCount := table.ColumnCount()
	for col := 0; col < colCount; col++ {
		name, _ := table.ColumnName(col)
		colType, _ := table.ColumnType(col)
		nullable, _ := table.ColumnNullable(col)
		cd := rowvault.ColumnDump{Name: name, Type: colType.String(), Nullable: nullable}
		if colType.IsLinkKind() {
			cd.Target = table.TargetName(col)
		}
		dump.Columns = append(dump.Columns, cd)
	}

	rowCount := table.RowCount()
	for i := 0; i < rowCount; i++ {
		row, err := table.RowPtr(i)
		if err != nil {
			return nil, err
		}
		cells := make([]rowvault.CellDump, colCount)
		for col := 0; col < colCount; col++ {
			cell, cellErr := dumpCell(row, col)
			if cellErr != nil {
				return nil, cellErr
			}
			cells[col] = cell
		}
		dump.Rows = append(dump.Rows, cells)
	}
	return dump, nil
}

func dumpCell(row *core.Row, col int) (rowvault.CellDump, error) {
	colType, err := row.Parent().ColumnType(col)
	if err != nil {
		return rowvault.CellDump{}, err
	}

	if colType != rowvault.TypeLinkList {
		null, nullErr := row.IsNull(col)
		if nullErr != nil {
			return rowvault.CellDump{}, nullErr
		}
		if null {
			return rowvault.CellDump{Null: true}, nil
		}
	}

	var v any
	switch colType {
	case rowvault.TypeInteger:
		v, err = row.GetLong(col)
	case rowvault.TypeBoolean:
		v, err = row.GetBoolean(col)
	case rowvault.TypeFloat:
		v, err = row.GetFloat(col)
	case rowvault.TypeDouble:
		v, err = row.GetDouble(col)
	case rowvault.TypeString:
		v, err = row.GetString(col)
	case rowvault.TypeTimestamp:
		v, err = row.GetTimestamp(col)
	case rowvault.TypeBinary:
		v, err = row.GetBinary(col)
	case rowvault.TypeLink:
		v, err = row.GetLink(col)
	case rowvault.TypeLinkList:
		var view *core.LinkView
		view, err = row.GetLinkList(col)
		if err == nil {
			v = view.Indices()
		}
	}
	if err != nil {
		return rowvault.CellDump{}, err
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return rowvault.CellDump{}, err
	}
	return rowvault.CellDump{Value: raw}, nil
}

// Import replaces the catalog with a snapshot's contents. Every handle
// issued before the call goes stale and every old row is detached.
func (e *Engine) Import(snap *rowvault.Snapshot) error {
	e.mu.Lock()
	journaling := e.journaling
	e.journaling = false
	for _, name := range e.order {
		e.tables[name].DetachAll()
	}
	e.tables = make(map[string]*core.Table)
	e.order = nil
	e.mu.Unlock()

	e.ctx.Invalidate()

	err := e.importTables(snap)

	e.mu.Lock()
	e.journaling = journaling
	e.mu.Unlock()
	return err
}

func (e *Engine) importTables(snap *rowvault.Snapshot) error {
	for _, dump := range snap.Tables {
		cols, err := columnsFromDumps(dump.Columns)
		if err != nil {
			return fmt.Errorf("import %s: %w", dump.Name, err)
		}
		table, err := e.createTable(dump.Name, cols)
		if err != nil {
			return fmt.Errorf("import %s: %w", dump.Name, err)
		}

		// Insert all rows before filling cells so self-links can point at
		// rows that appear later in the dump.
		for range dump.Rows {
			if _, err = table.AddRow(); err != nil {
				return err
			}
		}

		for i, cells := range dump.Rows {
			row, rowErr := table.RowPtr(i)
			if rowErr != nil {
				return rowErr
			}
			for col, cell := range cells {
				if err = restoreCell(row, col, cell); err != nil {
					return fmt.Errorf("import %s row %d: %w", dump.Name, i, err)
				}
			}
		}
	}
	return nil
}

func restoreCell(row *core.Row, col int, cell rowvault.CellDump) error {
	colType, err := row.Parent().ColumnType(col)
	if err != nil {
		return err
	}

	if cell.Null {
		// Rows start null in nullable cells; nothing to restore.
		return nil
	}

	switch colType {
	case rowvault.TypeLink:
		var target int
		if err = json.Unmarshal(cell.Value, &target); err != nil {
			return err
		}
		return row.SetLink(col, target)
	case rowvault.TypeLinkList:
		var targets []int
		if err = json.Unmarshal(cell.Value, &targets); err != nil {
			return err
		}
		view, lvErr := row.GetLinkList(col)
		if lvErr != nil {
			return lvErr
		}
		for _, target := range targets {
			if err = view.Add(target); err != nil {
				return err
			}
		}
		return nil
	default:
		return applyScalar(row, col, cell.Value)
	}
}
