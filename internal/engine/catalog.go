package engine

import (
	"encoding/json"
	"fmt"

	"github.com/rowvault/rowvault-db/internal/core"
	"github.com/rowvault/rowvault-db/internal/rowvault"
	"github.com/rowvault/rowvault-db/internal/wal"
)

// ErrUnknownTable is returned when a table name is not in the catalog.
var ErrUnknownTable = fmt.Errorf("unknown table")

// CreateTable adds a table to the catalog. Link columns must target an
// existing table or the new table itself.
func (e *Engine) CreateTable(name string, cols []core.Column) (*core.Table, error) {
	e.pauseMu.RLock()
	defer e.pauseMu.RUnlock()

	table, err := e.createTable(name, cols)
	if err != nil {
		return nil, err
	}

	e.journalCreateTable(name, cols)
	return table, nil
}

func (e *Engine) createTable(name string, cols []core.Column) (*core.Table, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.tables[name]; exists {
		return nil, fmt.Errorf("table %s already exists", name)
	}

	table, err := core.NewTable(name, cols)
	if err != nil {
		return nil, err
	}

	for i, col := range cols {
		if !col.Type.IsLinkKind() {
			continue
		}
		target := e.tables[col.Target]
		if col.Target == name {
			target = table // self-link
		}
		if target == nil {
			return nil, fmt.Errorf("column %s: %w: %s", col.Name, ErrUnknownTable, col.Target)
		}
		if err = table.BindTarget(i, target); err != nil {
			return nil, err
		}
	}

	table.SetObserver(e)
	e.tables[name] = table
	e.order = append(e.order, name)
	return table, nil
}

// Table resolves a table by name.
func (e *Engine) Table(name string) (*core.Table, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	table, ok := e.tables[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTable, name)
	}
	return table, nil
}

// Tables returns the catalog's table names in creation order.
func (e *Engine) Tables() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]string, len(e.order))
	copy(out, e.order)
	return out
}

func (e *Engine) journalCreateTable(name string, cols []core.Column) {
	e.mu.RLock()
	journaling := e.journaling
	e.mu.RUnlock()
	if !journaling {
		return
	}

	dumps := make([]rowvault.ColumnDump, len(cols))
	for i, col := range cols {
		dumps[i] = rowvault.ColumnDump{
			Name:     col.Name,
			Type:     col.Type.String(),
			Nullable: col.Nullable,
			Target:   col.Target,
		}
	}
	value, err := json.Marshal(dumps)
	if err != nil {
		// Schema dumps are plain structs; this cannot fail in practice.
		return
	}

	e.journal(&wal.Entry{
		Kind:  string(core.MutationCreateTable),
		Table: name,
		Row:   -1,
		Value: value,
	}, string(core.MutationCreateTable), name, -1, "")
}
