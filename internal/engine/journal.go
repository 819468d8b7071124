package engine

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/rowvault/rowvault-db/internal/core"
	"github.com/rowvault/rowvault-db/internal/notifier"
	"github.com/rowvault/rowvault-db/internal/rowvault"
	"github.com/rowvault/rowvault-db/internal/wal"
)

// RowMutated implements core.MutationObserver. Every live table mutation is
// journaled first, then announced; replayed and restored mutations come
// through with journaling disabled and are not re-recorded.
func (e *Engine) RowMutated(ev *core.MutationEvent) {
	e.mu.RLock()
	journaling := e.journaling
	e.mu.RUnlock()
	if !journaling {
		return
	}

	value, err := encodeValue(ev.Value)
	if err != nil {
		log.Error().Err(err).Str("table", ev.Table).Str("column", ev.Column).
			Msg("Failed to encode mutation value")
		return
	}

	e.journal(&wal.Entry{
		Kind:   string(ev.Kind),
		Table:  ev.Table,
		Row:    ev.Row,
		Column: ev.Column,
		Value:  value,
	}, string(ev.Kind), ev.Table, ev.Row, ev.Column)
}

func (e *Engine) journal(entry *wal.Entry, kind, table string, row int, column string) {
	entry.Timestamp = time.Now()
	if err := e.writeAhead.Apply(entry); err != nil {
		log.Error().Err(err).Str("table", table).Msg("Failed to journal mutation")
	}

	e.emitter.Emit(&notifier.Event{
		Table:  table,
		Row:    row,
		Column: column,
		Kind:   kind,
	})
}

// applyEntry replays one journaled mutation against the catalog.
func (e *Engine) applyEntry(entry *wal.Entry) error {
	if entry.Kind == string(core.MutationCreateTable) {
		var dumps []rowvault.ColumnDump
		if err := json.Unmarshal(entry.Value, &dumps); err != nil {
			return fmt.Errorf("replay create-table %s: %w", entry.Table, err)
		}
		cols, err := columnsFromDumps(dumps)
		if err != nil {
			return fmt.Errorf("replay create-table %s: %w", entry.Table, err)
		}
		_, err = e.createTable(entry.Table, cols)
		return err
	}

	table, err := e.Table(entry.Table)
	if err != nil {
		return fmt.Errorf("replay %s: %w", entry.Kind, err)
	}

	if entry.Kind == string(core.MutationRowInsert) {
		_, err = table.AddRow()
		return err
	}

	col, err := table.ColumnIndex(entry.Column)
	if err != nil {
		return fmt.Errorf("replay %s on %s: %w", entry.Kind, entry.Table, err)
	}
	row, err := table.RowPtr(entry.Row)
	if err != nil {
		return fmt.Errorf("replay %s on %s: %w", entry.Kind, entry.Table, err)
	}

	switch core.MutationKind(entry.Kind) {
	case core.MutationSet:
		return applyScalar(row, col, entry.Value)
	case core.MutationSetNull:
		return row.SetNull(col)
	case core.MutationSetLink:
		var target int
		if err = json.Unmarshal(entry.Value, &target); err != nil {
			return err
		}
		return row.SetLink(col, target)
	case core.MutationNullifyLink:
		return row.NullifyLink(col)
	case core.MutationLinkAdd:
		var target int
		if err = json.Unmarshal(entry.Value, &target); err != nil {
			return err
		}
		view, lvErr := row.GetLinkList(col)
		if lvErr != nil {
			return lvErr
		}
		return view.Add(target)
	default:
		return fmt.Errorf("replay: unknown mutation kind %q", entry.Kind)
	}
}

// applyScalar decodes a journaled value against the column's declared type
// and stores it.
func applyScalar(row *core.Row, col int, raw json.RawMessage) error {
	colType, err := row.Parent().ColumnType(col)
	if err != nil {
		return err
	}

	switch colType {
	case rowvault.TypeInteger:
		var v int64
		if err = json.Unmarshal(raw, &v); err != nil {
			return err
		}
		return row.SetLong(col, v)
	case rowvault.TypeBoolean:
		var v bool
		if err = json.Unmarshal(raw, &v); err != nil {
			return err
		}
		return row.SetBoolean(col, v)
	case rowvault.TypeFloat:
		var v float32
		if err = json.Unmarshal(raw, &v); err != nil {
			return err
		}
		return row.SetFloat(col, v)
	case rowvault.TypeDouble:
		var v float64
		if err = json.Unmarshal(raw, &v); err != nil {
			return err
		}
		return row.SetDouble(col, v)
	case rowvault.TypeString:
		var v string
		if err = json.Unmarshal(raw, &v); err != nil {
			return err
		}
		return row.SetString(col, v)
	case rowvault.TypeTimestamp:
		var v time.Time
		if err = json.Unmarshal(raw, &v); err != nil {
			return err
		}
		return row.SetTimestamp(col, v)
	case rowvault.TypeBinary:
		// A null value is binary absence; []byte round-trips via base64.
		var v []byte
		if err = json.Unmarshal(raw, &v); err != nil {
			return err
		}
		return row.SetBinary(col, v)
	default:
		return fmt.Errorf("replay set on %s column", colType)
	}
}

// encodeValue marshals a mutation value for the journal. nil encodes as JSON
// null, []byte as base64, time.Time as RFC 3339.
func encodeValue(v any) (json.RawMessage, error) {
	if v == nil {
		return json.RawMessage("null"), nil
	}
	return json.Marshal(v)
}

func columnsFromDumps(dumps []rowvault.ColumnDump) ([]core.Column, error) {
	cols := make([]core.Column, len(dumps))
	for i, d := range dumps {
		colType, err := rowvault.ParseColumnType(d.Type)
		if err != nil {
			return nil, err
		}
		cols[i] = core.Column{
			Name:     d.Name,
			Type:     colType,
			Nullable: d.Nullable,
			Target:   d.Target,
		}
	}
	return cols, nil
}
