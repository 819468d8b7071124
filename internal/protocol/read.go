package protocol

import (
	"encoding/json"

	"github.com/rowvault/rowvault-db/internal/handle"
	"github.com/rowvault/rowvault-db/internal/rowvault"
)

// read returns one cell or a whole row as JSON:
//
//	READ table=users row=3
//	READ table=users row=3 col=age
func (m *Manager) read(query []byte) ([]byte, error) {
	params, err := fields(string(query))
	if err != nil {
		return nil, err
	}

	tableName, err := requireField(params, "table")
	if err != nil {
		return nil, err
	}
	rowIndex, err := requireIntField(params, "row")
	if err != nil {
		return nil, err
	}

	row, err := m.checkedRow(tableName, rowIndex)
	if err != nil {
		return nil, err
	}
	defer row.Close()

	if colName, ok := params["col"]; ok {
		col, colErr := row.ColumnIndex(colName)
		if colErr != nil {
			return nil, colErr
		}
		value, readErr := readCell(row, col)
		if readErr != nil {
			return nil, readErr
		}
		return json.Marshal(map[string]any{"row": rowIndex, colName: value})
	}

	count, err := row.ColumnCount()
	if err != nil {
		return nil, err
	}

	cells := make(map[string]any, count)
	for col := 0; col < count; col++ {
		name, nameErr := row.ColumnName(col)
		if nameErr != nil {
			return nil, nameErr
		}
		value, readErr := readCell(row, col)
		if readErr != nil {
			return nil, readErr
		}
		cells[name] = value
	}
	return json.Marshal(map[string]any{"row": rowIndex, "cells": cells})
}

// readCell reads one cell through the checked accessor. Null cells and null
// links come back as JSON null.
func readCell(row *handle.CheckedRow, col int) (any, error) {
	colType, err := row.ColumnType(col)
	if err != nil {
		return nil, err
	}

	// Vacuously false on scalar columns; true only for an unset link.
	nullLink, err := row.IsNullLink(col)
	if err != nil {
		return nil, err
	}
	if nullLink {
		return nil, nil
	}

	if !colType.IsLinkKind() {
		null, nullErr := row.IsNull(col)
		if nullErr != nil {
			return nil, nullErr
		}
		if null {
			return nil, nil
		}
	}

	switch colType {
	case rowvault.TypeInteger:
		return row.GetLong(col)
	case rowvault.TypeBoolean:
		return row.GetBoolean(col)
	case rowvault.TypeFloat:
		return row.GetFloat(col)
	case rowvault.TypeDouble:
		return row.GetDouble(col)
	case rowvault.TypeString:
		return row.GetString(col)
	case rowvault.TypeTimestamp:
		return row.GetTimestamp(col)
	case rowvault.TypeBinary:
		// base64 in the JSON response; nil never reaches here
		return row.GetBinary(col)
	case rowvault.TypeLink:
		return row.GetLink(col)
	case rowvault.TypeLinkList:
		view, lvErr := row.GetLinkList(col)
		if lvErr != nil {
			return nil, lvErr
		}
		return view.Indices(), nil
	default:
		return nil, newError(ErrInvalidFormat, "unsupported column type %s", colType)
	}
}
