package protocol

import (
	"encoding/base64"
	"strconv"
	"time"

	"github.com/rowvault/rowvault-db/internal/handle"
	"github.com/rowvault/rowvault-db/internal/rowvault"
)

// write stores one cell value through a checked row accessor:
//
//	WRITE table=users row=3 col=age value=42
//	WRITE table=users row=3 col=age value=null
//	WRITE table=people row=0 col=friends value=2   (link list append)
//
// Binary values are base64; timestamps are RFC 3339.
func (m *Manager) write(query []byte) error {
	params, err := fields(string(query))
	if err != nil {
		return err
	}

	tableName, err := requireField(params, "table")
	if err != nil {
		return err
	}
	rowIndex, err := requireIntField(params, "row")
	if err != nil {
		return err
	}
	colName, err := requireField(params, "col")
	if err != nil {
		return err
	}
	value, ok := params["value"]
	if !ok {
		return newError(ErrMissingKey, "value")
	}

	row, err := m.checkedRow(tableName, rowIndex)
	if err != nil {
		return err
	}
	defer row.Close()

	col, err := row.ColumnIndex(colName)
	if err != nil {
		return err
	}

	// The checked accessor owns the null translation: binary columns get
	// their distinct absence representation instead of the generic setter.
	if value == "null" {
		return row.SetNull(col)
	}

	colType, err := row.ColumnType(col)
	if err != nil {
		return err
	}
	return setTypedValue(row, col, colType, value)
}

func setTypedValue(row *handle.CheckedRow, col int, colType rowvault.ColumnType, value string) error {
	switch colType {
	case rowvault.TypeInteger:
		v, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return newError(ErrInvalidFormat, "value must be an integer, received %s", value)
		}
		return row.SetLong(col, v)
	case rowvault.TypeBoolean:
		v, err := strconv.ParseBool(value)
		if err != nil {
			return newError(ErrInvalidFormat, "value must be a boolean, received %s", value)
		}
		return row.SetBoolean(col, v)
	case rowvault.TypeFloat:
		v, err := strconv.ParseFloat(value, 32)
		if err != nil {
			return newError(ErrInvalidFormat, "value must be a float, received %s", value)
		}
		return row.SetFloat(col, float32(v))
	case rowvault.TypeDouble:
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return newError(ErrInvalidFormat, "value must be a double, received %s", value)
		}
		return row.SetDouble(col, v)
	case rowvault.TypeString:
		return row.SetString(col, value)
	case rowvault.TypeTimestamp:
		v, err := time.Parse(time.RFC3339, value)
		if err != nil {
			return newError(ErrInvalidFormat, "invalid timestamp format: %s", value)
		}
		return row.SetTimestamp(col, v)
	case rowvault.TypeBinary:
		data, err := base64.StdEncoding.DecodeString(value)
		if err != nil {
			return newError(ErrInvalidFormat, "value must be base64, received %s", value)
		}
		return row.SetBinary(col, data)
	case rowvault.TypeLink:
		target, err := strconv.Atoi(value)
		if err != nil {
			return newError(ErrInvalidFormat, "link value must be a row index, received %s", value)
		}
		return row.SetLink(col, target)
	case rowvault.TypeLinkList:
		target, err := strconv.Atoi(value)
		if err != nil {
			return newError(ErrInvalidFormat, "link value must be a row index, received %s", value)
		}
		view, err := row.GetLinkList(col)
		if err != nil {
			return err
		}
		return view.Add(target)
	default:
		return newError(ErrInvalidFormat, "unsupported column type %s", colType)
	}
}
