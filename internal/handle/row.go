package handle

import (
	"time"

	"github.com/rowvault/rowvault-db/internal/core"
	"github.com/rowvault/rowvault-db/internal/rowvault"
)

// Row is the accessor capability set: the full native get/set surface plus
// column metadata. CheckedRow is usable anywhere a Row is accepted.
type Row interface {
	RowIndex() (int, error)
	ColumnCount() (int, error)
	ColumnName(col int) (string, error)
	ColumnIndex(name string) (int, error)
	ColumnType(col int) (rowvault.ColumnType, error)

	GetLong(col int) (int64, error)
	SetLong(col int, v int64) error
	GetBoolean(col int) (bool, error)
	SetBoolean(col int, v bool) error
	GetFloat(col int) (float32, error)
	SetFloat(col int, v float32) error
	GetDouble(col int) (float64, error)
	SetDouble(col int, v float64) error
	GetString(col int) (string, error)
	SetString(col int, v string) error
	GetTimestamp(col int) (time.Time, error)
	SetTimestamp(col int, v time.Time) error
	GetBinary(col int) ([]byte, error)
	SetBinary(col int, data []byte) error

	GetLink(col int) (int, error)
	SetLink(col int, targetRow int) error
	NullifyLink(col int) error
	GetLinkList(col int) (*core.LinkView, error)

	IsNull(col int) (bool, error)
	IsNullLink(col int) (bool, error)
	SetNull(col int) error
}
