package core

import "errors"

var (
	// ErrUnknownColumn is returned when a column index or name does not exist.
	ErrUnknownColumn = errors.New("unknown column")
	// ErrTypeMismatch is returned when an operation does not match the column's declared type.
	ErrTypeMismatch = errors.New("column type mismatch")
	// ErrRowOutOfRange is returned when a row index is outside the table.
	ErrRowOutOfRange = errors.New("row index out of range")
	// ErrDetachedRow is returned when a row has been detached from its table,
	// typically after a restore replaced the table's backing storage.
	ErrDetachedRow = errors.New("row is detached from its table")
	// ErrNotNullable is returned when null is stored into a non-nullable column.
	ErrNotNullable = errors.New("column is not nullable")
	// ErrNotLinkColumn is returned when a link operation targets a non-link column.
	ErrNotLinkColumn = errors.New("column is not a link column")
	// ErrBinaryNull is returned by the generic null-setter on binary columns.
	// Binary absence has a distinct representation: store a nil byte slice instead.
	ErrBinaryNull = errors.New("binary columns require a nil byte slice, not a generic null")
)
