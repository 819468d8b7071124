package rowvault

import (
	"fmt"
)

// ColumnType is the engine-declared data kind of a table column.
type ColumnType int

const (
	TypeUnknown ColumnType = iota
	TypeInteger
	TypeBoolean
	TypeFloat
	TypeDouble
	TypeString
	TypeBinary
	TypeTimestamp
	TypeLink
	TypeLinkList
)

var typeNames = map[ColumnType]string{
	TypeInteger:   "int",
	TypeBoolean:   "bool",
	TypeFloat:     "float",
	TypeDouble:    "double",
	TypeString:    "string",
	TypeBinary:    "binary",
	TypeTimestamp: "timestamp",
	TypeLink:      "link",
	TypeLinkList:  "linklist",
}

func (t ColumnType) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "unknown"
}

// IsLinkKind reports whether the type references rows in another table.
func (t ColumnType) IsLinkKind() bool {
	return t == TypeLink || t == TypeLinkList
}

// ParseColumnType resolves a column type from its wire/config name.
func ParseColumnType(s string) (ColumnType, error) {
	for t, name := range typeNames {
		if name == s {
			return t, nil
		}
	}
	return TypeUnknown, fmt.Errorf("unknown column type: %s", s)
}
