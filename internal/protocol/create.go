package protocol

import (
	"strings"

	"github.com/rowvault/rowvault-db/internal/core"
	"github.com/rowvault/rowvault-db/internal/rowvault"
)

// createQuery are the parameters for a CREATE operation.
type createQuery struct {
	Table   string
	Columns []core.Column
}

// parseCreate parses a CREATE query:
//
//	CREATE table=users col=age:int:nullable col=name:string col=avatar:binary:nullable
//	CREATE table=people col=spouse:link:people col=friends:linklist:people
//
// Column specs are name:type with an optional third segment: "nullable" for
// scalars, the target table for link kinds. Links are implicitly nullable.
func parseCreate(input string) (*createQuery, error) {
	parts := strings.Fields(input)
	parsed := &createQuery{}

	for _, part := range parts {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			return nil, newError(ErrInvalidFormat, "expected key=value, got: %s", part)
		}

		key, value := kv[0], kv[1]
		switch key {
		case "table":
			parsed.Table = value
		case "col":
			col, err := parseColumnSpec(value)
			if err != nil {
				return nil, err
			}
			parsed.Columns = append(parsed.Columns, col)
		default:
			return nil, newError(ErrUnknownParameter, "%s", key)
		}
	}

	if parsed.Table == "" {
		return nil, newError(ErrMissingKey, "table")
	}
	if len(parsed.Columns) == 0 {
		return nil, newError(ErrMissingKey, "col")
	}
	return parsed, nil
}

func parseColumnSpec(spec string) (core.Column, error) {
	segs := strings.Split(spec, ":")
	if len(segs) < 2 || len(segs) > 3 {
		return core.Column{}, newError(ErrInvalidFormat,
			"column spec must be name:type[:nullable|:target], got: %s", spec)
	}

	colType, err := rowvault.ParseColumnType(segs[1])
	if err != nil {
		return core.Column{}, newError(ErrInvalidFormat, "%s", err.Error())
	}

	col := core.Column{Name: segs[0], Type: colType}
	if colType.IsLinkKind() {
		if len(segs) != 3 {
			return core.Column{}, newError(ErrInvalidFormat,
				"link columns require a target table: %s", spec)
		}
		col.Target = segs[2]
		col.Nullable = colType == rowvault.TypeLink
		return col, nil
	}

	if len(segs) == 3 {
		if segs[2] != "nullable" {
			return core.Column{}, newError(ErrInvalidFormat,
				"unknown column flag %s in %s", segs[2], spec)
		}
		col.Nullable = true
	}
	return col, nil
}

// create applies a CREATE query against the catalog.
func (m *Manager) create(query []byte) error {
	parsed, err := parseCreate(string(query))
	if err != nil {
		return err
	}

	_, err = m.catalog.CreateTable(parsed.Table, parsed.Columns)
	return err
}
