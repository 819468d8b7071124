package rowvault

import (
	"encoding/json"
	"time"
)

// Snapshot is a full dump of every table in the store. It is the unit the
// storage manager writes to disk and the engine rebuilds itself from.
type Snapshot struct {
	CreatedAt time.Time   `json:"created"`
	Tables    []TableDump `json:"tables"`
}

// TableDump captures one table's schema and cells.
type TableDump struct {
	Name    string       `json:"name"`
	Columns []ColumnDump `json:"columns"`
	Rows    [][]CellDump `json:"rows"`
}

// ColumnDump is the serialized form of a column declaration.
type ColumnDump struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Nullable bool   `json:"nullable,omitempty"`
	Target   string `json:"target,omitempty"` // link kinds only
}

// CellDump keeps the null/absent state distinct from a present zero value.
// Binary null in particular must survive a round trip as "absent", not as an
// empty-but-present byte array.
type CellDump struct {
	Null  bool            `json:"null,omitempty"`
	Value json.RawMessage `json:"value,omitempty"`
}
