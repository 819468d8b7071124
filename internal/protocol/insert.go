package protocol

import (
	"encoding/json"
)

// insert appends an empty row:
//
//	INSERT table=users
//
// The response carries the new row's index.
func (m *Manager) insert(query []byte) ([]byte, error) {
	params, err := fields(string(query))
	if err != nil {
		return nil, err
	}

	tableName, err := requireField(params, "table")
	if err != nil {
		return nil, err
	}

	table, err := m.catalog.Table(tableName)
	if err != nil {
		return nil, err
	}

	index, err := table.AddRow()
	if err != nil {
		return nil, err
	}

	return json.Marshal(map[string]int{"row": index})
}
