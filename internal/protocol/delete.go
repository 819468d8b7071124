package protocol

// delete clears one cell:
//
//	DELETE table=users row=3 col=age
//
// The checked accessor decides how: binary columns store their distinct
// absence representation, everything else takes the generic null.
func (m *Manager) delete(query []byte) error {
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

	row, err := m.checkedRow(tableName, rowIndex)
	if err != nil {
		return err
	}
	defer row.Close()

	col, err := row.ColumnIndex(colName)
	if err != nil {
		return err
	}

	return row.SetNull(col)
}
