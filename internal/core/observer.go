package core

// MutationKind names the write operations a table can report.
type MutationKind string

const (
	MutationCreateTable MutationKind = "create-table"
	MutationRowInsert   MutationKind = "row-insert"
	MutationSet         MutationKind = "set"
	MutationSetNull     MutationKind = "set-null"
	MutationSetLink     MutationKind = "set-link"
	MutationNullifyLink MutationKind = "nullify-link"
	MutationLinkAdd     MutationKind = "link-add"
)

// MutationEvent describes one applied mutation. Events are reported after the
// mutation is visible in the table.
type MutationEvent struct {
	Table  string
	Row    int
	Column string
	Kind   MutationKind
	Value  any
}

// MutationObserver receives every mutation applied to a table it is bound to.
// The engine uses it to journal writes and raise change notifications.
type MutationObserver interface {
	RowMutated(e *MutationEvent)
}
