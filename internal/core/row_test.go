package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rowvault/rowvault-db/internal/rowvault"
)

func scalarTable(t *testing.T) *Table {
	t.Helper()
	table, err := NewTable("all_types", []Column{
		{Name: "count", Type: rowvault.TypeInteger},
		{Name: "active", Type: rowvault.TypeBoolean},
		{Name: "ratio", Type: rowvault.TypeFloat},
		{Name: "score", Type: rowvault.TypeDouble},
		{Name: "name", Type: rowvault.TypeString},
		{Name: "avatar", Type: rowvault.TypeBinary, Nullable: true},
		{Name: "seen", Type: rowvault.TypeTimestamp, Nullable: true},
		{Name: "note", Type: rowvault.TypeString, Nullable: true},
	})
	require.NoError(t, err)
	return table
}

func linkTables(t *testing.T) (*Table, *Table) {
	t.Helper()
	dogs, err := NewTable("dogs", []Column{
		{Name: "name", Type: rowvault.TypeString},
	})
	require.NoError(t, err)

	people, err := NewTable("people", []Column{
		{Name: "name", Type: rowvault.TypeString},
		{Name: "pet", Type: rowvault.TypeLink, Nullable: true, Target: "dogs"},
		{Name: "pack", Type: rowvault.TypeLinkList, Target: "dogs"},
	})
	require.NoError(t, err)
	require.NoError(t, people.BindTarget(1, dogs))
	require.NoError(t, people.BindTarget(2, dogs))
	return people, dogs
}

func TestRow_ScalarAccessors(t *testing.T) {
	t.Parallel()
	req := require.New(t)

	table := scalarTable(t)
	idx, err := table.AddRow()
	req.NoError(err)
	row, err := table.RowPtr(idx)
	req.NoError(err)

	now := time.Now().Round(time.Second)

	req.NoError(row.SetLong(0, 42))
	req.NoError(row.SetBoolean(1, true))
	req.NoError(row.SetFloat(2, 0.5))
	req.NoError(row.SetDouble(3, 99.25))
	req.NoError(row.SetString(4, "ada"))
	req.NoError(row.SetBinary(5, []byte{0x01, 0x02}))
	req.NoError(row.SetTimestamp(6, now))

	count, err := row.GetLong(0)
	req.NoError(err)
	req.Equal(int64(42), count)

	active, err := row.GetBoolean(1)
	req.NoError(err)
	req.True(active)

	ratio, err := row.GetFloat(2)
	req.NoError(err)
	req.Equal(float32(0.5), ratio)

	score, err := row.GetDouble(3)
	req.NoError(err)
	req.Equal(99.25, score)

	name, err := row.GetString(4)
	req.NoError(err)
	req.Equal("ada", name)

	avatar, err := row.GetBinary(5)
	req.NoError(err)
	req.Equal([]byte{0x01, 0x02}, avatar)

	seen, err := row.GetTimestamp(6)
	req.NoError(err)
	req.True(now.Equal(seen))
}

func TestRow_TypeMismatch(t *testing.T) {
	t.Parallel()
	req := require.New(t)

	table := scalarTable(t)
	idx, err := table.AddRow()
	req.NoError(err)
	row, err := table.RowPtr(idx)
	req.NoError(err)

	// column 0 is an integer
	_, err = row.GetString(0)
	req.ErrorIs(err, ErrTypeMismatch)
	req.ErrorIs(row.SetBoolean(0, true), ErrTypeMismatch)
	_, err = row.GetLink(0)
	req.ErrorIs(err, ErrTypeMismatch)

	// unknown column index
	_, err = row.GetLong(100)
	req.ErrorIs(err, ErrUnknownColumn)
}

func TestRow_BinaryNullDistinctFromEmpty(t *testing.T) {
	t.Parallel()
	req := require.New(t)

	table := scalarTable(t)
	idx, err := table.AddRow()
	req.NoError(err)
	row, err := table.RowPtr(idx)
	req.NoError(err)

	// nullable binary starts absent: nil slice, null cell
	data, err := row.GetBinary(5)
	req.NoError(err)
	req.Nil(data)
	null, err := row.IsNull(5)
	req.NoError(err)
	req.True(null)

	// a present-but-empty value is not the same state
	req.NoError(row.SetBinary(5, []byte{}))
	data, err = row.GetBinary(5)
	req.NoError(err)
	req.NotNil(data)
	req.Empty(data)
	null, err = row.IsNull(5)
	req.NoError(err)
	req.False(null)

	// a nil slice stores binary absence again
	req.NoError(row.SetBinary(5, nil))
	data, err = row.GetBinary(5)
	req.NoError(err)
	req.Nil(data)
	null, err = row.IsNull(5)
	req.NoError(err)
	req.True(null)
}

func TestRow_SetNull(t *testing.T) {
	t.Parallel()
	req := require.New(t)

	table := scalarTable(t)
	idx, err := table.AddRow()
	req.NoError(err)
	row, err := table.RowPtr(idx)
	req.NoError(err)

	t.Run("nullable scalar", func(t *testing.T) {
		req.NoError(row.SetString(7, "temp"))
		req.NoError(row.SetNull(7))
		null, err := row.IsNull(7)
		req.NoError(err)
		req.True(null)

		// a null cell reads back as the zero value
		note, err := row.GetString(7)
		req.NoError(err)
		req.Equal("", note)
	})

	t.Run("non-nullable scalar refused", func(t *testing.T) {
		req.ErrorIs(row.SetNull(0), ErrNotNullable)
	})

	t.Run("binary refuses the generic null", func(t *testing.T) {
		req.ErrorIs(row.SetNull(5), ErrBinaryNull)
	})
}

func TestRow_SetNull_LinkList(t *testing.T) {
	t.Parallel()
	req := require.New(t)

	people, _ := linkTables(t)
	idx, err := people.AddRow()
	req.NoError(err)
	row, err := people.RowPtr(idx)
	req.NoError(err)

	req.ErrorIs(row.SetNull(2), ErrTypeMismatch)
}

func TestRow_IsNullLink(t *testing.T) {
	t.Parallel()
	req := require.New(t)

	people, dogs := linkTables(t)
	_, err := dogs.AddRow()
	req.NoError(err)
	idx, err := people.AddRow()
	req.NoError(err)
	row, err := people.RowPtr(idx)
	req.NoError(err)

	t.Run("unset link is null", func(t *testing.T) {
		null, err := row.IsNullLink(1)
		req.NoError(err)
		req.True(null)
	})

	t.Run("set link is not null", func(t *testing.T) {
		req.NoError(row.SetLink(1, 0))
		null, err := row.IsNullLink(1)
		req.NoError(err)
		req.False(null)
	})

	t.Run("link list is never null", func(t *testing.T) {
		null, err := row.IsNullLink(2)
		req.NoError(err)
		req.False(null)
	})

	t.Run("scalar column is an engine error", func(t *testing.T) {
		_, err := row.IsNullLink(0)
		req.ErrorIs(err, ErrNotLinkColumn)
	})
}

func TestRow_Links(t *testing.T) {
	t.Parallel()
	req := require.New(t)

	people, dogs := linkTables(t)
	for range 2 {
		_, err := dogs.AddRow()
		req.NoError(err)
	}
	idx, err := people.AddRow()
	req.NoError(err)
	row, err := people.RowPtr(idx)
	req.NoError(err)

	t.Run("unset link reads -1", func(t *testing.T) {
		target, err := row.GetLink(1)
		req.NoError(err)
		req.Equal(-1, target)
	})

	t.Run("set and read", func(t *testing.T) {
		req.NoError(row.SetLink(1, 1))
		target, err := row.GetLink(1)
		req.NoError(err)
		req.Equal(1, target)
	})

	t.Run("target out of range", func(t *testing.T) {
		req.ErrorIs(row.SetLink(1, 2), ErrRowOutOfRange)
		req.ErrorIs(row.SetLink(1, -1), ErrRowOutOfRange)
	})

	t.Run("nullify", func(t *testing.T) {
		req.NoError(row.NullifyLink(1))
		target, err := row.GetLink(1)
		req.NoError(err)
		req.Equal(-1, target)
		null, err := row.IsNullLink(1)
		req.NoError(err)
		req.True(null)
	})
}

func TestRow_GetLinkList(t *testing.T) {
	t.Parallel()
	req := require.New(t)

	people, dogs := linkTables(t)
	for range 3 {
		_, err := dogs.AddRow()
		req.NoError(err)
	}
	idx, err := people.AddRow()
	req.NoError(err)
	row, err := people.RowPtr(idx)
	req.NoError(err)

	view, err := row.GetLinkList(2)
	req.NoError(err)
	req.Equal(0, view.Size())
	req.Same(dogs, view.TargetTable())

	req.NoError(view.Add(2))
	req.NoError(view.Add(0))
	req.Equal(2, view.Size())
	req.Equal([]int{2, 0}, view.Indices())

	req.ErrorIs(view.Add(3), ErrRowOutOfRange)

	// the same view comes back on every access
	again, err := row.GetLinkList(2)
	req.NoError(err)
	req.Same(view, again)

	// the view resolves native rows in the target table
	native, err := view.RowPtr(0)
	req.NoError(err)
	req.Equal(2, native.Index())
	req.Same(dogs, native.Parent())

	_, err = view.RowPtr(2)
	req.ErrorIs(err, ErrRowOutOfRange)

	// only link list columns carry a view
	_, err = row.GetLinkList(1)
	req.ErrorIs(err, ErrTypeMismatch)
}

func TestLinkView_SelfLink(t *testing.T) {
	t.Parallel()
	req := require.New(t)

	people, err := NewTable("people", []Column{
		{Name: "name", Type: rowvault.TypeString},
		{Name: "friends", Type: rowvault.TypeLinkList, Target: "people"},
	})
	req.NoError(err)
	req.NoError(people.BindTarget(1, people))

	for range 2 {
		_, err = people.AddRow()
		req.NoError(err)
	}
	row, err := people.RowPtr(0)
	req.NoError(err)

	view, err := row.GetLinkList(1)
	req.NoError(err)
	req.NoError(view.Add(0))
	req.NoError(view.Add(1))
	req.Equal([]int{0, 1}, view.Indices())
}
