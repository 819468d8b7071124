package engine

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/rowvault/rowvault-db/internal/core"
	"github.com/rowvault/rowvault-db/internal/handle"
	"github.com/rowvault/rowvault-db/internal/rowvault"
	"github.com/rowvault/rowvault-db/internal/storage"
	"github.com/rowvault/rowvault-db/internal/wal"
)

func newTestEngine(t *testing.T) (*Engine, *MockwriteAhead, *MockchangeEmitter) {
	t.Helper()
	ctrl := gomock.NewController(t)
	walMock := NewMockwriteAhead(ctrl)
	emitMock := NewMockchangeEmitter(ctrl)

	e, err := New(&Config{WAL: walMock, Notifier: emitMock})
	require.NoError(t, err)
	return e, walMock, emitMock
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("invalid config", func(t *testing.T) {
		t.Parallel()
		got, err := New(&Config{})
		require.Error(t, err)
		require.Nil(t, got)
	})

	t.Run("valid config", func(t *testing.T) {
		t.Parallel()
		ctrl := gomock.NewController(t)
		got, err := New(&Config{
			WAL:      NewMockwriteAhead(ctrl),
			Notifier: NewMockchangeEmitter(ctrl),
		})
		require.NoError(t, err)
		require.NotNil(t, got)
		require.NotNil(t, got.Context())
	})
}

func TestEngine_Name(t *testing.T) {
	t.Parallel()
	e := &Engine{}
	require.Equal(t, "RowVault Engine", e.Name())
	require.NoError(t, e.Stop())
}

func TestEngine_CreateTable(t *testing.T) {
	t.Parallel()
	req := require.New(t)

	e, _, _ := newTestEngine(t)

	dogs, err := e.CreateTable("dogs", []core.Column{
		{Name: "name", Type: rowvault.TypeString},
	})
	req.NoError(err)
	req.NotNil(dogs)

	t.Run("duplicate name", func(t *testing.T) {
		_, dupErr := e.CreateTable("dogs", []core.Column{
			{Name: "name", Type: rowvault.TypeString},
		})
		req.Error(dupErr)
	})

	t.Run("unknown link target", func(t *testing.T) {
		_, linkErr := e.CreateTable("people", []core.Column{
			{Name: "pet", Type: rowvault.TypeLink, Nullable: true, Target: "cats"},
		})
		req.ErrorIs(linkErr, ErrUnknownTable)
	})

	t.Run("self link", func(t *testing.T) {
		people, selfErr := e.CreateTable("people", []core.Column{
			{Name: "name", Type: rowvault.TypeString},
			{Name: "spouse", Type: rowvault.TypeLink, Nullable: true, Target: "people"},
		})
		req.NoError(selfErr)
		req.NotNil(people)
	})

	t.Run("catalog lookup", func(t *testing.T) {
		got, lookErr := e.Table("dogs")
		req.NoError(lookErr)
		req.Same(dogs, got)

		_, lookErr = e.Table("missing")
		req.ErrorIs(lookErr, ErrUnknownTable)

		req.Equal([]string{"dogs", "people"}, e.Tables())
	})
}

func TestEngine_Journaling(t *testing.T) {
	t.Parallel()
	req := require.New(t)

	e, walMock, emitMock := newTestEngine(t)

	var entries []*wal.Entry
	walMock.EXPECT().Replay(gomock.Any()).Return(nil)
	walMock.EXPECT().Apply(gomock.Any()).DoAndReturn(func(entry *wal.Entry) error {
		entries = append(entries, entry)
		return nil
	}).Times(3)
	emitMock.EXPECT().Emit(gomock.Any()).Times(3)

	req.NoError(e.Start())

	table, err := e.CreateTable("users", []core.Column{
		{Name: "age", Type: rowvault.TypeInteger, Nullable: true},
	})
	req.NoError(err)

	idx, err := table.AddRow()
	req.NoError(err)
	row, err := table.RowPtr(idx)
	req.NoError(err)
	req.NoError(row.SetLong(0, 42))

	req.Len(entries, 3)
	req.Equal(string(core.MutationCreateTable), entries[0].Kind)
	req.Equal("users", entries[0].Table)
	req.Equal(-1, entries[0].Row)
	req.Equal(string(core.MutationRowInsert), entries[1].Kind)
	req.Equal(string(core.MutationSet), entries[2].Kind)
	req.Equal("age", entries[2].Column)
	req.Equal("42", string(entries[2].Value))
	req.False(entries[2].Timestamp.IsZero())
}

func TestEngine_JournalingDisabledBeforeStart(t *testing.T) {
	t.Parallel()
	req := require.New(t)

	// no Apply or Emit expectations: mutations before Start are not journaled
	e, _, _ := newTestEngine(t)

	table, err := e.CreateTable("users", []core.Column{
		{Name: "age", Type: rowvault.TypeInteger, Nullable: true},
	})
	req.NoError(err)
	idx, err := table.AddRow()
	req.NoError(err)
	row, err := table.RowPtr(idx)
	req.NoError(err)
	req.NoError(row.SetLong(0, 7))
}

func TestEngine_Replay(t *testing.T) {
	t.Parallel()
	req := require.New(t)

	e, walMock, _ := newTestEngine(t)

	dumps, err := json.Marshal([]rowvault.ColumnDump{
		{Name: "age", Type: "int", Nullable: true},
		{Name: "name", Type: "string"},
	})
	req.NoError(err)

	journal := []*wal.Entry{
		{Kind: string(core.MutationCreateTable), Table: "users", Row: -1, Value: dumps},
		{Kind: string(core.MutationRowInsert), Table: "users", Row: 0},
		{Kind: string(core.MutationSet), Table: "users", Row: 0, Column: "age", Value: json.RawMessage("42")},
		{Kind: string(core.MutationSet), Table: "users", Row: 0, Column: "name", Value: json.RawMessage(`"ada"`)},
		{Kind: string(core.MutationSetNull), Table: "users", Row: 0, Column: "age"},
	}
	walMock.EXPECT().Replay(gomock.Any()).DoAndReturn(func(apply func(*wal.Entry) error) error {
		for _, entry := range journal {
			if applyErr := apply(entry); applyErr != nil {
				return applyErr
			}
		}
		return nil
	})

	// replayed mutations are not re-journaled: no Apply or Emit expectations
	req.NoError(e.Start())

	table, err := e.Table("users")
	req.NoError(err)
	req.Equal(1, table.RowCount())

	row, err := table.RowPtr(0)
	req.NoError(err)

	name, err := row.GetString(1)
	req.NoError(err)
	req.Equal("ada", name)

	null, err := row.IsNull(0)
	req.NoError(err)
	req.True(null)
}

func TestEngine_ReplayLinks(t *testing.T) {
	t.Parallel()
	req := require.New(t)

	e, walMock, _ := newTestEngine(t)

	dumps, err := json.Marshal([]rowvault.ColumnDump{
		{Name: "spouse", Type: "link", Nullable: true, Target: "people"},
		{Name: "friends", Type: "linklist", Target: "people"},
	})
	req.NoError(err)

	journal := []*wal.Entry{
		{Kind: string(core.MutationCreateTable), Table: "people", Row: -1, Value: dumps},
		{Kind: string(core.MutationRowInsert), Table: "people", Row: 0},
		{Kind: string(core.MutationRowInsert), Table: "people", Row: 1},
		{Kind: string(core.MutationSetLink), Table: "people", Row: 0, Column: "spouse", Value: json.RawMessage("1")},
		{Kind: string(core.MutationLinkAdd), Table: "people", Row: 0, Column: "friends", Value: json.RawMessage("1")},
		{Kind: string(core.MutationLinkAdd), Table: "people", Row: 0, Column: "friends", Value: json.RawMessage("0")},
		{Kind: string(core.MutationNullifyLink), Table: "people", Row: 1, Column: "spouse"},
	}
	walMock.EXPECT().Replay(gomock.Any()).DoAndReturn(func(apply func(*wal.Entry) error) error {
		for _, entry := range journal {
			if applyErr := apply(entry); applyErr != nil {
				return applyErr
			}
		}
		return nil
	})

	req.NoError(e.Start())

	table, err := e.Table("people")
	req.NoError(err)
	row, err := table.RowPtr(0)
	req.NoError(err)

	spouse, err := row.GetLink(0)
	req.NoError(err)
	req.Equal(1, spouse)

	view, err := row.GetLinkList(1)
	req.NoError(err)
	req.Equal([]int{1, 0}, view.Indices())
}

func TestEngine_ReplayUnknownKind(t *testing.T) {
	t.Parallel()
	req := require.New(t)

	e, _, _ := newTestEngine(t)
	err := e.applyEntry(&wal.Entry{Kind: "unknown-kind", Table: "users"})
	req.Error(err)
}

func TestEngine_ExportImport(t *testing.T) {
	t.Parallel()
	req := require.New(t)

	source, _, _ := newTestEngine(t)

	_, err := source.CreateTable("dogs", []core.Column{
		{Name: "name", Type: rowvault.TypeString},
	})
	req.NoError(err)
	_, err = source.CreateTable("people", []core.Column{
		{Name: "name", Type: rowvault.TypeString},
		{Name: "avatar", Type: rowvault.TypeBinary, Nullable: true},
		{Name: "pet", Type: rowvault.TypeLink, Nullable: true, Target: "dogs"},
		{Name: "pack", Type: rowvault.TypeLinkList, Target: "dogs"},
	})
	req.NoError(err)

	dogs, err := source.Table("dogs")
	req.NoError(err)
	for i := 0; i < 2; i++ {
		_, err = dogs.AddRow()
		req.NoError(err)
	}
	dog, err := dogs.RowPtr(0)
	req.NoError(err)
	req.NoError(dog.SetString(0, "rex"))

	people, err := source.Table("people")
	req.NoError(err)
	_, err = people.AddRow()
	req.NoError(err)
	person, err := people.RowPtr(0)
	req.NoError(err)
	req.NoError(person.SetString(0, "ada"))
	req.NoError(person.SetLink(2, 1))
	view, err := person.GetLinkList(3)
	req.NoError(err)
	req.NoError(view.Add(0))
	req.NoError(view.Add(1))

	snap, err := source.Export()
	req.NoError(err)
	req.Len(snap.Tables, 2)

	// the dump must survive a JSON round trip, same as a disk snapshot
	data, err := json.Marshal(snap)
	req.NoError(err)
	var decoded rowvault.Snapshot
	req.NoError(json.Unmarshal(data, &decoded))

	restored, _, _ := newTestEngine(t)
	req.NoError(restored.Import(&decoded))

	gotPeople, err := restored.Table("people")
	req.NoError(err)
	gotPerson, err := gotPeople.RowPtr(0)
	req.NoError(err)

	name, err := gotPerson.GetString(0)
	req.NoError(err)
	req.Equal("ada", name)

	// binary null is still absent, not an empty array
	avatar, err := gotPerson.GetBinary(1)
	req.NoError(err)
	req.Nil(avatar)
	null, err := gotPerson.IsNull(1)
	req.NoError(err)
	req.True(null)

	pet, err := gotPerson.GetLink(2)
	req.NoError(err)
	req.Equal(1, pet)

	gotView, err := gotPerson.GetLinkList(3)
	req.NoError(err)
	req.Equal([]int{0, 1}, gotView.Indices())
}

// raceCheckpointer fires a write while the checkpoint is in flight, then
// truncates the journal. The write must not be able to land between the
// export and the truncation.
type raceCheckpointer struct {
	inner *wal.Manager
	write func()
	done  chan struct{}
}

func (c *raceCheckpointer) Checkpoint() error {
	go func() {
		defer close(c.done)
		c.write()
	}()
	// give the writer time to reach the mutation gate
	time.Sleep(50 * time.Millisecond)
	return c.inner.Checkpoint()
}

func TestEngine_SnapshotDoesNotDropConcurrentWrite(t *testing.T) {
	t.Parallel()
	req := require.New(t)

	ctrl := gomock.NewController(t)
	emitMock := NewMockchangeEmitter(ctrl)
	emitMock.EXPECT().Emit(gomock.Any()).AnyTimes()

	dir := t.TempDir()
	journal, err := wal.New(&wal.Config{Path: dir})
	req.NoError(err)

	e, err := New(&Config{WAL: journal, Notifier: emitMock})
	req.NoError(err)
	req.NoError(e.Start())

	table, err := e.CreateTable("users", []core.Column{
		{Name: "age", Type: rowvault.TypeInteger, Nullable: true},
	})
	req.NoError(err)
	idx, err := table.AddRow()
	req.NoError(err)
	row, err := table.RowPtr(idx)
	req.NoError(err)

	var writeErr error
	checkpoint := &raceCheckpointer{inner: journal, done: make(chan struct{})}
	checkpoint.write = func() { writeErr = row.SetLong(0, 42) }

	store, err := storage.New(&storage.Config{
		RootDir:          dir,
		Source:           e,
		Checkpoint:       checkpoint,
		SnapshotTimer:    60,
		MaxSnapshotLimit: 3,
	})
	req.NoError(err)

	req.NoError(store.Snapshot())
	<-checkpoint.done
	req.NoError(writeErr)

	// the write raced the snapshot, so it is not in the exported state; it
	// must still be in the journal after the truncation or a restart would
	// silently lose an acknowledged mutation
	var replayed []*wal.Entry
	req.NoError(journal.Replay(func(entry *wal.Entry) error {
		replayed = append(replayed, entry)
		return nil
	}))
	req.Len(replayed, 1)
	req.Equal(string(core.MutationSet), replayed[0].Kind)
	req.Equal("age", replayed[0].Column)
	req.Equal("42", string(replayed[0].Value))
}

func TestEngine_ImportInvalidatesHandles(t *testing.T) {
	t.Parallel()
	req := require.New(t)

	e, _, _ := newTestEngine(t)
	table, err := e.CreateTable("users", []core.Column{
		{Name: "name", Type: rowvault.TypeString},
	})
	req.NoError(err)
	_, err = table.AddRow()
	req.NoError(err)

	row, err := handle.Get(e.Context(), table, 0)
	req.NoError(err)
	req.NoError(row.SetString(0, "ada"))

	native, err := table.RowPtr(0)
	req.NoError(err)

	snap, err := e.Export()
	req.NoError(err)
	req.NoError(e.Import(snap))

	// every pre-import handle is stale, every old row detached
	_, err = row.GetString(0)
	req.ErrorIs(err, handle.ErrStaleHandle)
	req.True(native.Detached())

	// the restored catalog serves fresh handles
	restoredTable, err := e.Table("users")
	req.NoError(err)
	fresh, err := handle.Get(e.Context(), restoredTable, 0)
	req.NoError(err)
	name, err := fresh.GetString(0)
	req.NoError(err)
	req.Equal("ada", name)
}
