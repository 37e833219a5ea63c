package memtable

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type row struct {
	ID   int64
	Name string
}

func TestInsertAssignsSequentialIDs(t *testing.T) {
	table := New[row]()

	first := table.Insert(func(id int64) row { return row{ID: id, Name: "a"} })
	second := table.Insert(func(id int64) row { return row{ID: id, Name: "b"} })

	require.Equal(t, int64(1), first.ID)
	require.Equal(t, int64(2), second.ID)
}

func TestInsertIf(t *testing.T) {
	table := New[row]()

	_, ok := table.InsertIf(
		func(r row) bool { return r.Name == "a" },
		func(id int64) row { return row{ID: id, Name: "a"} },
	)
	require.True(t, ok)

	_, ok = table.InsertIf(
		func(r row) bool { return r.Name == "a" },
		func(id int64) row { return row{ID: id, Name: "a"} },
	)
	require.False(t, ok)

	got, ok := table.InsertIf(
		func(r row) bool { return r.Name == "b" },
		func(id int64) row { return row{ID: id, Name: "b"} },
	)
	require.True(t, ok)
	require.Equal(t, int64(2), got.ID)
}

func TestGetAndUpdate(t *testing.T) {
	table := New[row]()

	inserted := table.Insert(func(id int64) row { return row{ID: id, Name: "a"} })

	got, ok := table.Get(inserted.ID)
	require.True(t, ok)
	require.Equal(t, inserted, got)

	_, ok = table.Get(99)
	require.False(t, ok)

	inserted.Name = "renamed"
	require.True(t, table.Update(inserted.ID, inserted))

	got, _ = table.Get(inserted.ID)
	require.Equal(t, "renamed", got.Name)

	require.False(t, table.Update(99, row{}))
}

func TestAll(t *testing.T) {
	table := New[row]()

	table.Insert(func(id int64) row { return row{ID: id, Name: "a"} })
	table.Insert(func(id int64) row { return row{ID: id, Name: "b"} })
	table.Insert(func(id int64) row { return row{ID: id, Name: "a"} })

	require.Len(t, table.All(func(r row) bool { return r.Name == "a" }), 2)
	require.Empty(t, table.All(func(r row) bool { return r.Name == "c" }))
}
