package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// newBackends 返回所有待测后端实现
func newBackends(t *testing.T) map[string]Store {
	t.Helper()

	bdg, err := NewBadger(InMemoryBadgerConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = bdg.Close() })

	mem := NewMemory()
	t.Cleanup(func() { _ = mem.Close() })

	return map[string]Store{
		"memory": mem,
		"badger": bdg,
	}
}

func TestPutGetRoundTrip(t *testing.T) {
	ctx := context.Background()

	for name, s := range newBackends(t) {
		t.Run(name, func(t *testing.T) {
			in := record{ID: "r-1", Name: "alice", Score: 42}
			id, err := s.Put(ctx, "records", in)
			require.NoError(t, err)
			assert.Equal(t, "r-1", id)

			var out record
			found, err := s.Get(ctx, "records", "r-1", &out)
			require.NoError(t, err)
			require.True(t, found)
			assert.Equal(t, in, out)
		})
	}
}

func TestPutGeneratesID(t *testing.T) {
	ctx := context.Background()

	for name, s := range newBackends(t) {
		t.Run(name, func(t *testing.T) {
			id, err := s.Put(ctx, "records", record{Name: "bob"})
			require.NoError(t, err)
			require.NotEmpty(t, id)

			// 生成的 id 必须写回文档本身
			var out record
			found, err := s.Get(ctx, "records", id, &out)
			require.NoError(t, err)
			require.True(t, found)
			assert.Equal(t, id, out.ID)
		})
	}
}

func TestPutOverwritesSameID(t *testing.T) {
	ctx := context.Background()

	for name, s := range newBackends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Put(ctx, "records", record{ID: "r-1", Score: 1})
			require.NoError(t, err)
			_, err = s.Put(ctx, "records", record{ID: "r-1", Score: 2})
			require.NoError(t, err)

			var out record
			found, err := s.Get(ctx, "records", "r-1", &out)
			require.NoError(t, err)
			require.True(t, found)
			assert.Equal(t, 2, out.Score)

			var all []record
			require.NoError(t, s.GetAll(ctx, "records", &all))
			assert.Len(t, all, 1)
		})
	}
}

func TestGetMissing(t *testing.T) {
	ctx := context.Background()

	for name, s := range newBackends(t) {
		t.Run(name, func(t *testing.T) {
			var out record
			found, err := s.Get(ctx, "records", "no-such-id", &out)
			require.NoError(t, err)
			assert.False(t, found)
		})
	}
}

func TestGetAllUnknownCollection(t *testing.T) {
	ctx := context.Background()

	for name, s := range newBackends(t) {
		t.Run(name, func(t *testing.T) {
			var all []record
			require.NoError(t, s.GetAll(ctx, "never-written", &all))
			assert.Empty(t, all)
		})
	}
}

func TestGetAllSortedByID(t *testing.T) {
	ctx := context.Background()

	for name, s := range newBackends(t) {
		t.Run(name, func(t *testing.T) {
			for _, id := range []string{"c", "a", "b"} {
				_, err := s.Put(ctx, "records", record{ID: id})
				require.NoError(t, err)
			}

			var all []record
			require.NoError(t, s.GetAll(ctx, "records", &all))
			require.Len(t, all, 3)
			assert.Equal(t, "a", all[0].ID)
			assert.Equal(t, "b", all[1].ID)
			assert.Equal(t, "c", all[2].ID)
		})
	}
}

func TestDeleteThenGet(t *testing.T) {
	ctx := context.Background()

	for name, s := range newBackends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Put(ctx, "records", record{ID: "r-1"})
			require.NoError(t, err)

			require.NoError(t, s.Delete(ctx, "records", "r-1"))

			var out record
			found, err := s.Get(ctx, "records", "r-1", &out)
			require.NoError(t, err)
			assert.False(t, found)
		})
	}
}

func TestDeleteMissingIsNoop(t *testing.T) {
	ctx := context.Background()

	for name, s := range newBackends(t) {
		t.Run(name, func(t *testing.T) {
			assert.NoError(t, s.Delete(ctx, "records", "no-such-id"))
		})
	}
}

func TestCollectionsAreIsolated(t *testing.T) {
	ctx := context.Background()

	for name, s := range newBackends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Put(ctx, "first", record{ID: "r-1", Name: "alice"})
			require.NoError(t, err)
			_, err = s.Put(ctx, "second", record{ID: "r-1", Name: "bob"})
			require.NoError(t, err)

			var out record
			found, err := s.Get(ctx, "first", "r-1", &out)
			require.NoError(t, err)
			require.True(t, found)
			assert.Equal(t, "alice", out.Name)

			var all []record
			require.NoError(t, s.GetAll(ctx, "second", &all))
			require.Len(t, all, 1)
			assert.Equal(t, "bob", all[0].Name)
		})
	}
}

func TestPutNonObject(t *testing.T) {
	ctx := context.Background()

	for name, s := range newBackends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Put(ctx, "records", "just a string")
			assert.Error(t, err)
		})
	}
}

func TestBadgerPersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	cfg := DefaultBadgerConfig(dir)
	s, err := NewBadger(cfg)
	require.NoError(t, err)

	_, err = s.Put(ctx, "records", record{ID: "r-1", Name: "alice"})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = NewBadger(cfg)
	require.NoError(t, err)
	defer s.Close()

	var out record
	found, err := s.Get(ctx, "records", "r-1", &out)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "alice", out.Name)
}

func TestBadgerRequiresPath(t *testing.T) {
	_, err := NewBadger(BadgerConfig{})
	assert.Error(t, err)
}
