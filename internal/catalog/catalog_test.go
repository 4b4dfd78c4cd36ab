package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carloshernandez2/clj-db/internal/tuple"
)

func TestWriteThenRead(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	in := &Catalog{
		Columns: []string{"name", "age"},
		Schema:  []tuple.Type{tuple.STRING, tuple.INT},
	}
	require.NoError(t, store.Write("person", in))

	out, err := store.Read("person")
	require.NoError(t, err)
	assert.Equal(t, in.Columns, out.Columns)
	assert.Equal(t, in.Schema, out.Schema)
}

func TestReadIsCached(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	in := &Catalog{Columns: []string{"n"}, Schema: []tuple.Type{tuple.INT}}
	require.NoError(t, store.Write("dog", in))

	first, err := store.Read("dog")
	require.NoError(t, err)
	second, err := store.Read("dog")
	require.NoError(t, err)
	assert.Same(t, first, second, "second Read should be served from cache")
}

func TestWriteInvalidatesCache(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Write("dog", &Catalog{
		Columns: []string{"n"}, Schema: []tuple.Type{tuple.INT},
	}))
	_, err = store.Read("dog")
	require.NoError(t, err)

	require.NoError(t, store.Write("dog", &Catalog{
		Columns: []string{"n", "breed"}, Schema: []tuple.Type{tuple.INT, tuple.STRING},
	}))
	out, err := store.Read("dog")
	require.NoError(t, err)
	assert.Equal(t, []string{"n", "breed"}, out.Columns)
}

func TestWriteRejectsArityMismatch(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	err = store.Write("bad", &Catalog{
		Columns: []string{"a", "b"},
		Schema:  []tuple.Type{tuple.INT},
	})
	assert.Error(t, err)
}

func TestReadMissingCatalogFails(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Read("nonexistent")
	assert.Error(t, err)
}
