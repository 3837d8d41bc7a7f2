package records

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/recipe-share-api/internal/infrastructure/blob"
	"github.com/oksasatya/recipe-share-api/internal/infrastructure/tabular"
	"github.com/oksasatya/recipe-share-api/pkg/apperr"
)

func newRecord(id, name string) tabular.Record {
	rec := tabular.New("id", "name")
	rec.Set("id", id)
	rec.Set("name", name)
	return rec
}

func TestLoad_AbsentCollection(t *testing.T) {
	store := New(blob.NewMemory(), nil)

	recs, exists, err := store.Load(context.Background(), "things/thing.csv")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Empty(t, recs)
}

func TestSaveAndLoad(t *testing.T) {
	mem := blob.NewMemory()
	store := New(mem, nil)
	ctx := context.Background()

	in := []tabular.Record{newRecord("1", "one"), newRecord("2", "two")}
	require.NoError(t, store.Save(ctx, "things/thing.csv", in))
	assert.Equal(t, "text/csv", mem.ContentType("things/thing.csv"))

	out, exists, err := store.Load(ctx, "things/thing.csv")
	require.NoError(t, err)
	assert.True(t, exists)
	require.Len(t, out, 2)
	assert.True(t, in[0].Equal(out[0]))
	assert.True(t, in[1].Equal(out[1]))
}

func TestMutate_AppendsToAbsentCollection(t *testing.T) {
	store := New(blob.NewMemory(), nil)
	ctx := context.Background()

	err := store.Mutate(ctx, "things/thing.csv", func(recs []tabular.Record) ([]tabular.Record, error) {
		assert.Empty(t, recs)
		return append(recs, newRecord("1", "one")), nil
	})
	require.NoError(t, err)

	out, exists, err := store.Load(ctx, "things/thing.csv")
	require.NoError(t, err)
	assert.True(t, exists)
	require.Len(t, out, 1)
	assert.Equal(t, "1", out[0].Get("id"))
}

func TestMutate_FnErrorAbortsWrite(t *testing.T) {
	mem := blob.NewMemory()
	store := New(mem, nil)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "things/thing.csv", []tabular.Record{newRecord("1", "one")}))

	boom := errors.New("boom")
	err := store.Mutate(ctx, "things/thing.csv", func(recs []tabular.Record) ([]tabular.Record, error) {
		return nil, boom
	})
	require.ErrorIs(t, err, boom)

	out, _, err := store.Load(ctx, "things/thing.csv")
	require.NoError(t, err)
	require.Len(t, out, 1, "aborted mutate must not overwrite the collection")
}

func TestMutate_FullOverwrite(t *testing.T) {
	store := New(blob.NewMemory(), nil)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "things/thing.csv", []tabular.Record{newRecord("1", "one"), newRecord("2", "two")}))

	err := store.Mutate(ctx, "things/thing.csv", func(recs []tabular.Record) ([]tabular.Record, error) {
		kept := recs[:0]
		for _, rec := range recs {
			if rec.Get("id") != "1" {
				kept = append(kept, rec)
			}
		}
		return kept, nil
	})
	require.NoError(t, err)

	out, _, err := store.Load(ctx, "things/thing.csv")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "2", out[0].Get("id"))
}

func TestLoad_StoreErrorIsWrapped(t *testing.T) {
	mem := blob.NewMemory()
	mem.ReadErr = errors.New("connection reset")
	store := New(mem, nil)

	_, _, err := store.Load(context.Background(), "things/thing.csv")
	require.Error(t, err)
	assert.Equal(t, apperr.Store, apperr.KindOf(err))
}

func TestSave_StoreErrorIsWrapped(t *testing.T) {
	mem := blob.NewMemory()
	mem.WriteErr = errors.New("connection reset")
	store := New(mem, nil)

	err := store.Save(context.Background(), "things/thing.csv", []tabular.Record{newRecord("1", "one")})
	require.Error(t, err)
	assert.Equal(t, apperr.Store, apperr.KindOf(err))
}
