package badger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/coquus/internal/models"
)

func newTestDB(t *testing.T) *BadgerDB {
	t.Helper()
	db, err := NewBadgerDB(t.TempDir(), arbor.NewLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestVectorStorageUpsertAndCount(t *testing.T) {
	storage := NewVectorStorage(newTestDB(t), arbor.NewLogger())

	docs := []*models.VectorDocument{
		{ID: "1", Text: "first", Embedding: []float32{1, 0}, Metadata: map[string]string{"title": "First"}},
		{ID: "2", Text: "second", Embedding: []float32{0, 1}, Metadata: map[string]string{"title": "Second"}},
	}

	count, err := storage.Upsert(docs)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	size, err := storage.Count()
	require.NoError(t, err)
	assert.Equal(t, 2, size)
}

func TestVectorStorageUpsertEmptyInput(t *testing.T) {
	storage := NewVectorStorage(newTestDB(t), arbor.NewLogger())

	count, err := storage.Upsert(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestVectorStorageUpsertOverwritesByID(t *testing.T) {
	storage := NewVectorStorage(newTestDB(t), arbor.NewLogger())

	_, err := storage.Upsert([]*models.VectorDocument{
		{ID: "1", Text: "old", Embedding: []float32{1, 0}},
	})
	require.NoError(t, err)

	_, err = storage.Upsert([]*models.VectorDocument{
		{ID: "1", Text: "new", Embedding: []float32{0, 1}},
	})
	require.NoError(t, err)

	size, err := storage.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, size)

	hits, err := storage.Query([]float32{0, 1}, 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "new", hits[0].Text)
}

func TestVectorStorageQueryOrdersByDistance(t *testing.T) {
	storage := NewVectorStorage(newTestDB(t), arbor.NewLogger())

	_, err := storage.Upsert([]*models.VectorDocument{
		{ID: "far", Text: "far", Embedding: []float32{0, 1}},
		{ID: "near", Text: "near", Embedding: []float32{1, 0.1}},
		{ID: "exact", Text: "exact", Embedding: []float32{1, 0}},
	})
	require.NoError(t, err)

	hits, err := storage.Query([]float32{1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "exact", hits[0].ID)
	assert.Equal(t, "near", hits[1].ID)
	assert.Less(t, hits[0].Distance, hits[1].Distance)
}

func TestVectorStorageQueryCapsAtSize(t *testing.T) {
	storage := NewVectorStorage(newTestDB(t), arbor.NewLogger())

	_, err := storage.Upsert([]*models.VectorDocument{
		{ID: "1", Text: "only", Embedding: []float32{1, 0}},
	})
	require.NoError(t, err)

	hits, err := storage.Query([]float32{1, 0}, 10)
	require.NoError(t, err)
	assert.Len(t, hits, 1)
}

func TestVectorStorageQueryEmptyIndex(t *testing.T) {
	storage := NewVectorStorage(newTestDB(t), arbor.NewLogger())

	hits, err := storage.Query([]float32{1, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestVectorStorageClear(t *testing.T) {
	storage := NewVectorStorage(newTestDB(t), arbor.NewLogger())

	_, err := storage.Upsert([]*models.VectorDocument{
		{ID: "1", Text: "doc", Embedding: []float32{1, 0}},
	})
	require.NoError(t, err)

	require.NoError(t, storage.Clear())

	size, err := storage.Count()
	require.NoError(t, err)
	assert.Equal(t, 0, size)

	hits, err := storage.Query([]float32{1, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestVectorStoragePersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	logger := arbor.NewLogger()

	db, err := NewBadgerDB(dir, logger)
	require.NoError(t, err)
	storage := NewVectorStorage(db, logger)
	_, err = storage.Upsert([]*models.VectorDocument{
		{ID: "1", Text: "persisted", Embedding: []float32{1, 0}},
	})
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db2, err := NewBadgerDB(dir, logger)
	require.NoError(t, err)
	defer db2.Close()
	storage2 := NewVectorStorage(db2, logger)

	size, err := storage2.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, size)
}

func TestCosineDistance(t *testing.T) {
	assert.InDelta(t, 0.0, cosineDistance([]float32{1, 0}, []float32{2, 0}), 1e-9)
	assert.InDelta(t, 1.0, cosineDistance([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.InDelta(t, 2.0, cosineDistance([]float32{1, 0}, []float32{-1, 0}), 1e-9)

	// Malformed entries get the maximum distance, not an error, so they
	// sort after a genuinely opposite vector.
	assert.Equal(t, 2.0, cosineDistance([]float32{1, 0}, []float32{1}))
	assert.Equal(t, 2.0, cosineDistance([]float32{0, 0}, []float32{0, 0}))
	assert.Equal(t, 2.0, cosineDistance(nil, nil))
}

func TestQueryRanksMalformedEntryLast(t *testing.T) {
	storage := NewVectorStorage(newTestDB(t), arbor.NewLogger())

	_, err := storage.Upsert([]*models.VectorDocument{
		{ID: "short", Text: "wrong dimension", Embedding: []float32{1}},
		{ID: "orthogonal", Text: "orthogonal", Embedding: []float32{0, 1}},
	})
	require.NoError(t, err)

	hits, err := storage.Query([]float32{1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "orthogonal", hits[0].ID)
	assert.Equal(t, "short", hits[1].ID)
}
