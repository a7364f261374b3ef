package badger

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/coquus/internal/interfaces"
	"github.com/ternarybob/coquus/internal/models"
)

// VectorStorage implements the VectorStorage interface for Badger. Queries
// are a full cosine-distance scan over the stored documents, which is well
// within budget for a recipe-sized corpus.
type VectorStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewVectorStorage creates a new VectorStorage instance
func NewVectorStorage(db *BadgerDB, logger arbor.ILogger) interfaces.VectorStorage {
	return &VectorStorage{
		db:     db,
		logger: logger,
	}
}

// Upsert stores the given documents, overwriting any prior entry with the
// same ID. Empty input indexes nothing and returns 0.
func (s *VectorStorage) Upsert(docs []*models.VectorDocument) (int, error) {
	if len(docs) == 0 {
		return 0, nil
	}

	now := time.Now()
	for _, doc := range docs {
		if doc.ID == "" {
			return 0, fmt.Errorf("vector document ID is required")
		}
		doc.UpdatedAt = now
		if err := s.db.Store().Upsert(doc.ID, doc); err != nil {
			return 0, fmt.Errorf("failed to upsert vector document %s: %w", doc.ID, err)
		}
	}

	s.logger.Debug().Int("count", len(docs)).Msg("Upserted vector documents")
	return len(docs), nil
}

// Query returns up to min(k, size) nearest documents by cosine distance,
// closest first. Ties keep store iteration order (stable sort).
func (s *VectorStorage) Query(embedding []float32, k int) ([]models.SearchHit, error) {
	if k <= 0 {
		return nil, nil
	}

	var docs []models.VectorDocument
	if err := s.db.Store().Find(&docs, nil); err != nil {
		return nil, fmt.Errorf("failed to scan vector index: %w", err)
	}
	if len(docs) == 0 {
		return nil, nil
	}

	hits := make([]models.SearchHit, 0, len(docs))
	for _, doc := range docs {
		hits = append(hits, models.SearchHit{
			ID:       doc.ID,
			Text:     doc.Text,
			Metadata: doc.Metadata,
			Distance: cosineDistance(embedding, doc.Embedding),
		})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})

	if k > len(hits) {
		k = len(hits)
	}
	return hits[:k], nil
}

// Clear deletes all entries from the index
func (s *VectorStorage) Clear() error {
	if err := s.db.Store().DeleteMatching(&models.VectorDocument{}, nil); err != nil {
		return fmt.Errorf("failed to clear vector index: %w", err)
	}
	s.logger.Debug().Msg("Cleared vector index")
	return nil
}

// Count returns the number of indexed documents
func (s *VectorStorage) Count() (int, error) {
	count, err := s.db.Store().Count(&models.VectorDocument{}, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count vector documents: %w", err)
	}
	return int(count), nil
}

// cosineDistance returns 1 - cosine similarity, so values range 0 to 2.
// Mismatched or zero-norm vectors get the maximum distance rather than an
// error, so a single malformed entry sorts last instead of failing the
// whole query.
func cosineDistance(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 2.0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 2.0
	}
	return 1.0 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}
