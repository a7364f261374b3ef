package models

import "time"

// VectorDocument is one indexed recipe in the vector index: the flattened
// text document, its embedding, and a small metadata map. Exactly one
// VectorDocument exists per recipe; re-indexing overwrites by ID.
type VectorDocument struct {
	ID        string            `json:"id" badgerhold:"key"` // stringified recipe ID
	Text      string            `json:"text"`
	Embedding []float32         `json:"embedding"`
	Metadata  map[string]string `json:"metadata"` // recipe_id, title (truncated)
	UpdatedAt time.Time         `json:"updated_at"`
}

// SearchHit is a single nearest-neighbor result from the vector index.
// Distance is cosine distance, ascending = closer.
type SearchHit struct {
	ID       string
	Text     string
	Metadata map[string]string
	Distance float64
}
