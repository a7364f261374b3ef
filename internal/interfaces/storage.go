package interfaces

import (
	"errors"

	"github.com/ternarybob/coquus/internal/models"
)

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// VectorStorage is the persistent nearest-neighbor index over recipe
// documents. All operations are durable before they return: a second process
// opening the same directory observes every completed write.
type VectorStorage interface {
	// Upsert stores the given documents, overwriting any prior entry with
	// the same ID, and returns the number indexed. Empty input indexes
	// nothing and returns 0 with no error.
	Upsert(docs []*models.VectorDocument) (int, error)

	// Query returns up to min(k, size) nearest entries by cosine distance,
	// closest first. Querying an empty index returns an empty result.
	Query(embedding []float32, k int) ([]models.SearchHit, error)

	// Clear deletes all entries.
	Clear() error

	// Count returns the number of indexed documents.
	Count() (int, error)
}

// RecipeStorage is the corpus provider contract.
type RecipeStorage interface {
	SaveRecipe(recipe *models.Recipe) error
	GetRecipe(id int64) (*models.Recipe, error)
	ListRecipes() ([]*models.Recipe, error)
	CountRecipes() (int, error)

	// SearchKeywords returns recipes whose title, description, or
	// instructions case-insensitively contain any of the tokens, in the
	// corpus's natural order, deduplicated, capped at limit.
	SearchKeywords(tokens []string, limit int) ([]*models.Recipe, error)
}

// ChatStorage persists completed chat exchanges. Append-only.
type ChatStorage interface {
	SaveExchange(exchange *models.ChatExchange) error
	ListBySession(sessionID string, limit int) ([]*models.ChatExchange, error)
}

// StorageManager owns the embedded stores. The recipe corpus and chat history
// open at startup; the vector index opens lazily so that "index directory
// absent" stays observable ("never indexed" is a meaningful state, not an
// error).
type StorageManager interface {
	RecipeStorage() RecipeStorage
	ChatStorage() ChatStorage

	// IndexExists reports whether the vector index directory exists on disk.
	IndexExists() bool

	// VectorStorage lazily opens the vector index, creating its directory
	// on first use.
	VectorStorage() (VectorStorage, error)

	Close() error
}
