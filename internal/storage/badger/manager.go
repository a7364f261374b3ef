package badger

import (
	"os"
	"sync"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/coquus/internal/common"
	"github.com/ternarybob/coquus/internal/interfaces"
)

// Manager implements the StorageManager interface for Badger. The corpus and
// chat stores open eagerly; the vector index opens lazily so that an absent
// index directory remains observable as "never indexed".
type Manager struct {
	db     *BadgerDB
	recipe interfaces.RecipeStorage
	chat   interfaces.ChatStorage
	logger arbor.ILogger
	config *common.BadgerConfig

	mu       sync.Mutex
	vectorDB *BadgerDB
	vector   interfaces.VectorStorage
}

// NewManager creates a new Badger storage manager
func NewManager(config *common.BadgerConfig, logger arbor.ILogger) (*Manager, error) {
	db, err := NewBadgerDB(config.Path, logger)
	if err != nil {
		return nil, err
	}

	manager := &Manager{
		db:     db,
		recipe: NewRecipeStorage(db, logger),
		chat:   NewChatStorage(db, logger),
		logger: logger,
		config: config,
	}

	logger.Info().Str("path", config.Path).Msg("Badger storage manager initialized")

	return manager, nil
}

// RecipeStorage returns the recipe corpus storage interface
func (m *Manager) RecipeStorage() interfaces.RecipeStorage {
	return m.recipe
}

// ChatStorage returns the chat history storage interface
func (m *Manager) ChatStorage() interfaces.ChatStorage {
	return m.chat
}

// IndexExists reports whether the vector index directory exists on disk.
// "Directory absent" means the corpus was never indexed, which callers treat
// as a soft condition, not an error.
func (m *Manager) IndexExists() bool {
	info, err := os.Stat(m.config.IndexPath)
	return err == nil && info.IsDir()
}

// VectorStorage lazily opens the vector index, creating its directory on
// first use.
func (m *Manager) VectorStorage() (interfaces.VectorStorage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.vector != nil {
		return m.vector, nil
	}

	db, err := NewBadgerDB(m.config.IndexPath, m.logger)
	if err != nil {
		return nil, err
	}

	m.vectorDB = db
	m.vector = NewVectorStorage(db, m.logger)
	return m.vector, nil
}

// Close closes all database connections
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var firstErr error
	if m.vectorDB != nil {
		if err := m.vectorDB.Close(); err != nil {
			firstErr = err
		}
		m.vectorDB = nil
		m.vector = nil
	}
	if m.db != nil {
		if err := m.db.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
