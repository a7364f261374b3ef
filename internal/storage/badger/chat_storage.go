package badger

import (
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/coquus/internal/interfaces"
	"github.com/ternarybob/coquus/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// ChatStorage implements the ChatStorage interface for Badger. Exchanges are
// append-only: saved once per completed turn, never updated.
type ChatStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewChatStorage creates a new ChatStorage instance
func NewChatStorage(db *BadgerDB, logger arbor.ILogger) interfaces.ChatStorage {
	return &ChatStorage{
		db:     db,
		logger: logger,
	}
}

func (s *ChatStorage) SaveExchange(exchange *models.ChatExchange) error {
	if exchange.ID == "" {
		return fmt.Errorf("exchange ID is required")
	}
	if exchange.SessionID == "" {
		return fmt.Errorf("session ID is required")
	}

	if exchange.CreatedAt.IsZero() {
		exchange.CreatedAt = time.Now()
	}

	if err := s.db.Store().Insert(exchange.ID, exchange); err != nil {
		return fmt.Errorf("failed to save chat exchange: %w", err)
	}
	return nil
}

// ListBySession returns the most recent exchanges for a session, newest
// first, capped at limit (0 = no cap).
func (s *ChatStorage) ListBySession(sessionID string, limit int) ([]*models.ChatExchange, error) {
	query := badgerhold.Where("SessionID").Eq(sessionID).SortBy("CreatedAt").Reverse()
	if limit > 0 {
		query = query.Limit(limit)
	}

	var exchanges []models.ChatExchange
	if err := s.db.Store().Find(&exchanges, query); err != nil {
		return nil, fmt.Errorf("failed to list chat exchanges: %w", err)
	}

	result := make([]*models.ChatExchange, len(exchanges))
	for i := range exchanges {
		result[i] = &exchanges[i]
	}
	return result, nil
}
