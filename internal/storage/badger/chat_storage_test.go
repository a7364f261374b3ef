package badger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/coquus/internal/models"
)

func TestChatStorageSaveAndList(t *testing.T) {
	storage := NewChatStorage(newTestDB(t), arbor.NewLogger())

	confidence := 0.9
	base := time.Now().Add(-time.Minute)
	for i, msg := range []string{"first", "second", "third"} {
		require.NoError(t, storage.SaveExchange(&models.ChatExchange{
			ID:                 "chat_" + msg,
			SessionID:          "session-a",
			Message:            msg,
			Response:           "answer to " + msg,
			RetrievedRecipeIDs: []int64{1},
			Confidence:         &confidence,
			CreatedAt:          base.Add(time.Duration(i) * time.Second),
		}))
	}
	require.NoError(t, storage.SaveExchange(&models.ChatExchange{
		ID:        "chat_other",
		SessionID: "session-b",
		Message:   "unrelated",
		Response:  "unrelated",
	}))

	exchanges, err := storage.ListBySession("session-a", 2)
	require.NoError(t, err)
	require.Len(t, exchanges, 2)
	// Newest first
	assert.Equal(t, "third", exchanges[0].Message)
	assert.Equal(t, "second", exchanges[1].Message)
	require.NotNil(t, exchanges[0].Confidence)
	assert.Equal(t, 0.9, *exchanges[0].Confidence)
}

func TestChatStorageRequiresIDs(t *testing.T) {
	storage := NewChatStorage(newTestDB(t), arbor.NewLogger())

	assert.Error(t, storage.SaveExchange(&models.ChatExchange{SessionID: "s"}))
	assert.Error(t, storage.SaveExchange(&models.ChatExchange{ID: "chat_1"}))
}

func TestChatStorageListEmptySession(t *testing.T) {
	storage := NewChatStorage(newTestDB(t), arbor.NewLogger())

	exchanges, err := storage.ListBySession("nothing", 10)
	require.NoError(t, err)
	assert.Empty(t, exchanges)
}
