package common

import (
	"github.com/google/uuid"
)

// NewExchangeID generates a unique chat exchange ID with the "chat_" prefix
func NewExchangeID() string {
	return "chat_" + uuid.New().String()
}

// NewSessionID generates a unique chat session ID
func NewSessionID() string {
	return uuid.New().String()
}
