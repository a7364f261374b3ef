package llm

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsRateLimitError(t *testing.T) {
	assert.True(t, IsRateLimitError(errors.New("Error 429: RESOURCE_EXHAUSTED")))
	assert.True(t, IsRateLimitError(errors.New("rate limit exceeded")))
	assert.True(t, IsRateLimitError(errors.New("quota exceeded for model")))
	assert.False(t, IsRateLimitError(errors.New("connection refused")))
	assert.False(t, IsRateLimitError(nil))
}

func TestExtractRetryDelay(t *testing.T) {
	err := errors.New("429 RESOURCE_EXHAUSTED: retryDelay: 12s")
	assert.Equal(t, 12*time.Second, ExtractRetryDelay(err))
	assert.Equal(t, 5*time.Second, ExtractRetryDelay(errors.New("Please retry in 5s")))
	assert.Equal(t, time.Duration(0), ExtractRetryDelay(errors.New("no delay here")))
	assert.Equal(t, time.Duration(0), ExtractRetryDelay(nil))
}

func TestCalculateBackoff(t *testing.T) {
	config := NewDefaultRetryConfig()

	first := config.CalculateBackoff(0, 0)
	second := config.CalculateBackoff(1, 0)
	assert.Greater(t, second, first)

	// A server-suggested delay wins over the computed backoff.
	assert.Equal(t, 30*time.Second, config.CalculateBackoff(0, 30*time.Second))

	// Backoff never exceeds the cap.
	assert.LessOrEqual(t, config.CalculateBackoff(20, 0), config.MaxBackoff)
}

func TestParseTimeout(t *testing.T) {
	assert.Equal(t, 30*time.Second, parseTimeout("30s"))
	assert.Equal(t, 2*time.Minute, parseTimeout(""))
	assert.Equal(t, 2*time.Minute, parseTimeout("bogus"))
}
