package interfaces

import "context"

// Provider identifies an AI backend.
type Provider string

const (
	// ProviderGemini uses the Google Gemini API.
	ProviderGemini Provider = "gemini"
	// ProviderOpenAI uses the OpenAI API.
	ProviderOpenAI Provider = "openai"
	// ProviderClaude uses the Anthropic Claude API (generation only).
	ProviderClaude Provider = "claude"
)

// EmbedMode tags an embedding request with its intended use. Some backends
// optimize document and query vectors differently, so the two modes are not
// interchangeable: index with EmbedModeDocument, search with EmbedModeQuery.
type EmbedMode string

const (
	// EmbedModeDocument embeds corpus text for indexing.
	EmbedModeDocument EmbedMode = "document"
	// EmbedModeQuery embeds an incoming user query.
	EmbedModeQuery EmbedMode = "query"
)

// Embedder generates embedding vectors for batches of text.
type Embedder interface {
	// Embed returns one vector per input text, preserving positional
	// correspondence. Transport or credential faults surface as errors;
	// an Embedder never silently returns zero vectors for valid input.
	Embed(ctx context.Context, texts []string, mode EmbedMode) ([][]float32, error)

	// Provider returns the backend identity.
	Provider() Provider
}

// GenerateRequest is a provider-agnostic text generation request.
type GenerateRequest struct {
	SystemInstruction string
	Prompt            string
	MaxTokens         int
}

// Generator produces free text from a prompt.
type Generator interface {
	// Generate returns the generated text, or an error on backend failure.
	Generate(ctx context.Context, req *GenerateRequest) (string, error)

	// Provider returns the backend identity.
	Provider() Provider
}
