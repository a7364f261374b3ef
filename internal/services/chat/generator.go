package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/coquus/internal/interfaces"
	"github.com/ternarybob/coquus/internal/models"
)

// answerMaxTokens caps generated answers so replies stay chat-sized.
const answerMaxTokens = 500

// systemInstruction constrains the model to the retrieved context.
const systemInstruction = "You are a helpful recipe assistant for a recipe sharing website. " +
	"Answer the user's question based ONLY on the recipe context below. " +
	"If the context doesn't contain enough information, say so and suggest they browse the site. " +
	"Keep answers concise and friendly. Mention recipe names when relevant."

// emptyContext stands in for the snippet blocks when retrieval found nothing.
const emptyContext = "No specific recipes were found in the database."

// NoCredentialAnswer is returned when no generation backend is configured.
// It is informational, not an error.
const NoCredentialAnswer = "I don't have an API key configured for the AI. " +
	"Add GEMINI_API_KEY, OPENAI_API_KEY, or ANTHROPIC_API_KEY to your environment to enable smart answers. " +
	"You can still search recipes on the site!"

// emptyAnswer replaces blank backend output.
const emptyAnswer = "I couldn't generate an answer."

// AnswerComposer turns retrieved snippets and a user question into a
// grounded prompt and runs it through the generation backend.
type AnswerComposer struct {
	generator interfaces.Generator
	logger    arbor.ILogger
}

// NewAnswerComposer creates a composer. A nil generator is allowed and
// yields the fixed no-credential answer.
func NewAnswerComposer(generator interfaces.Generator, logger arbor.ILogger) *AnswerComposer {
	return &AnswerComposer{generator: generator, logger: logger}
}

// ComposeAnswer builds the grounding prompt and generates an answer. The
// base URL, when set, turns each context block into a linkable reference.
func (c *AnswerComposer) ComposeAnswer(ctx context.Context, userMessage string, snippets []models.RetrievedSnippet, baseURL string) (string, error) {
	if c.generator == nil {
		return NoCredentialAnswer, nil
	}

	prompt := "Recipe context:\n" + buildContext(snippets, baseURL) + "\n\nUser question: " + userMessage

	text, err := c.generator.Generate(ctx, &interfaces.GenerateRequest{
		SystemInstruction: systemInstruction,
		Prompt:            prompt,
		MaxTokens:         answerMaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("answer generation failed: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return emptyAnswer, nil
	}

	c.logger.Debug().
		Str("provider", string(c.generator.Provider())).
		Int("snippets", len(snippets)).
		Msg("Generated answer")

	return text, nil
}

// buildContext renders the snippet blocks fed to the model.
func buildContext(snippets []models.RetrievedSnippet, baseURL string) string {
	if len(snippets) == 0 {
		return emptyContext
	}

	blocks := make([]string, len(snippets))
	for i, snippet := range snippets {
		block := fmt.Sprintf("[Recipe: %s (ID: %d)]\n%s\n", snippet.Title, snippet.RecipeID, snippet.Snippet)
		if baseURL != "" {
			block += fmt.Sprintf("Link: %s/%d/\n", strings.TrimRight(baseURL, "/"), snippet.RecipeID)
		}
		blocks[i] = block
	}
	return strings.Join(blocks, "\n")
}
