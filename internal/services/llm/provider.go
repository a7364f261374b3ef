// Package llm selects and wraps the language model backends used for
// embedding and answer generation. Embedding support requires Gemini or
// OpenAI credentials; Claude joins for generation only.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/coquus/internal/common"
	"github.com/ternarybob/coquus/internal/interfaces"
)

// DetectProvider infers the backend from a model name prefix. Unrecognized
// names return an empty provider.
func DetectProvider(model string) interfaces.Provider {
	name := strings.ToLower(strings.TrimSpace(model))
	switch {
	case strings.HasPrefix(name, "claude"):
		return interfaces.ProviderClaude
	case strings.HasPrefix(name, "gemini"):
		return interfaces.ProviderGemini
	case strings.HasPrefix(name, "gpt") || strings.HasPrefix(name, "o1") || strings.HasPrefix(name, "o3"):
		return interfaces.ProviderOpenAI
	default:
		return ""
	}
}

// SelectEmbedder returns the embedding backend chosen by credential
// precedence: Gemini first, then OpenAI. When neither credential is present
// it returns (nil, nil) rather than an error - the caller degrades to
// keyword search instead of failing.
func SelectEmbedder(ctx context.Context, config *common.Config, logger arbor.ILogger) (interfaces.Embedder, error) {
	switch {
	case config.Gemini.APIKey != "":
		service, err := NewGeminiService(ctx, &config.Gemini, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Gemini embedder: %w", err)
		}
		logger.Debug().Str("provider", string(interfaces.ProviderGemini)).Msg("Selected embedding provider")
		return service, nil
	case config.OpenAI.APIKey != "":
		service, err := NewOpenAIService(&config.OpenAI, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize OpenAI embedder: %w", err)
		}
		logger.Debug().Str("provider", string(interfaces.ProviderOpenAI)).Msg("Selected embedding provider")
		return service, nil
	default:
		logger.Debug().Msg("No embedding credentials configured")
		return nil, nil
	}
}

// SelectGenerator returns the generation backend. A configured generation
// model name pins the backend by prefix; otherwise credential precedence
// applies (Gemini, OpenAI, Claude). Like SelectEmbedder, the no-credential
// case is a soft (nil, nil).
func SelectGenerator(ctx context.Context, config *common.Config, logger arbor.ILogger) (interfaces.Generator, error) {
	if pinned := DetectProvider(config.LLM.GenerationModel); pinned != "" {
		return generatorFor(ctx, pinned, config, logger)
	}

	switch {
	case config.Gemini.APIKey != "":
		return generatorFor(ctx, interfaces.ProviderGemini, config, logger)
	case config.OpenAI.APIKey != "":
		return generatorFor(ctx, interfaces.ProviderOpenAI, config, logger)
	case config.Claude.APIKey != "":
		return generatorFor(ctx, interfaces.ProviderClaude, config, logger)
	default:
		logger.Debug().Msg("No generation credentials configured")
		return nil, nil
	}
}

func generatorFor(ctx context.Context, provider interfaces.Provider, config *common.Config, logger arbor.ILogger) (interfaces.Generator, error) {
	switch provider {
	case interfaces.ProviderGemini:
		geminiConfig := config.Gemini
		if model := config.LLM.GenerationModel; model != "" && DetectProvider(model) == interfaces.ProviderGemini {
			geminiConfig.Model = model
		}
		service, err := NewGeminiService(ctx, &geminiConfig, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Gemini generator: %w", err)
		}
		return service, nil
	case interfaces.ProviderOpenAI:
		openaiConfig := config.OpenAI
		if model := config.LLM.GenerationModel; model != "" && DetectProvider(model) == interfaces.ProviderOpenAI {
			openaiConfig.Model = model
		}
		service, err := NewOpenAIService(&openaiConfig, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize OpenAI generator: %w", err)
		}
		return service, nil
	case interfaces.ProviderClaude:
		claudeConfig := config.Claude
		if model := config.LLM.GenerationModel; model != "" && DetectProvider(model) == interfaces.ProviderClaude {
			claudeConfig.Model = model
		}
		service, err := NewClaudeService(&claudeConfig, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Claude generator: %w", err)
		}
		return service, nil
	default:
		return nil, fmt.Errorf("unknown provider: %s", provider)
	}
}
