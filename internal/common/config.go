package common

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string           `toml:"environment"` // "development" or "production"
	Storage     StorageConfig    `toml:"storage"`
	Logging     LoggingConfig    `toml:"logging"`
	Processing  ProcessingConfig `toml:"processing"`
	Site        SiteConfig       `toml:"site"`
	Chat        ChatConfig       `toml:"chat"`
	Gemini      GeminiConfig     `toml:"gemini"`
	OpenAI      OpenAIConfig     `toml:"openai"`
	Claude      ClaudeConfig     `toml:"claude"`
	LLM         LLMConfig        `toml:"llm"`
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration. The corpus store
// and the vector index live in separate directories: the index directory's
// absence means "never indexed", which must stay observable independently of
// the corpus store.
type BadgerConfig struct {
	Path      string `toml:"path" validate:"required"`       // Corpus + chat history directory
	IndexPath string `toml:"index_path" validate:"required"` // Vector index directory
}

type LoggingConfig struct {
	Level      string   `toml:"level"`       // "debug", "info", "warn", "error"
	Output     []string `toml:"output"`      // "stdout", "file"
	TimeFormat string   `toml:"time_format"` // Time format for logs
}

// ProcessingConfig controls optional scheduled re-indexing
type ProcessingConfig struct {
	Enabled  bool   `toml:"enabled"`  // Disabled by default - indexing is operator-triggered
	Schedule string `toml:"schedule"` // Cron schedule format
}

// SiteConfig describes the recipe site the assistant links back to
type SiteConfig struct {
	BaseURL string `toml:"base_url" validate:"omitempty,url"` // e.g. "http://127.0.0.1:8001"
}

// ChatConfig contains retrieval behavior settings
type ChatConfig struct {
	TopK int `toml:"top_k" validate:"gte=1,lte=20"` // Nearest neighbors per query (default: 5)
}

// GeminiConfig contains Google Gemini API configuration
type GeminiConfig struct {
	APIKey      string  `toml:"api_key"`     // Google Gemini API key (env: GEMINI_API_KEY or GOOGLE_API_KEY)
	Model       string  `toml:"model"`       // Generation model (default: "gemini-2.5-flash")
	EmbedModel  string  `toml:"embed_model"` // Embedding model (default: "gemini-embedding-001")
	Timeout     string  `toml:"timeout"`     // Operation timeout as duration string (default: "2m")
	RateLimit   string  `toml:"rate_limit"`  // Minimum interval between requests (default: "4s" for 15 RPM)
	Temperature float32 `toml:"temperature"` // Completion temperature (default: 0.7)
}

// OpenAIConfig contains OpenAI API configuration
type OpenAIConfig struct {
	APIKey      string  `toml:"api_key"`     // OpenAI API key (env: OPENAI_API_KEY)
	BaseURL     string  `toml:"base_url"`    // API base URL, overridable for compatible APIs
	Model       string  `toml:"model"`       // Generation model (default: "gpt-4o-mini")
	EmbedModel  string  `toml:"embed_model"` // Embedding model (default: "text-embedding-3-small")
	Timeout     string  `toml:"timeout"`     // Operation timeout as duration string (default: "2m")
	RateLimit   string  `toml:"rate_limit"`  // Minimum interval between requests (default: "1s")
	Temperature float32 `toml:"temperature"` // Completion temperature (default: 0.7)
}

// ClaudeConfig contains Anthropic Claude API configuration (generation only -
// Claude has no embedding endpoint, so it never participates in embedding
// provider selection)
type ClaudeConfig struct {
	APIKey      string  `toml:"api_key"`     // Anthropic API key (env: ANTHROPIC_API_KEY)
	Model       string  `toml:"model"`       // Generation model (default: "claude-haiku-3-5-20241022")
	Timeout     string  `toml:"timeout"`     // Operation timeout as duration string (default: "2m")
	RateLimit   string  `toml:"rate_limit"`  // Minimum interval between requests (default: "1s")
	Temperature float32 `toml:"temperature"` // Completion temperature (default: 0.7)
}

// LLMConfig contains cross-provider settings
type LLMConfig struct {
	// GenerationModel optionally pins the generation backend by model name
	// ("claude-..." routes to Claude, "gemini-..." to Gemini, "gpt-..." to
	// OpenAI). Empty uses credential precedence.
	GenerationModel string `toml:"generation_model"`
}

// NewDefaultConfig creates a configuration with default values.
// Technical parameters are hardcoded here for production stability.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path:      "./data/coquus",
				IndexPath: "./data/index",
			},
		},
		Logging: LoggingConfig{
			Level:      "info",
			Output:     []string{"stdout"},
			TimeFormat: "15:04:05",
		},
		Processing: ProcessingConfig{
			Enabled:  false,         // Operator-triggered indexing by default
			Schedule: "0 */6 * * *", // Every 6 hours when enabled
		},
		Site: SiteConfig{
			BaseURL: "",
		},
		Chat: ChatConfig{
			TopK: 5,
		},
		Gemini: GeminiConfig{
			APIKey:      "", // Resolved from GEMINI_API_KEY / GOOGLE_API_KEY at load
			Model:       "gemini-2.5-flash",
			EmbedModel:  "gemini-embedding-001",
			Timeout:     "2m",
			RateLimit:   "4s",
			Temperature: 0.7,
		},
		OpenAI: OpenAIConfig{
			APIKey:      "", // Resolved from OPENAI_API_KEY at load
			BaseURL:     "https://api.openai.com/v1",
			Model:       "gpt-4o-mini",
			EmbedModel:  "text-embedding-3-small",
			Timeout:     "2m",
			RateLimit:   "1s",
			Temperature: 0.7,
		},
		Claude: ClaudeConfig{
			APIKey:      "", // Resolved from ANTHROPIC_API_KEY at load
			Model:       "claude-haiku-3-5-20241022",
			Timeout:     "2m",
			RateLimit:   "1s",
			Temperature: 0.7,
		},
		LLM: LLMConfig{
			GenerationModel: "",
		},
	}
}

// LoadConfig loads configuration from TOML files with defaults and
// environment overrides. Later files override earlier ones. Credentials are
// resolved exactly once here, not re-read per call.
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for _, path := range paths {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	if err := validator.New().Struct(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("COQUUS_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	if path := os.Getenv("COQUUS_BADGER_PATH"); path != "" {
		config.Storage.Badger.Path = path
	}
	if path := os.Getenv("COQUUS_INDEX_PATH"); path != "" {
		config.Storage.Badger.IndexPath = path
	}

	if level := os.Getenv("COQUUS_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if baseURL := os.Getenv("COQUUS_SITE_BASE_URL"); baseURL != "" {
		config.Site.BaseURL = baseURL
	}
	if topK := os.Getenv("COQUUS_CHAT_TOP_K"); topK != "" {
		if k, err := strconv.Atoi(topK); err == nil {
			config.Chat.TopK = k
		}
	}

	// API keys: environment always wins over the config file. GOOGLE_API_KEY
	// is the legacy name for the Gemini key.
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		config.Gemini.APIKey = key
	} else if key := os.Getenv("GOOGLE_API_KEY"); key != "" {
		config.Gemini.APIKey = key
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		config.OpenAI.APIKey = key
	}
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		config.Claude.APIKey = key
	}
}
