package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderMock   = "mock"
)

type Config struct {
	// Dev runs against in-memory stores and the mock provider.
	Dev     bool          `yaml:"dev"`
	Server  ServerConfig  `yaml:"server"`
	Mongo   MongoConfig   `yaml:"mongodb"`
	AI      AIConfig      `yaml:"ai"`
	Logging LoggingConfig `yaml:"logging"`
}

type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	PublicBaseURL  string   `yaml:"public_base_url"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type MongoConfig struct {
	URI               string `yaml:"uri"`
	Database          string `yaml:"database"`
	StoriesCollection string `yaml:"stories_collection"`
	AssetsBucket      string `yaml:"assets_bucket"`
}

type AIConfig struct {
	Provider string       `yaml:"provider"`
	Gemini   GeminiConfig `yaml:"gemini"`
	OpenAI   OpenAIConfig `yaml:"openai"`
}

type GeminiConfig struct {
	APIKey      string `yaml:"api_key"`
	TextModel   string `yaml:"text_model"`
	ImageModel  string `yaml:"image_model"`
	SpeechModel string `yaml:"speech_model"`
	Voice       string `yaml:"voice"`
}

type OpenAIConfig struct {
	APIKey      string `yaml:"api_key"`
	BaseURL     string `yaml:"base_url"`
	TextModel   string `yaml:"text_model"`
	ImageModel  string `yaml:"image_model"`
	SpeechModel string `yaml:"speech_model"`
	Voice       string `yaml:"voice"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:          ":8080",
			PublicBaseURL: "http://localhost:8080",
		},
		Mongo: MongoConfig{
			Database:          "colorstory",
			StoriesCollection: "stories",
			AssetsBucket:      "assets",
		},
		AI: AIConfig{
			Provider: ProviderGemini,
			Gemini: GeminiConfig{
				TextModel:   "gemini-2.5-flash",
				ImageModel:  "gemini-2.5-flash-image",
				SpeechModel: "gemini-2.5-flash-preview-tts",
				Voice:       "Kore",
			},
			OpenAI: OpenAIConfig{
				TextModel:   "gpt-4o-mini",
				ImageModel:  "gpt-image-1",
				SpeechModel: "gpt-4o-mini-tts",
				Voice:       "alloy",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads the YAML file at path on top of the defaults, applies
// environment overrides and validates the result. A missing file is not an
// error.
func Load(path string) (*Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// Read is Load without validation, for callers that adjust the result
// first.
func Read(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("loading config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("loading config: %w", err)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Validate checks that the selected backends have what they need.
func (c *Config) Validate() error {
	if c.Dev {
		return nil
	}
	if strings.TrimSpace(c.Mongo.URI) == "" {
		return fmt.Errorf("mongodb uri is required")
	}
	if strings.TrimSpace(c.Mongo.Database) == "" {
		return fmt.Errorf("mongodb database is required")
	}

	switch c.AI.Provider {
	case ProviderGemini:
		if c.AI.Gemini.APIKey == "" {
			return fmt.Errorf("gemini api key is required")
		}
	case ProviderOpenAI:
		if c.AI.OpenAI.APIKey == "" {
			return fmt.Errorf("openai api key is required")
		}
	case ProviderMock:
	default:
		return fmt.Errorf("unsupported ai provider: %s", c.AI.Provider)
	}
	return nil
}
