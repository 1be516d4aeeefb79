package config

import (
	"os"
	"strings"
)

// GetGeminiModel returns the Gemini text model from environment variable
func GetGeminiModel() string {
	return os.Getenv("GEMINI_MODEL")
}

// GetGeminiAPIKey returns the Gemini API key from environment variable
func GetGeminiAPIKey() string {
	return os.Getenv("GEMINI_API_KEY")
}

// GetMongoDBURI returns the MongoDB connection URI from environment variable
func GetMongoDBURI() string {
	return os.Getenv("MONGODB_URI")
}

// GetAllowedOrigins returns the allowed CORS origins from environment variable.
// Multiple origins are comma separated.
func GetAllowedOrigins() []string {
	return splitList(os.Getenv("ALLOWED_ORIGINS"))
}

// applyEnvOverrides lets the environment win over the YAML file
func (c *Config) applyEnvOverrides() {
	setString(&c.Server.Addr, os.Getenv("SERVER_ADDR"))
	setString(&c.Server.PublicBaseURL, os.Getenv("PUBLIC_BASE_URL"))
	if origins := GetAllowedOrigins(); len(origins) > 0 {
		c.Server.AllowedOrigins = origins
	}

	setString(&c.Mongo.URI, GetMongoDBURI())
	setString(&c.Mongo.Database, os.Getenv("MONGODB_DATABASE"))

	setString(&c.AI.Provider, os.Getenv("AI_PROVIDER"))
	setString(&c.AI.Gemini.APIKey, GetGeminiAPIKey())
	setString(&c.AI.Gemini.TextModel, GetGeminiModel())
	setString(&c.AI.Gemini.ImageModel, os.Getenv("GEMINI_IMAGE_MODEL"))
	setString(&c.AI.Gemini.SpeechModel, os.Getenv("GEMINI_TTS_MODEL"))
	setString(&c.AI.Gemini.Voice, os.Getenv("GEMINI_VOICE"))
	setString(&c.AI.OpenAI.APIKey, os.Getenv("OPENAI_API_KEY"))
	setString(&c.AI.OpenAI.BaseURL, os.Getenv("OPENAI_BASE_URL"))

	setString(&c.Logging.Level, os.Getenv("LOG_LEVEL"))
	if v := strings.TrimSpace(os.Getenv("COLORSTORY_DEV")); v == "1" || strings.EqualFold(v, "true") {
		c.Dev = true
	}
}

func setString(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
