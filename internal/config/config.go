package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	ListenAddr    string
	VisionBackend string
	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string
	ClaudeAPIKey  string
	ClaudeModel   string
	GeminiAPIKey  string
	GeminiModel   string
	OllamaHost    string
	OllamaModel   string
	LogLevel      string
	LogFile       string
}

// Load reads configuration from the environment. Variables from the file named
// by ENV_FILE (default ".env") are applied first when the file exists; values
// already set in the environment are never overridden.
func Load() *Config {
	_ = godotenv.Load(getEnv("ENV_FILE", ".env"))

	return &Config{
		ListenAddr:    getEnv("LISTEN_ADDR", ":8080"),
		VisionBackend: getEnv("VISION_BACKEND", "openai"),
		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4o"),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),
		ClaudeAPIKey:  getEnv("CLAUDE_API_KEY", ""),
		ClaudeModel:   getEnv("CLAUDE_MODEL", "claude-3-5-sonnet-latest"),
		GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
		GeminiModel:   getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		OllamaHost:    getEnv("OLLAMA_HOST", "http://localhost:11434"),
		OllamaModel:   getEnv("OLLAMA_MODEL", "llava"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFile:       getEnv("LOG_FILE", ""),
	}
}

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}
