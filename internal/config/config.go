package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Keys     APIKeys
	Ai       AIConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	// QuestionCacheBackend switches the generated-question cache between
	// "memory" and "redis".
	QuestionCacheBackend string
}

type DatabaseConfig struct {
	Connection string
}

type APIKeys struct {
	GoogleGemini string
	Jina         string
	// ProfileUpdatedTopic is the event subject that triggers embedding
	// regeneration when a specialist profile changes.
	ProfileUpdatedTopic string
}

type AIConfig struct {
	EmbeddingProvider string // "gemini" or "ollama"
	OllamaBaseURL     string
	OllamaModel       string
	LLMProvider       string // "ollama", "huggingface"
	LLMModel          string // e.g. "llama3", "qwen2.5"
	// RerankEnabled toggles the generative re-rank refinement pass.
	RerankEnabled bool
	// ReindexDelayMs is the fixed delay between embedding calls during
	// batch regeneration, to respect provider rate limits.
	ReindexDelayMs int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:                 getEnv("APP_PORT", "3000"),
			BaseURL:              getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:            getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:          getEnv("GO_ENV", "development"),
			LogFilePath:          getEnv("LOG_FILE_PATH", "app.log.csv"),
			CorsAllowedOrigins:   getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:              getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:             getEnv("REDIS_URL", "redis://localhost:6379"),
			QuestionCacheBackend: getEnv("QUESTION_CACHE_BACKEND", "memory"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Keys: APIKeys{
			GoogleGemini:        getEnv("GOOGLE_GEMINI_API_KEY", ""),
			Jina:                getEnv("JINA_API_KEY", ""),
			ProfileUpdatedTopic: getEnv("PROFILE_UPDATED_TOPIC_NAME", "SPECIALIST_PROFILE_UPDATED"),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "gemini"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:       getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			LLMProvider:       getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:          getEnv("LLM_MODEL", "llama3"),
			RerankEnabled:     getEnvAsBool("RERANK_ENABLED", false),
			ReindexDelayMs:    getEnvAsInt("REINDEX_DELAY_MS", 1000),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}
