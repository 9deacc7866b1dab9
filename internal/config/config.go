package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	SMTP      SMTPConfig
	Keys      APIKeys
	Ai        AIConfig
	Assistant AssistantConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	WSLogFilePath      string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	SessionBackend     string // "memory" or "redis"
	SessionTTL         time.Duration
	JWTSecret          string // optional; enables requester identity from bearer tokens
	OtelEnabled        bool
}

type DatabaseConfig struct {
	Driver     string // "postgres" or "sqlite"
	Connection string
	SQLitePath string
}

type SMTPConfig struct {
	Host      string
	Port      int
	Email     string
	Password  string
	Sender    string
	HRMailbox string
}

type APIKeys struct {
	GoogleGemini string
	Jina         string
	LLM          string // OpenAI-compatible / Groq key
	IngestTopic  string
}

type AIConfig struct {
	EmbeddingProvider string // "gemini", "ollama" or "jina"
	EmbeddingModel    string
	OllamaBaseURL     string
	LLMProvider       string // "ollama", "openai", "groq", "gemini"
	LLMModel          string
	LLMBaseURL        string
}

type AssistantConfig struct {
	PromptsFile      string
	LLMTimeout       time.Duration
	ClassifyTimeout  time.Duration
	RetrievalTimeout time.Duration
	StoreTimeout     time.Duration
	MailTimeout      time.Duration
	LockTimeout      time.Duration
	TopN             int
	PassageCharLimit int
	RetrievalK       int
	FetchK           int
	MMRLambda        float64
	MinSimilarity    float64
	CitationStyle    string // "pages" or "simple"
	ChunkSize        int
	ChunkOverlap     int
	MaxMessageLength int
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			WSLogFilePath:      getEnv("WS_LOG_FILE_PATH", "logs/websocket.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", ""),
			SessionBackend:     getEnv("SESSION_BACKEND", "memory"),
			SessionTTL:         getEnvAsDuration("SESSION_TTL", time.Hour),
			JWTSecret:          getEnv("JWT_SECRET", ""),
			OtelEnabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
		Database: DatabaseConfig{
			Driver:     getEnv("DB_DRIVER", "postgres"),
			Connection: getEnv("DB_CONNECTION_STRING", ""),
			SQLitePath: getEnv("SQLITE_PATH", "enterprise_assistant.db"),
		},
		SMTP: SMTPConfig{
			Host:      getEnv("SMTP_HOST", ""),
			Port:      getEnvAsInt("SMTP_PORT", 587),
			Email:     getEnv("SMTP_EMAIL", ""),
			Password:  getEnv("SMTP_PASSWORD", ""),
			Sender:    getEnv("SMTP_SENDER", getEnv("SMTP_EMAIL", "")),
			HRMailbox: getEnv("HR_EMAIL", "hr@example.com"),
		},
		Keys: APIKeys{
			GoogleGemini: getEnv("GOOGLE_GEMINI_API_KEY", ""),
			Jina:         getEnv("JINA_API_KEY", ""),
			LLM:          getEnv("LLM_API_KEY", ""),
			IngestTopic:  getEnv("INGEST_TOPIC_NAME", "INGEST_DOCUMENT"),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "gemini"),
			EmbeddingModel:    getEnv("EMBEDDING_MODEL", "nomic-embed-text"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			LLMProvider:       getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:          getEnv("LLM_MODEL", "llama3"),
			LLMBaseURL:        getEnv("LLM_BASE_URL", ""),
		},
		Assistant: AssistantConfig{
			PromptsFile:      getEnv("PROMPTS_FILE", ""),
			LLMTimeout:       getEnvAsDuration("LLM_TIMEOUT", 60*time.Second),
			ClassifyTimeout:  getEnvAsDuration("CLASSIFY_TIMEOUT", 20*time.Second),
			RetrievalTimeout: getEnvAsDuration("RETRIEVAL_TIMEOUT", 10*time.Second),
			StoreTimeout:     getEnvAsDuration("STORE_TIMEOUT", 5*time.Second),
			MailTimeout:      getEnvAsDuration("MAIL_TIMEOUT", 10*time.Second),
			LockTimeout:      getEnvAsDuration("SESSION_LOCK_TIMEOUT", 30*time.Second),
			TopN:             getEnvAsInt("ANSWER_TOP_N", 3),
			PassageCharLimit: getEnvAsInt("ANSWER_PASSAGE_CHARS", 1000),
			RetrievalK:       getEnvAsInt("RETRIEVAL_K", 10),
			FetchK:           getEnvAsInt("RETRIEVAL_FETCH_K", 20),
			MMRLambda:        getEnvAsFloat("RETRIEVAL_MMR_LAMBDA", 0.5),
			MinSimilarity:    getEnvAsFloat("RETRIEVAL_MIN_SIMILARITY", 0.3),
			CitationStyle:    getEnv("CITATION_STYLE", "pages"),
			ChunkSize:        getEnvAsInt("CHUNK_SIZE", 350),
			ChunkOverlap:     getEnvAsInt("CHUNK_OVERLAP", 80),
			MaxMessageLength: getEnvAsInt("MAX_MESSAGE_LENGTH", 4000),
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

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := strings.TrimSpace(getEnv(key, ""))
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

// getEnvAsDuration accepts Go durations ("30s") or plain seconds ("30").
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := strings.TrimSpace(getEnv(key, ""))
	if strValue == "" {
		return fallback
	}
	if d, err := time.ParseDuration(strValue); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(strValue); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
