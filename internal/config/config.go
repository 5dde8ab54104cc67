package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Gate      GateConfig
	Ai        AIConfig
	Telemetry TelemetryConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	SessionTTLMinutes  int
}

type GateConfig struct {
	AccessCode     string // plaintext shared secret, empty disables the gate
	AccessCodeHash string // bcrypt hash, preferred over AccessCode when set
	TokenSecret    string
	TokenTTLHours  int
}

type AIConfig struct {
	LLMProvider        string // "openai", "ollama" or "huggingface"
	OpenAIAPIKey       string
	OpenAIBaseURL      string
	OpenAIModel        string
	ReasoningEffort    string // "low", "medium", "high"
	OllamaBaseURL      string
	OllamaModel        string
	HuggingFaceAPIKey  string
	HuggingFaceBaseURL string
	HuggingFaceModel   string
}

type TelemetryConfig struct {
	WebhookURL     string // empty disables the sink
	TimeoutSeconds int
	TopicName      string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log.csv"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", ""),
			SessionTTLMinutes:  getEnvAsInt("SESSION_TTL_MINUTES", 120),
		},
		Gate: GateConfig{
			AccessCode:     getEnv("ACCESS_CODE", ""),
			AccessCodeHash: getEnv("ACCESS_CODE_HASH", ""),
			TokenSecret:    getEnv("GATE_TOKEN_SECRET", "default_secret"),
			TokenTTLHours:  getEnvAsInt("GATE_TOKEN_TTL_HOURS", 12),
		},
		Ai: AIConfig{
			LLMProvider:     getEnv("LLM_PROVIDER", "openai"),
			OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
			OpenAIBaseURL:   getEnv("OPENAI_BASE_URL", "https://api.openai.com"),
			OpenAIModel:     getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			ReasoningEffort: getEnv("OPENAI_REASONING_EFFORT", "low"),
			OllamaBaseURL:   getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:     getEnv("LLM_MODEL", "llama3"),

			HuggingFaceAPIKey:  getEnv("HUGGINGFACE_API_KEY", ""),
			HuggingFaceBaseURL: getEnv("HUGGINGFACE_BASE_URL", ""),
			HuggingFaceModel:   getEnv("HUGGINGFACE_MODEL", ""),
		},
		Telemetry: TelemetryConfig{
			WebhookURL:     getEnv("GSHEET_WEBHOOK_URL", ""),
			TimeoutSeconds: getEnvAsInt("TELEMETRY_TIMEOUT_SECONDS", 3),
			TopicName:      getEnv("TELEMETRY_TOPIC_NAME", "TURN_RECORDED"),
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
