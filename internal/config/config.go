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
	Server ServerConfig
	Store  StoreConfig
	AI     AIConfig
	Auth   AuthConfig
	Editor EditorConfig
	Export ExportConfig
	Upload UploadConfig
}

type ServerConfig struct {
	Port        string
	Env         string
	CORSOrigins string
	BodyLimit   int
	LogFormat   string
}

type StoreConfig struct {
	Driver      string
	DatabaseURL string
	RedisURL    string
	SQLitePath  string
}

type AIConfig struct {
	Provider     string
	GeminiAPIKey string
	GeminiModel  string
	ServiceURL   string
	Timeout      time.Duration
}

type AuthConfig struct {
	JWTSecret   string
	TokenTTL    time.Duration
	AdminEmails []string
}

type EditorConfig struct {
	DebounceDelay   time.Duration
	IdleTimeout     time.Duration
	DefaultTemplate string
	// DefaultAccent overrides every template's own accent when set.
	DefaultAccent   string
	DefaultLanguage string
}

type ExportConfig struct {
	Consent    bool
	Countdown  time.Duration
	ChromePath string
	Timeout    time.Duration
}

type UploadConfig struct {
	MaxFileSize int64
}

// Load reads .env when present, then the environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using default values.")
	}
	return FromEnv()
}

// FromEnv builds the configuration from the environment only.
func FromEnv() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "3000"),
			Env:         getEnv("ENV", "development"),
			CORSOrigins: getEnv("CORS_ORIGINS", "*"),
			BodyLimit:   getEnvAsInt("BODY_LIMIT", 12*1024*1024),
			LogFormat:   getEnv("LOG_FORMAT", "text"),
		},
		Store: StoreConfig{
			Driver:      getEnv("STORE_DRIVER", "memory"),
			DatabaseURL: getEnv("DATABASE_URL", ""),
			RedisURL:    getEnv("REDIS_URL", "redis://localhost:6379/0"),
			SQLitePath:  getEnv("SQLITE_PATH", "./data/cv-builder.db"),
		},
		AI: AIConfig{
			Provider:     getEnv("AI_PROVIDER", "gemini"),
			GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
			GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			ServiceURL:   getEnv("AI_SERVICE_URL", "http://ai-service:8000"),
			Timeout:      getEnvAsDuration("AI_TIMEOUT", "60s"),
		},
		Auth: AuthConfig{
			JWTSecret:   getEnv("JWT_SECRET", "change-me"),
			TokenTTL:    getEnvAsDuration("TOKEN_TTL", "24h"),
			AdminEmails: getEnvAsList("ADMIN_EMAILS"),
		},
		Editor: EditorConfig{
			DebounceDelay:   getEnvAsDuration("DEBOUNCE_DELAY", "500ms"),
			IdleTimeout:     getEnvAsDuration("EDITOR_IDLE_TIMEOUT", "30m"),
			DefaultTemplate: getEnv("DEFAULT_TEMPLATE", "minimalist"),
			DefaultAccent:   getEnv("DEFAULT_ACCENT", ""),
			DefaultLanguage: getEnv("DEFAULT_LANGUAGE", "tr"),
		},
		Export: ExportConfig{
			Consent:    getEnvAsBool("EXPORT_CONSENT", true),
			Countdown:  getEnvAsDuration("EXPORT_COUNTDOWN", "5s"),
			ChromePath: getEnv("CHROME_PATH", ""),
			Timeout:    getEnvAsDuration("PRINT_TIMEOUT", "60s"),
		},
		Upload: UploadConfig{
			MaxFileSize: getEnvAsInt64("MAX_FILE_SIZE", 10485760),
		},
	}
}

func (c *Config) IsProduction() bool { return c.Server.Env == "production" }

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}

// getEnvAsList splits a comma separated value, lower-cased and trimmed.
func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, ""), ",") {
		if part = strings.ToLower(strings.TrimSpace(part)); part != "" {
			out = append(out, part)
		}
	}
	return out
}
