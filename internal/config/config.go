package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
// It is built once in main and passed to every constructor that needs it.
type Config struct {
	ServerPort string
	GinMode    string
	LogLevel   string
	LogFormat  string

	// APIBaseURL is the root of the upstream records backend,
	// e.g. http://localhost:8000 (resources live at /students, /courses, /grades).
	APIBaseURL string
	APITimeout time.Duration

	RedisURL     string
	ViewStateTTL time.Duration

	// RedirectDelay is how long a success banner stays up before navigating.
	RedirectDelay time.Duration

	CatalogFile string
	TermInfoURL string

	SendgridAPIKey string
	MailFrom       string
	MailFromName   string

	TranscriptFontPath string

	// AllowedOrigins controls HTTP CORS and WebSocket origin validation.
	// Empty slice means all origins are permitted (dev default).
	AllowedOrigins []string

	EmailRatePerMinute int
}

// Load reads configuration from environment variables with sensible defaults.
// It loads .env file if present but does not fail if missing.
func Load() *Config {
	_ = godotenv.Load() // .env is optional

	return &Config{
		ServerPort:         getEnv("SERVER_PORT", "8080"),
		GinMode:            getEnv("GIN_MODE", "debug"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "pretty"),
		APIBaseURL:         strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:8000"), "/"),
		APITimeout:         time.Duration(getEnvInt("API_TIMEOUT_SECONDS", 10)) * time.Second,
		RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379/0"),
		ViewStateTTL:       time.Duration(getEnvInt("VIEW_STATE_TTL_MINUTES", 30)) * time.Minute,
		RedirectDelay:      time.Duration(getEnvInt("REDIRECT_DELAY_MS", 1500)) * time.Millisecond,
		CatalogFile:        getEnv("CATALOG_FILE", ""),
		TermInfoURL:        getEnv("TERM_INFO_URL", ""),
		SendgridAPIKey:     getEnv("SENDGRID_API_KEY", ""),
		MailFrom:           getEnv("MAIL_FROM", "noreply@studentmgmt.com"),
		MailFromName:       getEnv("MAIL_FROM_NAME", "Student Management System"),
		TranscriptFontPath: getEnv("TRANSCRIPT_FONT_PATH", "/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf"),
		AllowedOrigins:     parseOrigins(getEnv("ALLOWED_ORIGINS", "")),
		EmailRatePerMinute: getEnvInt("EMAIL_RATE_PER_MINUTE", 5),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// parseOrigins splits a comma-separated origins string into a trimmed slice.
// Returns nil (allow-all) if the input is empty.
func parseOrigins(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
