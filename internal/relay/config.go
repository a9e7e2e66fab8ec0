package relay

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config is env-driven; the relay runs server-side and has no YAML file.
type Config struct {
	ListenAddr   string
	LogLevel     string
	OpenAIKey    string
	OpenAIModel  string
	OpenAIURL    string
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	FromAddress  string
	AccountEmail string
	AccountPass  string
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		var out int
		if _, err := fmt.Sscanf(v, "%d", &out); err == nil {
			return out
		}
	}
	return def
}

func LoadConfig() (Config, error) {
	_ = godotenv.Load() // optional
	cfg := Config{
		ListenAddr:   getenv("RELAY_LISTEN_ADDR", ":8090"),
		LogLevel:     getenv("RELAY_LOG_LEVEL", "info"),
		OpenAIKey:    os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:  getenv("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIURL:    getenv("OPENAI_BASE_URL", "https://api.openai.com/v1/chat/completions"),
		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     getenvInt("SMTP_PORT", 587),
		SMTPUser:     os.Getenv("SMTP_USER"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		FromAddress:  getenv("RELAY_FROM_ADDRESS", os.Getenv("SMTP_USER")),
		AccountEmail: os.Getenv("RELAY_ACCOUNT_EMAIL"),
		AccountPass:  os.Getenv("RELAY_ACCOUNT_PASSWORD"),
	}
	if cfg.AccountEmail == "" || cfg.AccountPass == "" {
		return cfg, fmt.Errorf("RELAY_ACCOUNT_EMAIL and RELAY_ACCOUNT_PASSWORD are required")
	}
	return cfg, nil
}
