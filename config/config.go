package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

type AlertConfig struct {
	SlackWebhookURL string
	LogsURL         string
}

// IsConfigured returns true if ops alerting can be enabled
func (c AlertConfig) IsConfigured() bool {
	return c.SlackWebhookURL != ""
}

type DiscordConfig struct {
	// APIBaseURL is the upstream REST base every proxied call is re-issued
	// against. Overridable so tests and API mirrors can point the proxy
	// elsewhere.
	APIBaseURL string
}

// IsConfigured returns true if the upstream API base is known
func (c DiscordConfig) IsConfigured() bool {
	return c.APIBaseURL != ""
}

type AppConfig struct {
	Port               string // Optional with default "8080"
	CORSAllowedOrigins string // Optional with default "*"
	Environment        string

	DiscordConfig DiscordConfig
	AlertConfig   AlertConfig
}

const defaultDiscordAPIBase = "https://discord.com/api/v10"

func LoadConfig() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Println("⚠️ Could not load .env file, continuing with system env vars")
	}

	config := &AppConfig{
		Port:               getEnvWithDefault("PORT", "8080"),
		CORSAllowedOrigins: getEnvWithDefault("CORS_ALLOWED_ORIGINS", "*"),
		Environment:        getEnvWithDefault("ENVIRONMENT", "dev"),

		DiscordConfig: DiscordConfig{
			APIBaseURL: getEnvWithDefault("DISCORD_API_BASE_URL", defaultDiscordAPIBase),
		},

		// Ops alerting (optional)
		AlertConfig: AlertConfig{
			SlackWebhookURL: os.Getenv("SLACK_ALERT_WEBHOOK_URL"),
			LogsURL:         os.Getenv("SERVER_LOGS_URL"),
		},
	}

	if !config.DiscordConfig.IsConfigured() {
		return nil, fmt.Errorf("DISCORD_API_BASE_URL must not be empty")
	}

	if config.AlertConfig.IsConfigured() {
		log.Printf("✅ Ops alerting configured")
	} else {
		log.Printf("⚠️ Ops alerting not configured - handler panics will only be logged")
	}

	return config, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
