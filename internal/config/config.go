// Package config handles loading and validation of application configuration
// from environment variables. Supports .env files via godotenv.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server settings
	Port        int
	Environment string // "development" | "staging" | "production"

	// CORS allow-list, credentials are permitted for these origins only
	ClientOrigins []string

	SMTP   SMTPConfig
	Sheets SheetsConfig
}

// SMTPConfig holds the outgoing mail account used for notifications
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	MailTo   string
	FromName string
}

// Configured reports whether credentials are present
func (c SMTPConfig) Configured() bool {
	return c.User != "" && c.Password != ""
}

// Addr returns host:port for dialing
func (c SMTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// SheetsConfig holds the Google service account and target spreadsheet
type SheetsConfig struct {
	SpreadsheetID string
	SheetName     string
	ProjectID     string
	ClientEmail   string
	PrivateKey    string
}

// Configured reports whether every value needed to reach the spreadsheet is set
func (c SheetsConfig) Configured() bool {
	return c.SpreadsheetID != "" && c.ClientEmail != "" && c.PrivateKey != "" && c.ProjectID != ""
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (development)
	_ = godotenv.Load()

	smtpUser := getEnv("SMTP_USER", "")

	cfg := &Config{
		Port:        getEnvInt("PORT", 8080),
		Environment: getEnv("ENVIRONMENT", "development"),

		ClientOrigins: splitList(getEnv("CLIENT_ORIGIN", "")),

		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", "smtp.gmail.com"),
			Port:     getEnvInt("SMTP_PORT", 465),
			User:     smtpUser,
			Password: getEnv("SMTP_PASS", ""),
			MailTo:   getEnv("MAIL_TO", smtpUser),
			FromName: getEnv("MAIL_FROM_NAME", "Omkar Interiors"),
		},

		Sheets: SheetsConfig{
			SpreadsheetID: getEnv("GOOGLE_SHEET_ID", ""),
			SheetName:     getEnv("GOOGLE_SHEET_NAME", "Sheet1"),
			ProjectID:     getEnv("GOOGLE_PROJECT_ID", ""),
			ClientEmail:   getEnv("GOOGLE_CLIENT_EMAIL", ""),
			// Keys pasted into a single-line env var carry literal \n sequences
			PrivateKey: strings.ReplaceAll(getEnv("GOOGLE_PRIVATE_KEY", ""), `\n`, "\n"),
		},
	}

	if cfg.Environment == "production" {
		if len(cfg.ClientOrigins) == 0 {
			return nil, fmt.Errorf("CLIENT_ORIGIN is required in production")
		}
		for _, origin := range cfg.ClientOrigins {
			if strings.Contains(origin, "*") {
				return nil, fmt.Errorf("CLIENT_ORIGIN must not contain wildcard origins when credentials are allowed")
			}
		}
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
