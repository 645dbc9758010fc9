package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is the process-wide configuration. Loaded once at startup and
// never mutated; components receive it by value and must not re-read
// the environment afterwards.
type Config struct {
	Server  ServerConfig
	Logging LoggingConfig
	KIS     KISConfig
	Report  ReportConfig
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type LoggingConfig struct {
	Level         string
	Format        string
	FileEnabled   bool
	FilePath      string
	RotationSize  int // MB
	RetentionDays int
}

// KISConfig carries the brokerage credentials and mode switches.
type KISConfig struct {
	AppKey    string
	AppSecret string
	Account   string // CANO-ACNT_PRDT_CD, e.g. "12345678-01"
	CustType  string
	Mode      string // "real" selects the live API; anything else is mock-safe
	Mock      bool   // unconditional mock override
	BaseURL   string
	Timeout   time.Duration
}

// ReportConfig configures the investment report generator. Without an
// API key the report falls back to a plain summary.
type ReportConfig struct {
	OpenAIKey string
	Model     string
}

// RealMode reports whether the live API is selected. The mock flag wins
// unconditionally; only the exact literal "real" enables the live API.
func (k KISConfig) RealMode() bool {
	return !k.Mock && k.Mode == "real"
}

// Load loads configuration from .env and the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// .env 파일이 없어도 계속 진행 (환경 변수에서 로드 시도)
		fmt.Println("Warning: .env file not found, using environment variables")
	}

	kis := KISConfig{
		AppKey:    getEnv("KIS_APP_KEY", ""),
		AppSecret: getEnv("KIS_APP_SECRET", ""),
		Account:   getEnv("KIS_ACCOUNT", ""),
		CustType:  getEnv("KIS_CUSTTYPE", "P"),
		Mode:      getEnv("KIS_MODE", "virtual"),
		Mock:      getBoolEnv("KIS_MOCK", false),
		Timeout:   getDurationEnv("HTTP_TIMEOUT", 10*time.Second),
	}

	// BASE_URL follows the mode to avoid misconfiguration; explicit
	// override wins when the user knows what they're doing.
	if kis.RealMode() {
		kis.BaseURL = "https://openapi.koreainvestment.com:9443"
	} else {
		kis.BaseURL = "https://openapivts.koreainvestment.com:29443"
	}
	if override := getEnv("KIS_BASE_URL", ""); override != "" {
		kis.BaseURL = override
	}

	config := &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:         getEnv("LOG_LEVEL", "info"),
			Format:        getEnv("LOG_FORMAT", "console"),
			FileEnabled:   getBoolEnv("LOG_FILE_ENABLED", false),
			FilePath:      getEnv("LOG_FILE_PATH", "logs"),
			RotationSize:  100,
			RetentionDays: 14,
		},
		KIS: kis,
		Report: ReportConfig{
			OpenAIKey: getEnv("OPENAI_API_KEY", ""),
			Model:     getEnv("OPENAI_MODEL", "gpt-3.5-turbo"),
		},
	}

	return config, nil
}

// getEnv gets environment variable with fallback
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getBoolEnv accepts 1/true/yes style truthy values
func getBoolEnv(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	switch value {
	case "1", "true", "TRUE", "True", "yes", "y":
		return true
	}
	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}
	return false
}

// getDurationEnv parses seconds or Go duration strings
func getDurationEnv(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	if secs, err := strconv.Atoi(value); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	if d, err := time.ParseDuration(value); err == nil && d > 0 {
		return d
	}
	return fallback
}
