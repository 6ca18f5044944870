// Package config loads the settings shared by the generator and categorizer
// from an optional .env file and the process environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Provider names accepted in LLM_PROVIDER.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// ErrMissingCredential is returned by Validate when the selected provider has no API key.
var ErrMissingCredential = errors.New("missing model credential")

// Config holds all application configuration
type Config struct {
	Paths     PathsConfig
	LLM       LLMConfig
	Generator GeneratorConfig
	BigQuery  BigQueryConfig
	GCS       GCSConfig
	Logger    LoggerConfig

	BatchSize int
	Timeout   time.Duration
}

type PathsConfig struct {
	DataDir string
	CSVPath string
	DBPath  string
}

// LLMConfig selects and configures the classification endpoint.
type LLMConfig struct {
	Provider      string
	Model         string
	Temperature   float32
	Timeout       time.Duration
	GoogleAPIKey  string
	OpenAIAPIKey  string
	OpenAIBaseURL string
}

type GeneratorConfig struct {
	Seed uint64
}

type BigQueryConfig struct {
	ProjectID string
	DatasetID string
}

type GCSConfig struct {
	Bucket string
}

type LoggerConfig struct {
	Level string
}

// Load reads the first .env file found (if any) and builds a Config from the environment.
func Load() *Config {
	for _, envFile := range []string{".env", "../.env"} {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}

	dataDir := getEnv("DATA_DIR", "data")

	googleKey := strings.TrimSpace(getEnv("GOOGLE_API_KEY", ""))
	if googleKey == "" {
		googleKey = strings.TrimSpace(getEnv("GEMINI_API_KEY", ""))
	}

	return &Config{
		Paths: PathsConfig{
			DataDir: dataDir,
			CSVPath: getEnv("CSV_PATH", filepath.Join(dataDir, "transacciones_sucias.csv")),
			DBPath:  getEnv("DB_PATH", filepath.Join(dataDir, "finanzas.db")),
		},
		LLM: LLMConfig{
			Provider:      strings.ToLower(getEnv("LLM_PROVIDER", ProviderGemini)),
			Model:         getEnv("LLM_MODEL", ""),
			Temperature:   getEnvAsFloat32("LLM_TEMPERATURE", 0),
			Timeout:       getEnvAsDuration("LLM_TIMEOUT", 0),
			GoogleAPIKey:  googleKey,
			OpenAIAPIKey:  strings.TrimSpace(getEnv("OPENAI_API_KEY", "")),
			OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),
		},
		Generator: GeneratorConfig{
			Seed: uint64(getEnvAsInt("GENERATOR_SEED", 42)),
		},
		BigQuery: BigQueryConfig{
			ProjectID: getEnv("BQ_PROJECT", ""),
			DatasetID: getEnv("BQ_DATASET", "finanzas"),
		},
		GCS: GCSConfig{
			Bucket: getEnv("GCS_BUCKET", ""),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		BatchSize: getEnvAsInt("BATCH_SIZE", 20),
		Timeout:   getEnvAsDuration("CATEGORIZE_TIMEOUT", 30*time.Minute),
	}
}

// APIKey returns the credential of the selected provider.
func (c *LLMConfig) APIKey() string {
	if c.Provider == ProviderOpenAI {
		return c.OpenAIAPIKey
	}
	return c.GoogleAPIKey
}

// CredentialEnv names the environment variable the selected provider reads.
func (c *LLMConfig) CredentialEnv() string {
	if c.Provider == ProviderOpenAI {
		return "OPENAI_API_KEY"
	}
	return "GOOGLE_API_KEY"
}

// Validate checks the settings the categorizer cannot run without.
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case ProviderGemini, ProviderOpenAI:
	default:
		return fmt.Errorf("LLM_PROVIDER %q is not supported (use %q or %q)", c.LLM.Provider, ProviderGemini, ProviderOpenAI)
	}
	if c.LLM.APIKey() == "" {
		return fmt.Errorf("%w: %s not found. Run:\n  export %s=...", ErrMissingCredential, c.LLM.CredentialEnv(), c.LLM.CredentialEnv())
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("BATCH_SIZE must be positive, got %d", c.BatchSize)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
