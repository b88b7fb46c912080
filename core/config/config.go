package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"agilesense.ai/services/core/db"
)

// ErrArangoRequired is returned when a component needs the document store but
// its connection settings are incomplete.
var ErrArangoRequired = errors.New("ARANGO_URL, ARANGO_USERNAME and ARANGO_DATABASE are required")

type Config struct {
	OTel            OTelConfig
	ArangoDB        ArangoDBConfig
	Events          EventsConfig
	Models          ModelsConfig
	RephraserLLM    LLMConfig
	NERLLM          LLMConfig
	Env             string
	Port            string
	TraceHeaderName string
	CORSOrigins     []string
	DB              db.Config
}

type OTelConfig struct {
	Endpoint       string
	Headers        string
	ServiceName    string
	ServiceVersion string
}

type ArangoDBConfig struct {
	URL      string
	Username string
	Password string
	Database string
}

// EventsConfig configures the Redis stream that receives issue lifecycle events.
type EventsConfig struct {
	RedisURL    string
	RedisStream string
}

// ModelsConfig locates the exported model artifacts and the thresholds applied
// on top of their outputs.
type ModelsConfig struct {
	Dir                    string
	HesitationModelPath    string
	HesitationScalerPath   string
	CategoryVectorizerPath string
	CategoryModelPath      string

	HesitationHighThreshold   float64
	HesitationMediumThreshold float64
	RephraseThreshold         float64
}

type LLMConfig struct {
	Provider  string // "openai" or "anthropic"
	APIKey    string
	BaseURL   string // Optional: for custom endpoints
	Model     string
	MaxTokens int
}

type ServiceType string

const (
	ServiceTypeBrainstorm ServiceType = "brainstorm"
	ServiceTypeExpertise  ServiceType = "expertise"
	ServiceTypeCLI        ServiceType = "cli"
)

// Load loads configuration from environment variables.
// In development, it loads from service-specific .env files:
//   - .env.brainstorm for the brainstorm platform service
//   - .env.expertise for the expertise service
//
// Falls back to .env if service-specific file doesn't exist.
func Load(serviceType ServiceType) (Config, error) {
	if getEnv("AGILESENSE_ENV", "development") == "development" {
		envFile := fmt.Sprintf(".env.%s", serviceType)
		if err := godotenv.Load(envFile); err != nil {
			_ = godotenv.Load(".env")
		}
	}

	modelsDir := getEnv("MODELS_DIR", "models")

	cfg := Config{
		Env:             getEnv("AGILESENSE_ENV", "development"),
		Port:            getEnv("PORT", defaultPort(serviceType)),
		TraceHeaderName: getEnv("TRACE_HEADER_NAME", "X-Request-Id"),
		CORSOrigins:     getEnvList("CORS_ORIGINS", []string{"http://localhost:5173", "http://localhost:3000"}),
		DB: db.Config{
			DSN:      getEnv("DATABASE_URL", ""),
			MaxConns: getEnvInt32("DB_MAX_CONNS", 10),
			MinConns: getEnvInt32("DB_MIN_CONNS", 2),
		},
		OTel: OTelConfig{
			Endpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Headers:        getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""),
			ServiceName:    getEnv("OTEL_SERVICE_NAME", string(serviceType)+"-service"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "dev"),
		},
		ArangoDB: ArangoDBConfig{
			URL:      getEnv("ARANGO_URL", ""),
			Username: getEnv("ARANGO_USERNAME", ""),
			Password: getEnv("ARANGO_PASSWORD", ""),
			Database: getEnv("ARANGO_DATABASE", "agilesense_ai"),
		},
		Events: EventsConfig{
			RedisURL:    getEnv("REDIS_URL", ""),
			RedisStream: getEnv("REDIS_STREAM", "expertise_issue_events"),
		},
		Models: ModelsConfig{
			Dir:                       modelsDir,
			HesitationModelPath:       getEnv("HESITATION_MODEL_PATH", filepath.Join(modelsDir, "brainstorm_platform", "hesitation_model", "hesitation_model.json")),
			HesitationScalerPath:      getEnv("HESITATION_SCALER_PATH", filepath.Join(modelsDir, "brainstorm_platform", "hesitation_model", "scaler.json")),
			CategoryVectorizerPath:    getEnv("CATEGORY_VECTORIZER_PATH", filepath.Join(modelsDir, "expertise_recommendation", "tfidf_vectorizer.json")),
			CategoryModelPath:         getEnv("CATEGORY_MODEL_PATH", filepath.Join(modelsDir, "expertise_recommendation", "logistic_model.json")),
			HesitationHighThreshold:   getEnvFloat("HESITATION_HIGH_THRESHOLD", 0.7),
			HesitationMediumThreshold: getEnvFloat("HESITATION_MEDIUM_THRESHOLD", 0.4),
			RephraseThreshold:         getEnvFloat("REPHRASE_CONFIDENCE_THRESHOLD", 0.6),
		},
		RephraserLLM: LLMConfig{
			Provider:  getEnv("REPHRASER_LLM_PROVIDER", "openai"),
			APIKey:    getEnv("REPHRASER_LLM_API_KEY", ""),
			BaseURL:   getEnv("REPHRASER_LLM_BASE_URL", ""),
			Model:     getEnv("REPHRASER_LLM_MODEL", "gpt-4o-mini"),
			MaxTokens: getEnvInt("REPHRASER_LLM_MAX_TOKENS", 200),
		},
		NERLLM: LLMConfig{
			Provider:  getEnv("NER_LLM_PROVIDER", "openai"),
			APIKey:    getEnv("NER_LLM_API_KEY", ""),
			BaseURL:   getEnv("NER_LLM_BASE_URL", ""),
			Model:     getEnv("NER_LLM_MODEL", "gpt-4o-mini"),
			MaxTokens: getEnvInt("NER_LLM_MAX_TOKENS", 2048),
		},
	}

	if err := cfg.validate(serviceType); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) validate(serviceType ServiceType) error {
	if c.Models.HesitationMediumThreshold > c.Models.HesitationHighThreshold {
		return fmt.Errorf("HESITATION_MEDIUM_THRESHOLD (%.2f) must not exceed HESITATION_HIGH_THRESHOLD (%.2f)",
			c.Models.HesitationMediumThreshold, c.Models.HesitationHighThreshold)
	}

	if serviceType == ServiceTypeExpertise && !c.ArangoDB.Enabled() {
		return ErrArangoRequired
	}
	return nil
}

func defaultPort(serviceType ServiceType) string {
	switch serviceType {
	case ServiceTypeBrainstorm:
		return "8004"
	default:
		return "8000"
	}
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c OTelConfig) Enabled() bool {
	return c.Endpoint != ""
}

func (c LLMConfig) Enabled() bool {
	return c.APIKey != "" && (c.Provider == "openai" || c.Provider == "anthropic")
}

func (c ArangoDBConfig) Enabled() bool {
	return c.URL != "" && c.Username != "" && c.Database != ""
}

func (c EventsConfig) Enabled() bool {
	return c.RedisURL != ""
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	value, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(value) == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnvInt32(key string, fallback int32) int32 {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(i)
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}
