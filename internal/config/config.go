package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port     string
	Env      string
	LogLevel string

	// Model gateway selection
	ModelProvider         string
	ModelFallbackProvider string

	// OpenAI-compatible chat-completions endpoint
	AIEndpoint   string
	AIAPIKey     string
	AIAPIVersion string
	AIModel      string
	AITimeout    time.Duration

	// Bedrock
	BedrockModelID      string
	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpointOverride string

	// Gemini
	GeminiAPIKey  string
	GeminiModelID string

	// Audit trail
	AuditBackend  string
	AuditCapacity int

	RedisAddr     string
	RedisPassword string
	RedisTLS      bool
	DatabaseURL   string

	AdminJWTSecret     string
	CORSAllowedOrigins []string
	RateLimitRPS       float64
	RateLimitBurst     int
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		ModelProvider:         strings.ToLower(strings.TrimSpace(getEnv("MODEL_PROVIDER", "http"))),
		ModelFallbackProvider: strings.ToLower(strings.TrimSpace(getEnv("MODEL_FALLBACK_PROVIDER", ""))),

		AIEndpoint:   firstEnv("AI_ENDPOINT", "AZURE_AI_FOUNDRY_ENDPOINT"),
		AIAPIKey:     firstEnv("AI_API_KEY", "AZURE_AI_FOUNDRY_API_KEY"),
		AIAPIVersion: firstEnv("AI_API_VERSION", "AZURE_AI_FOUNDRY_API_VERSION"),
		AIModel:      getEnv("AI_MODEL", getEnv("AZURE_AI_FOUNDRY_MODEL", "gpt-4.1-mini")),
		AITimeout:    getEnvAsDuration("AI_TIMEOUT", 30*time.Second),

		BedrockModelID:      getEnv("BEDROCK_MODEL_ID", ""),
		AWSRegion:           getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),

		GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
		GeminiModelID: getEnv("GEMINI_MODEL_ID", "gemini-1.5-flash"),

		AuditBackend:  strings.ToLower(strings.TrimSpace(getEnv("AUDIT_BACKEND", "memory"))),
		AuditCapacity: getEnvAsInt("AUDIT_CAPACITY", 100),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),
		DatabaseURL:   getEnv("DATABASE_URL", ""),

		AdminJWTSecret:     getEnv("ADMIN_JWT_SECRET", ""),
		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS"),
		RateLimitRPS:       getEnvAsFloat("RATE_LIMIT_RPS", 5),
		RateLimitBurst:     getEnvAsInt("RATE_LIMIT_BURST", 20),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// firstEnv returns the first non-empty value among keys.
func firstEnv(keys ...string) string {
	for _, key := range keys {
		if value := strings.TrimSpace(os.Getenv(key)); value != "" {
			return value
		}
	}
	return ""
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsList splits a comma-separated variable, dropping blanks.
func getEnvAsList(key string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
