package config

import (
	"os"
	"strconv"
)

type Config struct {
	// Address the board server listens on
	PORT int

	// Base URL of the CloudTask task-service REST API
	TASK_SERVICE_URL string

	// Member routes moved between task-service releases; keep the prefix
	// overridable so the client is not hard-coded to one backend layout.
	MEMBER_ROUTE_PREFIX string

	// OIDC identity provider
	OIDC_ISSUER        string
	OIDC_CLIENT_ID     string
	OIDC_CLIENT_SECRET string
	OIDC_CALLBACK_URL  string
	OIDC_AUDIENCE      string

	STATE_SECRET   string
	SESSION_SECRET string

	// Redis session store; empty host falls back to the in-memory store
	REDIS_HOST     string
	REDIS_PORT     int
	REDIS_PASSWORD string
	REDIS_DB       int

	// Post-login redirect target (the pages origin)
	WEB_ORIGIN string

	// Otel
	OTEL_EXPORTER_OTLP_ENDPOINT string
}

func ReadConfig() *Config {
	return &Config{
		PORT: getIntOrDefault("PORT", 6060),

		TASK_SERVICE_URL:    getEnvOrDefault("TASK_SERVICE_URL", "http://localhost:8081"),
		MEMBER_ROUTE_PREFIX: getEnvOrDefault("MEMBER_ROUTE_PREFIX", "/api/project"),

		OIDC_ISSUER:        os.Getenv("OIDC_ISSUER"),
		OIDC_CLIENT_ID:     os.Getenv("OIDC_CLIENT_ID"),
		OIDC_CLIENT_SECRET: os.Getenv("OIDC_CLIENT_SECRET"),
		OIDC_CALLBACK_URL:  os.Getenv("OIDC_CALLBACK_URL"),
		OIDC_AUDIENCE:      getEnvOrDefault("OIDC_AUDIENCE", "cloudtask-board"),

		STATE_SECRET:   os.Getenv("STATE_SECRET"),
		SESSION_SECRET: os.Getenv("SESSION_SECRET"),

		REDIS_HOST:     os.Getenv("REDIS_HOST"),
		REDIS_PORT:     getIntOrDefault("REDIS_PORT", 6379),
		REDIS_PASSWORD: os.Getenv("REDIS_PASSWORD"),
		REDIS_DB:       getIntOrDefault("REDIS_DB", 0),

		WEB_ORIGIN: getEnvOrDefault("WEB_ORIGIN", "http://localhost:3000"),

		OTEL_EXPORTER_OTLP_ENDPOINT: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if raw := os.Getenv(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			return v
		}
	}
	return defaultValue
}
