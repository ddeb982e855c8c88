package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName string
	HTTPPort    string
	PostgresDSN string

	// SubmitterAnalyzer selects the analyzer implementation wired at
	// construction time. Only "rule_based" ships today.
	SubmitterAnalyzer string
	// KeywordRulesPath optionally overrides the built-in classifier
	// keyword tables with a YAML file.
	KeywordRulesPath string

	ReferenceCacheTTL time.Duration
	ImportChunkSize   int
}

func Load() (Config, error) {
	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "councilwatch"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	analyzer := strings.TrimSpace(os.Getenv("SUBMITTER_ANALYZER"))
	if analyzer == "" {
		analyzer = "rule_based"
	}

	return Config{
		ServiceName:       service,
		HTTPPort:          port,
		PostgresDSN:       os.Getenv("POSTGRES_DSN"),
		SubmitterAnalyzer: analyzer,
		KeywordRulesPath:  os.Getenv("KEYWORD_RULES_PATH"),
		ReferenceCacheTTL: envDuration("REFERENCE_CACHE_TTL", 5*time.Minute),
		ImportChunkSize:   envInt("IMPORT_CHUNK_SIZE", 100),
	}, nil
}

func envDuration(name string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return parsed
}

func envInt(name string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return parsed
}
