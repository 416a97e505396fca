package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	AppName    string `env:"APP_NAME" env-default:"willow"`
	LogLevel   string `env:"LOG_LEVEL" env-default:"info"`
	PrettyLogs bool   `env:"PRETTY_LOGS" env-default:"false"`

	// Storage driver: memory, file or redis
	StorageDriver string `env:"STORAGE_DRIVER" env-default:"file"`
	// Directory used by the file driver
	StorageFileDir string `env:"STORAGE_FILE_DIR" env-default:".willow"`
	// Key prefix for shared backends
	StorageNamespace string `env:"STORAGE_NAMESPACE" env-default:""`

	// Redis host
	RedisHost string `env:"REDIS_HOST" env-default:"localhost"`
	// Redis port
	RedisPort int `env:"REDIS_PORT" env-default:"6379"`
	// Redis password
	RedisPassword string `env:"REDIS_PASSWORD" env-default:""`
	// Redis database
	RedisDB int `env:"REDIS_DB" env-default:"0"`

	// Sessions
	HistoryLimit int `env:"HISTORY_LIMIT" env-default:"10"`

	// Analytics
	AnalyticsEnabled   bool `env:"ANALYTICS_ENABLED" env-default:"true"`
	AnalyticsMaxEvents int  `env:"ANALYTICS_MAX_EVENTS" env-default:"1000"`

	// Matching
	MatchTopCandidates int `env:"MATCH_TOP_CANDIDATES" env-default:"5"`
	MatchRandomPool    int `env:"MATCH_RANDOM_POOL" env-default:"3"`

	// Observability
	TracingEnabled bool `env:"TRACING_ENABLED" env-default:"false"`
	// Span exporter: stdout or otlp
	TracingExporter string `env:"TRACING_EXPORTER" env-default:"stdout"`
	OTLPEndpoint    string `env:"OTLP_ENDPOINT" env-default:"localhost:4317"`
	// OTLP protocol: grpc or http
	OTLPProtocol   string `env:"OTLP_PROTOCOL" env-default:"grpc"`
	OTLPInsecure   bool   `env:"OTLP_INSECURE" env-default:"true"`
	MetricsEnabled bool   `env:"METRICS_ENABLED" env-default:"true"`
}

// Load reads an optional .env file and binds the process environment.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", file, err)
		}
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	return &cfg, nil
}
