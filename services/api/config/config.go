package config

import (
	"fmt"
	"github.com/joho/godotenv"
	"os"
	"strconv"

	"github.com/YASHK-arch/heavy-metal-compass/internal/metals"
)

// Config holds environment-driven settings for the REST API.
type Config struct {
	Port           int
	BearerToken    string
	StandardsFile  string
	MaxUploadBytes int64
	Workers        int
	TopPollutants  int
	LogLevel       string
	LogFormat      string
	LogOutput      string
}

// Load reads configuration from environment variables (optionally .env).
func Load() (Config, error) {
	_ = godotenv.Load() // ignore missing file

	cfg := Config{
		Port:           8080,
		MaxUploadBytes: 10 << 20,
		Workers:        4,
		TopPollutants:  2,
		LogLevel:       "info",
		LogFormat:      "json",
		LogOutput:      "stderr",
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil && port > 0 {
			cfg.Port = port
		} else {
			return cfg, fmt.Errorf("invalid PORT: %s", portStr)
		}
	} else if portStr := os.Getenv("API_PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil && port > 0 {
			cfg.Port = port
		} else {
			return cfg, fmt.Errorf("invalid API_PORT: %s", portStr)
		}
	}

	if sizeStr := os.Getenv("MAX_UPLOAD_BYTES"); sizeStr != "" {
		if size, err := strconv.ParseInt(sizeStr, 10, 64); err == nil && size > 0 {
			cfg.MaxUploadBytes = size
		} else {
			return cfg, fmt.Errorf("invalid MAX_UPLOAD_BYTES: %s", sizeStr)
		}
	}

	if workersStr := os.Getenv("PIPELINE_WORKERS"); workersStr != "" {
		if workers, err := strconv.Atoi(workersStr); err == nil && workers > 0 {
			cfg.Workers = workers
		} else {
			return cfg, fmt.Errorf("invalid PIPELINE_WORKERS: %s", workersStr)
		}
	}

	if topStr := os.Getenv("TOP_POLLUTANTS"); topStr != "" {
		if top, err := strconv.Atoi(topStr); err == nil && top > 0 {
			cfg.TopPollutants = top
		} else {
			return cfg, fmt.Errorf("invalid TOP_POLLUTANTS: %s", topStr)
		}
	}

	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.LogLevel = level
	}
	if format := os.Getenv("LOG_FORMAT"); format != "" {
		cfg.LogFormat = format
	}
	if output := os.Getenv("LOG_OUTPUT"); output != "" {
		cfg.LogOutput = output
	}

	cfg.StandardsFile = os.Getenv("STANDARDS_FILE")
	cfg.BearerToken = os.Getenv("API_BEARER_TOKEN")

	return cfg, nil
}

// Standards resolves the regulatory table the pipeline runs against: the
// built-in WHO table, or the YAML file named by STANDARDS_FILE.
func (c Config) Standards() (metals.Standards, error) {
	if c.StandardsFile == "" {
		return metals.Default(), nil
	}
	return metals.LoadFile(c.StandardsFile)
}

// ListenAddr returns the host:port string for the HTTP server.
func (c Config) ListenAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}
