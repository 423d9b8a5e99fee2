// Package file loads TOML configuration for the Templar CLI.
// Configuration lives in ~/.templar/config.toml unless another
// directory is given; missing files fall back to defaults.
package file

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Config is the full CLI configuration.
type Config struct {
	Embedding EmbeddingConfig `toml:"embedding"`
	Storage   StorageConfig   `toml:"storage"`
	Blob      BlobConfig      `toml:"blob"`
	Server    ServerConfig    `toml:"server"`
	Ingest    IngestConfig    `toml:"ingest"`
}

// EmbeddingConfig selects and configures the embedding provider.
type EmbeddingConfig struct {
	// Provider is "ollama" or "openai".
	Provider string `toml:"provider"`
	Model    string `toml:"model"`
	BaseURL  string `toml:"base_url"`
	// Dimensions of the provider's output vectors.
	Dimensions int `toml:"dimensions"`
	// APIKeyEnv names the environment variable holding the API key.
	// The key itself never lives in the config file.
	APIKeyEnv string `toml:"api_key_env"`
}

// StorageConfig configures the template record store.
type StorageConfig struct {
	DataDir string `toml:"data_dir"`
}

// BlobConfig configures where raw template files are uploaded.
type BlobConfig struct {
	// Backend is "s3", "fs" or "none".
	Backend       string `toml:"backend"`
	Bucket        string `toml:"bucket"`
	Region        string `toml:"region"`
	EndpointURL   string `toml:"endpoint_url"`
	AccessKeyEnv  string `toml:"access_key_env"`
	SecretKeyEnv  string `toml:"secret_key_env"`
	PublicBaseURL string `toml:"public_base_url"`
	// Dir is the local directory used by the fs backend.
	Dir string `toml:"dir"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// IngestConfig tunes the ingestion pipeline.
type IngestConfig struct {
	// EmbedRequestsPerSecond caps the rate of embedding calls.
	// Zero means no limit.
	EmbedRequestsPerSecond float64 `toml:"embed_requests_per_second"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Embedding: EmbeddingConfig{
			Provider:   "ollama",
			Model:      "nomic-embed-text",
			BaseURL:    "http://localhost:11434",
			Dimensions: 768,
			APIKeyEnv:  "OPENAI_API_KEY",
		},
		Blob: BlobConfig{
			Backend:      "fs",
			Region:       "us-east-1",
			AccessKeyEnv: "AWS_ACCESS_KEY_ID",
			SecretKeyEnv: "AWS_SECRET_ACCESS_KEY",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Ingest: IngestConfig{
			EmbedRequestsPerSecond: 4,
		},
	}
}

// Load reads config.toml from configDir, layering file values over the
// defaults. If configDir is empty, defaults to ~/.templar. A missing
// file is not an error.
func Load(configDir string) (Config, error) {
	cfg := Default()

	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return cfg, fmt.Errorf("getting home directory: %w", err)
		}
		configDir = filepath.Join(home, ".templar")
	}

	path := filepath.Join(configDir, "config.toml")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

// APIKey resolves the embedding API key from the configured
// environment variable.
func (c EmbeddingConfig) APIKey() string {
	if c.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(c.APIKeyEnv)
}

// Credentials resolves the blob store access and secret keys from the
// configured environment variables.
func (c BlobConfig) Credentials() (accessKey, secretKey string) {
	if c.AccessKeyEnv != "" {
		accessKey = os.Getenv(c.AccessKeyEnv)
	}
	if c.SecretKeyEnv != "" {
		secretKey = os.Getenv(c.SecretKeyEnv)
	}
	return accessKey, secretKey
}
