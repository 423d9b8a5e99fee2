// Command templar is a semantic search CLI for legal document templates.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	fsblob "github.com/custodia-labs/templar-cli/internal/adapters/driven/blob/fs"
	s3blob "github.com/custodia-labs/templar-cli/internal/adapters/driven/blob/s3"
	configfile "github.com/custodia-labs/templar-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/templar-cli/internal/adapters/driven/embedding/ollama"
	"github.com/custodia-labs/templar-cli/internal/adapters/driven/embedding/openai"
	"github.com/custodia-labs/templar-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/templar-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/templar-cli/internal/core/ports/driven"
	"github.com/custodia-labs/templar-cli/internal/core/services"
	"github.com/custodia-labs/templar-cli/internal/extract"
	"github.com/custodia-labs/templar-cli/internal/extract/docx"
	"github.com/custodia-labs/templar-cli/internal/extract/plaintext"
)

func main() {
	// Optional; local development keeps API keys in .env.
	_ = godotenv.Load()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := configfile.Load(configDir(os.Args[1:]))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	store, err := sqlite.NewStore(cfg.Storage.DataDir)
	if err != nil {
		return fmt.Errorf("opening template store: %w", err)
	}
	defer store.Close()

	embedder, err := newEmbeddingService(cfg.Embedding)
	if err != nil {
		return err
	}
	defer embedder.Close()

	blobStore, err := newBlobStore(cfg.Blob)
	if err != nil {
		return err
	}

	registry := extract.NewRegistry(docx.New(), plaintext.New())

	searchService := services.NewSearchService(store, embedder)
	ingestPipeline := services.NewIngestPipeline(
		store, embedder, blobStore, registry,
		cfg.Ingest.EmbedRequestsPerSecond,
	)

	cli.Configure(searchService, ingestPipeline, cfg.Server.Addr)
	return cli.Execute()
}

// configDir pre-parses --config so configuration is loaded before the
// command tree runs. The flag is also registered on the root command
// for help output.
func configDir(args []string) string {
	for i, arg := range args {
		if arg == "--config" && i+1 < len(args) {
			return args[i+1]
		}
		if v, ok := strings.CutPrefix(arg, "--config="); ok {
			return v
		}
	}
	return os.Getenv("TEMPLAR_CONFIG_DIR")
}

func newEmbeddingService(cfg configfile.EmbeddingConfig) (driven.EmbeddingService, error) {
	switch cfg.Provider {
	case "", "ollama":
		return ollama.NewEmbeddingService(ollama.Config{
			BaseURL:    cfg.BaseURL,
			Model:      cfg.Model,
			Dimensions: cfg.Dimensions,
		}), nil
	case "openai":
		return openai.NewEmbeddingService(openai.Config{
			APIKey: cfg.APIKey(),
			Model:  cfg.Model,
		})
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Provider)
	}
}

func newBlobStore(cfg configfile.BlobConfig) (driven.BlobStore, error) {
	switch cfg.Backend {
	case "", "fs":
		return fsblob.NewBlobStore(cfg.Dir)
	case "s3":
		accessKey, secretKey := cfg.Credentials()
		return s3blob.NewBlobStore(s3blob.Config{
			EndpointURL:   cfg.EndpointURL,
			Region:        cfg.Region,
			Bucket:        cfg.Bucket,
			AccessKey:     accessKey,
			SecretKey:     secretKey,
			PublicBaseURL: cfg.PublicBaseURL,
		})
	case "none":
		// Records keep an empty storage URL.
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown blob backend %q", cfg.Backend)
	}
}
