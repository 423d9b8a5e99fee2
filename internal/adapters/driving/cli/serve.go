package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/templar-cli/internal/adapters/driving/httpapi"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the template search HTTP API",
	Long: `Starts an HTTP server exposing template search at
POST /api/search-templates. Intended to back a web front end.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", serveAddr, "listen address")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	server := httpapi.NewServer(searchService)
	cmd.Printf("Listening on %s\n", serveAddr)
	return server.Run(serveAddr)
}
