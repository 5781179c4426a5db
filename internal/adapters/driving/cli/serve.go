package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/paterkleomenis/archstore/internal/adapters/driving/httpapi"
	"github.com/paterkleomenis/archstore/internal/core/services"
)

// Port range probed when --addr is "auto".
const (
	autoPortStart = 7420
	autoPortEnd   = 7440
)

var (
	serveAddr    string
	serveOrigins []string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve package search over HTTP",
	Long: `Start an HTTP server that streams search results as Server-Sent Events.

Endpoints:
  GET    /api/search?q=&installed=&source=&sort=   one SSE event per snapshot
  GET    /api/sources                              enabled sources
  GET    /api/history?q=                           recent or matching searches
  DELETE /api/history                              clear search history
  GET    /api/health                               liveness

Use --addr auto to pick the first free port from 7420.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", httpapi.DefaultAddr, `listen address, or "auto"`)
	serveCmd.Flags().StringSliceVar(&serveOrigins, "allow-origin", nil, "browser origins allowed by CORS (default any)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	addr, err := resolveAddr(serveAddr)
	if err != nil {
		return err
	}

	server, err := httpapi.NewServer(
		httpapi.Config{Addr: addr, AllowedOrigins: serveOrigins},
		httpapi.Ports{Search: searchService, Settings: settingsService, History: historyService},
	)
	if err != nil {
		return err
	}

	stop := startScheduler(cmd.Context())
	defer stop()

	cmd.Printf("Listening on http://%s\n", server.Addr())
	return server.Run(cmd.Context())
}

// resolveAddr turns "auto" into a free loopback address.
func resolveAddr(addr string) (string, error) {
	if addr != "auto" {
		return addr, nil
	}
	free, err := services.FreeAddr("127.0.0.1", autoPortStart, autoPortEnd)
	if err != nil {
		return "", fmt.Errorf("finding a free port: %w", err)
	}
	return free, nil
}
