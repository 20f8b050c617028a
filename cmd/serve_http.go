package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lukman83/kidkazz-storefront/internal/announcement"
	"github.com/lukman83/kidkazz-storefront/internal/api"
	mcpserver "github.com/lukman83/kidkazz-storefront/mcp"
	"github.com/spf13/cobra"
)

var serveHTTPCmd = &cobra.Command{
	Use:   "serve-http",
	Short: "Start the storefront REST API and MCP HTTP server",
	Long:  "Serve the storefront REST API, /metrics and the MCP endpoint at /mcp over HTTP (e.g. on Fly.io).",
	RunE:  runServeHTTP,
}

func init() {
	serveHTTPCmd.Flags().String("port", "", "HTTP port (default from $PORT or 8080)")
	rootCmd.AddCommand(serveHTTPCmd)
}

func runServeHTTP(cmd *cobra.Command, args []string) error {
	if err := initPlatforms(); err != nil {
		return err
	}

	port := cfg.HTTPPort
	if p, _ := cmd.Flags().GetString("port"); p != "" {
		port = p
	}
	catalog, _ := cmd.Flags().GetString("catalog")

	announcements := announcement.NewStore(cfg.AnnouncementFile)
	server := api.NewServer(api.Options{
		Catalog:       catalog,
		Announcements: announcements,
		MCP:           mcpserver.HTTPHandler(catalog, cfg.APIKey),
		Logger:        slog.Default(),
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", port),
		Handler:      server.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("KidKazz storefront HTTP server listening", "addr", srv.Addr, "mcp_auth", cfg.APIKey != "", "announcement_file", announcements.Path())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
