package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nselim/graphdesk/internal/gateway"
	"github.com/nselim/graphdesk/internal/simindex"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local web gateway",
	Long: `Starts the local gateway that serves the browser UI, proxies the
GraphRAG API, runs the websocket chat, and exposes Prometheus metrics
on /metrics.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "port to listen on (default from config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	port := servePort
	if port == 0 {
		port = cfg.Gateway.Port
	}

	database, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	client := newBackendClient(cfg)

	assistant, err := newAssistant(cfg)
	if err != nil {
		return err
	}

	// Similarity stays off without an API key; the UI reports it as
	// unavailable.
	var index *simindex.Index
	if embedder, err := newEmbedder(cfg); err == nil {
		if index, err = loadIndex(cfg, embedder); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(os.Stderr, "Warning: similarity check disabled: %v\n", err)
	}

	srv := gateway.New(gateway.Config{
		Port:     port,
		DataDir:  cfg.DataDir,
		AllowAll: cfg.Gateway.AllowAll,
	}, client, database, assistant, index)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		fmt.Fprintln(os.Stderr, "\nShutting down gateway...")
		srv.Shutdown(context.Background())
	}()

	fmt.Printf("GraphDesk gateway on http://localhost:%d (backend %s)\n", port, client.BaseURL())
	if err := srv.Start(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
