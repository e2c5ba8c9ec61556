package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether the GraphRAG backend is ready",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	client := newBackendClient(cfg)
	status, err := client.Status(context.Background())
	if err != nil {
		return fmt.Errorf("backend at %s: %w", client.BaseURL(), err)
	}

	if status.Ready() {
		fmt.Printf("Backend ready: %d documents processed\n", status.DocumentsProcessed)
	} else {
		fmt.Printf("Backend not ready (%s): %s\n", status.Status, status.Message)
	}
	return nil
}

var initBackendCmd = &cobra.Command{
	Use:   "init-backend",
	Short: "Ask the backend to (re)build its query chain",
	RunE:  runInitBackend,
}

func init() {
	initBackendCmd.Flags().Bool("force", false, "force reprocessing of all documents")
	rootCmd.AddCommand(initBackendCmd)
}

func runInitBackend(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	client := newBackendClient(cfg)
	resp, err := client.Initialize(context.Background(), force)
	if err != nil {
		return fmt.Errorf("initializing backend: %w", err)
	}

	fmt.Println(resp.Message)
	return nil
}
