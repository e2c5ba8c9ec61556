package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "graphdesk",
	Short: "Desk client for a GraphRAG document knowledge base",
	Long: `GraphDesk is the local client for a GraphRAG backend. It uploads
documents into the knowledge base, asks questions against the
knowledge graph, drives the multi-phase literature review workflow,
and runs a writing assistant for grammar critique and similarity
checks. A local web gateway serves the browser UI.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".graphdesk.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
