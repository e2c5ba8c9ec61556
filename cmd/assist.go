package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/nselim/graphdesk/internal/assist"
	"github.com/nselim/graphdesk/internal/config"
	"github.com/nselim/graphdesk/internal/llm"
)

var assistCmd = &cobra.Command{
	Use:   "assist",
	Short: "Writing assistant for draft text",
	Long: `Reviews draft text. The critique checks grammar, clarity, and academic
style; the similarity check compares the draft against the locally
indexed uploads to catch accidental restatement of sources.

Text is read from a file argument, or from standard input with '-'.`,
}

var critiqueCmd = &cobra.Command{
	Use:   "critique [file|-]",
	Short: "Critique grammar and style of draft text",
	Args:  cobra.ExactArgs(1),
	RunE:  runCritique,
}

var similarityCmd = &cobra.Command{
	Use:   "similarity [file|-]",
	Short: "Compare draft text against uploaded sources",
	Args:  cobra.ExactArgs(1),
	RunE:  runSimilarity,
}

func init() {
	similarityCmd.Flags().Int("limit", 5, "maximum number of matches")
	assistCmd.AddCommand(critiqueCmd)
	assistCmd.AddCommand(similarityCmd)
	rootCmd.AddCommand(assistCmd)
}

func readDraftArg(arg string) (string, error) {
	if arg == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(arg)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// newAssistant builds the assistant per config: backend-routed by
// default, direct OpenAI when configured.
func newAssistant(cfg *config.Config) (*assist.Assistant, error) {
	if cfg.Assistant.Mode == config.AssistOpenAI {
		apiKey := config.OpenAIAPIKey()
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable is required for assistant mode %q", cfg.Assistant.Mode)
		}
		provider := llm.NewOpenAIProvider(apiKey, cfg.Assistant.Model)
		return assist.NewDirect(provider, cfg.Assistant.Model), nil
	}
	return assist.New(newBackendClient(cfg)), nil
}

func runCritique(cmd *cobra.Command, args []string) error {
	text, err := readDraftArg(args[0])
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	assistant, err := newAssistant(cfg)
	if err != nil {
		return err
	}

	crit, err := assistant.CritiqueText(context.Background(), text)
	if err != nil {
		return fmt.Errorf("critique: %w", err)
	}

	fmt.Println(crit.Text)
	return nil
}

func runSimilarity(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")

	text, err := readDraftArg(args[0])
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	embedder, err := newEmbedder(cfg)
	if err != nil {
		return err
	}
	index, err := loadIndex(cfg, embedder)
	if err != nil {
		return err
	}
	if index.Count() == 0 {
		fmt.Println("Similarity index is empty. Run `graphdesk upload` first.")
		return nil
	}

	report, err := assist.CheckSimilarity(context.Background(), index, text, limit)
	if err != nil {
		return fmt.Errorf("similarity check: %w", err)
	}

	if report.Flagged {
		fmt.Println("Warning: the draft closely matches an uploaded source.")
	}
	if len(report.Matches) == 0 {
		fmt.Println("No similar passages found.")
		return nil
	}
	for i, m := range report.Matches {
		fmt.Printf("%d. %s (similarity %.2f)\n", i+1, m.Filename, m.Similarity)
		fmt.Printf("   %s\n\n", m.Chunk)
	}
	return nil
}
