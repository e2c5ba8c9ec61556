package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nselim/graphdesk/internal/graphrag"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about the uploaded documents",
	Long: `Sends a question to the GraphRAG backend, which answers from the
knowledge graph built over your documents. With --interactive, starts
a read-eval loop for follow-up questions.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolP("interactive", "i", false, "interactive question loop")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	interactive, _ := cmd.Flags().GetBool("interactive")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client := newBackendClient(cfg)
	ctx := context.Background()

	if !interactive {
		if len(args) == 0 {
			return fmt.Errorf("provide a question or use --interactive")
		}
		return askOnce(ctx, client, args[0])
	}

	fmt.Println("Interactive mode. Type a question, or 'exit' to quit.")
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		if question == "exit" || question == "quit" {
			break
		}
		if err := askOnce(ctx, client, question); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}
	return scanner.Err()
}

func askOnce(ctx context.Context, client *graphrag.Client, question string) error {
	answer, err := client.Query(ctx, question)
	if err != nil {
		return err
	}
	fmt.Println(answer.Answer)
	return nil
}
