package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nselim/graphdesk/internal/graphrag"
	"github.com/nselim/graphdesk/internal/review"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Generate and refine literature reviews",
	Long: `Drives the backend's multi-phase literature review pipeline and keeps
every draft locally. Draft 0 is the first generation; each refinement
appends a new draft.`,
}

var reviewGenerateCmd = &cobra.Command{
	Use:   "generate [topic]",
	Short: "Generate a literature review on a topic",
	Args:  cobra.ExactArgs(1),
	RunE:  runReviewGenerate,
}

var reviewRefineCmd = &cobra.Command{
	Use:   "refine [refinement-type]",
	Short: "Refine the latest draft",
	Long: `Sends a draft back to the backend for focused refinement. Valid types:
improve_analysis, enhance_synthesis, strengthen_critique, improve_writing.`,
	Args: cobra.ExactArgs(1),
	RunE: runReviewRefine,
}

var reviewListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored drafts",
	RunE:  runReviewList,
}

var reviewShowCmd = &cobra.Command{
	Use:   "show [ordinal]",
	Short: "Print a draft (latest when no ordinal is given)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runReviewShow,
}

var reviewExportCmd = &cobra.Command{
	Use:   "export [ordinal]",
	Short: "Export a draft as a standalone HTML page",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runReviewExport,
}

func init() {
	reviewGenerateCmd.Flags().String("type", "systematic", "review type: systematic, narrative, scoping")
	reviewRefineCmd.Flags().Int("draft", -1, "ordinal of the draft to refine (default latest)")
	reviewRefineCmd.Flags().String("feedback", "", "specific feedback for the refinement")
	reviewExportCmd.Flags().StringP("output", "o", "", "output file (default review-draft-N.html)")

	reviewCmd.AddCommand(reviewGenerateCmd)
	reviewCmd.AddCommand(reviewRefineCmd)
	reviewCmd.AddCommand(reviewListCmd)
	reviewCmd.AddCommand(reviewShowCmd)
	reviewCmd.AddCommand(reviewExportCmd)
	rootCmd.AddCommand(reviewCmd)
}

// openDrafts opens the local store shared by the review subcommands.
func openDrafts() (*review.Store, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	database, err := openDatabase(cfg)
	if err != nil {
		return nil, nil, err
	}
	return review.NewStore(database), func() { database.Close() }, nil
}

func runReviewGenerate(cmd *cobra.Command, args []string) error {
	reviewType, _ := cmd.Flags().GetString("type")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	database, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	client := newBackendClient(cfg)
	ctx := context.Background()

	fmt.Printf("Generating %s review on %q. This runs the full backend pipeline and can take several minutes.\n", reviewType, args[0])

	proc, err := client.GenerateReview(ctx, args[0], reviewType)
	if err != nil {
		return fmt.Errorf("generating review: %w", err)
	}

	for _, phase := range proc.Phases {
		fmt.Printf("  %-12s %s\n", phase.Phase, phase.Status)
	}

	draft, err := review.NewStore(database).SaveGenerated(ctx, proc, reviewType)
	if err != nil {
		return fmt.Errorf("saving draft: %w", err)
	}

	fmt.Printf("\nSaved draft %d (%d words). View with `graphdesk review show`.\n",
		draft.Ordinal, draft.WordCount())
	return nil
}

func runReviewRefine(cmd *cobra.Command, args []string) error {
	ordinal, _ := cmd.Flags().GetInt("draft")
	feedback, _ := cmd.Flags().GetString("feedback")
	refinementType := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	database, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	store := review.NewStore(database)
	ctx := context.Background()

	var source *review.Draft
	if ordinal >= 0 {
		source, err = store.GetByOrdinal(ctx, ordinal)
	} else {
		source, err = store.Latest(ctx)
	}
	if err != nil {
		return fmt.Errorf("loading draft: %w", err)
	}

	client := newBackendClient(cfg)
	resp, err := client.RefineSection(ctx, graphrag.RefineRequest{
		SectionContent: source.Content,
		RefinementType: graphrag.RefinementType(refinementType),
		Feedback:       feedback,
	})
	if err != nil {
		return fmt.Errorf("refining draft: %w", err)
	}

	draft, err := store.SaveRefined(ctx, source, refinementType, resp.RefinedSection)
	if err != nil {
		return fmt.Errorf("saving refined draft: %w", err)
	}

	fmt.Printf("Saved draft %d (%s of draft %d, %d words).\n",
		draft.Ordinal, refinementType, source.Ordinal, draft.WordCount())
	for _, imp := range resp.Improvements {
		fmt.Printf("  - %s\n", imp)
	}
	return nil
}

func runReviewList(cmd *cobra.Command, args []string) error {
	store, cleanup, err := openDrafts()
	if err != nil {
		return err
	}
	defer cleanup()

	drafts, err := store.List(context.Background())
	if err != nil {
		return err
	}
	if len(drafts) == 0 {
		fmt.Println("No drafts yet. Run `graphdesk review generate <topic>` first.")
		return nil
	}

	for _, d := range drafts {
		tag := d.ReviewType
		if d.RefinementType != "" {
			tag = d.RefinementType
		}
		fmt.Printf("  %2d  %-24s %6d words   %s   %s\n",
			d.Ordinal, tag, d.WordCount(), d.CreatedAt.Format("2006-01-02 15:04"), d.Topic)
	}
	return nil
}

// resolveDraft loads by ordinal argument, or the latest draft without one.
func resolveDraft(ctx context.Context, store *review.Store, args []string) (*review.Draft, error) {
	if len(args) == 0 {
		return store.Latest(ctx)
	}
	ordinal, err := strconv.Atoi(args[0])
	if err != nil {
		return nil, fmt.Errorf("bad ordinal %q", args[0])
	}
	return store.GetByOrdinal(ctx, ordinal)
}

func runReviewShow(cmd *cobra.Command, args []string) error {
	store, cleanup, err := openDrafts()
	if err != nil {
		return err
	}
	defer cleanup()

	draft, err := resolveDraft(context.Background(), store, args)
	if err != nil {
		return err
	}

	fmt.Println(draft.Content)
	return nil
}

func runReviewExport(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")

	store, cleanup, err := openDrafts()
	if err != nil {
		return err
	}
	defer cleanup()

	draft, err := resolveDraft(context.Background(), store, args)
	if err != nil {
		return err
	}

	page, err := review.ExportHTML(draft)
	if err != nil {
		return fmt.Errorf("rendering HTML: %w", err)
	}

	if output == "" {
		output = fmt.Sprintf("review-draft-%d.html", draft.Ordinal)
	}
	if err := os.WriteFile(output, page, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}

	fmt.Printf("Exported draft %d to %s.\n", draft.Ordinal, output)
	return nil
}
