package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/nselim/graphdesk/internal/config"
	"github.com/nselim/graphdesk/internal/graphrag"
	"github.com/nselim/graphdesk/internal/ingest"
	"github.com/nselim/graphdesk/internal/progress"
	"github.com/nselim/graphdesk/internal/simindex"
	"github.com/nselim/graphdesk/internal/tracker"
)

var uploadCmd = &cobra.Command{
	Use:   "upload [paths or globs...]",
	Short: "Upload documents into the knowledge base",
	Long: `Uploads documents to the GraphRAG backend. With no arguments the
include patterns from the config file are used. Already-uploaded files
are skipped unless their content changed or --force is given. A failed
file does not abort the batch.

Use --stdin to upload pasted text read from standard input.`,
	RunE: runUpload,
}

func init() {
	uploadCmd.Flags().Bool("force", false, "re-upload files even if unchanged")
	uploadCmd.Flags().Bool("stdin", false, "read document text from standard input")
	uploadCmd.Flags().String("name", "", "filename for --stdin uploads")
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")
	fromStdin, _ := cmd.Flags().GetBool("stdin")
	name, _ := cmd.Flags().GetString("name")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	client := newBackendClient(cfg)
	database, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer database.Close()
	tr := tracker.New(database)

	// The similarity index is optional: without an API key uploads still
	// work, only the local similarity check stays empty.
	var index *simindex.Index
	if embedder, err := newEmbedder(cfg); err == nil {
		if index, err = loadIndex(cfg, embedder); err != nil {
			return err
		}
	} else if verbose {
		fmt.Fprintf(os.Stderr, "similarity index disabled: %v\n", err)
	}

	ctx := context.Background()

	if fromStdin {
		return uploadStdin(ctx, client, tr, index, cfg, name)
	}

	patterns := args
	if len(patterns) == 0 {
		patterns = cfg.Upload.Include
	}

	files, err := discoverFiles(patterns, cfg.Upload.Exclude)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Println("No matching files found.")
		return nil
	}

	reporter := progress.NewReporter()
	reporter.Start(len(files))
	defer reporter.Finish()

	var uploaded, skipped, failed int
	var failures []string
	for i, path := range files {
		reporter.Update(i+1, filepath.Base(path))

		status, err := uploadFile(ctx, client, tr, index, cfg, path, force)
		switch {
		case err != nil:
			failed++
			failures = append(failures, fmt.Sprintf("%s: %v", path, err))
		case status == uploadSkipped:
			skipped++
		default:
			uploaded++
		}
	}
	reporter.Finish()

	fmt.Printf("Uploaded %d, skipped %d, failed %d.\n", uploaded, skipped, failed)
	for _, f := range failures {
		fmt.Fprintf(os.Stderr, "  failed: %s\n", f)
	}

	if index != nil {
		if err := index.Persist(cfg.DataDir); err != nil {
			return fmt.Errorf("persisting similarity index: %w", err)
		}
	}
	if failed > 0 && uploaded == 0 && skipped == 0 {
		return fmt.Errorf("all %d uploads failed", failed)
	}
	return nil
}

// discoverFiles expands glob patterns and filters excluded paths. Plain
// file paths pass through unchanged.
func discoverFiles(patterns, excludes []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
		}
		if matches == nil {
			// A glob matching nothing is fine, but a literal path that
			// does not exist is almost certainly a typo.
			if strings.ContainsAny(pattern, "*?[{") {
				continue
			}
			if _, statErr := os.Stat(pattern); statErr != nil {
				return nil, fmt.Errorf("no such file: %s", pattern)
			}
			matches = []string{pattern}
		}
	matchLoop:
		for _, m := range matches {
			info, err := os.Stat(m)
			if err != nil || info.IsDir() {
				continue
			}
			norm := filepath.ToSlash(m)
			for _, ex := range excludes {
				if ok, _ := doublestar.Match(ex, norm); ok {
					continue matchLoop
				}
			}
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}

	sort.Strings(files)
	return files, nil
}

type uploadStatus int

const (
	uploadDone uploadStatus = iota
	uploadSkipped
)

func uploadFile(ctx context.Context, client *graphrag.Client, tr *tracker.Tracker, index *simindex.Index, cfg *config.Config, path string, force bool) (uploadStatus, error) {
	info, err := os.Stat(path)
	if err != nil {
		return uploadDone, err
	}
	if cfg.Upload.MaxFileSize > 0 && info.Size() > cfg.Upload.MaxFileSize {
		return uploadDone, fmt.Errorf("file exceeds max size (%d bytes)", cfg.Upload.MaxFileSize)
	}

	hash, err := tracker.HashFile(path)
	if err != nil {
		return uploadDone, err
	}

	if !force {
		uploaded, err := tr.IsUploaded(ctx, path, hash)
		if err != nil {
			return uploadDone, err
		}
		if uploaded {
			return uploadSkipped, nil
		}
	}

	payload, err := ingest.BuildPayload(path)
	if err != nil {
		return uploadDone, err
	}

	if _, err := client.AddDocument(ctx, payload); err != nil {
		return uploadDone, err
	}

	rec := tracker.Record{
		Path:     path,
		Filename: payload.Filename,
		SHA256:   hash,
		Size:     info.Size(),
		FileType: string(payload.FileType),
	}
	if err := tr.MarkUploaded(ctx, rec); err != nil {
		return uploadDone, err
	}

	if index != nil {
		text, err := ingest.ExtractText(path)
		if err == nil && text != "" {
			if err := index.AddDocument(ctx, path, text); err != nil {
				return uploadDone, fmt.Errorf("indexing for similarity: %w", err)
			}
		}
	}

	return uploadDone, nil
}

func uploadStdin(ctx context.Context, client *graphrag.Client, tr *tracker.Tracker, index *simindex.Index, cfg *config.Config, name string) error {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("reading stdin: %w", err)
	}

	payload := ingest.BuildTextPayload(name, string(data))
	if _, err := client.AddDocument(ctx, payload); err != nil {
		return err
	}

	rec := tracker.Record{
		Path:     payload.Filename,
		Filename: payload.Filename,
		SHA256:   tracker.HashBytes(data),
		Size:     int64(len(data)),
		FileType: string(payload.FileType),
	}
	if err := tr.MarkUploaded(ctx, rec); err != nil {
		return err
	}

	if index != nil {
		if err := index.AddDocument(ctx, payload.Filename, string(data)); err != nil {
			return fmt.Errorf("indexing for similarity: %w", err)
		}
		if err := index.Persist(cfg.DataDir); err != nil {
			return fmt.Errorf("persisting similarity index: %w", err)
		}
	}

	fmt.Printf("Uploaded %s.\n", payload.Filename)
	return nil
}
