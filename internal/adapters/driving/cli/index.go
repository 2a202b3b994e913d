package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
)

var indexReset bool

var indexCmd = &cobra.Command{
	Use:   "index [path]",
	Short: "Index a document or directory",
	Long: `Parses, chunks, embeds and indexes a document into the vector store.
Given a directory, every supported file in it is indexed in sorted
order; files that fail are skipped and reported.

Supported formats: .txt, .md, .markdown, .pdf (requires pdftotext).`,
	Args: cobra.ExactArgs(1),
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().BoolVar(&indexReset, "reset", false, "drop the existing index first")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	ctx := context.Background()
	path := args[0]

	if indexReset {
		if err := ingestService.Reset(ctx); err != nil {
			return fmt.Errorf("resetting index: %w", err)
		}
		cmd.Println("Index dropped.")
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	if !info.IsDir() {
		n, err := ingestService.IngestFile(ctx, path)
		if err != nil {
			return fmt.Errorf("indexing %s: %w", path, err)
		}
		cmd.Printf("Indexed %s: %d chunks\n", path, n)
		return nil
	}

	report, err := ingestService.IngestDir(ctx, path)
	if err != nil {
		return fmt.Errorf("indexing %s: %w", path, err)
	}

	cmd.Printf("Indexed %d files, %d chunks\n", report.FilesIndexed, report.ChunksIndexed)

	if len(report.Skipped) > 0 {
		var skipped []string
		for p := range report.Skipped {
			skipped = append(skipped, p)
		}
		sort.Strings(skipped)

		cmd.Printf("Skipped %d files:\n", len(skipped))
		for _, p := range skipped {
			cmd.Printf("  %s: %v\n", p, report.Skipped[p])
		}
	}

	return nil
}
