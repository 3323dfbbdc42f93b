package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/okonar/birdwatch/internal/pipeline"
	"github.com/okonar/birdwatch/internal/worker"
)

var (
	batchConcurrency int
	batchOutputDir   string
	batchTimeout     time.Duration
	batchMarkdown    bool
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Analyze many handles from a file",
	Long: `Batch reads handles from a file (one per line, # comments and
blank lines skipped) and analyzes them concurrently, writing one
report per handle into the output directory.

Example:
  birdwatch batch handles.txt
  birdwatch batch handles.txt -c 8 --output-dir reports/ --md`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVarP(&batchConcurrency, "concurrency", "c", 4, "number of concurrent analyses")
	batchCmd.Flags().StringVar(&batchOutputDir, "output-dir", "reports", "directory for per-handle reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 15*time.Minute, "overall batch timeout")
	batchCmd.Flags().BoolVar(&batchMarkdown, "md", false, "also write Markdown reports")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable cache (force fresh lookups)")
	batchCmd.Flags().StringVar(&cacheDir, "cache-dir", "", "persist lookup cache to this directory")
}

func runBatch(cmd *cobra.Command, args []string) error {
	handlesFile := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(batchOutputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	logger := newLogger()
	defer func() { _ = logger.Sync() }()

	p := pipeline.NewPipeline(cfg, logger)
	processor := worker.NewBatchProcessor(p, batchConcurrency)

	fmt.Fprintf(os.Stderr, "Batch analysis: %s (concurrency %d)\n\n", handlesFile, batchConcurrency)

	results, err := processor.ProcessFile(ctx, handlesFile)
	if err != nil {
		return err
	}

	sort.Slice(results, func(i, j int) bool {
		return strings.ToLower(results[i].Handle) < strings.ToLower(results[j].Handle)
	})

	var failed int
	for _, res := range results {
		if res.Error != nil {
			failed++
			fmt.Fprintf(os.Stderr, "✗ @%s: %v\n", res.Handle, res.Error)
			continue
		}

		base := filepath.Join(batchOutputDir, strings.ToLower(res.Handle))
		mdPath := ""
		if batchMarkdown {
			mdPath = base + ".md"
		}
		if err := p.RenderReport(res.Report, base+".json", mdPath, false); err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "✗ @%s: write report: %v\n", res.Handle, err)
			continue
		}

		fmt.Fprintf(os.Stderr, "✓ @%-15s %3d/100 (%s)\n", res.Handle, res.Report.Score, res.Report.RiskLevel)
	}

	fmt.Fprintf(os.Stderr, "\nDone: %d analyzed, %d failed\n", len(results)-failed, failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d handles failed", failed, len(results))
	}
	return nil
}
