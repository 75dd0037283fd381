package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/ppiankov/veracity/internal/model"
	"github.com/ppiankov/veracity/internal/pipeline"
	"github.com/ppiankov/veracity/internal/report"
	"github.com/ppiankov/veracity/internal/worker"
)

var (
	batchWorkers int
	batchOutDir  string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <list-file>",
	Short: "Analyze many text files listed in a file",
	Long: `Batch analyzes every text file named in the list file (one path per
line, blank lines and # comments ignored) through a worker pool and prints
a per-file summary. With --out-dir, each file also gets a JSON report.

Example:
  veracity batch articles.txt
  veracity batch articles.txt --workers 8 --out-dir reports/`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&batchWorkers, "workers", 4, "concurrent analyses")
	batchCmd.Flags().StringVar(&batchOutDir, "out-dir", "", "directory for per-file JSON reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 5*time.Minute, "overall batch timeout")
}

func runBatch(cmd *cobra.Command, args []string) error {
	paths, err := readListFile(args[0])
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("list file %s names no input files", args[0])
	}

	if batchOutDir != "" {
		if err := os.MkdirAll(batchOutDir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg := loadConfig()
	p := pipeline.New(ctx, cfg)
	if verbose {
		fmt.Fprintf(os.Stderr, "Analyzing %d files with %d workers\n\n", len(paths), batchWorkers)
	}

	results := worker.NewBatchProcessor(p, batchWorkers).ProcessFiles(ctx, paths)

	const pathWidth = 48
	fmt.Printf("%s  %5s  %7s\n", pad("FILE", pathWidth), "SCORE", "FLAGGED")
	fmt.Printf("%s  %5s  %7s\n", strings.Repeat("-", pathWidth), "-----", "-------")

	failures := 0
	for _, r := range results {
		name := runewidth.Truncate(r.Path, pathWidth, "...")
		if r.Err != nil {
			failures++
			fmt.Printf("%s  %5s  %7s\n", pad(name, pathWidth), "-", "error")
			fmt.Fprintf(os.Stderr, "Error: %s: %v\n", r.Path, r.Err)
			continue
		}
		fmt.Printf("%s  %5d  %7d\n", pad(name, pathWidth), r.Report.OverallScore, len(r.Report.FlaggedClaims))

		if batchOutDir != "" {
			if err := writeReportFile(r.Path, r.Report); err != nil {
				failures++
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
		}
	}

	if failures > 0 {
		return fmt.Errorf("%d of %d files failed", failures, len(results))
	}
	return nil
}

func readListFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open list file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var paths []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		paths = append(paths, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read list file: %w", err)
	}
	return paths, nil
}

func writeReportFile(inputPath string, rep *model.Report) error {
	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	outPath := filepath.Join(batchOutDir, base+".report.json")

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", outPath, err)
	}
	defer func() { _ = f.Close() }()
	if err := report.WriteJSON(f, rep); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}
	return nil
}

func pad(s string, width int) string {
	if w := runewidth.StringWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
