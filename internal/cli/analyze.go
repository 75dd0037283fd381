package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/veracity/internal/pipeline"
	"github.com/ppiankov/veracity/internal/report"
)

var (
	analyzeJSON       string
	analyzeTimeout    time.Duration
	analyzeRecognizer string
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Analyze article text and generate a credibility report",
	Long: `Analyze runs the credibility pipeline over a text file (or stdin):
- Extracts candidate factual claims
- Recognizes named entities
- Cross-references both against the knowledge source
- Scores overall credibility and flags weak claims

Example:
  veracity analyze article.txt
  veracity analyze article.txt --json report.json
  cat article.txt | veracity analyze
  veracity analyze article.txt --recognizer regex`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&analyzeJSON, "json", "-", "output JSON path (- for stdout)")
	analyzeCmd.Flags().DurationVar(&analyzeTimeout, "timeout", 30*time.Second, "overall analysis timeout")
	analyzeCmd.Flags().StringVar(&analyzeRecognizer, "recognizer", "", "entity recognizer (openai, regex; default auto)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	text, err := readInput(args)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), analyzeTimeout)
	defer cancel()

	cfg := loadConfig()
	if analyzeRecognizer != "" {
		cfg.Recognizer.Provider = analyzeRecognizer
	}

	p := pipeline.New(ctx, cfg)
	if verbose {
		fmt.Fprintf(os.Stderr, "Recognizer: %s\n", p.RecognizerName())
		fmt.Fprintf(os.Stderr, "Knowledge source: %s\n", p.SourceName())
		fmt.Fprintf(os.Stderr, "Input: %d bytes\n\n", len(text))
	}

	rep, err := p.Analyze(ctx, text)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if analyzeJSON == "-" {
		if err := report.WriteJSON(os.Stdout, rep); err != nil {
			return err
		}
		report.WriteSummary(os.Stderr, rep)
		return nil
	}

	f, err := os.Create(analyzeJSON)
	if err != nil {
		return fmt.Errorf("create %s: %w", analyzeJSON, err)
	}
	defer func() { _ = f.Close() }()
	if err := report.WriteJSON(f, rep); err != nil {
		return err
	}
	report.WriteSummary(os.Stdout, rep)
	if verbose {
		fmt.Fprintf(os.Stderr, "\nReport written to %s\n", analyzeJSON)
	}
	return nil
}

func readInput(args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("read %s: %w", args[0], err)
	}
	return string(data), nil
}
