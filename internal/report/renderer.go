package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/ppiankov/veracity/internal/model"
)

const claimColumnWidth = 56

// WriteJSON renders the report as indented JSON.
func WriteJSON(w io.Writer, r *model.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

// WriteSummary renders a human-readable terminal summary. Column widths are
// display widths, so wide characters keep the table aligned.
func WriteSummary(w io.Writer, r *model.Report) {
	fmt.Fprintf(w, "Credibility score: %d/100 (%s)\n", r.OverallScore, verdict(r.OverallScore))
	fmt.Fprintf(w, "Flagged claims: %d   Entities: %d   Sources: %d\n",
		len(r.FlaggedClaims), len(r.Entities), len(r.CredibleSources))

	if len(r.FlaggedClaims) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "%s  %5s  %s\n", pad("CLAIM", claimColumnWidth), "CONF", "ISSUES")
		fmt.Fprintf(w, "%s  %5s  %s\n", strings.Repeat("-", claimColumnWidth), "-----", "------")
		for _, c := range r.FlaggedClaims {
			text := runewidth.Truncate(c.Text, claimColumnWidth, "...")
			conf := int(math.Round(c.Confidence * 100))
			fmt.Fprintf(w, "%s  %4d%%  %s\n", pad(text, claimColumnWidth), conf, strings.Join(c.Issues, "; "))
		}
	}

	if len(r.CredibleSources) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Sources:")
		for _, s := range r.CredibleSources {
			fmt.Fprintf(w, "  - %s (%s) %s\n", s.Title, s.SourceName, s.URL)
		}
	}
}

func pad(s string, width int) string {
	return s + strings.Repeat(" ", max(0, width-runewidth.StringWidth(s)))
}

func verdict(score int) string {
	switch {
	case score >= 80:
		return "credible"
	case score >= 50:
		return "questionable"
	default:
		return "low credibility"
	}
}
