package pipeline

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

var tagRe = regexp.MustCompile(`</?[a-zA-Z][^>]*>`)

// validateInput enforces the entry contract before any stage runs.
func validateInput(text string, maxBytes int) error {
	if maxBytes > 0 && len(text) > maxBytes {
		return &InputError{Reason: fmt.Sprintf("input is %d bytes, limit is %d", len(text), maxBytes)}
	}
	if !utf8.ValidString(text) {
		return &InputError{Reason: "input is not valid UTF-8"}
	}
	return nil
}

// stripMarkup extracts visible text when the input still carries HTML tags.
// Plain text passes through untouched.
func stripMarkup(text string) string {
	if !tagRe.MatchString(text) {
		return text
	}

	doc, err := html.Parse(strings.NewReader(text))
	if err != nil {
		// fall back to a crude strip rather than refusing the input
		return tagRe.ReplaceAllString(text, " ")
	}

	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			}
		}
		if n.Type == html.TextNode {
			trimmed := strings.TrimSpace(n.Data)
			if trimmed != "" {
				if sb.Len() > 0 {
					sb.WriteString(" ")
				}
				sb.WriteString(trimmed)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return sb.String()
}
