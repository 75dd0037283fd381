package verify

import "testing"

func TestOverlap(t *testing.T) {
	tests := []struct {
		name    string
		claim   string
		extract string
		min     float64
		max     float64
	}{
		{"identical", "chimpanzees used tools", "chimpanzees used tools", 0.99, 1.0},
		{"disjoint", "chimpanzees used tools", "stock markets fell sharply", 0, 0},
		{"partial", "chimpanzees used stone tools daily", "chimpanzees used tools", 0.5, 0.7},
		{"empty claim", "", "anything at all", 0, 0},
		{"stopwords only", "the of and", "the of and", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := overlap(tt.claim, tt.extract)
			if got < tt.min || got > tt.max {
				t.Errorf("overlap(%q, %q) = %f, want within [%f, %f]", tt.claim, tt.extract, got, tt.min, tt.max)
			}
		})
	}
}

func TestNumericTokens(t *testing.T) {
	got := numericTokens("Revenue rose 1,500 percent to 3.5 million in 2023.")

	for _, want := range []string{"1500", "3.5", "2023"} {
		if !got[want] {
			t.Errorf("Expected numeric token %q in %v", want, got)
		}
	}
}

func TestNumbersDisjoint(t *testing.T) {
	a := map[string]bool{"45": true}
	b := map[string]bool{"62": true}
	shared := map[string]bool{"45": true, "62": true}
	empty := map[string]bool{}

	if !numbersDisjoint(a, b) {
		t.Error("Expected {45} and {62} disjoint")
	}
	if numbersDisjoint(a, shared) {
		t.Error("Expected shared member to defeat disjointness")
	}
	if numbersDisjoint(a, empty) || numbersDisjoint(empty, b) {
		t.Error("Expected empty set never to read as a contradiction")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("Expected untouched string, got %q", got)
	}
	got := truncate("a long description that exceeds the limit", 12)
	if len([]rune(got)) > 15 {
		t.Errorf("Expected truncation near 12 runes, got %q", got)
	}
}

func TestClaimQuery(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"Jane Goodall reported that chimpanzees used tools.", "Jane Goodall"},
		{"Shares of Acme Corp fell sharply on Monday.", "Acme Corp"},
		{"The ocean covers most of the planet surface area.", "ocean covers most planet"},
	}

	for _, tt := range tests {
		if got := claimQuery(tt.text); got != tt.want {
			t.Errorf("claimQuery(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}
