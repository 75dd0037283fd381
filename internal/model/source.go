package model

// Source is a corroborating reference returned by a knowledge lookup.
// Sources are ephemeral: produced per lookup, collected into the report,
// never persisted.
type Source struct {
	Title      string  `json:"title"`
	URL        string  `json:"url"`
	Snippet    string  `json:"snippet"`
	SourceName string  `json:"source"`
	Relevance  float64 `json:"-"` // normalized token overlap in [0,1]
}
