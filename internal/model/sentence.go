package model

// Sentence is a single sentence span produced by the segmenter.
// Spans are byte offsets into the original input, in document order.
type Sentence struct {
	Text  string `json:"text"`
	Start int    `json:"start_offset"`
	End   int    `json:"end_offset"`
}
