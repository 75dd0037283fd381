package model

import "strings"

// EntityLabel is the fixed category set for recognized entities.
type EntityLabel string

const (
	LabelPerson EntityLabel = "PERSON"
	LabelOrg    EntityLabel = "ORG"
	LabelGPE    EntityLabel = "GPE"
	LabelDate   EntityLabel = "DATE"
	LabelNumber EntityLabel = "NUMBER"
	LabelMisc   EntityLabel = "MISC"
)

// KnownLabel reports whether l is one of the fixed categories.
func KnownLabel(l EntityLabel) bool {
	switch l {
	case LabelPerson, LabelOrg, LabelGPE, LabelDate, LabelNumber, LabelMisc:
		return true
	}
	return false
}

// Entity is a named reference detected in the text. Description stays nil
// until the verifier resolves one from the knowledge source; it serializes
// as null when unresolved, per the report contract.
type Entity struct {
	Text        string      `json:"text"`        // surface form, first occurrence
	Canonical   string      `json:"-"`           // normalized form used for dedupe and lookup
	Label       EntityLabel `json:"label"`
	Description *string     `json:"description"`
	Start       int         `json:"-"` // byte span of the first occurrence
	End         int         `json:"-"`
}

// Resolvable reports whether the label names something the knowledge source
// can be asked about. Dates and numbers are never looked up and never count
// as unresolved.
func (e Entity) Resolvable() bool {
	switch e.Label {
	case LabelPerson, LabelOrg, LabelGPE, LabelMisc:
		return true
	}
	return false
}

// Key identifies an entity for dedupe within one analysis run.
func (e Entity) Key() string {
	return e.Canonical + "\x00" + string(e.Label)
}

// Canonicalize lowercases and collapses whitespace in a surface form.
func Canonicalize(surface string) string {
	return strings.ToLower(strings.Join(strings.Fields(surface), " "))
}
