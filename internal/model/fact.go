package model

// FactCategory classifies a checkable fact span.
type FactCategory string

const (
	FactNumericPercent FactCategory = "numeric_percent"
	FactDate           FactCategory = "date"
	FactCurrency       FactCategory = "currency"
	FactURL            FactCategory = "url"
	FactVersion        FactCategory = "version"
)

// ExtractedFact is a checkable span found in a response text.
// Created fresh per verification call; never persisted.
// Verifiable is cleared when there is nothing to check the span
// against (a non-URL fact with no context supplied); unverifiable
// facts keep their citation but never widen the scoring denominator.
type ExtractedFact struct {
	Span       string       `json:"span"`
	Category   FactCategory `json:"category"`
	Verifiable bool         `json:"verifiable"`
}

// CitationKindURL and CitationKindClaimed label citations for URL
// reachability checks and caller-claimed sources; fact citations use
// the fact category name as their kind.
const (
	CitationKindURL     = "url"
	CitationKindClaimed = "claimed"
)

// Citation records the verification outcome for one fact or claimed source.
// Citations are ordered: facts in extraction order first, then claimed
// sources in the order the caller supplied them.
type Citation struct {
	Source   string `json:"source"`
	Verified bool   `json:"verified"`
	Snippet  string `json:"snippet,omitempty"`
	Kind     string `json:"kind"`
}

// VerificationVerdict is the final decision for a response text.
type VerificationVerdict struct {
	Verified     bool       `json:"verified"`
	Confidence   float64    `json:"confidence"` // In [0,1], rounded to 2 decimals
	Citations    []Citation `json:"citations"`
	Warnings     []string   `json:"warnings,omitempty"`
	ModifiedText string     `json:"modified_text,omitempty"` // Original text + disclaimer when unverified with warnings
}

// SourceCheck is the result of checking a single source in isolation.
type SourceCheck struct {
	Source  string `json:"source"`
	Found   bool   `json:"found"`
	Snippet string `json:"snippet,omitempty"`
	URL     string `json:"url,omitempty"`
}
