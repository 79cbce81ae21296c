package extract

import (
	"fmt"
	"regexp"
	"strings"
)

// Signals groups the uncertainty and contradiction warnings found in a text.
type Signals struct {
	Uncertainty    []string `json:"uncertainty,omitempty"`
	Contradictions []string `json:"contradictions,omitempty"`
}

// Warnings returns uncertainty warnings followed by contradiction warnings.
func (s Signals) Warnings() []string {
	out := make([]string, 0, len(s.Uncertainty)+len(s.Contradictions))
	out = append(out, s.Uncertainty...)
	out = append(out, s.Contradictions...)
	return out
}

// defaultHedgePhrases are scanned case-insensitively; each phrase present
// in the text contributes exactly one warning, however often it occurs.
var defaultHedgePhrases = []string{
	"i think",
	"i believe",
	"probably",
	"possibly",
	"might be",
	"not sure",
	"as far as i know",
	"as of my knowledge",
	"if i recall",
}

// polarityPair is a pair of mutually exclusive absolutes. Both sides
// present anywhere in the text counts as a contradiction.
type polarityPair struct {
	label string
	a, b  *regexp.Regexp
}

func newPolarityPair(a, b string) polarityPair {
	return polarityPair{
		label: a + "/" + b,
		a:     regexp.MustCompile(`(?i)\b` + a + `\b`),
		b:     regexp.MustCompile(`(?i)\b` + b + `\b`),
	}
}

var defaultPolarityPairs = []polarityPair{
	newPolarityPair("always", "never"),
	newPolarityPair("all", "none"),
	newPolarityPair("everyone", "no one"),
	newPolarityPair("everything", "nothing"),
}

// SignalDetector scans text for hedged language and self-contradiction.
type SignalDetector struct {
	hedges []string
	pairs  []polarityPair
}

// NewSignalDetector creates a detector with the default phrase tables.
func NewSignalDetector() *SignalDetector {
	return &SignalDetector{
		hedges: defaultHedgePhrases,
		pairs:  defaultPolarityPairs,
	}
}

// Detect scans the text against both tables. Contradiction checking
// stops at the first pair with both polarities present, so that check
// contributes at most one warning.
func (d *SignalDetector) Detect(text string) Signals {
	lower := strings.ToLower(text)

	var sig Signals
	for _, phrase := range d.hedges {
		if strings.Contains(lower, phrase) {
			sig.Uncertainty = append(sig.Uncertainty, fmt.Sprintf("uncertain language: %q", phrase))
		}
	}

	for _, pair := range d.pairs {
		if pair.a.MatchString(text) && pair.b.MatchString(text) {
			sig.Contradictions = append(sig.Contradictions, "response contains contradictory statements")
			break
		}
	}

	return sig
}
