package verify

import (
	"math"

	"github.com/veracitylab/veracity/internal/model"
)

// Tally counts the checks behind one verdict.
type Tally struct {
	Facts           int // All extracted facts
	VerifiableFacts int // Facts that had something to be checked against
	ClaimedSources  int
	Verified        int // Verified facts plus verified claimed sources
}

// Scorer turns extraction and verification results into a confidence
// value and a verdict.
type Scorer struct {
	allowVacuous bool
	disclaimer   string
}

// NewScorer creates a scorer. When allowVacuous is false, a text with
// zero checkable facts and zero claimed sources can never be marked
// verified, regardless of confidence.
func NewScorer(allowVacuous bool, disclaimer string) *Scorer {
	if disclaimer == "" {
		disclaimer = model.DefaultDisclaimer
	}
	return &Scorer{allowVacuous: allowVacuous, disclaimer: disclaimer}
}

// ScoreAndDecide combines fact counts, verification outcomes, and
// warnings into a verdict.
//
// Base confidence is the fraction of verifiable facts that verified.
// Unverifiable facts (no context to check a non-URL span against)
// never widen the denominator; with zero verifiable facts there is
// nothing to check, so the base falls back to 0.7 when the caller
// supplied sources and 0.5 when it did not. Each warning subtracts
// 0.1; the result is clamped to [0,1] and rounded to two decimals.
// Claimed-source verifications count toward Tally.Verified but never
// widen the denominator.
func (s *Scorer) ScoreAndDecide(originalText string, tally Tally, citations []model.Citation, warnings []string, uncertaintyCount int) *model.VerificationVerdict {
	var base float64
	switch {
	case tally.VerifiableFacts > 0:
		base = float64(tally.Verified) / float64(tally.VerifiableFacts)
	case tally.ClaimedSources > 0:
		base = 0.7
	default:
		base = 0.5
	}

	confidence := base - 0.1*float64(len(warnings))
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}
	confidence = math.Round(confidence*100) / 100

	totalChecks := tally.Facts + tally.ClaimedSources
	vacuous := totalChecks == 0

	verified := confidence > 0.6 &&
		uncertaintyCount < 3 &&
		(tally.Verified > 0 || (vacuous && s.allowVacuous))

	verdict := &model.VerificationVerdict{
		Verified:   verified,
		Confidence: confidence,
		Citations:  citations,
		Warnings:   warnings,
	}

	if !verified && len(warnings) > 0 {
		verdict.ModifiedText = originalText + "\n\n" + s.disclaimer
	}

	return verdict
}
