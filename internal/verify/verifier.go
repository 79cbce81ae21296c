package verify

import (
	"context"

	"github.com/veracitylab/veracity/internal/model"
)

// Verifier resolves support for extracted facts and claimed sources.
// URLs are checked for reachability; everything else is matched against
// the caller-supplied context blob.
type Verifier struct {
	urls *URLChecker
}

// NewVerifier creates a verifier backed by the given URL checker.
func NewVerifier(urls *URLChecker) *Verifier {
	return &Verifier{urls: urls}
}

// VerifyFact checks one extracted fact. URL facts are verified by
// reachability; all other categories by presence in the context blob.
func (v *Verifier) VerifyFact(ctx context.Context, fact model.ExtractedFact, blob map[string]interface{}) (bool, string) {
	if fact.Category == model.FactURL || IsURL(fact.Span) {
		return v.urls.Check(ctx, fact.Span)
	}
	return contextContains(blob, fact.Span)
}

// VerifyClaimedSource checks one caller-asserted source string.
func (v *Verifier) VerifyClaimedSource(ctx context.Context, source string, blob map[string]interface{}) (bool, string) {
	if IsURL(source) {
		return v.urls.Check(ctx, source)
	}
	return contextContains(blob, source)
}
