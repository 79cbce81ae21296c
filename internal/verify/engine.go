package verify

import (
	"context"
	"sync"

	"github.com/veracitylab/veracity/internal/cache"
	"github.com/veracitylab/veracity/internal/extract"
	"github.com/veracitylab/veracity/internal/model"
)

// Engine is the verification pipeline: extract facts and signals,
// verify each fact and claimed source, score, and cache the verdict.
type Engine struct {
	extractor *extract.FactExtractor
	signals   *extract.SignalDetector
	verifier  *Verifier
	scorer    *Scorer
	cache     *cache.VerdictCache
	workers   int
}

// NewEngine assembles a verification engine from its parts.
func NewEngine(verifier *Verifier, scorer *Scorer, verdictCache *cache.VerdictCache, workers int) *Engine {
	if workers <= 0 {
		workers = 4
	}
	return &Engine{
		extractor: extract.NewFactExtractor(),
		signals:   extract.NewSignalDetector(),
		verifier:  verifier,
		scorer:    scorer,
		cache:     verdictCache,
		workers:   workers,
	}
}

// check is one unit of verification work: either a fact or a claimed source.
type check struct {
	fact    *model.ExtractedFact
	claimed string
}

type checkResult struct {
	verified bool
	snippet  string
}

// Verify produces a verdict for responseText, consulting the cache
// first. Verdicts are keyed by the exact response text, so repeated
// verification of the same text within the TTL is answered without
// recomputation.
func (e *Engine) Verify(ctx context.Context, responseText string, claimedSources []string, contextBlob map[string]interface{}) (*model.VerificationVerdict, error) {
	return e.cache.GetOrCompute(ctx, responseText, func(ctx context.Context) (*model.VerificationVerdict, error) {
		return e.compute(ctx, responseText, claimedSources, contextBlob)
	})
}

func (e *Engine) compute(ctx context.Context, responseText string, claimedSources []string, contextBlob map[string]interface{}) (*model.VerificationVerdict, error) {
	facts := e.extractor.Extract(responseText)
	signals := e.signals.Detect(responseText)
	warnings := signals.Warnings()

	// A non-URL fact with no context has nothing to be checked against.
	// It still gets a citation, but it must not widen the scoring
	// denominator.
	verifiableFacts := 0
	for i := range facts {
		if contextBlob == nil && facts[i].Category != model.FactURL && !IsURL(facts[i].Span) {
			facts[i].Verifiable = false
			continue
		}
		verifiableFacts++
	}

	checks := make([]check, 0, len(facts)+len(claimedSources))
	for i := range facts {
		checks = append(checks, check{fact: &facts[i]})
	}
	for _, src := range claimedSources {
		checks = append(checks, check{claimed: src})
	}

	// Checks run with bounded parallelism; results land at their own
	// index so citation order stays extraction-then-claim order no
	// matter which check finishes first.
	results := make([]checkResult, len(checks))
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, e.workers)

	for i, c := range checks {
		wg.Add(1)
		go func(idx int, c check) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				results[idx] = checkResult{verified: false, snippet: "context cancelled"}
				return
			case semaphore <- struct{}{}:
			}
			defer func() { <-semaphore }()

			var verified bool
			var snippet string
			if c.fact != nil {
				verified, snippet = e.verifier.VerifyFact(ctx, *c.fact, contextBlob)
			} else {
				verified, snippet = e.verifier.VerifyClaimedSource(ctx, c.claimed, contextBlob)
			}
			results[idx] = checkResult{verified: verified, snippet: snippet}
		}(i, c)
	}
	wg.Wait()

	// A cancelled computation must leave the cache key absent: the
	// degraded all-unverified results would otherwise be served to
	// later callers for the full TTL.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	citations := make([]model.Citation, 0, len(checks))
	verifiedCount := 0
	for i, c := range checks {
		res := results[i]
		if res.verified {
			verifiedCount++
		}

		citation := model.Citation{
			Verified: res.verified,
			Snippet:  res.snippet,
		}
		if c.fact != nil {
			citation.Source = c.fact.Span
			citation.Kind = string(c.fact.Category)
		} else {
			citation.Source = c.claimed
			if IsURL(c.claimed) {
				citation.Kind = model.CitationKindURL
			} else {
				citation.Kind = model.CitationKindClaimed
			}
		}
		citations = append(citations, citation)
	}

	verdict := e.scorer.ScoreAndDecide(responseText, Tally{
		Facts:           len(facts),
		VerifiableFacts: verifiableFacts,
		ClaimedSources:  len(claimedSources),
		Verified:        verifiedCount,
	}, citations, warnings, len(signals.Uncertainty))
	return verdict, nil
}
