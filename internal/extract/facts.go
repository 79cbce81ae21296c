package extract

import (
	"regexp"

	"github.com/veracitylab/veracity/internal/model"
)

// factPattern binds a fact category to its span pattern.
type factPattern struct {
	category model.FactCategory
	re       *regexp.Regexp
}

// defaultFactPatterns is the ordered category table. Facts are emitted
// in pattern order, then position order within a pattern. Overlapping
// matches across categories are all kept: a false positive becomes a
// citation marked unverifiable rather than a silently dropped claim.
var defaultFactPatterns = []factPattern{
	{model.FactNumericPercent, regexp.MustCompile(`\d+(?:\.\d+)?%`)},
	{model.FactDate, regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b|\b(?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2},?\s+\d{4}\b`)},
	{model.FactCurrency, regexp.MustCompile(`\$\d+(?:,\d{3})*(?:\.\d+)?`)},
	{model.FactURL, regexp.MustCompile(`https?://[^\s)>\]]+`)},
	{model.FactVersion, regexp.MustCompile(`(?i)\bversion\s+\d+(?:\.\d+)+|\bv\d+(?:\.\d+)+\b`)},
}

// FactExtractor scans text for checkable fact spans.
type FactExtractor struct {
	patterns []factPattern
}

// NewFactExtractor creates a fact extractor with the default category table.
func NewFactExtractor() *FactExtractor {
	return &FactExtractor{patterns: defaultFactPatterns}
}

// Extract emits one fact per pattern match, in pattern-order-then-position order.
func (e *FactExtractor) Extract(text string) []model.ExtractedFact {
	var facts []model.ExtractedFact

	for _, p := range e.patterns {
		for _, span := range p.re.FindAllString(text, -1) {
			facts = append(facts, model.ExtractedFact{
				Span:       span,
				Category:   p.category,
				Verifiable: true,
			})
		}
	}

	return facts
}
