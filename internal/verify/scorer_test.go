package verify

import (
	"strings"
	"testing"

	"github.com/veracitylab/veracity/internal/model"
)

func TestScoreAndDecide_FactRatio(t *testing.T) {
	scorer := NewScorer(true, "")

	verdict := scorer.ScoreAndDecide("text", Tally{Facts: 2, VerifiableFacts: 2, Verified: 1}, nil, nil, 0)
	if verdict.Confidence != 0.5 {
		t.Errorf("Expected confidence 0.5, got %v", verdict.Confidence)
	}
	if verdict.Verified {
		t.Error("Expected unverified at confidence 0.5")
	}
}

func TestScoreAndDecide_AllFactsVerified(t *testing.T) {
	scorer := NewScorer(true, "")

	verdict := scorer.ScoreAndDecide("text", Tally{Facts: 3, VerifiableFacts: 3, Verified: 3}, nil, nil, 0)
	if verdict.Confidence != 1.0 {
		t.Errorf("Expected confidence 1.0, got %v", verdict.Confidence)
	}
	if !verdict.Verified {
		t.Error("Expected verified with all facts confirmed")
	}
	if verdict.ModifiedText != "" {
		t.Errorf("Expected no modified text, got %q", verdict.ModifiedText)
	}
}

func TestScoreAndDecide_UnverifiableFactsFallBack(t *testing.T) {
	scorer := NewScorer(true, "")

	// One extracted fact but nothing to check it against: the base
	// falls back to 0.5, one warning brings it to 0.4.
	verdict := scorer.ScoreAndDecide("text", Tally{Facts: 1, VerifiableFacts: 0}, nil, []string{"w"}, 1)
	if verdict.Confidence != 0.4 {
		t.Errorf("Expected confidence 0.4, got %v", verdict.Confidence)
	}
	if verdict.Verified {
		t.Error("Expected unverified")
	}
}

func TestScoreAndDecide_Rounding(t *testing.T) {
	scorer := NewScorer(true, "")

	verdict := scorer.ScoreAndDecide("text", Tally{Facts: 3, VerifiableFacts: 3, Verified: 1}, nil, nil, 0)
	if verdict.Confidence != 0.33 {
		t.Errorf("Expected confidence 0.33, got %v", verdict.Confidence)
	}
}

func TestScoreAndDecide_WarningPenaltyAndClamp(t *testing.T) {
	scorer := NewScorer(true, "")

	warnings := []string{"w1", "w2", "w3", "w4", "w5", "w6"}
	verdict := scorer.ScoreAndDecide("text", Tally{Facts: 1, VerifiableFacts: 1}, nil, warnings, 6)
	if verdict.Confidence != 0 {
		t.Errorf("Expected confidence clamped to 0, got %v", verdict.Confidence)
	}
}

func TestScoreAndDecide_MonotonicInWarnings(t *testing.T) {
	scorer := NewScorer(true, "")

	prev := 2.0
	for n := 0; n <= 5; n++ {
		warnings := make([]string, n)
		verdict := scorer.ScoreAndDecide("text", Tally{Facts: 2, VerifiableFacts: 2, Verified: 2}, nil, warnings, 0)
		if verdict.Confidence > prev {
			t.Errorf("Confidence increased with %d warnings: %v > %v", n, verdict.Confidence, prev)
		}
		prev = verdict.Confidence
	}
}

func TestScoreAndDecide_NoFactsWithClaimedSources(t *testing.T) {
	scorer := NewScorer(true, "")

	verdict := scorer.ScoreAndDecide("text", Tally{ClaimedSources: 1, Verified: 1}, nil, nil, 0)
	if verdict.Confidence != 0.7 {
		t.Errorf("Expected base 0.7 with claimed sources, got %v", verdict.Confidence)
	}
	if !verdict.Verified {
		t.Error("Expected verified with a confirmed claimed source")
	}
}

func TestScoreAndDecide_NoFactsNoSources(t *testing.T) {
	scorer := NewScorer(true, "")

	verdict := scorer.ScoreAndDecide("text", Tally{}, nil, nil, 0)
	if verdict.Confidence != 0.5 {
		t.Errorf("Expected base 0.5 without claimed sources, got %v", verdict.Confidence)
	}
}

func TestScoreAndDecide_TooManyUncertaintyWarnings(t *testing.T) {
	scorer := NewScorer(true, "")

	// High ratio but three hedges: verdict must fail the uncertainty gate.
	warnings := []string{"u1", "u2", "u3"}
	verdict := scorer.ScoreAndDecide("text", Tally{Facts: 1, VerifiableFacts: 1, Verified: 1}, nil, warnings, 3)
	if verdict.Verified {
		t.Error("Expected unverified with 3 uncertainty warnings")
	}
}

func TestScoreAndDecide_DisclaimerAppended(t *testing.T) {
	scorer := NewScorer(true, "custom disclaimer")

	verdict := scorer.ScoreAndDecide("original", Tally{Facts: 1, VerifiableFacts: 1}, nil, []string{"w"}, 1)
	if verdict.Verified {
		t.Error("Expected unverified")
	}
	if !strings.HasPrefix(verdict.ModifiedText, "original") || !strings.HasSuffix(verdict.ModifiedText, "custom disclaimer") {
		t.Errorf("Expected original text plus disclaimer, got %q", verdict.ModifiedText)
	}
}

func TestScoreAndDecide_NoDisclaimerWithoutWarnings(t *testing.T) {
	scorer := NewScorer(true, "")

	verdict := scorer.ScoreAndDecide("original", Tally{Facts: 2, VerifiableFacts: 2}, nil, nil, 0)
	if verdict.Verified {
		t.Error("Expected unverified with zero verified facts")
	}
	if verdict.ModifiedText != "" {
		t.Errorf("Expected no modified text without warnings, got %q", verdict.ModifiedText)
	}
}

func TestScoreAndDecide_DefaultDisclaimer(t *testing.T) {
	scorer := NewScorer(true, "")

	verdict := scorer.ScoreAndDecide("original", Tally{Facts: 1, VerifiableFacts: 1}, nil, []string{"w"}, 1)
	if !strings.Contains(verdict.ModifiedText, model.DefaultDisclaimer) {
		t.Errorf("Expected default disclaimer, got %q", verdict.ModifiedText)
	}
}
