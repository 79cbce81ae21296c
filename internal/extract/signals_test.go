package extract

import (
	"strings"
	"testing"
)

func TestSignalDetector_HedgeOncePerPhrase(t *testing.T) {
	detector := NewSignalDetector()

	sig := detector.Detect("I think it works. I think it really works, probably.")

	if len(sig.Uncertainty) != 2 {
		t.Fatalf("Expected 2 uncertainty warnings (one per phrase), got %d: %v", len(sig.Uncertainty), sig.Uncertainty)
	}

	joined := strings.Join(sig.Uncertainty, " ")
	if !strings.Contains(joined, "i think") || !strings.Contains(joined, "probably") {
		t.Errorf("Expected warnings naming both phrases, got %v", sig.Uncertainty)
	}
}

func TestSignalDetector_KnowledgeCutoffPhrase(t *testing.T) {
	detector := NewSignalDetector()

	sig := detector.Detect("The price is $42.00 as of my knowledge")

	if len(sig.Uncertainty) != 1 {
		t.Fatalf("Expected 1 uncertainty warning, got %d: %v", len(sig.Uncertainty), sig.Uncertainty)
	}
	if len(sig.Contradictions) != 0 {
		t.Errorf("Expected no contradictions, got %v", sig.Contradictions)
	}
}

func TestSignalDetector_ContradictionFirstPairOnly(t *testing.T) {
	detector := NewSignalDetector()

	// Trips both the always/never and all/none pairs; only one warning.
	sig := detector.Detect("It always fails and never succeeds; all tests pass and none fail.")

	if len(sig.Contradictions) != 1 {
		t.Fatalf("Expected exactly 1 contradiction warning, got %d: %v", len(sig.Contradictions), sig.Contradictions)
	}
}

func TestSignalDetector_SinglePolarityIsNotContradiction(t *testing.T) {
	detector := NewSignalDetector()

	sig := detector.Detect("All of the tests pass on every platform.")

	if len(sig.Contradictions) != 0 {
		t.Errorf("Expected no contradiction, got %v", sig.Contradictions)
	}
}

func TestSignalDetector_WordBoundaries(t *testing.T) {
	detector := NewSignalDetector()

	// "ball" must not match the "all" polarity.
	sig := detector.Detect("The ball bounced; none were lost.")

	if len(sig.Contradictions) != 0 {
		t.Errorf("Expected no contradiction from substring matches, got %v", sig.Contradictions)
	}
}

func TestSignals_WarningsOrder(t *testing.T) {
	sig := Signals{
		Uncertainty:    []string{"u1", "u2"},
		Contradictions: []string{"c1"},
	}

	warnings := sig.Warnings()
	if len(warnings) != 3 || warnings[0] != "u1" || warnings[2] != "c1" {
		t.Errorf("Expected uncertainty warnings before contradictions, got %v", warnings)
	}
}
