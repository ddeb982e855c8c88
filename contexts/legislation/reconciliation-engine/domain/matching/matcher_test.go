package matching

import (
	"math"
	"testing"
)

func TestScoreExactAfterNormalization(t *testing.T) {
	if got := Score("田中 太郎議員", "田中太郎"); got != 1.0 {
		t.Fatalf("expected 1.0 for exact normalized match, got %f", got)
	}
}

func TestScoreContainment(t *testing.T) {
	if got := Score("自由民主党市議団", "自由民主党"); got != 0.8 {
		t.Fatalf("expected 0.8 for containment, got %f", got)
	}
	// Containment is symmetric.
	if got := Score("自由民主党", "自由民主党市議団"); got != 0.8 {
		t.Fatalf("expected 0.8 for reverse containment, got %f", got)
	}
}

func TestScoreSharedRatio(t *testing.T) {
	// "公明党" vs "公明会": two of three runes shared over the longer length 3.
	got := Score("公明党", "公明会")
	if math.Abs(got-2.0/3.0) > 1e-9 {
		t.Fatalf("expected 2/3 shared ratio, got %f", got)
	}
}

func TestScoreEmptyNeverMatches(t *testing.T) {
	if got := Score("", "田中太郎"); got != 0 {
		t.Fatalf("expected 0 for empty raw, got %f", got)
	}
	if got := Score("田中太郎", ""); got != 0 {
		t.Fatalf("expected 0 for empty candidate, got %f", got)
	}
	if got := Score("  ", "田中太郎"); got != 0 {
		t.Fatalf("expected 0 for whitespace-only raw, got %f", got)
	}
}

func TestScoreBelowThresholdStaysBelow(t *testing.T) {
	if got := Score("共産党", "未来の会"); got >= PromotionThreshold {
		t.Fatalf("disjoint names must score below the promotion threshold, got %f", got)
	}
}
