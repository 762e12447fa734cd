package services

import (
	"testing"

	"github.com/sestako/eunio-core/internal/models"
)

func TestDetectOPKSurgeIsolatedPeak(t *testing.T) {
	t.Parallel()

	logs := []models.DailyLog{
		opkLog(t, "2026-03-03", models.OvulationTestNegative),
		opkLog(t, "2026-03-04", models.OvulationTestNegative),
		opkLog(t, "2026-03-05", models.OvulationTestPeak),
		opkLog(t, "2026-03-06", models.OvulationTestNegative),
	}

	candidate, ok := DetectOPKSurge(logs)
	if !ok {
		t.Fatal("expected isolated peak to produce a candidate")
	}
	if got := candidate.Date.Format("2006-01-02"); got != "2026-03-06" {
		t.Fatalf("expected candidate one day after the surge, got %s", got)
	}
	if candidate.Label != IndicatorOPKSurge {
		t.Fatalf("expected label %s, got %s", IndicatorOPKSurge, candidate.Label)
	}
	if candidate.Confidence < 0.8 {
		t.Fatalf("expected isolated peak to score at least 0.8, got %f", candidate.Confidence)
	}
}

func TestDetectOPKSurgeAmbiguousSurgeScoresLower(t *testing.T) {
	t.Parallel()

	isolated := []models.DailyLog{
		opkLog(t, "2026-03-05", models.OvulationTestPeak),
	}
	ambiguous := []models.DailyLog{
		opkLog(t, "2026-03-03", models.OvulationTestPositive),
		opkLog(t, "2026-03-04", models.OvulationTestPositive),
		opkLog(t, "2026-03-05", models.OvulationTestPeak),
		opkLog(t, "2026-03-06", models.OvulationTestPositive),
	}

	isolatedCandidate, ok := DetectOPKSurge(isolated)
	if !ok {
		t.Fatal("expected isolated peak to produce a candidate")
	}
	ambiguousCandidate, ok := DetectOPKSurge(ambiguous)
	if !ok {
		t.Fatal("expected ambiguous surge to still produce a candidate")
	}
	if ambiguousCandidate.Confidence >= isolatedCandidate.Confidence {
		t.Fatalf("expected ambiguous surge to score below isolated peak: ambiguous=%f isolated=%f",
			ambiguousCandidate.Confidence, isolatedCandidate.Confidence)
	}
}

func TestDetectOPKSurgePositiveOnlyUsesFirstPositive(t *testing.T) {
	t.Parallel()

	logs := []models.DailyLog{
		opkLog(t, "2026-03-04", models.OvulationTestNegative),
		opkLog(t, "2026-03-05", models.OvulationTestPositive),
		opkLog(t, "2026-03-06", models.OvulationTestNegative),
	}

	candidate, ok := DetectOPKSurge(logs)
	if !ok {
		t.Fatal("expected a positive-only record to produce a candidate")
	}
	if got := candidate.Date.Format("2006-01-02"); got != "2026-03-06" {
		t.Fatalf("expected candidate 2026-03-06, got %s", got)
	}
	if candidate.Confidence >= 0.85 {
		t.Fatalf("expected positive-only surge to score below a peak, got %f", candidate.Confidence)
	}
}

func TestDetectOPKSurgeNoTests(t *testing.T) {
	t.Parallel()

	logs := []models.DailyLog{
		mucusLog(t, "2026-03-05", models.MucusEggWhite),
	}

	if _, ok := DetectOPKSurge(logs); ok {
		t.Fatal("expected no candidate without ovulation test entries")
	}
}
