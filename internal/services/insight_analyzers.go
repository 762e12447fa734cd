package services

import (
	"time"

	"github.com/sestako/eunio-core/internal/models"
)

// AnalyzerInput is the per-user snapshot every analyzer receives. The
// logs are sorted by date before analyzers run.
type AnalyzerInput struct {
	UserID uint
	Logs   []models.DailyLog
	Cycles []models.Cycle
	Now    time.Time
}

// InsightCandidate is one analyzer finding before it becomes a persisted
// Insight record.
type InsightCandidate struct {
	Text          string
	Type          string
	Confidence    float64
	Actionable    bool
	RelatedLogIDs []uint
}

// InsightAnalyzer inspects a user's snapshot and emits zero or more
// candidates. Analyzers are pure and independent of each other; finding
// nothing is the normal case, not an error.
type InsightAnalyzer func(input AnalyzerInput) []InsightCandidate

// PatternAnalyzers returns the fixed set of pattern-recognition
// analyzers run by the insight engine.
func PatternAnalyzers() []InsightAnalyzer {
	return []InsightAnalyzer{
		AnalyzeCycleRegularity,
		AnalyzeSymptomFrequency,
		AnalyzePremenstrualPattern,
		AnalyzeMoodDistribution,
		AnalyzeBBTBiphasic,
		AnalyzeFertilitySignals,
	}
}

func closedCycleLengths(cycles []models.Cycle) []int {
	lengths := make([]int, 0, len(cycles))
	for _, cycle := range cycles {
		if cycle.CycleLength != nil {
			lengths = append(lengths, *cycle.CycleLength)
		}
	}
	return lengths
}
