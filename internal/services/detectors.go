package services

import (
	"time"

	"github.com/sestako/eunio-core/internal/models"
)

const (
	IndicatorTemperatureShift = "temperature_shift"
	IndicatorMucusPeak        = "mucus_peak"
	IndicatorOPKSurge         = "opk_surge"
)

// IndicatorCandidate is one detector's vote for an ovulation date.
type IndicatorCandidate struct {
	Date       time.Time
	Confidence float64
	Label      string
}

// IndicatorDetector scans an ordered log sequence for one fertility signal.
// Detectors are pure: they never mutate state and never see each other's
// output. A detector with insufficient data for its signal type returns
// (zero value, false), which is not an error.
type IndicatorDetector func(logs []models.DailyLog) (IndicatorCandidate, bool)

// OvulationDetectors returns the fixed detector set in descending order of
// specificity. The order doubles as the consensus tie-break preference.
func OvulationDetectors() []IndicatorDetector {
	return []IndicatorDetector{
		DetectOPKSurge,
		DetectTemperatureShift,
		DetectMucusPeak,
	}
}

// RunDetectors folds every detector over the sorted log sequence and
// collects the candidates that fired.
func RunDetectors(logs []models.DailyLog) []IndicatorCandidate {
	sorted := sortLogsByDate(logs)
	candidates := make([]IndicatorCandidate, 0, 3)
	for _, detect := range OvulationDetectors() {
		if candidate, ok := detect(sorted); ok {
			candidates = append(candidates, candidate)
		}
	}
	return candidates
}
