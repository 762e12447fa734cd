package services

import (
	"time"

	"github.com/sestako/eunio-core/internal/models"
)

// DetectOPKSurge locates the LH surge from ovulation-test entries. The
// candidate is one day after the surge day, since the surge precedes
// ovulation by about a day. A lone unambiguous peak scores high; a surge
// surrounded by repeated positives is ambiguous and scores lower.
func DetectOPKSurge(logs []models.DailyLog) (IndicatorCandidate, bool) {
	type testResult struct {
		Date   time.Time
		Result string
	}

	results := make([]testResult, 0, len(logs))
	for _, entry := range logs {
		switch entry.OvulationTest {
		case models.OvulationTestNegative, models.OvulationTestPositive, models.OvulationTestPeak:
			results = append(results, testResult{Date: dateOnly(entry.Date), Result: entry.OvulationTest})
		}
	}
	if len(results) == 0 {
		return IndicatorCandidate{}, false
	}

	surgeDay := time.Time{}
	confidence := 0.0
	for _, result := range results {
		if result.Result == models.OvulationTestPeak {
			surgeDay = result.Date
			confidence = 0.85
		}
	}
	if surgeDay.IsZero() {
		for _, result := range results {
			if result.Result == models.OvulationTestPositive {
				surgeDay = result.Date
				confidence = 0.65
				break
			}
		}
	}
	if surgeDay.IsZero() {
		return IndicatorCandidate{}, false
	}

	neighbors := 0
	for _, result := range results {
		if sameDay(result.Date, surgeDay) || result.Result == models.OvulationTestNegative {
			continue
		}
		gap := daysBetween(surgeDay, result.Date)
		if gap >= -2 && gap <= 2 {
			neighbors++
		}
	}
	confidence -= 0.08 * float64(minInt(neighbors, 3))

	return IndicatorCandidate{
		Date:       surgeDay.AddDate(0, 0, 1),
		Confidence: clampFloat(confidence, 0.4, 0.9),
		Label:      IndicatorOPKSurge,
	}, true
}
