package services

import "github.com/sestako/eunio-core/internal/models"

var mucusFertilityRank = map[string]int{
	models.MucusDry:      0,
	models.MucusSticky:   1,
	models.MucusCreamy:   2,
	models.MucusWatery:   3,
	models.MucusEggWhite: 4,
}

type mucusObservation struct {
	Entry models.DailyLog
}

func mucusObservations(logs []models.DailyLog) []mucusObservation {
	observations := make([]mucusObservation, 0, len(logs))
	for _, entry := range logs {
		if _, known := mucusFertilityRank[entry.CervicalMucus]; known {
			observations = append(observations, mucusObservation{Entry: entry})
		}
	}
	return observations
}

// DetectMucusPeak finds the last peak-quality (egg-white) day that is
// followed within MucusTransitionWindowDays by a transition to a drier
// category. The peak day itself is the candidate; ovulation typically
// falls on or right after the last peak-quality day.
func DetectMucusPeak(logs []models.DailyLog) (IndicatorCandidate, bool) {
	observations := mucusObservations(logs)

	peakPositions := make([]int, 0, len(observations))
	for position, observation := range observations {
		if observation.Entry.CervicalMucus == models.MucusEggWhite {
			peakPositions = append(peakPositions, position)
		}
	}
	if len(peakPositions) == 0 {
		return IndicatorCandidate{}, false
	}

	for cursor := len(peakPositions) - 1; cursor >= 0; cursor-- {
		peakPosition := peakPositions[cursor]
		peakDay := dateOnly(observations[peakPosition].Entry.Date)

		for follow := peakPosition + 1; follow < len(observations); follow++ {
			next := observations[follow]
			gap := daysBetween(peakDay, next.Entry.Date)
			if gap > MucusTransitionWindowDays {
				break
			}
			if mucusFertilityRank[next.Entry.CervicalMucus] > mucusFertilityRank[models.MucusCreamy] {
				continue
			}

			return IndicatorCandidate{
				Date:       peakDay,
				Confidence: mucusTransitionConfidence(observations, follow),
				Label:      IndicatorMucusPeak,
			}, true
		}
	}

	return IndicatorCandidate{}, false
}

// mucusTransitionConfidence rewards a clean peak-then-dry sequence and
// discounts noisy records where peak quality reappears after the drying
// transition or the drop is only partial.
func mucusTransitionConfidence(observations []mucusObservation, transitionPosition int) float64 {
	confidence := 0.6

	transition := observations[transitionPosition].Entry.CervicalMucus
	if transition == models.MucusDry || transition == models.MucusSticky {
		confidence += 0.15
	}

	for cursor := transitionPosition + 1; cursor < len(observations); cursor++ {
		if observations[cursor].Entry.CervicalMucus == models.MucusEggWhite {
			confidence -= 0.1
			break
		}
	}

	peakRuns := 0
	previousWasPeak := false
	for _, observation := range observations {
		isPeak := observation.Entry.CervicalMucus == models.MucusEggWhite
		if isPeak && !previousWasPeak {
			peakRuns++
		}
		previousWasPeak = isPeak
	}
	if peakRuns > 1 {
		confidence -= 0.1
	}

	return clampFloat(confidence, 0.3, 0.85)
}

func clampFloat(value, low, high float64) float64 {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}
