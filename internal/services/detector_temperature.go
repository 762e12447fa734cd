package services

import (
	"time"

	"github.com/sestako/eunio-core/internal/models"
)

type bbtReading struct {
	Date  time.Time
	Value float64
}

func bbtReadings(logs []models.DailyLog) []bbtReading {
	readings := make([]bbtReading, 0, len(logs))
	for _, entry := range logs {
		if value, ok := entry.TemperatureFahrenheit(); ok {
			readings = append(readings, bbtReading{Date: dateOnly(entry.Date), Value: value})
		}
	}
	return readings
}

// DetectTemperatureShift looks for a sustained post-ovulatory thermal
// shift: a reading exceeding the trailing 3-day average by at least
// BBTShiftFahrenheit, held for at least the following two readings. The
// candidate date is the day before the rise begins, since the shift
// trails ovulation by roughly a day.
func DetectTemperatureShift(logs []models.DailyLog) (IndicatorCandidate, bool) {
	readings := bbtReadings(logs)
	if len(readings) < BBTMinReadings {
		return IndicatorCandidate{}, false
	}

	for index := BBTTrailingWindowDays; index < len(readings); index++ {
		baseline := trailingAverage(readings, index)
		shift := readings[index].Value - baseline
		if shift < BBTShiftFahrenheit {
			continue
		}

		sustained := sustainedElevatedCount(readings, index, baseline)
		if sustained < BBTMinSustainedReadings+1 {
			continue
		}

		return IndicatorCandidate{
			Date:       readings[index].Date.AddDate(0, 0, -1),
			Confidence: temperatureShiftConfidence(shift, sustained),
			Label:      IndicatorTemperatureShift,
		}, true
	}

	return IndicatorCandidate{}, false
}

func trailingAverage(readings []bbtReading, index int) float64 {
	var total float64
	for offset := 1; offset <= BBTTrailingWindowDays; offset++ {
		total += readings[index-offset].Value
	}
	return total / float64(BBTTrailingWindowDays)
}

// sustainedElevatedCount counts how many consecutive readings starting at
// index stay above the pre-shift baseline.
func sustainedElevatedCount(readings []bbtReading, index int, baseline float64) int {
	count := 0
	for cursor := index; cursor < len(readings); cursor++ {
		if readings[cursor].Value-baseline < BBTShiftFahrenheit {
			break
		}
		count++
	}
	return count
}

func temperatureShiftConfidence(shift float64, sustained int) float64 {
	confidence := 0.5
	confidence += 0.08 * float64(minInt(sustained, 5))
	extra := shift - BBTShiftFahrenheit
	if extra > 0 {
		confidence += minFloat(0.15, extra*0.5)
	}
	return minFloat(confidence, 0.95)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
