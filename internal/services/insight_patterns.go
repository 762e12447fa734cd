package services

import (
	"fmt"
	"sort"

	"github.com/sestako/eunio-core/internal/models"
)

// AnalyzeCycleRegularity reports on cycle-length consistency: a tight
// spread yields a reassuring pattern insight, a wide spread yields an
// actionable one.
func AnalyzeCycleRegularity(input AnalyzerInput) []InsightCandidate {
	lengths := closedCycleLengths(input.Cycles)
	if len(lengths) < 3 {
		return nil
	}

	spread := stdevInts(lengths)
	average := meanInts(lengths)

	if spread <= RegularCycleStdevDays {
		return []InsightCandidate{{
			Text: fmt.Sprintf(
				"Your cycles are very regular, averaging %.0f days with little variation. Regular cycles make predictions more reliable.",
				average),
			Type:       models.InsightTypePattern,
			Confidence: 0.9,
		}}
	}

	if spread > ErraticCycleStdevDays {
		return []InsightCandidate{{
			Text: fmt.Sprintf(
				"Your cycle lengths have varied quite a bit recently (average %.0f days, spread of about %.0f days). Many things can cause this, from stress to travel. Tracking a few more cycles will clarify the pattern.",
				average, spread),
			Type:       models.InsightTypePattern,
			Confidence: 0.8,
			Actionable: true,
		}}
	}

	return nil
}

// AnalyzeSymptomFrequency flags the most frequent symptom when it covers
// more than SymptomFrequencyCutoff of logged days.
func AnalyzeSymptomFrequency(input AnalyzerInput) []InsightCandidate {
	if len(input.Logs) == 0 {
		return nil
	}

	counts := make(map[string]int)
	relatedByName := make(map[string][]uint)
	for _, entry := range input.Logs {
		for _, symptom := range entry.Symptoms {
			counts[symptom]++
			relatedByName[symptom] = append(relatedByName[symptom], entry.ID)
		}
	}
	if len(counts) == 0 {
		return nil
	}

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] == counts[names[j]] {
			return names[i] < names[j]
		}
		return counts[names[i]] > counts[names[j]]
	})

	top := names[0]
	share := float64(counts[top]) / float64(len(input.Logs))
	if share <= SymptomFrequencyCutoff {
		return nil
	}

	return []InsightCandidate{{
		Text: fmt.Sprintf(
			"%q appeared on %d of your last %d logged days (%.0f%%). Knowing your most common symptom helps you plan around it.",
			top, counts[top], len(input.Logs), share*100),
		Type:          models.InsightTypePattern,
		Confidence:    minFloat(0.9, 0.5+share),
		RelatedLogIDs: relatedByName[top],
	}}
}

// AnalyzePremenstrualPattern looks for symptom days in the run-up to a
// period. A day counts as likely pre-menstrual when a period-flow entry
// appears within the following PreMenstrualScanDays. The forward scan is
// an approximation that can misclassify days near cycle boundaries.
func AnalyzePremenstrualPattern(input AnalyzerInput) []InsightCandidate {
	sorted := sortLogsByDate(input.Logs)

	periodDays := make([]int, 0, len(sorted))
	for index, entry := range sorted {
		if entry.IsPeriod() {
			periodDays = append(periodDays, index)
		}
	}
	if len(periodDays) == 0 {
		return nil
	}

	qualifying := make([]uint, 0)
	for index, entry := range sorted {
		if entry.IsPeriod() || len(entry.Symptoms) == 0 {
			continue
		}
		if likelyPreMenstrual(sorted, index) {
			qualifying = append(qualifying, entry.ID)
		}
	}
	if len(qualifying) <= 10 {
		return nil
	}

	return []InsightCandidate{{
		Text: fmt.Sprintf(
			"You logged symptoms on %d days in the week before your period started. A consistent pre-menstrual pattern like this is common and worth anticipating in your schedule.",
			len(qualifying)),
		Type:          models.InsightTypePattern,
		Confidence:    0.75,
		RelatedLogIDs: qualifying,
	}}
}

func likelyPreMenstrual(sorted []models.DailyLog, index int) bool {
	day := dateOnly(sorted[index].Date)
	for cursor := index + 1; cursor < len(sorted); cursor++ {
		gap := daysBetween(day, sorted[cursor].Date)
		if gap > PreMenstrualScanDays {
			break
		}
		if sorted[cursor].IsPeriod() {
			return true
		}
	}
	return false
}

// AnalyzeMoodDistribution reports a dominant mood covering more than
// DominantMoodCutoff of the days with a mood entry.
func AnalyzeMoodDistribution(input AnalyzerInput) []InsightCandidate {
	counts := make(map[string]int)
	moodDays := 0
	for _, entry := range input.Logs {
		if entry.Mood == "" {
			continue
		}
		counts[entry.Mood]++
		moodDays++
	}
	if moodDays < 10 {
		return nil
	}

	dominant := ""
	for mood, count := range counts {
		if dominant == "" || count > counts[dominant] || (count == counts[dominant] && mood < dominant) {
			dominant = mood
		}
	}

	share := float64(counts[dominant]) / float64(moodDays)
	if share <= DominantMoodCutoff {
		return nil
	}

	return []InsightCandidate{{
		Text: fmt.Sprintf(
			"%q was your mood on %.0f%% of the days you tracked it. Moods often track the cycle, so comparing them against your phases can be revealing.",
			dominant, share*100),
		Type:       models.InsightTypePattern,
		Confidence: 0.7,
	}}
}

// AnalyzeBBTBiphasic counts sustained thermal shifts across the window
// and reports the average reading, a sign of ovulatory cycles.
func AnalyzeBBTBiphasic(input AnalyzerInput) []InsightCandidate {
	readings := bbtReadings(sortLogsByDate(input.Logs))
	if len(readings) < 20 {
		return nil
	}

	values := make([]float64, 0, len(readings))
	for _, reading := range readings {
		values = append(values, reading.Value)
	}
	average := meanFloats(values)

	shifts := countSustainedShifts(readings)
	if shifts == 0 {
		return nil
	}

	return []InsightCandidate{{
		Text: fmt.Sprintf(
			"Your temperature chart shows %d sustained shift(s) over the last months, with an average reading of %.1f°F. A biphasic pattern like this usually indicates ovulatory cycles.",
			shifts, average),
		Type:       models.InsightTypePattern,
		Confidence: 0.8,
	}}
}

// countSustainedShifts counts discrete thermal-shift events: runs of
// readings elevated at least BBTShiftFahrenheit over the trailing 3-day
// average, held for the minimum sustained span.
func countSustainedShifts(readings []bbtReading) int {
	shifts := 0
	index := BBTTrailingWindowDays
	for index < len(readings) {
		baseline := trailingAverage(readings, index)
		if readings[index].Value-baseline < BBTShiftFahrenheit {
			index++
			continue
		}
		sustained := sustainedElevatedCount(readings, index, baseline)
		if sustained >= BBTMinSustainedReadings+1 {
			shifts++
			index += sustained
			continue
		}
		index++
	}
	return shifts
}

// AnalyzeFertilitySignals rewards rich fertility logging: enough
// peak-quality mucus days or positive ovulation tests to anchor window
// predictions on observed signals instead of calendar math.
func AnalyzeFertilitySignals(input AnalyzerInput) []InsightCandidate {
	eggWhiteDays := 0
	positiveTests := 0
	related := make([]uint, 0)

	for _, entry := range input.Logs {
		if entry.CervicalMucus == models.MucusEggWhite {
			eggWhiteDays++
			related = append(related, entry.ID)
		}
		if entry.OvulationTest == models.OvulationTestPositive || entry.OvulationTest == models.OvulationTestPeak {
			positiveTests++
			related = append(related, entry.ID)
		}
	}

	if eggWhiteDays < 5 && positiveTests < 2 {
		return nil
	}

	return []InsightCandidate{{
		Text: fmt.Sprintf(
			"You logged %d peak-quality mucus day(s) and %d positive ovulation test(s) recently. Signals this rich let the app anchor your fertile window on observations rather than averages.",
			eggWhiteDays, positiveTests),
		Type:          models.InsightTypeFertilityWindow,
		Confidence:    0.7,
		RelatedLogIDs: related,
	}}
}
