package services

import (
	"fmt"
	"strings"

	"github.com/sestako/eunio-core/internal/models"
)

const consultProviderNote = "This is an observation from your own logs, not a diagnosis. If it continues, consider discussing it with a healthcare provider."

// concerningSymptomNames are symptoms that warrant an early warning when
// they recur frequently. Matching is case-insensitive on the logged name.
var concerningSymptomNames = map[string]struct{}{
	"severe cramps":  {},
	"severe pain":    {},
	"dizziness":      {},
	"fainting":       {},
	"heavy bleeding": {},
	"migraine":       {},
}

var negativeMoodNames = map[string]struct{}{
	"sad":       {},
	"anxious":   {},
	"irritable": {},
	"angry":     {},
	"depressed": {},
}

// EarlyWarningAnalyzers returns the fixed set of early-warning analyzers.
// They share the pattern-analyzer contract; each emits a supportively
// worded, never diagnostic, EARLY_WARNING candidate.
func EarlyWarningAnalyzers() []InsightAnalyzer {
	return []InsightAnalyzer{
		WarnProlongedBleeding,
		WarnFrequentConcerningSymptoms,
		WarnCycleLengthExtremes,
		WarnAbsentThermalShift,
		WarnNegativeMoodPattern,
	}
}

// WarnProlongedBleeding flags the longest consecutive run of period-flow
// days when it exceeds a week.
func WarnProlongedBleeding(input AnalyzerInput) []InsightCandidate {
	sorted := sortLogsByDate(input.Logs)

	longestRun := 0
	currentRun := 0
	related := make([]uint, 0)
	runIDs := make([]uint, 0)
	var previousDay *int

	for _, entry := range sorted {
		if !entry.IsPeriod() {
			continue
		}
		day := daysBetween(sorted[0].Date, entry.Date)
		if previousDay != nil && day == *previousDay+1 {
			currentRun++
			runIDs = append(runIDs, entry.ID)
		} else {
			currentRun = 1
			runIDs = []uint{entry.ID}
		}
		dayCopy := day
		previousDay = &dayCopy
		if currentRun > longestRun {
			longestRun = currentRun
			related = append([]uint(nil), runIDs...)
		}
	}

	if longestRun < 8 {
		return nil
	}

	return []InsightCandidate{{
		Text: fmt.Sprintf(
			"One of your recent periods lasted %d consecutive days, longer than is typical. %s",
			longestRun, consultProviderNote),
		Type:          models.InsightTypeEarlyWarning,
		Confidence:    0.75,
		Actionable:    true,
		RelatedLogIDs: related,
	}}
}

// WarnFrequentConcerningSymptoms flags concerning symptoms recurring
// across many days of the window.
func WarnFrequentConcerningSymptoms(input AnalyzerInput) []InsightCandidate {
	daysWithConcern := 0
	counts := make(map[string]int)
	related := make([]uint, 0)

	for _, entry := range input.Logs {
		flagged := false
		for _, symptom := range entry.Symptoms {
			if _, concerning := concerningSymptomNames[strings.ToLower(strings.TrimSpace(symptom))]; concerning {
				counts[strings.ToLower(strings.TrimSpace(symptom))]++
				flagged = true
			}
		}
		if flagged {
			daysWithConcern++
			related = append(related, entry.ID)
		}
	}

	if daysWithConcern < 8 {
		return nil
	}

	frequent := ""
	for name, count := range counts {
		if frequent == "" || count > counts[frequent] || (count == counts[frequent] && name < frequent) {
			frequent = name
		}
	}

	return []InsightCandidate{{
		Text: fmt.Sprintf(
			"Symptoms like %q came up on %d days recently. Everyone's baseline differs, but this frequency stands out in your own history. %s",
			frequent, daysWithConcern, consultProviderNote),
		Type:          models.InsightTypeEarlyWarning,
		Confidence:    0.7,
		Actionable:    true,
		RelatedLogIDs: related,
	}}
}

// WarnCycleLengthExtremes flags cycles outside the plausible band or a
// highly variable recent history.
func WarnCycleLengthExtremes(input AnalyzerInput) []InsightCandidate {
	lengths := closedCycleLengths(input.Cycles)
	if len(lengths) == 0 {
		return nil
	}

	extremes := 0
	for _, length := range lengths {
		if length < MinPlausibleCycleLength || length > MaxPlausibleCycleLength {
			extremes++
		}
	}

	if extremes > 0 {
		return []InsightCandidate{{
			Text: fmt.Sprintf(
				"%d of your recent cycles fell outside the typical 21-35 day range. Occasional outliers are normal, but a repeating pattern is worth noting. %s",
				extremes, consultProviderNote),
			Type:       models.InsightTypeEarlyWarning,
			Confidence: 0.8,
			Actionable: true,
		}}
	}

	if len(lengths) >= 3 && stdevInts(lengths) > ErraticCycleStdevDays {
		return []InsightCandidate{{
			Text: fmt.Sprintf(
				"Your cycle lengths swung by more than a week across the last %d cycles. %s",
				len(lengths), consultProviderNote),
			Type:       models.InsightTypeEarlyWarning,
			Confidence: 0.7,
			Actionable: true,
		}}
	}

	return nil
}

// WarnAbsentThermalShift flags a temperature record rich enough to show a
// biphasic pattern that shows none across repeated cycles.
func WarnAbsentThermalShift(input AnalyzerInput) []InsightCandidate {
	if len(closedCycleLengths(input.Cycles)) < 2 {
		return nil
	}

	readings := bbtReadings(sortLogsByDate(input.Logs))
	if len(readings) < 20 {
		return nil
	}

	if countSustainedShifts(readings) > 0 {
		return nil
	}

	return []InsightCandidate{{
		Text: fmt.Sprintf(
			"Across %d temperature readings spanning several cycles, no sustained thermal shift appeared. Shifts can be subtle or masked by measurement timing, but their absence over repeated cycles is worth mentioning. %s",
			len(readings), consultProviderNote),
		Type:       models.InsightTypeEarlyWarning,
		Confidence: 0.65,
		Actionable: true,
	}}
}

// WarnNegativeMoodPattern flags persistently negative mood or heavy
// swinging between negative and other moods.
func WarnNegativeMoodPattern(input AnalyzerInput) []InsightCandidate {
	sorted := sortLogsByDate(input.Logs)

	moodDays := 0
	negativeDays := 0
	transitions := 0
	previousNegative := false
	havePrevious := false

	for _, entry := range sorted {
		if entry.Mood == "" {
			continue
		}
		moodDays++
		_, negative := negativeMoodNames[strings.ToLower(strings.TrimSpace(entry.Mood))]
		if negative {
			negativeDays++
		}
		if havePrevious && negative != previousNegative {
			transitions++
		}
		previousNegative = negative
		havePrevious = true
	}

	if moodDays < 15 {
		return nil
	}

	if share := float64(negativeDays) / float64(moodDays); share > 0.5 {
		return []InsightCandidate{{
			Text: fmt.Sprintf(
				"Low moods appeared on %.0f%% of the days you tracked. Mood dips tied to the cycle are common, and support is available if they weigh on you. %s",
				share*100, consultProviderNote),
			Type:       models.InsightTypeEarlyWarning,
			Confidence: 0.7,
			Actionable: true,
		}}
	}

	if float64(transitions)/float64(moodDays) > 0.5 {
		return []InsightCandidate{{
			Text: fmt.Sprintf(
				"Your mood swung frequently across %d tracked days. Comparing the swings against your cycle phases may reveal a pattern. %s",
				moodDays, consultProviderNote),
			Type:       models.InsightTypeEarlyWarning,
			Confidence: 0.6,
		}}
	}

	return nil
}
