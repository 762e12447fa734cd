package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sestako/eunio-core/internal/models"
)

var ErrNoCycleForPrediction = errors.New("no cycle available for prediction")

// conceptionProbabilityByOffset is a fixed empirical curve over day
// offsets relative to ovulation. The six in-window values sum to 1.00.
var conceptionProbabilityByOffset = map[int]float64{
	-5: 0.10,
	-4: 0.16,
	-3: 0.14,
	-2: 0.20,
	-1: 0.25,
	0:  0.15,
}

// BaselineConceptionProbability applies to days outside the fertile
// window.
const BaselineConceptionProbability = 0.05

type FertilityWindow struct {
	CycleStartDate         time.Time          `json:"cycle_start_date"`
	PredictedOvulationDate time.Time          `json:"predicted_ovulation_date"`
	FertilityWindowStart   time.Time          `json:"fertility_window_start"`
	FertilityWindowEnd     time.Time          `json:"fertility_window_end"`
	PeakFertilityDate      time.Time          `json:"peak_fertility_date"`
	NextPeriodEstimate     time.Time          `json:"next_period_estimate"`
	DailyProbabilities     map[string]float64 `json:"daily_probabilities"`
	Confidence             float64            `json:"confidence"`
	AverageCycleLength     float64            `json:"average_cycle_length"`
	Recommendations        []string           `json:"recommendations"`
}

type FertilityCycleReader interface {
	FindCurrent(ctx context.Context, userID uint) (models.Cycle, bool, error)
	ListHistory(ctx context.Context, userID uint, limit int) ([]models.Cycle, error)
}

type FertilityService struct {
	cycles FertilityCycleReader
}

func NewFertilityService(cycles FertilityCycleReader) *FertilityService {
	return &FertilityService{cycles: cycles}
}

// Calculate predicts the fertile window for the user's current cycle, or
// for a hypothetical future cycle when futureStart is given.
func (service *FertilityService) Calculate(ctx context.Context, userID uint, futureStart *time.Time) (FertilityWindow, error) {
	history, err := service.cycles.ListHistory(ctx, userID, 6)
	if err != nil {
		return FertilityWindow{}, fmt.Errorf("%w: %v", ErrCycleHistoryLoadFailed, err)
	}

	var cycleStart time.Time
	if futureStart != nil {
		cycleStart = dateOnly(*futureStart)
	} else {
		current, found, err := service.cycles.FindCurrent(ctx, userID)
		if err != nil {
			return FertilityWindow{}, fmt.Errorf("%w: %v", ErrCycleHistoryLoadFailed, err)
		}
		if !found {
			return FertilityWindow{}, ErrNoCycleForPrediction
		}
		cycleStart = dateOnly(current.StartDate)
	}

	return BuildFertilityWindow(cycleStart, history), nil
}

// BuildFertilityWindow is the pure prediction over a cycle start and up
// to six cycles of history.
func BuildFertilityWindow(cycleStart time.Time, history []models.Cycle) FertilityWindow {
	history = tailCycles(history, 6)

	lengths := make([]int, 0, len(history))
	for _, cycle := range history {
		if cycle.CycleLength != nil {
			lengths = append(lengths, *cycle.CycleLength)
		}
	}

	averageLength := float64(models.DefaultCycleLength)
	if len(lengths) > 0 {
		averageLength = meanInts(lengths)
	}

	ovulationDays := make([]int, 0, len(history))
	for _, cycle := range history {
		if ovulation, ok := cycle.OvulationDate(); ok {
			ovulationDays = append(ovulationDays, daysBetween(cycle.StartDate, ovulation)+1)
		}
	}

	averageOvulationDay := averageLength - float64(DefaultLutealPhaseDays)
	if averageOvulationDay < 1 {
		averageOvulationDay = 1
	}
	if len(ovulationDays) > 0 {
		averageOvulationDay = meanInts(ovulationDays)
	}

	predictedOvulation := cycleStart.AddDate(0, 0, int(averageOvulationDay+0.5)-1)
	windowStart := predictedOvulation.AddDate(0, 0, -FertileWindowDays)

	probabilities := make(map[string]float64, FertileWindowDays+1)
	for offset := -FertileWindowDays; offset <= 0; offset++ {
		day := predictedOvulation.AddDate(0, 0, offset)
		probabilities[day.Format("2006-01-02")] = conceptionProbabilityByOffset[offset]
	}

	confidence := predictionConfidence(lengths)

	return FertilityWindow{
		CycleStartDate:         cycleStart,
		PredictedOvulationDate: predictedOvulation,
		FertilityWindowStart:   windowStart,
		FertilityWindowEnd:     predictedOvulation,
		PeakFertilityDate:      predictedOvulation.AddDate(0, 0, -1),
		NextPeriodEstimate:     PredictNextPeriodStart(cycleStart, history),
		DailyProbabilities:     probabilities,
		Confidence:             confidence,
		AverageCycleLength:     averageLength,
		Recommendations:        fertilityRecommendations(confidence, lengths),
	}
}

// PredictNextPeriodStart estimates the next period start from the
// rounded average of the historical cycle lengths, falling back to the
// 28-day default when no closed cycle exists.
func PredictNextPeriodStart(cycleStart time.Time, history []models.Cycle) time.Time {
	lengths := make([]int, 0, len(history))
	for _, cycle := range tailCycles(history, 6) {
		if cycle.CycleLength != nil {
			lengths = append(lengths, *cycle.CycleLength)
		}
	}

	length := models.DefaultCycleLength
	if len(lengths) > 0 {
		length = int(meanInts(lengths) + 0.5)
	}
	return dateOnly(cycleStart).AddDate(0, 0, length)
}

// predictionConfidence derives confidence from cycle-length spread plus a
// data-volume bonus. With fewer than three cycles of history the result
// is capped regardless of spread.
func predictionConfidence(lengths []int) float64 {
	spread := stdevInts(lengths)

	confidence := 0.3
	switch {
	case spread <= RegularCycleStdevDays:
		confidence = 0.9
	case spread <= VariableCycleStdevDays:
		confidence = 0.7
	case spread <= ErraticCycleStdevDays:
		confidence = 0.5
	}

	if bonus := float64(len(lengths)-3) * 0.05; bonus > 0 {
		confidence += minFloat(0.2, bonus)
	}

	if len(lengths) < 3 {
		confidence = minFloat(confidence, 0.4)
	}

	return minFloat(confidence, 1.0)
}

func fertilityRecommendations(confidence float64, lengths []int) []string {
	recommendations := make([]string, 0, 3)

	switch {
	case confidence >= 0.7:
		recommendations = append(recommendations,
			"Cycle history is consistent, so this prediction is fairly reliable.")
	case confidence >= 0.5:
		recommendations = append(recommendations,
			"Cycle lengths vary somewhat. Tracking BBT and ovulation tests will sharpen future predictions.")
	default:
		recommendations = append(recommendations,
			"Not enough consistent cycle history yet for a confident prediction. Keep logging period start dates.")
	}

	for _, length := range lengths {
		if length < MinPlausibleCycleLength || length > MaxPlausibleCycleLength {
			recommendations = append(recommendations,
				"Some recorded cycles are unusually short or long. Consider discussing this with a healthcare provider.")
			break
		}
	}

	recommendations = append(recommendations,
		"The fertile window spans about six days ending on ovulation day: sperm survive up to five days, while the egg is viable for about one.")

	return recommendations
}
