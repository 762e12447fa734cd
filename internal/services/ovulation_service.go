package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/sestako/eunio-core/internal/models"
)

var (
	ErrInvalidDateRange        = errors.New("invalid date range")
	ErrFertilityLogsLoadFailed = errors.New("load fertility logs failed")
)

// OvulationConfirmation is the consensus verdict over all fired
// indicators. When confirmation fails the best-effort date and
// supporting indicators are still populated so callers can show
// partial evidence.
type OvulationConfirmation struct {
	IsConfirmed          bool       `json:"is_confirmed"`
	Confidence           float64    `json:"confidence"`
	OvulationDate        *time.Time `json:"ovulation_date"`
	SupportingIndicators []string   `json:"supporting_indicators"`
	Recommendations      []string   `json:"recommendations"`
}

type OvulationLogReader interface {
	ListFertilityLogs(ctx context.Context, userID uint, from time.Time, to time.Time) ([]models.DailyLog, error)
}

type OvulationCycleWriter interface {
	ConfirmOvulation(ctx context.Context, cycleID uint, date time.Time) error
}

type OvulationService struct {
	logs   OvulationLogReader
	cycles OvulationCycleWriter
}

func NewOvulationService(logs OvulationLogReader, cycles OvulationCycleWriter) *OvulationService {
	return &OvulationService{
		logs:   logs,
		cycles: cycles,
	}
}

// ConfirmOvulation fetches the user's fertility logs for the range, runs
// the detector set and fuses the candidates into a single consensus. When
// the consensus clears the confirmation threshold the cycle's confirmed
// ovulation date is persisted. The write happens strictly after the
// consensus computation; it is issued on a detached context so a caller
// cancellation that arrives mid-decision cannot leave a half-applied
// confirmation (best-effort write-then-return).
func (service *OvulationService) ConfirmOvulation(ctx context.Context, userID uint, cycleID uint, from time.Time, to time.Time) (OvulationConfirmation, error) {
	if to.Before(from) {
		return OvulationConfirmation{}, ErrInvalidDateRange
	}

	logs, err := service.logs.ListFertilityLogs(ctx, userID, from, to)
	if err != nil {
		return OvulationConfirmation{}, fmt.Errorf("%w: %v", ErrFertilityLogsLoadFailed, err)
	}

	confirmation := BuildOvulationConfirmation(logs)

	if confirmation.IsConfirmed && confirmation.OvulationDate != nil && cycleID != 0 {
		if err := service.cycles.ConfirmOvulation(context.Background(), cycleID, *confirmation.OvulationDate); err != nil {
			return OvulationConfirmation{}, fmt.Errorf("persist confirmed ovulation: %w", err)
		}
	}

	return confirmation, nil
}

// BuildOvulationConfirmation is the pure consensus computation over an
// already-fetched log snapshot.
func BuildOvulationConfirmation(logs []models.DailyLog) OvulationConfirmation {
	candidates := RunDetectors(logs)
	if len(candidates) == 0 {
		return OvulationConfirmation{
			IsConfirmed:          false,
			Confidence:           0,
			SupportingIndicators: []string{},
			Recommendations: []string{
				"Insufficient data to confirm ovulation. Log more BBT readings, cervical mucus observations, or ovulation test results.",
			},
		}
	}

	cluster := largestCandidateCluster(candidates)
	consensusDate := consensusDate(cluster)
	confidence := combinedConfidence(cluster)
	confirmed := confidence >= ConfirmationThreshold

	labels := make([]string, 0, len(cluster))
	for _, candidate := range cluster {
		labels = append(labels, candidate.Label)
	}

	date := consensusDate
	return OvulationConfirmation{
		IsConfirmed:          confirmed,
		Confidence:           confidence,
		OvulationDate:        &date,
		SupportingIndicators: labels,
		Recommendations:      confirmationRecommendations(confirmed, len(cluster)),
	}
}

// largestCandidateCluster groups candidates whose dates fall within
// ClusterToleranceDays of each other and returns the biggest group.
// Cluster size ties go to the cluster holding the more specific
// indicator, mirroring the tie-break order of OvulationDetectors.
func largestCandidateCluster(candidates []IndicatorCandidate) []IndicatorCandidate {
	best := []IndicatorCandidate{}
	for _, anchor := range candidates {
		cluster := make([]IndicatorCandidate, 0, len(candidates))
		for _, candidate := range candidates {
			gap := daysBetween(anchor.Date, candidate.Date)
			if gap >= -ClusterToleranceDays && gap <= ClusterToleranceDays {
				cluster = append(cluster, candidate)
			}
		}
		if len(cluster) > len(best) {
			best = cluster
		}
	}
	return best
}

var indicatorSpecificity = map[string]int{
	IndicatorOPKSurge:         0,
	IndicatorTemperatureShift: 1,
	IndicatorMucusPeak:        2,
}

// consensusDate picks the majority date inside the cluster; a tie
// prefers the date contributed by the most specific indicator.
func consensusDate(cluster []IndicatorCandidate) time.Time {
	votes := make(map[string]int, len(cluster))
	bestSpecificity := make(map[string]int, len(cluster))
	dates := make(map[string]time.Time, len(cluster))

	for _, candidate := range cluster {
		key := candidate.Date.Format("2006-01-02")
		votes[key]++
		dates[key] = candidate.Date
		specificity, known := indicatorSpecificity[candidate.Label]
		if !known {
			specificity = len(indicatorSpecificity)
		}
		if current, exists := bestSpecificity[key]; !exists || specificity < current {
			bestSpecificity[key] = specificity
		}
	}

	keys := make([]string, 0, len(votes))
	for key := range votes {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		left, right := keys[i], keys[j]
		if votes[left] != votes[right] {
			return votes[left] > votes[right]
		}
		if bestSpecificity[left] != bestSpecificity[right] {
			return bestSpecificity[left] < bestSpecificity[right]
		}
		return left < right
	})

	return dates[keys[0]]
}

// combinedConfidence blends the agreeing detectors' confidences and adds
// a corroboration bonus per extra indicator, capped at 1.0.
func combinedConfidence(cluster []IndicatorCandidate) float64 {
	if len(cluster) == 0 {
		return 0
	}
	values := make([]float64, 0, len(cluster))
	for _, candidate := range cluster {
		values = append(values, candidate.Confidence)
	}
	confidence := meanFloats(values) + CorroborationBonus*float64(len(cluster)-1)
	return minFloat(confidence, 1.0)
}

func confirmationRecommendations(confirmed bool, indicatorCount int) []string {
	if confirmed {
		recommendations := []string{
			"Ovulation confirmed. The fertile window for this cycle has closed.",
		}
		if indicatorCount == 1 {
			recommendations = append(recommendations,
				"Only one indicator supported this confirmation. Logging BBT, mucus, and ovulation tests together improves reliability.")
		}
		return recommendations
	}
	return []string{
		"Ovulation could not be confirmed yet. Keep logging daily BBT, cervical mucus, and ovulation test results.",
	}
}
