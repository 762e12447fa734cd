package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sestako/eunio-core/internal/models"
)

const (
	PhaseMenstrual       = "menstrual"
	PhaseFollicular      = "follicular"
	PhaseOvulationWindow = "ovulation_window"
	PhaseLuteal          = "luteal"
)

var (
	ErrStartDateInFuture      = errors.New("cycle start date is in the future")
	ErrEndBeforeStart         = errors.New("cycle end date before start date")
	ErrImplausibleCycleLength = errors.New("cycle length outside plausible range")
	ErrCycleNotFound          = errors.New("cycle not found")
	ErrCycleHistoryLoadFailed = errors.New("load cycle history failed")
	ErrCycleSaveFailed        = errors.New("save cycle failed")
)

// CycleInfo is the running state of the active cycle on a reference day.
type CycleInfo struct {
	CycleID             uint      `json:"cycle_id"`
	StartDate           time.Time `json:"start_date"`
	CurrentDay          int       `json:"current_day"`
	Phase               string    `json:"phase"`
	DaysUntilNextPeriod *int      `json:"days_until_next_period"`
	IsActive            bool      `json:"is_active"`
}

type CycleRepository interface {
	FindCurrent(ctx context.Context, userID uint) (models.Cycle, bool, error)
	FindByID(ctx context.Context, cycleID uint) (models.Cycle, bool, error)
	ListHistory(ctx context.Context, userID uint, limit int) ([]models.Cycle, error)
	Save(ctx context.Context, cycle *models.Cycle) error
	CloseAndStart(ctx context.Context, closing *models.Cycle, opening *models.Cycle) error
}

type CycleService struct {
	cycles CycleRepository
}

func NewCycleService(cycles CycleRepository) *CycleService {
	return &CycleService{cycles: cycles}
}

// CurrentCycleInfo reports the day number, phase, and next-period
// estimate for the user's active cycle. The second return is false when
// the user has no cycle on record.
func (service *CycleService) CurrentCycleInfo(ctx context.Context, userID uint, referenceDate time.Time) (CycleInfo, bool, error) {
	cycle, found, err := service.cycles.FindCurrent(ctx, userID)
	if err != nil {
		return CycleInfo{}, false, fmt.Errorf("%w: %v", ErrCycleHistoryLoadFailed, err)
	}
	if !found {
		return CycleInfo{}, false, nil
	}

	return BuildCycleInfo(cycle, referenceDate), true, nil
}

// BuildCycleInfo is the pure state computation over a single cycle.
func BuildCycleInfo(cycle models.Cycle, referenceDate time.Time) CycleInfo {
	currentDay := daysBetween(cycle.StartDate, referenceDate) + 1
	if currentDay < 1 {
		currentDay = 1
	}

	estimatedLength := models.DefaultCycleLength
	if cycle.CycleLength != nil && *cycle.CycleLength > 0 {
		estimatedLength = *cycle.CycleLength
	}

	info := CycleInfo{
		CycleID:    cycle.ID,
		StartDate:  dateOnly(cycle.StartDate),
		CurrentDay: currentDay,
		Phase:      PhaseForDay(currentDay),
		IsActive:   cycle.IsActive(),
	}

	// Past the estimated length the prediction is unreliable, so no
	// countdown is reported.
	if currentDay <= estimatedLength {
		remaining := estimatedLength - currentDay + 1
		info.DaysUntilNextPeriod = &remaining
	}

	return info
}

// PhaseForDay maps a 1-based cycle day onto the default phase bands.
// The boundaries are defaults, not hard medical limits.
func PhaseForDay(day int) string {
	switch {
	case day <= MenstrualPhaseLastDay:
		return PhaseMenstrual
	case day <= FollicularPhaseLastDay:
		return PhaseFollicular
	case day <= OvulationWindowPhaseLastDay:
		return PhaseOvulationWindow
	default:
		return PhaseLuteal
	}
}

// StartNewCycle opens a cycle at startDate. Any active cycle is closed at
// startDate-1 with its length computed, in the same transaction that
// creates the new cycle, so the one-active-cycle invariant holds at every
// observable point.
func (service *CycleService) StartNewCycle(ctx context.Context, userID uint, startDate time.Time, now time.Time) (models.Cycle, error) {
	start := dateOnly(startDate)
	if start.After(dateOnly(now)) {
		return models.Cycle{}, ErrStartDateInFuture
	}

	opening := models.Cycle{UserID: userID, StartDate: start}

	active, found, err := service.cycles.FindCurrent(ctx, userID)
	if err != nil {
		return models.Cycle{}, fmt.Errorf("%w: %v", ErrCycleHistoryLoadFailed, err)
	}

	if !found {
		if err := service.cycles.Save(ctx, &opening); err != nil {
			return models.Cycle{}, fmt.Errorf("%w: %v", ErrCycleSaveFailed, err)
		}
		return opening, nil
	}

	end := start.AddDate(0, 0, -1)
	if end.Before(dateOnly(active.StartDate)) {
		return models.Cycle{}, ErrEndBeforeStart
	}

	length := daysBetween(active.StartDate, end) + 1
	active.EndDate = &end
	active.CycleLength = &length
	applyLutealPhase(&active)

	if err := service.cycles.CloseAndStart(ctx, &active, &opening); err != nil {
		return models.Cycle{}, fmt.Errorf("%w: %v", ErrCycleSaveFailed, err)
	}
	return opening, nil
}

// AverageCycleLength returns the mean length of the user's last n closed
// cycles; the second return is false when no closed cycle exists.
func (service *CycleService) AverageCycleLength(ctx context.Context, userID uint, n int) (float64, bool, error) {
	if n <= 0 {
		return 0, false, ErrInvalidDateRange
	}

	history, err := service.cycles.ListHistory(ctx, userID, n)
	if err != nil {
		return 0, false, fmt.Errorf("%w: %v", ErrCycleHistoryLoadFailed, err)
	}

	lengths := make([]int, 0, len(history))
	for _, cycle := range history {
		if cycle.CycleLength != nil {
			lengths = append(lengths, *cycle.CycleLength)
		}
	}
	if len(lengths) == 0 {
		return 0, false, nil
	}
	return meanInts(lengths), true, nil
}

// ConfirmOvulation stamps the confirmed ovulation date on a cycle and
// recomputes the luteal phase length when the cycle is already closed.
func (service *CycleService) ConfirmOvulation(ctx context.Context, cycleID uint, date time.Time) error {
	cycle, found, err := service.cycles.FindByID(ctx, cycleID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCycleHistoryLoadFailed, err)
	}
	if !found {
		return ErrCycleNotFound
	}

	confirmed := dateOnly(date)
	cycle.ConfirmedOvulationDate = &confirmed
	applyLutealPhase(&cycle)

	if err := service.cycles.Save(ctx, &cycle); err != nil {
		return fmt.Errorf("%w: %v", ErrCycleSaveFailed, err)
	}
	return nil
}

// CompleteCycle closes a cycle at endDate. The resulting length must fall
// inside the plausible band so obvious logging mistakes bounce back to
// the caller as validation errors.
func (service *CycleService) CompleteCycle(ctx context.Context, cycleID uint, endDate time.Time) (models.Cycle, error) {
	cycle, found, err := service.cycles.FindByID(ctx, cycleID)
	if err != nil {
		return models.Cycle{}, fmt.Errorf("%w: %v", ErrCycleHistoryLoadFailed, err)
	}
	if !found {
		return models.Cycle{}, ErrCycleNotFound
	}

	end := dateOnly(endDate)
	if end.Before(dateOnly(cycle.StartDate)) {
		return models.Cycle{}, ErrEndBeforeStart
	}

	length := daysBetween(cycle.StartDate, end) + 1
	if length < MinPlausibleCycleLength || length > MaxPlausibleCycleLength {
		return models.Cycle{}, fmt.Errorf("%w: %d days", ErrImplausibleCycleLength, length)
	}

	cycle.EndDate = &end
	cycle.CycleLength = &length
	applyLutealPhase(&cycle)

	if err := service.cycles.Save(ctx, &cycle); err != nil {
		return models.Cycle{}, fmt.Errorf("%w: %v", ErrCycleSaveFailed, err)
	}
	return cycle, nil
}

// applyLutealPhase derives the luteal phase length once both a confirmed
// ovulation date and a cycle end are known.
func applyLutealPhase(cycle *models.Cycle) {
	if cycle.ConfirmedOvulationDate == nil || cycle.EndDate == nil {
		return
	}
	luteal := daysBetween(*cycle.ConfirmedOvulationDate, *cycle.EndDate)
	if luteal < 0 {
		return
	}
	cycle.LutealPhaseLength = &luteal
}
