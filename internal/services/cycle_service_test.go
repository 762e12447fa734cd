package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sestako/eunio-core/internal/models"
)

type fakeCycleRepository struct {
	current       *models.Cycle
	byID          map[uint]models.Cycle
	history       []models.Cycle
	saved         []models.Cycle
	closedOpened  [][2]models.Cycle
	findErr       error
	saveErr       error
	closeStartErr error
}

func (repo *fakeCycleRepository) FindCurrent(_ context.Context, _ uint) (models.Cycle, bool, error) {
	if repo.findErr != nil {
		return models.Cycle{}, false, repo.findErr
	}
	if repo.current == nil {
		return models.Cycle{}, false, nil
	}
	return *repo.current, true, nil
}

func (repo *fakeCycleRepository) FindByID(_ context.Context, cycleID uint) (models.Cycle, bool, error) {
	if repo.findErr != nil {
		return models.Cycle{}, false, repo.findErr
	}
	cycle, found := repo.byID[cycleID]
	return cycle, found, nil
}

func (repo *fakeCycleRepository) ListHistory(_ context.Context, _ uint, limit int) ([]models.Cycle, error) {
	if repo.findErr != nil {
		return nil, repo.findErr
	}
	return tailCycles(repo.history, limit), nil
}

func (repo *fakeCycleRepository) Save(_ context.Context, cycle *models.Cycle) error {
	if repo.saveErr != nil {
		return repo.saveErr
	}
	repo.saved = append(repo.saved, *cycle)
	return nil
}

func (repo *fakeCycleRepository) CloseAndStart(_ context.Context, closing *models.Cycle, opening *models.Cycle) error {
	if repo.closeStartErr != nil {
		return repo.closeStartErr
	}
	repo.closedOpened = append(repo.closedOpened, [2]models.Cycle{*closing, *opening})
	return nil
}

func TestBuildCycleInfoPhases(t *testing.T) {
	t.Parallel()

	start := mustParseDay(t, "2026-01-01")
	cycle := models.Cycle{ID: 7, StartDate: start}

	cases := []struct {
		name      string
		reference string
		wantDay   int
		wantPhase string
	}{
		{name: "first day is menstrual", reference: "2026-01-01", wantDay: 1, wantPhase: PhaseMenstrual},
		{name: "day five still menstrual", reference: "2026-01-05", wantDay: 5, wantPhase: PhaseMenstrual},
		{name: "day six follicular", reference: "2026-01-06", wantDay: 6, wantPhase: PhaseFollicular},
		{name: "day fourteen ovulation window", reference: "2026-01-14", wantDay: 14, wantPhase: PhaseOvulationWindow},
		{name: "day seventeen luteal", reference: "2026-01-17", wantDay: 17, wantPhase: PhaseLuteal},
	}

	for _, testCase := range cases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			info := BuildCycleInfo(cycle, mustParseDay(t, testCase.reference))
			if info.CurrentDay != testCase.wantDay {
				t.Fatalf("expected day %d, got %d", testCase.wantDay, info.CurrentDay)
			}
			if info.Phase != testCase.wantPhase {
				t.Fatalf("expected phase %s, got %s", testCase.wantPhase, info.Phase)
			}
		})
	}
}

func TestBuildCycleInfoNextPeriodCountdown(t *testing.T) {
	t.Parallel()

	start := mustParseDay(t, "2026-01-01")

	info := BuildCycleInfo(models.Cycle{StartDate: start}, mustParseDay(t, "2026-01-10"))
	if info.DaysUntilNextPeriod == nil {
		t.Fatal("expected a countdown inside the default estimate")
	}
	if *info.DaysUntilNextPeriod != 19 {
		t.Fatalf("expected 19 days until next period on day 10 of a 28-day default, got %d", *info.DaysUntilNextPeriod)
	}

	ownLength := 30
	info = BuildCycleInfo(models.Cycle{StartDate: start, CycleLength: &ownLength}, mustParseDay(t, "2026-01-10"))
	if info.DaysUntilNextPeriod == nil || *info.DaysUntilNextPeriod != 21 {
		t.Fatalf("expected the cycle's own length to drive the countdown, got %v", info.DaysUntilNextPeriod)
	}

	info = BuildCycleInfo(models.Cycle{StartDate: start}, mustParseDay(t, "2026-02-15"))
	if info.DaysUntilNextPeriod != nil {
		t.Fatalf("expected no countdown past the estimated length, got %d", *info.DaysUntilNextPeriod)
	}
}

func TestStartNewCycleClosesActiveCycle(t *testing.T) {
	t.Parallel()

	active := models.Cycle{ID: 1, UserID: 5, StartDate: mustParseDay(t, "2026-01-01")}
	repo := &fakeCycleRepository{current: &active}
	service := NewCycleService(repo)

	opened, err := service.StartNewCycle(context.Background(), 5,
		mustParseDay(t, "2026-01-29"), mustParseDay(t, "2026-02-01"))
	if err != nil {
		t.Fatalf("start new cycle: %v", err)
	}

	if len(repo.closedOpened) != 1 {
		t.Fatalf("expected one close-and-start transaction, got %d", len(repo.closedOpened))
	}
	closed := repo.closedOpened[0][0]
	if closed.EndDate == nil || closed.EndDate.Format("2006-01-02") != "2026-01-28" {
		t.Fatalf("expected closing end date 2026-01-28, got %v", closed.EndDate)
	}
	if closed.CycleLength == nil || *closed.CycleLength != 28 {
		t.Fatalf("expected closed cycle length 28, got %v", closed.CycleLength)
	}
	if opened.StartDate.Format("2006-01-02") != "2026-01-29" {
		t.Fatalf("expected new cycle to start 2026-01-29, got %s", opened.StartDate.Format("2006-01-02"))
	}
	if !opened.IsActive() {
		t.Fatal("expected new cycle to be active")
	}
}

func TestStartNewCycleWithoutExistingCycle(t *testing.T) {
	t.Parallel()

	repo := &fakeCycleRepository{}
	service := NewCycleService(repo)

	opened, err := service.StartNewCycle(context.Background(), 5,
		mustParseDay(t, "2026-01-10"), mustParseDay(t, "2026-01-10"))
	if err != nil {
		t.Fatalf("start new cycle: %v", err)
	}
	if len(repo.saved) != 1 {
		t.Fatalf("expected one save, got %d", len(repo.saved))
	}
	if !opened.IsActive() {
		t.Fatal("expected opened cycle to be active")
	}
}

func TestStartNewCycleRejectsFutureDate(t *testing.T) {
	t.Parallel()

	service := NewCycleService(&fakeCycleRepository{})

	_, err := service.StartNewCycle(context.Background(), 5,
		mustParseDay(t, "2026-02-01"), mustParseDay(t, "2026-01-15"))
	if !errors.Is(err, ErrStartDateInFuture) {
		t.Fatalf("expected ErrStartDateInFuture, got %v", err)
	}
}

func TestStartNewCycleRejectsStartBeforeActiveCycle(t *testing.T) {
	t.Parallel()

	active := models.Cycle{ID: 1, UserID: 5, StartDate: mustParseDay(t, "2026-01-20")}
	service := NewCycleService(&fakeCycleRepository{current: &active})

	_, err := service.StartNewCycle(context.Background(), 5,
		mustParseDay(t, "2026-01-10"), mustParseDay(t, "2026-02-01"))
	if !errors.Is(err, ErrEndBeforeStart) {
		t.Fatalf("expected ErrEndBeforeStart, got %v", err)
	}
}

func TestAverageCycleLength(t *testing.T) {
	t.Parallel()

	repo := &fakeCycleRepository{history: []models.Cycle{
		{CycleLength: intPointer(28)},
		{CycleLength: intPointer(30)},
		{CycleLength: intPointer(26)},
		{},
	}}
	service := NewCycleService(repo)

	average, found, err := service.AverageCycleLength(context.Background(), 5, 6)
	if err != nil {
		t.Fatalf("average cycle length: %v", err)
	}
	if !found {
		t.Fatal("expected an average")
	}
	if average != 28 {
		t.Fatalf("expected average 28, got %f", average)
	}
}

func TestAverageCycleLengthNoClosedCycles(t *testing.T) {
	t.Parallel()

	service := NewCycleService(&fakeCycleRepository{history: []models.Cycle{{}}})

	_, found, err := service.AverageCycleLength(context.Background(), 5, 6)
	if err != nil {
		t.Fatalf("average cycle length: %v", err)
	}
	if found {
		t.Fatal("expected no average without closed cycles")
	}
}

func TestCompleteCycleValidatesLength(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		endDate string
		wantErr error
	}{
		{name: "end before start", endDate: "2025-12-20", wantErr: ErrEndBeforeStart},
		{name: "too short", endDate: "2026-01-10", wantErr: ErrImplausibleCycleLength},
		{name: "too long", endDate: "2026-02-20", wantErr: ErrImplausibleCycleLength},
	}

	for _, testCase := range cases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			repo := &fakeCycleRepository{byID: map[uint]models.Cycle{
				3: {ID: 3, StartDate: mustParseDay(t, "2026-01-01")},
			}}
			service := NewCycleService(repo)

			_, err := service.CompleteCycle(context.Background(), 3, mustParseDay(t, testCase.endDate))
			if !errors.Is(err, testCase.wantErr) {
				t.Fatalf("expected %v, got %v", testCase.wantErr, err)
			}
			if len(repo.saved) != 0 {
				t.Fatal("expected no save on validation failure")
			}
		})
	}
}

func TestCompleteCycleComputesLengthAndLutealPhase(t *testing.T) {
	t.Parallel()

	ovulation := mustParseDay(t, "2026-01-14")
	repo := &fakeCycleRepository{byID: map[uint]models.Cycle{
		3: {ID: 3, StartDate: mustParseDay(t, "2026-01-01"), ConfirmedOvulationDate: &ovulation},
	}}
	service := NewCycleService(repo)

	cycle, err := service.CompleteCycle(context.Background(), 3, mustParseDay(t, "2026-01-28"))
	if err != nil {
		t.Fatalf("complete cycle: %v", err)
	}
	if cycle.CycleLength == nil || *cycle.CycleLength != 28 {
		t.Fatalf("expected length 28, got %v", cycle.CycleLength)
	}
	if cycle.LutealPhaseLength == nil || *cycle.LutealPhaseLength != 14 {
		t.Fatalf("expected luteal phase 14, got %v", cycle.LutealPhaseLength)
	}
}

func TestCompleteCycleLengthUnaffectedByDSTTransition(t *testing.T) {
	t.Parallel()

	newYork, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	start, err := time.ParseInLocation("2006-01-02", "2026-02-15", newYork)
	if err != nil {
		t.Fatalf("parse start: %v", err)
	}
	end, err := time.ParseInLocation("2006-01-02", "2026-03-14", newYork)
	if err != nil {
		t.Fatalf("parse end: %v", err)
	}

	repo := &fakeCycleRepository{byID: map[uint]models.Cycle{
		3: {ID: 3, StartDate: start},
	}}
	service := NewCycleService(repo)

	// The span contains the 2026-03-08 spring-forward; the length must
	// still be endDate - startDate + 1 in calendar days.
	cycle, err := service.CompleteCycle(context.Background(), 3, end)
	if err != nil {
		t.Fatalf("complete cycle: %v", err)
	}
	if cycle.CycleLength == nil || *cycle.CycleLength != 28 {
		t.Fatalf("expected length 28 across the transition, got %v", cycle.CycleLength)
	}
}

func TestConfirmOvulationRecomputesLutealOnClosedCycle(t *testing.T) {
	t.Parallel()

	end := mustParseDay(t, "2026-01-28")
	length := 28
	repo := &fakeCycleRepository{byID: map[uint]models.Cycle{
		3: {ID: 3, StartDate: mustParseDay(t, "2026-01-01"), EndDate: &end, CycleLength: &length},
	}}
	service := NewCycleService(repo)

	if err := service.ConfirmOvulation(context.Background(), 3, mustParseDay(t, "2026-01-15")); err != nil {
		t.Fatalf("confirm ovulation: %v", err)
	}
	if len(repo.saved) != 1 {
		t.Fatalf("expected one save, got %d", len(repo.saved))
	}
	saved := repo.saved[0]
	if saved.ConfirmedOvulationDate == nil || saved.ConfirmedOvulationDate.Format("2006-01-02") != "2026-01-15" {
		t.Fatalf("expected confirmed date 2026-01-15, got %v", saved.ConfirmedOvulationDate)
	}
	if saved.LutealPhaseLength == nil || *saved.LutealPhaseLength != 13 {
		t.Fatalf("expected luteal phase 13, got %v", saved.LutealPhaseLength)
	}
}

func TestConfirmOvulationUnknownCycle(t *testing.T) {
	t.Parallel()

	service := NewCycleService(&fakeCycleRepository{byID: map[uint]models.Cycle{}})

	err := service.ConfirmOvulation(context.Background(), 99, mustParseDay(t, "2026-01-15"))
	if !errors.Is(err, ErrCycleNotFound) {
		t.Fatalf("expected ErrCycleNotFound, got %v", err)
	}
}
