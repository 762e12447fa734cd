package services

import (
	"testing"
	"time"

	"github.com/sestako/eunio-core/internal/models"
)

func mustParseDay(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.ParseInLocation("2006-01-02", value, time.UTC)
	if err != nil {
		t.Fatalf("parse day %q: %v", value, err)
	}
	return parsed
}

func bbtLog(t *testing.T, day string, fahrenheit float64) models.DailyLog {
	t.Helper()
	value := fahrenheit
	return models.DailyLog{
		Date:            mustParseDay(t, day),
		Temperature:     &value,
		TemperatureUnit: models.TemperatureUnitFahrenheit,
	}
}

func mucusLog(t *testing.T, day string, category string) models.DailyLog {
	t.Helper()
	return models.DailyLog{Date: mustParseDay(t, day), CervicalMucus: category}
}

func opkLog(t *testing.T, day string, result string) models.DailyLog {
	t.Helper()
	return models.DailyLog{Date: mustParseDay(t, day), OvulationTest: result}
}

func intPointer(value int) *int {
	return &value
}

func TestDaysBetween(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		from string
		to   string
		want int
	}{
		{name: "same day", from: "2026-03-10", to: "2026-03-10", want: 0},
		{name: "forward", from: "2026-03-10", to: "2026-03-15", want: 5},
		{name: "backward", from: "2026-03-15", to: "2026-03-10", want: -5},
		{name: "across month boundary", from: "2026-01-30", to: "2026-02-02", want: 3},
	}

	for _, testCase := range cases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			got := daysBetween(mustParseDay(t, testCase.from), mustParseDay(t, testCase.to))
			if got != testCase.want {
				t.Fatalf("expected %d days, got %d", testCase.want, got)
			}
		})
	}
}

func TestDaysBetweenAcrossDSTTransition(t *testing.T) {
	t.Parallel()

	// US clocks spring forward on 2026-03-08, leaving that local day
	// only 23 hours long.
	newYork, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	localDay := func(value string) time.Time {
		parsed, err := time.ParseInLocation("2006-01-02", value, newYork)
		if err != nil {
			t.Fatalf("parse day %q: %v", value, err)
		}
		return parsed
	}

	if got := daysBetween(localDay("2026-03-07"), localDay("2026-03-09")); got != 2 {
		t.Fatalf("expected 2 days across the spring-forward, got %d", got)
	}
	if got := daysBetween(localDay("2026-02-15"), localDay("2026-03-14")); got != 27 {
		t.Fatalf("expected 27 days for a span containing the transition, got %d", got)
	}
	if got := daysBetween(localDay("2026-10-31"), localDay("2026-11-02")); got != 2 {
		t.Fatalf("expected 2 days across the fall-back, got %d", got)
	}
}

func TestStdevInts(t *testing.T) {
	t.Parallel()

	if got := stdevInts([]int{28, 28, 28}); got != 0 {
		t.Fatalf("expected zero spread for identical values, got %f", got)
	}
	if got := stdevInts([]int{28}); got != 0 {
		t.Fatalf("expected zero spread for single value, got %f", got)
	}

	got := stdevInts([]int{26, 28, 30})
	if got < 1.6 || got > 1.7 {
		t.Fatalf("expected spread near 1.63, got %f", got)
	}
}

func TestSortLogsByDateDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	logs := []models.DailyLog{
		{Date: mustParseDay(t, "2026-03-12")},
		{Date: mustParseDay(t, "2026-03-10")},
	}
	sorted := sortLogsByDate(logs)

	if !sorted[0].Date.Equal(mustParseDay(t, "2026-03-10")) {
		t.Fatalf("expected sorted first entry 2026-03-10, got %s", sorted[0].Date.Format("2006-01-02"))
	}
	if !logs[0].Date.Equal(mustParseDay(t, "2026-03-12")) {
		t.Fatal("expected original slice order to be preserved")
	}
}
