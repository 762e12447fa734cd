package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sestako/eunio-core/internal/models"
)

var (
	ErrDayEntryLoadFailed   = errors.New("load day entry failed")
	ErrDayEntrySaveFailed   = errors.New("save day entry failed")
	ErrInvalidFlow          = errors.New("invalid period flow")
	ErrInvalidMucusCategory = errors.New("invalid cervical mucus category")
	ErrInvalidOvulationTest = errors.New("invalid ovulation test result")
	ErrInvalidTemperature   = errors.New("temperature outside plausible range")
)

// DayEntryInput carries one day's observations for upsert.
type DayEntryInput struct {
	Flow            string
	Symptoms        []string
	Mood            string
	Temperature     *float64
	TemperatureUnit string
	CervicalMucus   string
	OvulationTest   string
	Notes           string
}

type DayLogRepository interface {
	ListLogsInRange(ctx context.Context, userID uint, from time.Time, to time.Time) ([]models.DailyLog, error)
	FindByUserAndDate(ctx context.Context, userID uint, dayStart time.Time, dayEnd time.Time) (models.DailyLog, bool, error)
	Save(ctx context.Context, entry *models.DailyLog) error
}

type DayService struct {
	logs     DayLogRepository
	location *time.Location
}

func NewDayService(logs DayLogRepository, location *time.Location) *DayService {
	if location == nil {
		location = time.UTC
	}
	return &DayService{logs: logs, location: location}
}

func (service *DayService) FetchLogsInRange(ctx context.Context, userID uint, from time.Time, to time.Time) ([]models.DailyLog, error) {
	if to.Before(from) {
		return nil, ErrInvalidDateRange
	}
	fromStart, _ := DayRange(from, service.location)
	_, toEnd := DayRange(to, service.location)
	return service.logs.ListLogsInRange(ctx, userID, fromStart, toEnd)
}

// UpsertDayEntry creates or updates the single log for (user, date). The
// bool return reports whether a new entry was created.
func (service *DayService) UpsertDayEntry(ctx context.Context, userID uint, day time.Time, input DayEntryInput) (models.DailyLog, bool, error) {
	if err := validateDayEntryInput(input); err != nil {
		return models.DailyLog{}, false, err
	}

	dayStart, dayEnd := DayRange(day, service.location)
	entry, found, err := service.logs.FindByUserAndDate(ctx, userID, dayStart, dayEnd)
	if err != nil {
		return models.DailyLog{}, false, fmt.Errorf("%w: %v", ErrDayEntryLoadFailed, err)
	}
	if !found {
		entry = models.DailyLog{UserID: userID, Date: dayStart}
	}

	entry.Flow = normalizedFlow(input.Flow)
	entry.Symptoms = input.Symptoms
	entry.Mood = input.Mood
	entry.Temperature = input.Temperature
	entry.TemperatureUnit = normalizedTemperatureUnit(input.TemperatureUnit)
	entry.CervicalMucus = input.CervicalMucus
	entry.OvulationTest = input.OvulationTest
	entry.Notes = input.Notes

	if err := service.logs.Save(ctx, &entry); err != nil {
		return models.DailyLog{}, false, fmt.Errorf("%w: %v", ErrDayEntrySaveFailed, err)
	}
	return entry, !found, nil
}

func validateDayEntryInput(input DayEntryInput) error {
	switch normalizedFlow(input.Flow) {
	case models.FlowNone, models.FlowSpotting, models.FlowLight, models.FlowMedium, models.FlowHeavy:
	default:
		return ErrInvalidFlow
	}

	switch input.CervicalMucus {
	case "", models.MucusDry, models.MucusSticky, models.MucusCreamy, models.MucusWatery, models.MucusEggWhite:
	default:
		return ErrInvalidMucusCategory
	}

	switch input.OvulationTest {
	case "", models.OvulationTestNegative, models.OvulationTestPositive, models.OvulationTestPeak:
	default:
		return ErrInvalidOvulationTest
	}

	if input.Temperature != nil {
		value := *input.Temperature
		if normalizedTemperatureUnit(input.TemperatureUnit) == models.TemperatureUnitCelsius {
			value = value*9.0/5.0 + 32.0
		}
		if value < 90 || value > 110 {
			return ErrInvalidTemperature
		}
	}

	return nil
}

func normalizedFlow(flow string) string {
	if flow == "" {
		return models.FlowNone
	}
	return flow
}

func normalizedTemperatureUnit(unit string) string {
	if unit == models.TemperatureUnitCelsius {
		return models.TemperatureUnitCelsius
	}
	return models.TemperatureUnitFahrenheit
}
