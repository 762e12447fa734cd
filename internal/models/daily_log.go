package models

import "time"

const (
	FlowNone     = "none"
	FlowSpotting = "spotting"
	FlowLight    = "light"
	FlowMedium   = "medium"
	FlowHeavy    = "heavy"
)

const (
	MucusDry      = "dry"
	MucusSticky   = "sticky"
	MucusCreamy   = "creamy"
	MucusWatery   = "watery"
	MucusEggWhite = "egg_white"
)

const (
	OvulationTestNegative = "negative"
	OvulationTestPositive = "positive"
	OvulationTestPeak     = "peak"
)

const (
	TemperatureUnitFahrenheit = "F"
	TemperatureUnitCelsius    = "C"
)

type DailyLog struct {
	ID              uint      `gorm:"primaryKey"`
	UserID          uint      `gorm:"not null;uniqueIndex:uidx_user_date"`
	Date            time.Time `gorm:"type:date;not null;uniqueIndex:uidx_user_date"`
	Flow            string    `gorm:"not null;default:none"`
	Symptoms        []string  `gorm:"serializer:json"`
	Mood            string
	Temperature     *float64
	TemperatureUnit string `gorm:"not null;default:F"`
	CervicalMucus   string
	OvulationTest   string
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsPeriod reports whether the entry records menstrual bleeding.
// Spotting alone does not open a cycle.
func (entry DailyLog) IsPeriod() bool {
	switch entry.Flow {
	case FlowLight, FlowMedium, FlowHeavy:
		return true
	default:
		return false
	}
}

// TemperatureFahrenheit returns the BBT reading normalized to degrees
// Fahrenheit, and false when the entry has no reading.
func (entry DailyLog) TemperatureFahrenheit() (float64, bool) {
	if entry.Temperature == nil {
		return 0, false
	}
	if entry.TemperatureUnit == TemperatureUnitCelsius {
		return *entry.Temperature*9.0/5.0 + 32.0, true
	}
	return *entry.Temperature, true
}
