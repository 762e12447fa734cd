package models

import "time"

const DefaultCycleLength = 28

type Cycle struct {
	ID                     uint      `gorm:"primaryKey"`
	UserID                 uint      `gorm:"not null;index"`
	StartDate              time.Time `gorm:"type:date;not null"`
	EndDate                *time.Time
	PredictedOvulationDate *time.Time
	ConfirmedOvulationDate *time.Time
	CycleLength            *int
	LutealPhaseLength      *int
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// IsActive reports whether the cycle is still open (no period start has
// closed it yet).
func (cycle Cycle) IsActive() bool {
	return cycle.EndDate == nil
}

// OvulationDate returns the confirmed ovulation date when present, falling
// back to the predicted one.
func (cycle Cycle) OvulationDate() (time.Time, bool) {
	if cycle.ConfirmedOvulationDate != nil {
		return *cycle.ConfirmedOvulationDate, true
	}
	if cycle.PredictedOvulationDate != nil {
		return *cycle.PredictedOvulationDate, true
	}
	return time.Time{}, false
}
