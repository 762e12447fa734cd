package models

import "time"

const (
	InsightTypePattern         = "pattern_recognition"
	InsightTypeEarlyWarning    = "early_warning"
	InsightTypeCyclePrediction = "cycle_prediction"
	InsightTypeFertilityWindow = "fertility_window"
)

// Insight records are append-only: the engine creates them and only the
// IsRead flag is ever updated afterwards. Dismissed insights stay in the
// table for history.
type Insight struct {
	ID            string    `gorm:"primaryKey"`
	UserID        uint      `gorm:"not null;index"`
	GeneratedDate time.Time `gorm:"type:date;not null"`
	Text          string    `gorm:"not null"`
	Type          string    `gorm:"not null;index"`
	Confidence    float64   `gorm:"not null"`
	Actionable    bool      `gorm:"not null;default:false"`
	IsRead        bool      `gorm:"not null;default:false"`
	RelatedLogIDs []uint    `gorm:"serializer:json"`
	CreatedAt     time.Time
}
