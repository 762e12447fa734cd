package db

import (
	"context"

	"github.com/sestako/eunio-core/internal/models"
	"gorm.io/gorm"
)

type InsightRepository struct {
	database *gorm.DB
}

func NewInsightRepository(database *gorm.DB) *InsightRepository {
	return &InsightRepository{database: database}
}

// BatchSave inserts a user's new insights in one transaction. Insights
// are append-only: existing rows are never modified here.
func (repo *InsightRepository) BatchSave(ctx context.Context, insights []models.Insight) error {
	if len(insights) == 0 {
		return nil
	}
	return repo.database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&insights).Error
	})
}

func (repo *InsightRepository) ListByUser(ctx context.Context, userID uint, limit int) ([]models.Insight, error) {
	insights := make([]models.Insight, 0)
	query := repo.database.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("generated_date DESC, created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&insights).Error; err != nil {
		return nil, err
	}
	return insights, nil
}

// MarkRead flips the read flag. This is the only mutation ever applied
// to an insight row; dismissed insights stay on record.
func (repo *InsightRepository) MarkRead(ctx context.Context, insightID string) error {
	return repo.database.WithContext(ctx).
		Model(&models.Insight{}).
		Where("id = ?", insightID).
		Update("is_read", true).Error
}
