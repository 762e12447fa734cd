package db

import (
	"context"

	"github.com/sestako/eunio-core/internal/models"
	"gorm.io/gorm"
)

type CycleRepository struct {
	database *gorm.DB
}

func NewCycleRepository(database *gorm.DB) *CycleRepository {
	return &CycleRepository{database: database}
}

func (repo *CycleRepository) FindCurrent(ctx context.Context, userID uint) (models.Cycle, bool, error) {
	cycle := models.Cycle{}
	result := repo.database.WithContext(ctx).
		Where("user_id = ? AND end_date IS NULL", userID).
		Order("start_date DESC").
		Limit(1).
		Find(&cycle)
	if result.Error != nil {
		return models.Cycle{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.Cycle{}, false, nil
	}
	return cycle, true, nil
}

func (repo *CycleRepository) FindByID(ctx context.Context, cycleID uint) (models.Cycle, bool, error) {
	cycle := models.Cycle{}
	result := repo.database.WithContext(ctx).
		Where("id = ?", cycleID).
		Limit(1).
		Find(&cycle)
	if result.Error != nil {
		return models.Cycle{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.Cycle{}, false, nil
	}
	return cycle, true, nil
}

// ListHistory returns the user's most recent cycles in chronological
// order, capped at limit.
func (repo *CycleRepository) ListHistory(ctx context.Context, userID uint, limit int) ([]models.Cycle, error) {
	cycles := make([]models.Cycle, 0)
	query := repo.database.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("start_date DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&cycles).Error; err != nil {
		return nil, err
	}

	for left, right := 0, len(cycles)-1; left < right; left, right = left+1, right-1 {
		cycles[left], cycles[right] = cycles[right], cycles[left]
	}
	return cycles, nil
}

func (repo *CycleRepository) Save(ctx context.Context, cycle *models.Cycle) error {
	return repo.database.WithContext(ctx).Save(cycle).Error
}

// CloseAndStart writes the closing and opening cycles in one transaction
// so the one-active-cycle invariant never breaks between the two writes.
func (repo *CycleRepository) CloseAndStart(ctx context.Context, closing *models.Cycle, opening *models.Cycle) error {
	return repo.database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(closing).Error; err != nil {
			return err
		}
		return tx.Save(opening).Error
	})
}
