package repository

import (
	"context"
	"errors"

	"github.com/jipsalddae/backend/app/models"
	"gorm.io/gorm"
)

type incomeStandardRepository struct {
	db *gorm.DB
}

func NewIncomeStandardRepository(db *gorm.DB) IncomeStandardRepository {
	return &incomeStandardRepository{db: db}
}

func (r *incomeStandardRepository) GetStandard(ctx context.Context, householdSize int) (int64, bool, error) {
	var std models.IncomeStandard
	err := r.db.WithContext(ctx).Where("household_size = ?", householdSize).First(&std).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return std.MonthlyIncome, true, nil
}

func (r *incomeStandardRepository) GetAll(ctx context.Context) ([]models.IncomeStandard, error) {
	var rows []models.IncomeStandard
	err := r.db.WithContext(ctx).Order("household_size").Find(&rows).Error
	return rows, err
}
