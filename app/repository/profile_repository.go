package repository

import (
	"context"
	"errors"

	"github.com/jipsalddae/backend/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new profile repository instance
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Get(ctx context.Context, userID string) (*models.UserInfo, error) {
	var info models.UserInfo
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&info).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &info, nil
}

// Upsert inserts the profile or replaces every field of the existing row for the user.
func (r *profileRepository) Upsert(ctx context.Context, info *models.UserInfo) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"birth_date", "income", "asset", "is_house_owner", "is_married", "is_newlywed",
			"has_newborn", "dual_income", "is_single_parent", "is_disabled", "is_multicultural",
			"child_count", "household_size", "updated_at",
		}),
	}).Create(info).Error
}

func (r *profileRepository) Exists(ctx context.Context, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.UserInfo{}).Where("user_id = ?", userID).Count(&count).Error
	return count > 0, err
}
