package repository

import (
	"context"

	"github.com/jipsalddae/backend/app/models"
	"gorm.io/gorm"
)

type favoriteRepository struct {
	db *gorm.DB
}

// NewFavoriteRepository creates a new favorite repository instance
func NewFavoriteRepository(db *gorm.DB) FavoriteRepository {
	return &favoriteRepository{db: db}
}

// Toggle returns whether the policy is a favorite after the call.
func (r *favoriteRepository) Toggle(ctx context.Context, userID string, policyID int) (bool, error) {
	var isFavorite bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		isFavorite, err = models.ToggleFavorite(tx, userID, policyID)
		return err
	})
	return isFavorite, err
}

func (r *favoriteRepository) ListPolicyIDs(ctx context.Context, userID string) ([]int, error) {
	ids := make([]int, 0)
	err := r.db.WithContext(ctx).Model(&models.Favorite{}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Pluck("policy_id", &ids).Error
	return ids, err
}
