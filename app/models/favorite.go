package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

type Favorite struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"uniqueIndex:idx_favorite_user_policy;type:varchar(36);not null" json:"user_id"`
	PolicyID  int       `gorm:"uniqueIndex:idx_favorite_user_policy;not null" json:"policy_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Favorite) TableName() string {
	return "favorites"
}

// ToggleFavorite adds the favorite when absent and removes it when present.
// It returns whether the policy is a favorite afterwards.
func ToggleFavorite(db *gorm.DB, userID string, policyID int) (bool, error) {
	var fav Favorite
	result := db.Where("user_id = ? AND policy_id = ?", userID, policyID).First(&fav)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			newFav := Favorite{
				UserID:   userID,
				PolicyID: policyID,
			}
			if err := db.Create(&newFav).Error; err != nil {
				return false, err
			}
			return true, nil
		}
		return false, result.Error
	}

	if err := db.Delete(&fav).Error; err != nil {
		return true, err
	}
	return false, nil
}
