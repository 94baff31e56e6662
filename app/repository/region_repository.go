package repository

import (
	"context"
	"errors"

	"github.com/jipsalddae/backend/app/models"
	"gorm.io/gorm"
)

type regionRepository struct {
	db *gorm.DB
}

// NewRegionRepository creates a new region repository instance
func NewRegionRepository(db *gorm.DB) RegionRepository {
	return &regionRepository{db: db}
}

func (r *regionRepository) GetSidoNames(ctx context.Context) ([]string, error) {
	names := make([]string, 0)
	err := r.db.WithContext(ctx).Model(&models.RegionCode{}).
		Distinct("sido").
		Order("sido").
		Pluck("sido", &names).Error
	return names, err
}

// GetSigunguNames skips the sido-level rows whose sigungu is NULL.
func (r *regionRepository) GetSigunguNames(ctx context.Context, sidoName string) ([]string, error) {
	names := make([]string, 0)
	err := r.db.WithContext(ctx).Model(&models.RegionCode{}).
		Where("sido = ? AND sigungu IS NOT NULL", sidoName).
		Distinct("sigungu").
		Order("sigungu").
		Pluck("sigungu", &names).Error
	return names, err
}

func (r *regionRepository) GetRegionCode(ctx context.Context, sidoName, sigunguName string) (string, error) {
	var region models.RegionCode
	err := r.db.WithContext(ctx).
		Where("sido = ? AND sigungu = ?", sidoName, sigunguName).
		First(&region).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrRegionNotFound
		}
		return "", err
	}
	return region.Code, nil
}
