package repository

import (
	"context"

	"github.com/ecoverse/ecopress/internal/domain"
	"gorm.io/gorm"
)

// SettingRepository reads the operational key/value settings table.
// The pipeline never writes settings; the admin back office owns them.
type SettingRepository struct {
	db *gorm.DB
}

// NewSettingRepository creates a new SettingRepository.
func NewSettingRepository(db *gorm.DB) *SettingRepository {
	return &SettingRepository{db: db}
}

// GetAll returns every settings row.
func (r *SettingRepository) GetAll(ctx context.Context) ([]domain.Setting, error) {
	var settings []domain.Setting
	if err := r.db.WithContext(ctx).Find(&settings).Error; err != nil {
		return nil, err
	}
	return settings, nil
}
