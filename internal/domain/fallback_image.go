package domain

import "time"

// FallbackImage is a curated stock image used when AI image
// generation is unavailable or disabled. UsageCount drives
// least-recently-used selection within a category.
type FallbackImage struct {
	ID         string    `gorm:"type:text;primaryKey" json:"id"`
	URL        string    `gorm:"type:text;not null" json:"url"`
	Category   string    `gorm:"type:text;index:idx_fallback_images_category" json:"category"`
	UsageCount int64     `gorm:"default:0" json:"usage_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName returns the database table name for FallbackImage.
func (FallbackImage) TableName() string {
	return "fallback_images"
}
