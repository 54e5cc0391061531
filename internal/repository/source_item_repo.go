package repository

import (
	"context"

	"github.com/ecoverse/ecopress/internal/domain"
	"gorm.io/gorm"
)

// SourceItemRepository handles the queue of unprocessed source items.
type SourceItemRepository struct {
	db *gorm.DB
}

// NewSourceItemRepository creates a new SourceItemRepository.
func NewSourceItemRepository(db *gorm.DB) *SourceItemRepository {
	return &SourceItemRepository{db: db}
}

// ListUnprocessed returns unprocessed items ordered by engagement score
// descending. minScore > 0 adds a minimum-score filter.
func (r *SourceItemRepository) ListUnprocessed(ctx context.Context, minScore float64, limit int) ([]domain.SourceItem, error) {
	var items []domain.SourceItem
	query := r.db.WithContext(ctx).Where("processed = ?", false)
	if minScore > 0 {
		query = query.Where("engagement_score >= ?", minScore)
	}
	if err := query.
		Order("engagement_score DESC").
		Limit(limit).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// MarkProcessed flips the processed flag and links the published
// article. The update is conditional on processed still being false so
// that overlapping invocations cannot both claim the same item; the
// boolean reports whether this caller won the transition.
func (r *SourceItemRepository) MarkProcessed(ctx context.Context, itemID, articleID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.SourceItem{}).
		Where("id = ? AND processed = ?", itemID, false).
		Updates(map[string]interface{}{
			"processed":         true,
			"linked_article_id": articleID,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// GetByID retrieves a source item by its ID.
func (r *SourceItemRepository) GetByID(ctx context.Context, id string) (*domain.SourceItem, error) {
	var item domain.SourceItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}
