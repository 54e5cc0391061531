package domain

import "time"

// SourceItem is a queued piece of raw news awaiting transformation
// into an article. Rows are created by the ingestion process; the
// pipeline only ever flips Processed and sets LinkedArticleID.
type SourceItem struct {
	ID              string    `gorm:"type:text;primaryKey" json:"id"`
	Title           string    `gorm:"type:text;not null" json:"title"`
	RawContent      string    `gorm:"type:text" json:"raw_content,omitempty"`
	SourceURL       string    `gorm:"type:text;not null" json:"source_url"`
	SourceName      string    `gorm:"type:text" json:"source_name,omitempty"`
	EngagementScore float64   `gorm:"index:idx_source_items_score" json:"engagement_score"`
	Processed       bool      `gorm:"index:idx_source_items_processed;default:false" json:"processed"`
	LinkedArticleID string    `gorm:"type:text" json:"linked_article_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TableName returns the database table name for SourceItem.
func (SourceItem) TableName() string {
	return "source_items"
}
