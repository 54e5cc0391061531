package domain

import "time"

// ArticleStatus represents the publication status of an article.
type ArticleStatus string

const (
	ArticleStatusDraft     ArticleStatus = "draft"
	ArticleStatusPublished ArticleStatus = "published"
	ArticleStatusArchived  ArticleStatus = "archived"
)

// Article is the durable output of the publishing pipeline.
// Slug carries a unique index; uniqueness is additionally checked
// before insert so collisions surface as allocation retries rather
// than constraint violations.
type Article struct {
	ID               string        `gorm:"type:text;primaryKey" json:"id"`
	Title            string        `gorm:"type:text;not null" json:"title"`
	Slug             string        `gorm:"type:text;not null;uniqueIndex:idx_articles_slug" json:"slug"`
	MetaTitle        string        `gorm:"type:text" json:"meta_title"`
	MetaDescription  string        `gorm:"type:text" json:"meta_description"`
	Excerpt          string        `gorm:"type:text" json:"excerpt"`
	Content          string        `gorm:"type:text" json:"content"`
	MainKeyword      string        `gorm:"type:text" json:"main_keyword"`
	ReadingTime      int           `json:"reading_time"`
	FeaturedImage    string        `gorm:"type:text" json:"featured_image,omitempty"`
	FeaturedImageAlt string        `gorm:"type:text" json:"featured_image_alt,omitempty"`
	Status           ArticleStatus `gorm:"type:text;index:idx_articles_status;default:draft" json:"status"`
	PublishedAt      *time.Time    `json:"published_at,omitempty"`
	AIGenerated      bool          `json:"ai_generated"`
	IsCurated        bool          `json:"is_curated"`
	AuthorID         string        `gorm:"type:text" json:"author_id,omitempty"`
	SourceURL        string        `gorm:"type:text" json:"source_url,omitempty"`
	SourceName       string        `gorm:"type:text" json:"source_name,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

// TableName returns the database table name for Article.
func (Article) TableName() string {
	return "articles"
}

// GeneratedDraft is the in-memory article produced by the content
// generator for a single source item. It is never persisted as-is;
// the publisher turns it into an Article.
type GeneratedDraft struct {
	Title           string `json:"title"`
	Slug            string `json:"slug"`
	MetaTitle       string `json:"metaTitle"`
	MetaDescription string `json:"metaDescription"`
	Excerpt         string `json:"excerpt"`
	HTMLContent     string `json:"htmlContent"`
	MainKeyword     string `json:"mainKeyword"`
	ReadingTime     int    `json:"readingTimeMinutes"`
	ImageAltText    string `json:"imageAltText"`
}

// ImageResolution is the outcome of the image resolution chain for
// one article. URL may be empty when fallback is disabled and AI
// generation failed; publishing proceeds without an image in that case.
type ImageResolution struct {
	URL         string `json:"url,omitempty"`
	AIGenerated bool   `json:"ai_generated"`
}
