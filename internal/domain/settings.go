package domain

// Setting is a single key/value row in the operational settings table.
// The table is written by the admin back office; this subsystem only reads it.
type Setting struct {
	Key   string `gorm:"type:text;primaryKey;column:key" json:"key"`
	Value string `gorm:"type:text;column:value" json:"value"`
}

// TableName returns the database table name for Setting.
func (Setting) TableName() string {
	return "automation_settings"
}

// Setting keys recognized by the pipeline. Unknown keys are ignored.
const (
	SettingArticlesPerExecution = "articles_per_execution"
	SettingDailyTarget          = "daily_target"
	SettingImageFallbackEnabled = "image_fallback_enabled"
	SettingTrendingBoostEnabled = "trending_boost_enabled"
)

// AutomationSettings is the resolved configuration for one pipeline
// invocation. It is constructed once per run and passed down
// explicitly; no component reads settings out of ambient state.
type AutomationSettings struct {
	ArticlesPerExecution int  `json:"articles_per_execution"`
	DailyTarget          int  `json:"daily_target"`
	ImageFallbackEnabled bool `json:"image_fallback_enabled"`
	TrendingBoostEnabled bool `json:"trending_boost_enabled"`
}

// DefaultAutomationSettings returns the documented per-key defaults
// applied when a key is absent or its value cannot be parsed.
func DefaultAutomationSettings() AutomationSettings {
	return AutomationSettings{
		ArticlesPerExecution: 3,
		DailyTarget:          15,
		ImageFallbackEnabled: true,
		TrendingBoostEnabled: true,
	}
}
