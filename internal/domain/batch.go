package domain

import "time"

// BatchResult summarizes one pipeline invocation. It is returned to
// the caller (scheduler or admin trigger) and never persisted.
type BatchResult struct {
	PublishedArticles []Article `json:"published_articles"`
	Errors            []string  `json:"errors,omitempty"`
	StartedAt         time.Time `json:"started_at"`
	FinishedAt        time.Time `json:"finished_at"`
	DryRun            bool      `json:"dry_run,omitempty"`
}

// Published returns the number of articles published in the batch.
func (r *BatchResult) Published() int {
	return len(r.PublishedArticles)
}
