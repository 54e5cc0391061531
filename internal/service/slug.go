package service

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// maxSlugAttempts bounds the collision loop. A title colliding this
// many times indicates something pathological upstream, so the
// allocation fails instead of spinning.
const maxSlugAttempts = 100

// ErrSlugExhausted is returned when no free slug is found within the
// attempt bound.
var ErrSlugExhausted = fmt.Errorf("slug allocation exhausted after %d attempts", maxSlugAttempts)

// SlugAllocator derives URL slugs and guarantees uniqueness against
// the article store.
type SlugAllocator struct {
	articles ArticleStore
}

// NewSlugAllocator creates a new SlugAllocator.
func NewSlugAllocator(articles ArticleStore) *SlugAllocator {
	return &SlugAllocator{articles: articles}
}

// Slugify normalizes free text into a URL slug: lowercase, diacritics
// stripped, runs of non-alphanumerics collapsed to single hyphens.
func Slugify(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}

	var b strings.Builder
	lastHyphen := true // trims leading hyphens
	for _, r := range strings.ToLower(stripped) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastHyphen = false
		} else if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// Allocate returns a slug that does not yet exist in the article
// store, starting from the candidate and appending -1, -2, ... until a
// free one is found. The loop is bounded; hitting the bound is a
// terminal error for the item.
func (a *SlugAllocator) Allocate(ctx context.Context, candidate string) (string, error) {
	base := Slugify(candidate)
	if base == "" {
		base = "article"
	}

	slug := base
	for attempt := 1; attempt <= maxSlugAttempts; attempt++ {
		taken, err := a.articles.SlugExists(ctx, slug)
		if err != nil {
			return "", fmt.Errorf("failed to check slug %q: %w", slug, err)
		}
		if !taken {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, attempt)
	}

	return "", ErrSlugExhausted
}
