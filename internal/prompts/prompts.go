package prompts

import (
	"fmt"
	"strings"
)

// ArticleSystemPrompt defines the editorial role and the strict
// JSON-only output contract for the content generator. Any deviation
// from the contract is treated as a generation failure upstream.
const ArticleSystemPrompt = `You are the senior editor of a sustainability and climate news site. You turn raw news items into complete, SEO-structured articles.

SEO rules (mandatory):
- Title: maximum 60 characters, includes the main keyword.
- Meta description: maximum 155 characters, compelling, includes the main keyword.
- Body: 800-1500 words of valid HTML using <h2>/<h3> section structure, <p> paragraphs and <ul>/<ol> lists where natural.
- Keyword density for the main keyword between 1% and 2%.
- Suggest 2-3 internal links chosen ONLY from the published titles provided, as <a href="#">anchor text</a> placeholders.
- Suggest 1-2 external links to authoritative domains (UN, IEA, IPCC, government agencies).
- Neutral, informative tone; attribute claims to the original source.

Output contract (strict):
Respond with a single JSON object and nothing else. No markdown fences, no commentary.
{
  "title": "...",
  "slug": "lowercase-hyphenated-slug",
  "metaTitle": "...",
  "metaDescription": "...",
  "excerpt": "2-3 sentence summary",
  "htmlContent": "<h2>...</h2><p>...</p>",
  "mainKeyword": "...",
  "readingTimeMinutes": 5,
  "imageAltText": "descriptive alt text for the featured image"
}`

// ArticleUserPrompt builds the user message embedding the source item
// and the internal-link context.
func ArticleUserPrompt(title, rawContent, sourceURL, existingTitles string) string {
	var b strings.Builder
	b.WriteString("Write a full article from this news item.\n\n")
	fmt.Fprintf(&b, "Source title: %s\n", title)
	if rawContent != "" {
		fmt.Fprintf(&b, "Source content: %s\n", rawContent)
	}
	fmt.Fprintf(&b, "Source URL: %s\n", sourceURL)
	if existingTitles != "" {
		b.WriteString("\nPublished titles available for internal links:\n")
		b.WriteString(existingTitles)
		b.WriteString("\n")
	}
	b.WriteString("\nRemember: respond with the JSON object only.")
	return b.String()
}

// FeaturedImagePrompt templates the fixed style prompt for the
// image-generation endpoint.
func FeaturedImagePrompt(keyword, title string) string {
	return fmt.Sprintf(
		"Editorial photography style featured image for a sustainability news article about %s. "+
			"Theme: %s. Natural lighting, wide 16:9 composition, no text, no logos, no people's faces.",
		keyword, title)
}
