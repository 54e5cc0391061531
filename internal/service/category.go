package service

import "strings"

// categoryRule maps a keyword substring to a fallback-image category.
// Matching is first-match-wins, so the rule order matters.
type categoryRule struct {
	term     string
	category string
}

// categoryRules covers the site's coarse topic buckets. Terms include
// the Spanish variants used by upstream sources.
var categoryRules = []categoryRule{
	{"carbono", "carbon"},
	{"carbon", "carbon"},
	{"emision", "carbon"},
	{"emission", "carbon"},
	{"solar", "energy"},
	{"eolica", "energy"},
	{"eólica", "energy"},
	{"wind", "energy"},
	{"energia", "energy"},
	{"energy", "energy"},
	{"renovable", "energy"},
	{"renewable", "energy"},
	{"reciclaje", "recycling"},
	{"recycling", "recycling"},
	{"residuo", "recycling"},
	{"waste", "recycling"},
	{"agua", "water"},
	{"water", "water"},
	{"oceano", "water"},
	{"ocean", "water"},
	{"bosque", "nature"},
	{"forest", "nature"},
	{"biodiversidad", "nature"},
	{"biodiversity", "nature"},
}

// defaultCategory is used when no rule matches.
const defaultCategory = "general"

// CategoryForKeyword maps a free-text keyword to a fallback-image
// category via ordered substring matching.
func CategoryForKeyword(keyword string) string {
	k := strings.ToLower(strings.TrimSpace(keyword))
	if k == "" {
		return defaultCategory
	}
	for _, rule := range categoryRules {
		if strings.Contains(k, rule.term) {
			return rule.category
		}
	}
	return defaultCategory
}
