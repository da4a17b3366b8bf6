package services

import (
	"sort"
	"strings"

	"breizh-server/models"
)

// Suggestion is one autocomplete candidate. Category labels the kind of
// suggestion for the dropdown ("Département", "Catégorie" or the POI's own
// category display name); Priority is the tier it matched in, lower first.
type Suggestion struct {
	Text     string `json:"text"`
	Category string `json:"category"`
	Icon     string `json:"icon"`
	Priority int    `json:"priority"`
}

// DefaultSuggestionLimit caps the dropdown size.
const DefaultSuggestionLimit = 8

// Per-tier caps; departments and categories (tiers 5-6) are uncapped and
// only bounded by the final truncation.
const (
	capTitlePrefix = 3
	capTitleWord   = 4
	capTitleSub    = 2
	capSecondary   = 1
)

// Suggest ranks POIs and static taxonomy terms into autocomplete
// candidates for a partial query. Matching is tiered: title prefix, then
// title word match, then title substring, then description/tag substring,
// then department and category names. A POI claimed by an earlier tier
// never reappears in a later one. Results are ordered by (tier, text) and
// truncated to maxResults. Pure: recomputed from scratch on every call.
func Suggest(pois []models.POI, query string, maxResults int) []Suggestion {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	if maxResults <= 0 {
		maxResults = DefaultSuggestionLimit
	}

	var out []Suggestion
	claimed := make(map[int]bool)

	claim := func(tier, limit int, match func(p *models.POI, lowerTitle string) bool) {
		count := 0
		for i := range pois {
			if count >= limit {
				break
			}
			if claimed[i] {
				continue
			}
			p := &pois[i]
			if !match(p, strings.ToLower(p.Title)) {
				continue
			}
			claimed[i] = true
			info := CategoryLookup(p.PrimaryCategory())
			out = append(out, Suggestion{
				Text:     p.Title,
				Category: info.DisplayName,
				Icon:     info.Icon,
				Priority: tier,
			})
			count++
		}
	}

	// Tier 1: title starts with the query.
	claim(1, capTitlePrefix, func(p *models.POI, lowerTitle string) bool {
		return strings.HasPrefix(lowerTitle, q)
	})

	// Tier 2: a word of the title matches a word of the query, for titles
	// that did not already match as a prefix.
	queryWords := strings.Fields(q)
	claim(2, capTitleWord, func(p *models.POI, lowerTitle string) bool {
		return !strings.HasPrefix(lowerTitle, q) && titleWordMatch(lowerTitle, queryWords)
	})

	// Tier 3: plain title substring.
	claim(3, capTitleSub, func(p *models.POI, lowerTitle string) bool {
		return strings.Contains(lowerTitle, q) &&
			!strings.HasPrefix(lowerTitle, q) &&
			!titleWordMatch(lowerTitle, queryWords)
	})

	// Tier 4: match in the short description or tags only.
	claim(4, capSecondary, func(p *models.POI, lowerTitle string) bool {
		if strings.Contains(lowerTitle, q) || titleWordMatch(lowerTitle, queryWords) {
			return false
		}
		if strings.Contains(strings.ToLower(p.ShortDescription), q) {
			return true
		}
		for _, tag := range p.Tags {
			if strings.Contains(strings.ToLower(tag), q) {
				return true
			}
		}
		return false
	})

	// Tier 5: department names, independent of the dataset.
	for _, dept := range Departments {
		if strings.Contains(strings.ToLower(dept), q) {
			out = append(out, Suggestion{
				Text:     dept,
				Category: "Département",
				Icon:     "map",
				Priority: 5,
			})
		}
	}

	// Tier 6: category display names.
	for _, info := range Categories() {
		if strings.Contains(strings.ToLower(info.DisplayName), q) {
			out = append(out, Suggestion{
				Text:     info.DisplayName,
				Category: "Catégorie",
				Icon:     info.Icon,
				Priority: 6,
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority < out[j].Priority
		}
		return out[i].Text < out[j].Text
	})
	if len(out) > maxResults {
		out = out[:maxResults]
	}
	return out
}

// titleWordMatch reports whether any whitespace-delimited word of the
// title starts with or contains any word of the query.
func titleWordMatch(lowerTitle string, queryWords []string) bool {
	if len(queryWords) == 0 {
		return false
	}
	for _, tw := range strings.Fields(lowerTitle) {
		for _, qw := range queryWords {
			if strings.HasPrefix(tw, qw) || strings.Contains(tw, qw) {
				return true
			}
		}
	}
	return false
}
