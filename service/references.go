package service

import (
	"regexp"
	"sort"
	"strings"
)

// ArticleReference is a citation-like substring extracted from text,
// with a relevance score. Computed fresh on every extraction call.
type ArticleReference struct {
	ArticleID      string  `json:"article_id"`
	Section        string  `json:"section"`
	FullReference  string  `json:"full_reference"`
	Excerpt        string  `json:"excerpt"`
	RelevanceScore float64 `json:"relevance_score"`
}

// ReferencePattern pairs a citation regex with its category label.
// The first capture group must be the article/section identifier.
type ReferencePattern struct {
	Category string
	Pattern  *regexp.Regexp
}

// PatternConfig maps a regulation family to its citation patterns.
// Built once at startup and passed in; never mutated afterwards.
type PatternConfig map[string][]ReferencePattern

// genericFamily is the fallback pattern set for unknown regulation types
const genericFamily = "generic"

// DefaultPatternConfig returns the built-in citation pattern sets
func DefaultPatternConfig() PatternConfig {
	return PatternConfig{
		"gdpr": {
			{Category: "articles", Pattern: regexp.MustCompile(`(?i)\bArticle\s+(\d+[a-z]?)`)},
			{Category: "sections", Pattern: regexp.MustCompile(`\((\d+)\)`)},
			{Category: "recitals", Pattern: regexp.MustCompile(`(?i)\bRecital\s+(\d+)`)},
		},
		genericFamily: {
			{Category: "sections", Pattern: regexp.MustCompile(`(?i)(?:Section|Sec\.|§)\s*(\d+(?:\.\d+)*)`)},
			{Category: "paragraphs", Pattern: regexp.MustCompile(`(?i)(?:Paragraph|Para\.|¶)\s*(\d+)`)},
			{Category: "articles", Pattern: regexp.MustCompile(`(?i)(?:Article|Art\.)\s*(\d+[a-z]?)`)},
		},
	}
}

const excerptWindow = 200

// ArticleReferenceMapper extracts legal citations from free text and
// reconciles classifier-claimed citations against extracted ones
type ArticleReferenceMapper struct {
	patterns PatternConfig
}

// NewArticleReferenceMapper creates a mapper with the given pattern
// config, falling back to the defaults when nil
func NewArticleReferenceMapper(patterns PatternConfig) *ArticleReferenceMapper {
	if patterns == nil {
		patterns = DefaultPatternConfig()
	}
	return &ArticleReferenceMapper{patterns: patterns}
}

// ExtractArticleReferences scans text for citation patterns of the given
// regulation family (generic set when unknown), scores each match by
// frequency and position, deduplicates by exact reference string, and
// returns the result sorted by descending relevance.
func (m *ArticleReferenceMapper) ExtractArticleReferences(text, regulationType string) []ArticleReference {
	patterns, ok := m.patterns[strings.ToLower(regulationType)]
	if !ok {
		patterns = m.patterns[genericFamily]
	}

	lowerText := strings.ToLower(text)
	seen := make(map[string]bool)
	var refs []ArticleReference

	for _, p := range patterns {
		for _, loc := range p.Pattern.FindAllStringSubmatchIndex(text, -1) {
			full := text[loc[0]:loc[1]]
			if seen[full] {
				continue
			}
			seen[full] = true

			articleID := ""
			if loc[2] >= 0 {
				articleID = text[loc[2]:loc[3]]
			}

			refs = append(refs, ArticleReference{
				ArticleID:      articleID,
				Section:        p.Category,
				FullReference:  full,
				Excerpt:        excerptAround(text, loc[0], loc[1]),
				RelevanceScore: relevanceScore(lowerText, strings.ToLower(full)),
			})
		}
	}

	sort.SliceStable(refs, func(i, j int) bool {
		return refs[i].RelevanceScore > refs[j].RelevanceScore
	})

	return refs
}

// EnhanceReferences matches each classifier-claimed citation against the
// references actually extractable from the regulation text. Unmatched
// claims become low-confidence placeholders rather than being dropped.
func (m *ArticleReferenceMapper) EnhanceReferences(cited []string, regulationText string) []ArticleReference {
	extracted := m.ExtractArticleReferences(regulationText, "")

	var enhanced []ArticleReference
	for _, claim := range cited {
		claim = strings.TrimSpace(claim)
		if claim == "" {
			continue
		}

		if match, ok := findMatch(claim, extracted); ok {
			enhanced = append(enhanced, match)
			continue
		}

		enhanced = append(enhanced, ArticleReference{
			ArticleID:      claim,
			Section:        "unknown",
			FullReference:  claim,
			Excerpt:        "",
			RelevanceScore: 0.5,
		})
	}

	return enhanced
}

// findMatch looks for a case-insensitive substring match in either
// direction between the claim and an extracted reference or its id
func findMatch(claim string, extracted []ArticleReference) (ArticleReference, bool) {
	lowerClaim := strings.ToLower(claim)
	for _, ref := range extracted {
		lowerFull := strings.ToLower(ref.FullReference)
		lowerID := strings.ToLower(ref.ArticleID)
		if strings.Contains(lowerClaim, lowerFull) || strings.Contains(lowerFull, lowerClaim) {
			return ref, true
		}
		if lowerID != "" && (strings.Contains(lowerClaim, lowerID) || strings.Contains(lowerID, lowerClaim)) {
			return ref, true
		}
	}
	return ArticleReference{}, false
}

// relevanceScore weights how often a reference recurs and how early its
// first occurrence appears: min(1.0, 0.3*frequency + 0.7*position)
func relevanceScore(lowerText, lowerRef string) float64 {
	if len(lowerText) == 0 || lowerRef == "" {
		return 0
	}

	frequency := float64(strings.Count(lowerText, lowerRef))
	position := 1.0 - float64(strings.Index(lowerText, lowerRef))/float64(len(lowerText))

	score := frequency*0.3 + position*0.7
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// excerptAround returns a context window around a match, clamped to bounds
func excerptAround(text string, start, end int) string {
	from := start - excerptWindow
	if from < 0 {
		from = 0
	}
	to := end + excerptWindow
	if to > len(text) {
		to = len(text)
	}
	return text[from:to]
}
