package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractArticleReferencesDeduplicates(t *testing.T) {
	m := NewArticleReferenceMapper(nil)

	text := "Article 5 requires data minimisation. Article 5 also requires accuracy. " +
		"See Article 5 for the full principle list."

	refs := m.ExtractArticleReferences(text, "gdpr")
	require.Len(t, refs, 1)
	assert.Equal(t, "5", refs[0].ArticleID)
	assert.Equal(t, "articles", refs[0].Section)
	assert.Equal(t, "Article 5", refs[0].FullReference)
	assert.NotEmpty(t, refs[0].Excerpt)
	assert.Greater(t, refs[0].RelevanceScore, 0.0)
	assert.LessOrEqual(t, refs[0].RelevanceScore, 1.0)
}

func TestExtractArticleReferencesGDPRPatterns(t *testing.T) {
	m := NewArticleReferenceMapper(nil)

	text := "Article 6 sets the lawful bases and Recital 40 explains them; see also (1) and (2)."

	refs := m.ExtractArticleReferences(text, "GDPR")

	byRef := map[string]ArticleReference{}
	for _, r := range refs {
		byRef[r.FullReference] = r
	}
	assert.Contains(t, byRef, "Article 6")
	assert.Contains(t, byRef, "Recital 40")
	assert.Contains(t, byRef, "(1)")
	assert.Contains(t, byRef, "(2)")
	assert.Equal(t, "recitals", byRef["Recital 40"].Section)
	assert.Equal(t, "sections", byRef["(1)"].Section)
}

func TestExtractArticleReferencesGenericFallback(t *testing.T) {
	m := NewArticleReferenceMapper(nil)

	text := "Section 4.2 and § 12 govern retention; Para. 3 covers disposal and Art. 9 covers special categories."

	refs := m.ExtractArticleReferences(text, "hipaa")
	require.NotEmpty(t, refs)

	ids := map[string]string{}
	for _, r := range refs {
		ids[r.ArticleID] = r.Section
	}
	assert.Equal(t, "sections", ids["4.2"])
	assert.Equal(t, "sections", ids["12"])
	assert.Equal(t, "paragraphs", ids["3"])
	assert.Equal(t, "articles", ids["9"])
}

func TestExtractArticleReferencesSortedByRelevance(t *testing.T) {
	m := NewArticleReferenceMapper(nil)

	// Article 5 occurs three times starting at the front; Article 99
	// occurs once near the end, so it must sort last.
	text := "Article 5 applies. Article 5 again. Article 5 once more. " +
		"Much later in the document we finally mention Article 99."

	refs := m.ExtractArticleReferences(text, "gdpr")
	require.Len(t, refs, 2)
	assert.Equal(t, "Article 5", refs[0].FullReference)
	assert.Equal(t, "Article 99", refs[1].FullReference)
	assert.Greater(t, refs[0].RelevanceScore, refs[1].RelevanceScore)
}

func TestExtractArticleReferencesEmptyInput(t *testing.T) {
	m := NewArticleReferenceMapper(nil)

	assert.Empty(t, m.ExtractArticleReferences("", "gdpr"))
	assert.Empty(t, m.ExtractArticleReferences("no citations in this text at all", "gdpr"))
}

func TestEnhanceReferencesMatchesExtracted(t *testing.T) {
	m := NewArticleReferenceMapper(nil)

	regulationText := "Section 7 requires encryption of records at rest. Section 9 requires access logging."

	enhanced := m.EnhanceReferences([]string{"Section 7", "  ", "Section 42"}, regulationText)
	require.Len(t, enhanced, 2)

	assert.Equal(t, "Section 7", enhanced[0].FullReference)
	assert.Equal(t, "sections", enhanced[0].Section)
	assert.NotEmpty(t, enhanced[0].Excerpt)

	// The unmatched claim survives as a low-confidence placeholder.
	assert.Equal(t, "Section 42", enhanced[1].FullReference)
	assert.Equal(t, "unknown", enhanced[1].Section)
	assert.Equal(t, 0.5, enhanced[1].RelevanceScore)
	assert.Empty(t, enhanced[1].Excerpt)
}

func TestEnhanceReferencesCaseInsensitive(t *testing.T) {
	m := NewArticleReferenceMapper(nil)

	regulationText := "Section 3 defines the retention schedule for customer records."

	enhanced := m.EnhanceReferences([]string{"section 3"}, regulationText)
	require.Len(t, enhanced, 1)
	assert.Equal(t, "Section 3", enhanced[0].FullReference)
	assert.Equal(t, "sections", enhanced[0].Section)
}

func TestEnhanceReferencesEmptyClaims(t *testing.T) {
	m := NewArticleReferenceMapper(nil)

	assert.Empty(t, m.EnhanceReferences(nil, "Section 1 applies."))
	assert.Empty(t, m.EnhanceReferences([]string{"", "   "}, "Section 1 applies."))
}
