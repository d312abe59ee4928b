package service

import (
	"strings"
	"testing"

	"legiscope-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkBlankLineSplit(t *testing.T) {
	c := NewDocumentChunker()

	doc := "Section 1. All data must be encrypted at rest and in transit.\n\n" +
		"Employees must complete annual privacy training before accessing records.\n\n" +
		"tiny\n\n" +
		"Data retention periods are reviewed by the compliance team each quarter."

	chunks := c.Chunk(doc)
	require.Len(t, chunks, 3, "the short fragment should be dropped")

	assert.Equal(t, "Section 1. All data must be encrypted at rest and in transit.", chunks[0].Text)
	assert.Equal(t, "Employees must complete annual privacy training before accessing records.", chunks[1].Text)
	assert.Equal(t, "Data retention periods are reviewed by the compliance team each quarter.", chunks[2].Text)
}

func TestChunkOffsetsPointIntoDocument(t *testing.T) {
	c := NewDocumentChunker()

	doc := "  Chapter One covers the scope of the policy in detail.\n\n" +
		"1. Access control requirements apply to all production systems.\n\n" +
		"Review cadence: audits are performed twice per year by external assessors."

	for _, chunk := range c.Chunk(doc) {
		require.GreaterOrEqual(t, chunk.StartPosition, 0)
		require.LessOrEqual(t, chunk.EndPosition, len(doc))
		require.Less(t, chunk.StartPosition, chunk.EndPosition)
		assert.Equal(t, chunk.Text, doc[chunk.StartPosition:chunk.EndPosition])
	}
}

func TestChunkRepeatedTextKeepsDistinctOffsets(t *testing.T) {
	c := NewDocumentChunker()

	para := "All vendors must sign a data processing agreement first."
	doc := para + "\n\n" + para + "\n\n" + para

	chunks := c.Chunk(doc)
	require.Len(t, chunks, 3)

	for i := 1; i < len(chunks); i++ {
		assert.Greater(t, chunks[i].StartPosition, chunks[i-1].EndPosition-1,
			"repeated text must not resolve to an earlier occurrence")
	}
	for _, chunk := range chunks {
		assert.Equal(t, para, doc[chunk.StartPosition:chunk.EndPosition])
	}
}

func TestChunkSentenceFallback(t *testing.T) {
	c := NewDocumentChunker()

	// Every blank-line fragment is under 20 characters, so the primary
	// split yields nothing; sentence splitting still finds sentences
	// longer than 50 characters spanning those fragments.
	doc := "Access controls and\n\nencryption rules\n\napply to systems.\n\n" +
		"Audit logging is\n\nmandatory for all\n\nproduction use.\n\n" +
		"Short."

	chunks := c.Chunk(doc)
	require.Len(t, chunks, 2)
	assert.Contains(t, chunks[0].Text, "encryption rules")
	assert.Contains(t, chunks[1].Text, "Audit logging")
	for _, chunk := range chunks {
		assert.Equal(t, chunk.Text, doc[chunk.StartPosition:chunk.EndPosition])
	}
}

func TestChunkEmptyAndDegenerateInput(t *testing.T) {
	c := NewDocumentChunker()

	assert.Empty(t, c.Chunk(""))
	assert.Empty(t, c.Chunk("\n\n\n\n"))
	assert.Empty(t, c.Chunk("a. b. c."))
}

func TestClassifySection(t *testing.T) {
	tests := []struct {
		name string
		text string
		want models.SectionType
	}{
		{"numbered section", "1. Scope of this policy applies to all staff.", models.SectionTypeSection},
		{"parenthesis numbered", "2) Retention requirements for archived records.", models.SectionTypeSection},
		{"named section", "Section 4 describes breach notification duties.", models.SectionTypeSection},
		{"chapter heading counts as section when named", "Chapter 2 lists the processing principles.", models.SectionTypeSection},
		{"titled clause", "Data Minimization: collect only what the stated purpose requires.", models.SectionTypeClause},
		{"article clause", "Article 5 of the policy restricts secondary use of data.", models.SectionTypeClause},
		{"chapter keyword only", "as covered in the previous chapter of this manual", models.SectionTypeChapter},
		{"plain paragraph", "all records are stored in the regional data center", models.SectionTypeParagraph},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifySection(tt.text))
		})
	}
}

func TestChunkLargeDocument(t *testing.T) {
	c := NewDocumentChunker()

	var b strings.Builder
	for i := 0; i < 200; i++ {
		b.WriteString("This paragraph describes one of the many controls in the information security policy.\n\n")
	}
	doc := b.String()

	chunks := c.Chunk(doc)
	require.Len(t, chunks, 200)
	for _, chunk := range chunks {
		assert.Equal(t, chunk.Text, doc[chunk.StartPosition:chunk.EndPosition])
	}
}
