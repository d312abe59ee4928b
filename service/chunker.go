package service

import (
	"regexp"
	"strings"

	"legiscope-backend/models"
)

// DocumentChunk is the unit of compliance analysis: a contiguous span of
// the original document with character offsets into that original string.
// Transient; persisted only as part of a PolicyHighlight.
type DocumentChunk struct {
	Text          string             `json:"text"`
	StartPosition int                `json:"start_position"`
	EndPosition   int                `json:"end_position"`
	SectionType   models.SectionType `json:"section_type"`
}

var (
	blankLineSplit = regexp.MustCompile(`\n{2,}`)
	sentenceSplit  = regexp.MustCompile(`[.!?]+`)

	numberedSection = regexp.MustCompile(`^\d+[.)]\s`)
	namedSection    = regexp.MustCompile(`^(?:Chapter|Section)\s+\d`)
	titledClause    = regexp.MustCompile(`^[A-Z][^\n:]{0,79}:`)
	articleClause   = regexp.MustCompile(`^(?:Article|ARTICLE)\s+\d`)
	chapterWord     = regexp.MustCompile(`(?i)chapter`)
)

const (
	minChunkLength    = 20
	minSentenceLength = 50
)

// DocumentChunker splits raw document text into position-tracked sections
type DocumentChunker struct{}

// NewDocumentChunker creates a new document chunker
func NewDocumentChunker() *DocumentChunker {
	return &DocumentChunker{}
}

// Chunk splits a document on blank-line boundaries into typed chunks with
// offsets into the original string. Falls back to sentence splitting when
// the document has no usable blank-line separation.
func (c *DocumentChunker) Chunk(document string) []DocumentChunk {
	chunks := c.split(document, blankLineSplit, minChunkLength)
	if len(chunks) == 0 {
		chunks = c.split(document, sentenceSplit, minSentenceLength+1)
	}
	return chunks
}

// split cuts the document on the given separator pattern and locates each
// retained piece in the original document. The search cursor only moves
// forward, so repeated text cannot match an earlier occurrence.
func (c *DocumentChunker) split(document string, sep *regexp.Regexp, minLength int) []DocumentChunk {
	var chunks []DocumentChunk
	cursor := 0

	for _, candidate := range sep.Split(document, -1) {
		text := strings.TrimSpace(candidate)
		if len(text) < minLength {
			continue
		}

		idx := strings.Index(document[cursor:], text)
		if idx < 0 {
			// Defensive: candidate came from the document, so this should
			// not happen; skip it without losing cursor position.
			cursor += len(candidate)
			if cursor > len(document) {
				cursor = len(document)
			}
			continue
		}

		start := cursor + idx
		end := start + len(text)
		if start < 0 {
			start = 0
		}
		if end > len(document) {
			end = len(document)
		}

		chunks = append(chunks, DocumentChunk{
			Text:          text,
			StartPosition: start,
			EndPosition:   end,
			SectionType:   classifySection(text),
		})
		cursor = end
	}

	return chunks
}

// classifySection picks the first matching type in priority order:
// section, clause, chapter, then the paragraph default.
func classifySection(text string) models.SectionType {
	switch {
	case numberedSection.MatchString(text) || namedSection.MatchString(text):
		return models.SectionTypeSection
	case titledClause.MatchString(text) || articleClause.MatchString(text):
		return models.SectionTypeClause
	case chapterWord.MatchString(text):
		return models.SectionTypeChapter
	default:
		return models.SectionTypeParagraph
	}
}
