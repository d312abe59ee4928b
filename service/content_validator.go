package service

import (
	"errors"
	"strings"
)

// Validation failure reasons, surfaced in the evaluation record's summary
var (
	ErrNoContent       = errors.New("no document content available")
	ErrContentTooShort = errors.New("document content is too short to analyze")
	ErrBinaryContent   = errors.New("document content appears to be binary or corrupted")
)

const (
	minContentLength    = 50
	maxNonPrintableFrac = 0.2
)

// ContentValidator rejects empty, too-short, or binary content before any
// classifier call is made. Pure function of the input string.
type ContentValidator struct{}

// NewContentValidator creates a new content validator
func NewContentValidator() *ContentValidator {
	return &ContentValidator{}
}

// Validate checks content and returns a reason-typed error on rejection
func (v *ContentValidator) Validate(content string) error {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return ErrNoContent
	}
	if len(trimmed) < minContentLength {
		return ErrContentTooShort
	}

	nonPrintable := 0
	for i := 0; i < len(trimmed); i++ {
		b := trimmed[i]
		if b < 0x09 || (b >= 0x0E && b <= 0x1F) || b >= 0x7F {
			nonPrintable++
		}
	}
	if float64(nonPrintable)/float64(len(trimmed)) > maxNonPrintableFrac {
		return ErrBinaryContent
	}

	return nil
}

// IsValid reports whether content passes validation
func (v *ContentValidator) IsValid(content string) bool {
	return v.Validate(content) == nil
}
