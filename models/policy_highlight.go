package models

import (
	"time"

	"github.com/google/uuid"
)

// ComplianceStatus classifies a document section relative to a regulation
type ComplianceStatus string

const (
	StatusCompliant     ComplianceStatus = "compliant"
	StatusNonCompliant  ComplianceStatus = "non_compliant"
	StatusNeedsReview   ComplianceStatus = "needs_review"
	StatusNotApplicable ComplianceStatus = "not_applicable"
)

// Priority levels for remediation: 1 is critical, 5 is informational.
const (
	PriorityCritical      = 1
	PriorityHigh          = 2
	PriorityMedium        = 3
	PriorityLow           = 4
	PriorityInformational = 5
)

// SectionType classifies how a document chunk was recognized
type SectionType string

const (
	SectionTypeParagraph SectionType = "paragraph"
	SectionTypeSection   SectionType = "section"
	SectionTypeClause    SectionType = "clause"
	SectionTypeChapter   SectionType = "chapter"
)

// ComplianceEvaluation is the verdict produced for a single document
// section. Immutable once created; persisted as a PolicyHighlight.
type ComplianceEvaluation struct {
	ComplianceStatus  ComplianceStatus `json:"compliance_status"`
	ConfidenceScore   float64          `json:"confidence_score"`
	ArticleReferences []string         `json:"article_references"`
	GapAnalysis       string           `json:"gap_analysis"`
	SuggestedFixes    string           `json:"suggested_fixes"`
	AIReasoning       string           `json:"ai_reasoning"`
	RegulationExcerpt string           `json:"regulation_excerpt"`
	PriorityLevel     int              `json:"priority_level"`
}

// PolicyHighlight is the persisted form of one section's compliance
// verdict, carrying the owning evaluation and the section's position
type PolicyHighlight struct {
	ID                uuid.UUID        `json:"id"`
	EvaluationID      uuid.UUID        `json:"evaluation_id"`
	SectionText       string           `json:"section_text"`
	SectionType       SectionType      `json:"section_type"`
	StartPosition     int              `json:"start_position"`
	EndPosition       int              `json:"end_position"`
	ComplianceStatus  ComplianceStatus `json:"compliance_status"`
	ConfidenceScore   float64          `json:"confidence_score"`
	ArticleReferences []string         `json:"article_references"`
	GapAnalysis       string           `json:"gap_analysis"`
	SuggestedFixes    string           `json:"suggested_fixes"`
	AIReasoning       string           `json:"ai_reasoning"`
	RegulationExcerpt string           `json:"regulation_excerpt"`
	PriorityLevel     int              `json:"priority_level"`
	CreatedAt         time.Time        `json:"created_at"`
}
