package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EvaluationStatus represents the lifecycle status of a policy evaluation
type EvaluationStatus string

const (
	EvaluationStatusProcessing EvaluationStatus = "processing"
	EvaluationStatusCompleted  EvaluationStatus = "completed"
	EvaluationStatusFailed     EvaluationStatus = "failed"
)

// EvaluationMetadata holds aggregate metadata stored alongside an evaluation
type EvaluationMetadata struct {
	RiskFactors     []string `json:"risk_factors,omitempty"`
	PriorityActions []string `json:"priority_actions,omitempty"`
	EngineVersion   string   `json:"engine_version,omitempty"`
	Error           string   `json:"error,omitempty"`
}

// Value implements driver.Valuer for JSONB
func (m EvaluationMetadata) Value() (driver.Value, error) {
	return json.Marshal(m)
}

// Scan implements sql.Scanner for JSONB
func (m *EvaluationMetadata) Scan(value interface{}) error {
	if value == nil {
		*m = EvaluationMetadata{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		*m = EvaluationMetadata{}
		return nil
	}

	if len(bytes) == 0 {
		*m = EvaluationMetadata{}
		return nil
	}

	return json.Unmarshal(bytes, m)
}

// PolicyEvaluation represents one compliance evaluation run of a document
// against a regulation. It is the single source of truth for run status:
// created in "processing" and always ended in "completed" or "failed".
type PolicyEvaluation struct {
	ID                     uuid.UUID          `json:"id"`
	DocumentID             uuid.UUID          `json:"document_id"`
	RegulationID           uuid.UUID          `json:"regulation_id"`
	Status                 EvaluationStatus   `json:"status"`
	OverallComplianceScore int                `json:"overall_compliance_score"`
	TotalSectionsAnalyzed  int                `json:"total_sections_analyzed"`
	CompliantSections      int                `json:"compliant_sections"`
	NonCompliantSections   int                `json:"non_compliant_sections"`
	NeedsReviewSections    int                `json:"needs_review_sections"`
	Summary                *string            `json:"summary,omitempty"`
	Recommendations        *string            `json:"recommendations,omitempty"`
	Metadata               EvaluationMetadata `json:"metadata"`
	CreatedAt              time.Time          `json:"created_at"`
	UpdatedAt              time.Time          `json:"updated_at"`
	CompletedAt            *time.Time         `json:"completed_at,omitempty"`
}
