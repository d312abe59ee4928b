package repository

import (
	"context"
	"fmt"

	"legiscope-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// HighlightRepository handles database operations for policy highlights
type HighlightRepository struct {
	db *pgxpool.Pool
}

// NewHighlightRepository creates a new highlight repository
func NewHighlightRepository(db *pgxpool.Pool) *HighlightRepository {
	return &HighlightRepository{db: db}
}

const insertHighlightSQL = `
	INSERT INTO policy_highlights (
		evaluation_id, section_text, section_type, start_position, end_position,
		compliance_status, confidence_score, article_references,
		gap_analysis, suggested_fixes, ai_reasoning, regulation_excerpt,
		priority_level
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	RETURNING id, created_at`

// CreateBatch inserts a batch of highlights in one round trip and fills
// in their generated ids
func (r *HighlightRepository) CreateBatch(ctx context.Context, highlights []*models.PolicyHighlight) error {
	if len(highlights) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, h := range highlights {
		batch.Queue(insertHighlightSQL,
			h.EvaluationID,
			h.SectionText,
			h.SectionType,
			h.StartPosition,
			h.EndPosition,
			h.ComplianceStatus,
			h.ConfidenceScore,
			h.ArticleReferences,
			h.GapAnalysis,
			h.SuggestedFixes,
			h.AIReasoning,
			h.RegulationExcerpt,
			h.PriorityLevel,
		)
	}

	results := r.db.SendBatch(ctx, batch)
	defer results.Close()

	for _, h := range highlights {
		if err := results.QueryRow().Scan(&h.ID, &h.CreatedAt); err != nil {
			return fmt.Errorf("failed to insert highlight: %w", err)
		}
	}

	return nil
}

// ListByEvaluationID retrieves all highlights for an evaluation ordered
// by document position
func (r *HighlightRepository) ListByEvaluationID(ctx context.Context, evaluationID uuid.UUID) ([]*models.PolicyHighlight, error) {
	query := `
		SELECT id, evaluation_id, section_text, section_type, start_position,
			end_position, compliance_status, confidence_score, article_references,
			gap_analysis, suggested_fixes, ai_reasoning, regulation_excerpt,
			priority_level, created_at
		FROM policy_highlights
		WHERE evaluation_id = $1
		ORDER BY start_position`

	rows, err := r.db.Query(ctx, query, evaluationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var highlights []*models.PolicyHighlight
	for rows.Next() {
		h := &models.PolicyHighlight{}
		err := rows.Scan(
			&h.ID,
			&h.EvaluationID,
			&h.SectionText,
			&h.SectionType,
			&h.StartPosition,
			&h.EndPosition,
			&h.ComplianceStatus,
			&h.ConfidenceScore,
			&h.ArticleReferences,
			&h.GapAnalysis,
			&h.SuggestedFixes,
			&h.AIReasoning,
			&h.RegulationExcerpt,
			&h.PriorityLevel,
			&h.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		highlights = append(highlights, h)
	}

	return highlights, rows.Err()
}
