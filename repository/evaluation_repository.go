package repository

import (
	"context"
	"time"

	"legiscope-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// EvaluationRepository handles database operations for policy evaluations
type EvaluationRepository struct {
	db *pgxpool.Pool
}

// NewEvaluationRepository creates a new evaluation repository
func NewEvaluationRepository(db *pgxpool.Pool) *EvaluationRepository {
	return &EvaluationRepository{db: db}
}

// Create creates a new evaluation record in processing status
func (r *EvaluationRepository) Create(ctx context.Context, eval *models.PolicyEvaluation) error {
	query := `
		INSERT INTO policy_evaluations (
			document_id, regulation_id, status, metadata
		) VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(
		ctx, query,
		eval.DocumentID,
		eval.RegulationID,
		eval.Status,
		eval.Metadata,
	).Scan(&eval.ID, &eval.CreatedAt, &eval.UpdatedAt)

	return err
}

// GetByID retrieves an evaluation by ID
func (r *EvaluationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.PolicyEvaluation, error) {
	eval := &models.PolicyEvaluation{}
	query := `
		SELECT id, document_id, regulation_id, status, overall_compliance_score,
			total_sections_analyzed, compliant_sections, non_compliant_sections,
			needs_review_sections, summary, recommendations, metadata,
			created_at, updated_at, completed_at
		FROM policy_evaluations
		WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&eval.ID,
		&eval.DocumentID,
		&eval.RegulationID,
		&eval.Status,
		&eval.OverallComplianceScore,
		&eval.TotalSectionsAnalyzed,
		&eval.CompliantSections,
		&eval.NonCompliantSections,
		&eval.NeedsReviewSections,
		&eval.Summary,
		&eval.Recommendations,
		&eval.Metadata,
		&eval.CreatedAt,
		&eval.UpdatedAt,
		&eval.CompletedAt,
	)

	if err != nil {
		return nil, err
	}

	return eval, nil
}

// ListByDocumentID retrieves evaluations for a document, newest first
func (r *EvaluationRepository) ListByDocumentID(ctx context.Context, documentID uuid.UUID) ([]*models.PolicyEvaluation, error) {
	query := `
		SELECT id, document_id, regulation_id, status, overall_compliance_score,
			total_sections_analyzed, compliant_sections, non_compliant_sections,
			needs_review_sections, summary, recommendations, metadata,
			created_at, updated_at, completed_at
		FROM policy_evaluations
		WHERE document_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var evals []*models.PolicyEvaluation
	for rows.Next() {
		eval := &models.PolicyEvaluation{}
		err := rows.Scan(
			&eval.ID,
			&eval.DocumentID,
			&eval.RegulationID,
			&eval.Status,
			&eval.OverallComplianceScore,
			&eval.TotalSectionsAnalyzed,
			&eval.CompliantSections,
			&eval.NonCompliantSections,
			&eval.NeedsReviewSections,
			&eval.Summary,
			&eval.Recommendations,
			&eval.Metadata,
			&eval.CreatedAt,
			&eval.UpdatedAt,
			&eval.CompletedAt,
		)
		if err != nil {
			return nil, err
		}
		evals = append(evals, eval)
	}

	return evals, rows.Err()
}

// Complete transitions an evaluation to completed with its full metrics
func (r *EvaluationRepository) Complete(ctx context.Context, eval *models.PolicyEvaluation) error {
	now := time.Now()
	query := `
		UPDATE policy_evaluations SET
			status = $2,
			overall_compliance_score = $3,
			total_sections_analyzed = $4,
			compliant_sections = $5,
			non_compliant_sections = $6,
			needs_review_sections = $7,
			summary = $8,
			recommendations = $9,
			metadata = $10,
			completed_at = $11,
			updated_at = $11
		WHERE id = $1`

	_, err := r.db.Exec(
		ctx, query,
		eval.ID,
		models.EvaluationStatusCompleted,
		eval.OverallComplianceScore,
		eval.TotalSectionsAnalyzed,
		eval.CompliantSections,
		eval.NonCompliantSections,
		eval.NeedsReviewSections,
		eval.Summary,
		eval.Recommendations,
		eval.Metadata,
		now,
	)
	return err
}

// Fail transitions an evaluation to failed with a diagnostic summary
func (r *EvaluationRepository) Fail(ctx context.Context, id uuid.UUID, summary string, metadata models.EvaluationMetadata) error {
	query := `
		UPDATE policy_evaluations SET
			status = $2,
			summary = $3,
			metadata = $4,
			updated_at = NOW()
		WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id, models.EvaluationStatusFailed, summary, metadata)
	return err
}
