package repository

import (
	"context"

	"legiscope-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DocumentRepository handles database operations for policy documents
type DocumentRepository struct {
	db *pgxpool.Pool
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(db *pgxpool.Pool) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// Create creates a new policy document
func (r *DocumentRepository) Create(ctx context.Context, doc *models.PolicyDocument) error {
	query := `
		INSERT INTO policy_documents (
			user_id, file_id, file_name, description, content
		) VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(
		ctx, query,
		doc.UserID,
		doc.FileID,
		doc.FileName,
		doc.Description,
		doc.Content,
	).Scan(&doc.ID, &doc.CreatedAt, &doc.UpdatedAt)

	return err
}

// GetByID retrieves a policy document by ID
func (r *DocumentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.PolicyDocument, error) {
	doc := &models.PolicyDocument{}
	query := `
		SELECT id, user_id, file_id, file_name, description, content, created_at, updated_at
		FROM policy_documents
		WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&doc.ID,
		&doc.UserID,
		&doc.FileID,
		&doc.FileName,
		&doc.Description,
		&doc.Content,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)

	if err != nil {
		return nil, err
	}

	return doc, nil
}

// UpdateContent updates only the extracted text content
func (r *DocumentRepository) UpdateContent(ctx context.Context, id uuid.UUID, content string) error {
	query := `
		UPDATE policy_documents SET
			content = $2,
			updated_at = NOW()
		WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id, content)
	return err
}

// ListByUserID retrieves all policy documents for a user
func (r *DocumentRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*models.PolicyDocument, error) {
	query := `
		SELECT id, user_id, file_id, file_name, description, content, created_at, updated_at
		FROM policy_documents
		WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*models.PolicyDocument
	for rows.Next() {
		doc := &models.PolicyDocument{}
		err := rows.Scan(
			&doc.ID,
			&doc.UserID,
			&doc.FileID,
			&doc.FileName,
			&doc.Description,
			&doc.Content,
			&doc.CreatedAt,
			&doc.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	return docs, rows.Err()
}
