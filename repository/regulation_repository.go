package repository

import (
	"context"

	"legiscope-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RegulationRepository handles database operations for regulations
type RegulationRepository struct {
	db *pgxpool.Pool
}

// NewRegulationRepository creates a new regulation repository
func NewRegulationRepository(db *pgxpool.Pool) *RegulationRepository {
	return &RegulationRepository{db: db}
}

// Create creates a new regulation
func (r *RegulationRepository) Create(ctx context.Context, regulation *models.Regulation) error {
	query := `
		INSERT INTO regulations (
			name, description, requirements, motivation
		) VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(
		ctx, query,
		regulation.Name,
		regulation.Description,
		regulation.Requirements,
		regulation.Motivation,
	).Scan(&regulation.ID, &regulation.CreatedAt, &regulation.UpdatedAt)

	return err
}

// GetByID retrieves a regulation by ID
func (r *RegulationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Regulation, error) {
	regulation := &models.Regulation{}
	query := `
		SELECT id, name, description, requirements, motivation, created_at, updated_at
		FROM regulations
		WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&regulation.ID,
		&regulation.Name,
		&regulation.Description,
		&regulation.Requirements,
		&regulation.Motivation,
		&regulation.CreatedAt,
		&regulation.UpdatedAt,
	)

	if err != nil {
		return nil, err
	}

	return regulation, nil
}

// List retrieves all regulations ordered by name
func (r *RegulationRepository) List(ctx context.Context) ([]*models.Regulation, error) {
	query := `
		SELECT id, name, description, requirements, motivation, created_at, updated_at
		FROM regulations
		ORDER BY name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var regulations []*models.Regulation
	for rows.Next() {
		regulation := &models.Regulation{}
		err := rows.Scan(
			&regulation.ID,
			&regulation.Name,
			&regulation.Description,
			&regulation.Requirements,
			&regulation.Motivation,
			&regulation.CreatedAt,
			&regulation.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		regulations = append(regulations, regulation)
	}

	return regulations, rows.Err()
}
