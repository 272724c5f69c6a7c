package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"timension-backend/internal/models"
)

const suggestionListLimit = 50

type SuggestionRepo struct {
	pool *pgxpool.Pool
}

func NewSuggestionRepo(pool *pgxpool.Pool) *SuggestionRepo {
	return &SuggestionRepo{pool: pool}
}

// List returns the most recent suggestions, newest first, capped at 50.
func (r *SuggestionRepo) List(ctx context.Context) ([]models.Suggestion, error) {
	query := `SELECT id, content, created_at FROM suggestions
		ORDER BY created_at DESC LIMIT $1`

	rows, err := r.pool.Query(ctx, query, suggestionListLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list suggestions: %w", err)
	}
	defer rows.Close()

	var suggestions []models.Suggestion
	for rows.Next() {
		var s models.Suggestion
		if err := rows.Scan(&s.ID, &s.Content, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan suggestion: %w", err)
		}
		suggestions = append(suggestions, s)
	}
	return suggestions, rows.Err()
}

func (r *SuggestionRepo) Create(ctx context.Context, content string) (*models.Suggestion, error) {
	s := &models.Suggestion{ID: uuid.New(), Content: content}

	query := `INSERT INTO suggestions (id, content) VALUES ($1, $2) RETURNING created_at`

	if err := r.pool.QueryRow(ctx, query, s.ID, s.Content).Scan(&s.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to insert suggestion: %w", err)
	}
	return s, nil
}
