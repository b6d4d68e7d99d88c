package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/esprim/pfe-catalog-api/internal/models"
)

// ValidationRepository stores the append-only decision trail.
// There are deliberately no update or delete operations.
type ValidationRepository struct {
	db *sqlx.DB
}

// NewValidationRepository constructs the repository.
func NewValidationRepository(db *sqlx.DB) *ValidationRepository {
	return &ValidationRepository{db: db}
}

// Append inserts one decision event.
func (r *ValidationRepository) Append(ctx context.Context, entry *models.ValidationHistory) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO validation_history (id, report_id, validator_id, action, comments, checklist, created_at)
	VALUES (:id, :report_id, :validator_id, :action, :comments, :checklist, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("append validation history: %w", err)
	}
	return nil
}

// ListByReport returns the decision trail for a report, oldest first.
func (r *ValidationRepository) ListByReport(ctx context.Context, reportID string) ([]models.ValidationHistory, error) {
	const query = `SELECT id, report_id, validator_id, action, comments, checklist, created_at
	FROM validation_history WHERE report_id = $1 ORDER BY created_at ASC`
	var entries []models.ValidationHistory
	if err := r.db.SelectContext(ctx, &entries, query, reportID); err != nil {
		return nil, fmt.Errorf("list validation history: %w", err)
	}
	return entries, nil
}
