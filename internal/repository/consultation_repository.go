package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/esprim/pfe-catalog-api/internal/models"
)

// ConsultationRepository records report viewing sessions.
type ConsultationRepository struct {
	db *sqlx.DB
}

// NewConsultationRepository constructs the repository.
func NewConsultationRepository(db *sqlx.DB) *ConsultationRepository {
	return &ConsultationRepository{db: db}
}

// Create inserts a consultation row.
func (r *ConsultationRepository) Create(ctx context.Context, consultation *models.Consultation) error {
	if consultation.ID == "" {
		consultation.ID = uuid.NewString()
	}
	if consultation.CreatedAt.IsZero() {
		consultation.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO consultations (id, report_id, user_id, session_id, ip_address, user_agent, duration_seconds, watermark_text, created_at)
	VALUES (:id, :report_id, :user_id, :session_id, :ip_address, :user_agent, :duration_seconds, :watermark_text, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, consultation); err != nil {
		return fmt.Errorf("create consultation: %w", err)
	}
	return nil
}

// CountByReport returns the number of recorded consultations for a report.
func (r *ConsultationRepository) CountByReport(ctx context.Context, reportID string) (int, error) {
	const query = `SELECT COUNT(*) FROM consultations WHERE report_id = $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, reportID); err != nil {
		return 0, fmt.Errorf("count consultations: %w", err)
	}
	return count, nil
}
