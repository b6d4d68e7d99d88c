package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/esprim/pfe-catalog-api/internal/models"
)

const reportColumns = `id, title, authors, academic_supervisor, industrial_supervisor, academic_year, specialty, department,
       keywords, abstract, defense_date, company, pdf_url, thumbnail_url, video_url, status, rejection_reason,
       submitted_by, validated_by, views_count, submitted_at, validated_at, created_at, updated_at`

// ReportRepository persists PFE reports.
type ReportRepository struct {
	db *sqlx.DB
}

// NewReportRepository constructs the repository.
func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// Create inserts a new report row.
func (r *ReportRepository) Create(ctx context.Context, report *models.Report) error {
	if report.ID == "" {
		report.ID = uuid.NewString()
	}
	if report.Status == "" {
		report.Status = models.StatusPending
	}
	now := time.Now().UTC()
	if report.SubmittedAt.IsZero() {
		report.SubmittedAt = now
	}
	if report.CreatedAt.IsZero() {
		report.CreatedAt = now
	}
	report.UpdatedAt = now

	const query = `INSERT INTO reports
	(id, title, authors, academic_supervisor, industrial_supervisor, academic_year, specialty, department,
	 keywords, abstract, defense_date, company, pdf_url, thumbnail_url, video_url, status, rejection_reason,
	 submitted_by, validated_by, views_count, submitted_at, validated_at, created_at, updated_at)
	VALUES (:id, :title, :authors, :academic_supervisor, :industrial_supervisor, :academic_year, :specialty, :department,
	 :keywords, :abstract, :defense_date, :company, :pdf_url, :thumbnail_url, :video_url, :status, :rejection_reason,
	 :submitted_by, :validated_by, :views_count, :submitted_at, :validated_at, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, report); err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	return nil
}

// GetByID fetches a report by identifier.
func (r *ReportRepository) GetByID(ctx context.Context, id string) (*models.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE id = $1 LIMIT 1`
	var report models.Report
	if err := r.db.GetContext(ctx, &report, query, id); err != nil {
		return nil, err
	}
	return &report, nil
}

// List returns reports matching the filter, newest submission first.
func (r *ReportRepository) List(ctx context.Context, filter models.ReportFilter) ([]models.Report, error) {
	builder := strings.Builder{}
	args := make([]interface{}, 0, 2)
	builder.WriteString(`SELECT ` + reportColumns + ` FROM reports`)

	conditions := make([]string, 0, 2)
	if filter.Status != nil {
		args = append(args, *filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.SubmittedBy != "" {
		args = append(args, filter.SubmittedBy)
		conditions = append(conditions, fmt.Sprintf("submitted_by = $%d", len(args)))
	}
	if len(conditions) > 0 {
		builder.WriteString(" WHERE ")
		builder.WriteString(strings.Join(conditions, " AND "))
	}
	builder.WriteString(" ORDER BY submitted_at DESC")

	var reports []models.Report
	if err := r.db.SelectContext(ctx, &reports, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return reports, nil
}

// ListValidated returns the full published set, newest validation first.
// The catalog engine does all further filtering and sorting in memory.
func (r *ReportRepository) ListValidated(ctx context.Context) ([]models.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE status = $1 ORDER BY validated_at DESC NULLS LAST`
	var reports []models.Report
	if err := r.db.SelectContext(ctx, &reports, query, models.StatusValidated); err != nil {
		return nil, fmt.Errorf("list validated reports: %w", err)
	}
	return reports, nil
}

// MarkValidated moves a pending report to validated. The status guard in
// the WHERE clause makes a lost decision race surface as sql.ErrNoRows
// instead of silently overwriting a terminal state.
func (r *ReportRepository) MarkValidated(ctx context.Context, id, validatorID string, ts time.Time) error {
	const query = `UPDATE reports SET status = $2, validated_by = $3, validated_at = $4, rejection_reason = NULL, updated_at = $4
	WHERE id = $1 AND status = $5`
	result, err := r.db.ExecContext(ctx, query, id, models.StatusValidated, validatorID, ts, models.StatusPending)
	if err != nil {
		return fmt.Errorf("mark report validated: %w", err)
	}
	return requireRow(result)
}

// MarkRejected moves a pending report to rejected with a reason.
// validated_at stays unset for rejections.
func (r *ReportRepository) MarkRejected(ctx context.Context, id, validatorID, reason string, ts time.Time) error {
	const query = `UPDATE reports SET status = $2, validated_by = $3, rejection_reason = $4, updated_at = $5
	WHERE id = $1 AND status = $6`
	result, err := r.db.ExecContext(ctx, query, id, models.StatusRejected, validatorID, reason, ts, models.StatusPending)
	if err != nil {
		return fmt.Errorf("mark report rejected: %w", err)
	}
	return requireRow(result)
}

// IncrementViews bumps the monotonic view counter.
func (r *ReportRepository) IncrementViews(ctx context.Context, id string) error {
	const query = `UPDATE reports SET views_count = views_count + 1, updated_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("increment views: %w", err)
	}
	return nil
}

// Delete removes a report row.
func (r *ReportRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM reports WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete report: %w", err)
	}
	return requireRow(result)
}

func requireRow(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
