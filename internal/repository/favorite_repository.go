package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// FavoriteRepository manages the (user, report) bookmark join rows.
type FavoriteRepository struct {
	db *sqlx.DB
}

// NewFavoriteRepository constructs the repository.
func NewFavoriteRepository(db *sqlx.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// ListReportIDs returns the ids of reports the user has favorited.
func (r *FavoriteRepository) ListReportIDs(ctx context.Context, userID string) ([]string, error) {
	const query = `SELECT report_id FROM favorites WHERE user_id = $1`
	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, userID); err != nil {
		return nil, fmt.Errorf("list favorite report ids: %w", err)
	}
	return ids, nil
}

// Exists reports whether the pair is already favorited.
func (r *FavoriteRepository) Exists(ctx context.Context, userID, reportID string) (bool, error) {
	const query = `SELECT COUNT(*) FROM favorites WHERE user_id = $1 AND report_id = $2`
	var count int
	if err := r.db.GetContext(ctx, &count, query, userID, reportID); err != nil {
		return false, fmt.Errorf("check favorite: %w", err)
	}
	return count > 0, nil
}

// Create inserts the pair; the unique (user_id, report_id) constraint
// makes a concurrent duplicate a no-op.
func (r *FavoriteRepository) Create(ctx context.Context, userID, reportID string) error {
	const query = `INSERT INTO favorites (id, user_id, report_id, created_at) VALUES ($1, $2, $3, $4)
	ON CONFLICT (user_id, report_id) DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query, uuid.NewString(), userID, reportID, time.Now().UTC()); err != nil {
		return fmt.Errorf("create favorite: %w", err)
	}
	return nil
}

// Delete removes the pair.
func (r *FavoriteRepository) Delete(ctx context.Context, userID, reportID string) error {
	const query = `DELETE FROM favorites WHERE user_id = $1 AND report_id = $2`
	if _, err := r.db.ExecContext(ctx, query, userID, reportID); err != nil {
		return fmt.Errorf("delete favorite: %w", err)
	}
	return nil
}
