package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/esprim/pfe-catalog-api/internal/models"
)

// DraftRepository persists submission drafts, one per user.
type DraftRepository struct {
	db *sqlx.DB
}

// NewDraftRepository constructs the repository.
func NewDraftRepository(db *sqlx.DB) *DraftRepository {
	return &DraftRepository{db: db}
}

// FindByUser returns the user's draft, or sql.ErrNoRows when absent.
func (r *DraftRepository) FindByUser(ctx context.Context, userID string) (*models.Draft, error) {
	const query = `SELECT id, user_id, draft_data, last_saved, created_at FROM drafts WHERE user_id = $1 LIMIT 1`
	var draft models.Draft
	if err := r.db.GetContext(ctx, &draft, query, userID); err != nil {
		return nil, err
	}
	return &draft, nil
}

// Save upserts the user's draft, replacing draft_data in place. The
// unique constraint on user_id keeps the one-draft-per-user invariant
// even when two saves race.
func (r *DraftRepository) Save(ctx context.Context, userID string, data json.RawMessage) (string, error) {
	id := uuid.NewString()
	now := time.Now().UTC()
	const query = `INSERT INTO drafts (id, user_id, draft_data, last_saved, created_at)
	VALUES ($1, $2, $3, $4, $4)
	ON CONFLICT (user_id) DO UPDATE SET draft_data = EXCLUDED.draft_data, last_saved = EXCLUDED.last_saved
	RETURNING id`
	var savedID string
	if err := r.db.GetContext(ctx, &savedID, query, id, userID, []byte(data), now); err != nil {
		return "", fmt.Errorf("save draft: %w", err)
	}
	return savedID, nil
}

// Delete removes a draft by identifier.
func (r *DraftRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM drafts WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	return nil
}

// DeleteByUser removes the user's draft if one exists.
func (r *DraftRepository) DeleteByUser(ctx context.Context, userID string) error {
	const query = `DELETE FROM drafts WHERE user_id = $1`
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("delete draft by user: %w", err)
	}
	return nil
}
