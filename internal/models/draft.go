package models

import (
	"encoding/json"
	"time"
)

// Draft holds the single in-progress submission form for a user.
// The unique constraint on user_id guarantees at most one row per user;
// every save replaces draft_data in place.
type Draft struct {
	ID        string          `db:"id" json:"id"`
	UserID    string          `db:"user_id" json:"user_id"`
	DraftData json.RawMessage `db:"draft_data" json:"draft_data"`
	LastSaved time.Time       `db:"last_saved" json:"last_saved"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}
