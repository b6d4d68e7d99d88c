package models

import "time"

// Favorite joins a user to a bookmarked report, unique per pair.
type Favorite struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	ReportID  string    `db:"report_id" json:"report_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
