package dto

// OverviewResponse aggregates platform counters for the admin dashboard.
type OverviewResponse struct {
	TotalUsers       int `json:"total_users"`
	TotalReports     int `json:"total_reports"`
	ValidatedReports int `json:"validated_reports"`
	PendingReports   int `json:"pending_reports"`
	RejectedReports  int `json:"rejected_reports"`
	TotalViews       int `json:"total_views"`
}

// ToggleUserActiveRequest flips a user's activation flag.
type ToggleUserActiveRequest struct {
	Active bool `json:"active"`
}
