package dto

// CatalogQuery binds the catalog filter state from query parameters.
type CatalogQuery struct {
	AcademicYear string `form:"academic_year"`
	Specialty    string `form:"specialty"`
	SortBy       string `form:"sort_by"`
	Search       string `form:"search"`
}

// ConsultationRequest records one report viewing.
type ConsultationRequest struct {
	SessionID       string  `json:"session_id" validate:"required"`
	DurationSeconds int     `json:"duration_seconds" validate:"gte=0"`
	WatermarkText   *string `json:"watermark_text,omitempty"`
}
