package models

// CatalogSort enumerates the supported catalog orderings.
type CatalogSort string

const (
	SortDateDesc CatalogSort = "date_desc"
	SortPopular  CatalogSort = "popular"
	SortTitle    CatalogSort = "title"
)

// CatalogFilter is the mutable filter state applied in memory over the
// validated report set. Empty fields are no-ops.
type CatalogFilter struct {
	AcademicYear string      `json:"academic_year"`
	Specialty    string      `json:"specialty"`
	SortBy       CatalogSort `json:"sort_by"`
	SearchTerm   string      `json:"search_term"`
}
