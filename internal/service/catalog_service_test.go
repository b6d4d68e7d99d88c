package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esprim/pfe-catalog-api/internal/dto"
	"github.com/esprim/pfe-catalog-api/internal/models"
)

type stubCatalogRepo struct {
	reports []models.Report
	err     error
	calls   int
}

func (s *stubCatalogRepo) ListValidated(ctx context.Context) ([]models.Report, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.reports, nil
}

type stubFavoriteRepo struct {
	pairs map[string]bool
}

func (s *stubFavoriteRepo) key(userID, reportID string) string { return userID + "/" + reportID }

func (s *stubFavoriteRepo) ListReportIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	for k, ok := range s.pairs {
		if ok && len(k) > len(userID) && k[:len(userID)] == userID {
			ids = append(ids, k[len(userID)+1:])
		}
	}
	return ids, nil
}

func (s *stubFavoriteRepo) Exists(ctx context.Context, userID, reportID string) (bool, error) {
	return s.pairs[s.key(userID, reportID)], nil
}

func (s *stubFavoriteRepo) Create(ctx context.Context, userID, reportID string) error {
	if s.pairs == nil {
		s.pairs = make(map[string]bool)
	}
	s.pairs[s.key(userID, reportID)] = true
	return nil
}

func (s *stubFavoriteRepo) Delete(ctx context.Context, userID, reportID string) error {
	delete(s.pairs, s.key(userID, reportID))
	return nil
}

func ts(daysAgo int) *time.Time {
	t := time.Now().UTC().AddDate(0, 0, -daysAgo)
	return &t
}

func catalogFixture() []models.Report {
	return []models.Report{
		{ID: "r1", Title: "Zeta: plateforme e-learning", AcademicYear: "2023-2024", Specialty: "Informatique", Keywords: models.StringList{"web", "elearning"}, Abstract: "Une plateforme pedagogique", ViewsCount: 10, ValidatedAt: ts(5), Status: models.StatusValidated},
		{ID: "r2", Title: "Automatisation d'une ligne", AcademicYear: "2024-2025", Specialty: "Mecatronique", Keywords: models.StringList{"automate", "scada"}, Abstract: "Supervision industrielle", ViewsCount: 40, ValidatedAt: ts(2), Status: models.StatusValidated},
		{ID: "r3", Title: "Application mobile sante", AcademicYear: "2024-2025", Specialty: "Informatique", Keywords: models.StringList{"mobile", "sante"}, Abstract: "Suivi des patients", ViewsCount: 40, ValidatedAt: ts(1), Status: models.StatusValidated},
		{ID: "r4", Title: "Eolienne connectee", AcademicYear: "2022-2023", Specialty: "Mecatronique", Keywords: models.StringList{"energie", "iot"}, Abstract: "Production d'energie", ViewsCount: 5, Status: models.StatusValidated, CreatedAt: time.Now().UTC().AddDate(0, 0, -10)},
	}
}

func newCatalog(repo *stubCatalogRepo, favorites *stubFavoriteRepo) *CatalogService {
	if favorites == nil {
		favorites = &stubFavoriteRepo{}
	}
	return NewCatalogService(repo, favorites, nil, nil, CatalogConfig{PopularLimit: 2})
}

func TestBrowseDefaultSortNewestFirst(t *testing.T) {
	svc := newCatalog(&stubCatalogRepo{reports: catalogFixture()}, nil)

	out, err := svc.Browse(context.Background(), dto.CatalogQuery{})
	require.NoError(t, err)
	require.Len(t, out, 4)
	assert.Equal(t, "r3", out[0].ID)
	assert.Equal(t, "r2", out[1].ID)
	// r4 has no validation timestamp and falls back to created_at.
	assert.Equal(t, "r4", out[3].ID)
}

func TestBrowseFiltersCombine(t *testing.T) {
	svc := newCatalog(&stubCatalogRepo{reports: catalogFixture()}, nil)

	out, err := svc.Browse(context.Background(), dto.CatalogQuery{AcademicYear: "2024-2025", Specialty: "Informatique"})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "r3", out[0].ID)
}

func TestBrowseSearchIsCaseInsensitive(t *testing.T) {
	svc := newCatalog(&stubCatalogRepo{reports: catalogFixture()}, nil)

	out, err := svc.Browse(context.Background(), dto.CatalogQuery{Search: "SCADA"})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "r2", out[0].ID)
}

func TestBrowseSearchCoversAbstract(t *testing.T) {
	svc := newCatalog(&stubCatalogRepo{reports: catalogFixture()}, nil)

	out, err := svc.Browse(context.Background(), dto.CatalogQuery{Search: "patients"})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "r3", out[0].ID)
}

func TestBrowsePopularSortIsStableOnTies(t *testing.T) {
	svc := newCatalog(&stubCatalogRepo{reports: catalogFixture()}, nil)

	out, err := svc.Browse(context.Background(), dto.CatalogQuery{SortBy: "popular"})
	require.NoError(t, err)
	require.Len(t, out, 4)
	// r2 and r3 tie on views; input order is preserved.
	assert.Equal(t, "r2", out[0].ID)
	assert.Equal(t, "r3", out[1].ID)
}

func TestBrowseTitleSortHandlesAccents(t *testing.T) {
	svc := newCatalog(&stubCatalogRepo{reports: []models.Report{
		{ID: "a", Title: "Zone industrielle"},
		{ID: "b", Title: "Éolienne connectée"},
		{ID: "c", Title: "application mobile"},
	}}, nil)

	out, err := svc.Browse(context.Background(), dto.CatalogQuery{SortBy: "title"})
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, "c", out[0].ID)
	assert.Equal(t, "b", out[1].ID)
	assert.Equal(t, "a", out[2].ID)
}

func TestBrowseRejectsUnknownSort(t *testing.T) {
	svc := newCatalog(&stubCatalogRepo{reports: catalogFixture()}, nil)

	_, err := svc.Browse(context.Background(), dto.CatalogQuery{SortBy: "oldest"})
	require.Error(t, err)
}

func TestYearsDistinctDescending(t *testing.T) {
	svc := newCatalog(&stubCatalogRepo{reports: catalogFixture()}, nil)

	years, err := svc.Years(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-2025", "2023-2024", "2022-2023"}, years)
}

func TestPopularCapsAtConfiguredLimit(t *testing.T) {
	svc := newCatalog(&stubCatalogRepo{reports: catalogFixture()}, nil)

	out, err := svc.Popular(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, 40, out[0].ViewsCount)
}

func TestToggleFavoriteFlipsState(t *testing.T) {
	favorites := &stubFavoriteRepo{}
	svc := newCatalog(&stubCatalogRepo{reports: catalogFixture()}, favorites)

	on, err := svc.ToggleFavorite(context.Background(), "u1", "r1")
	require.NoError(t, err)
	assert.True(t, on)

	off, err := svc.ToggleFavorite(context.Background(), "u1", "r1")
	require.NoError(t, err)
	assert.False(t, off)
}

func TestFavoritesEmptyIsNotNil(t *testing.T) {
	svc := newCatalog(&stubCatalogRepo{reports: catalogFixture()}, &stubFavoriteRepo{})

	ids, err := svc.Favorites(context.Background(), "u1")
	require.NoError(t, err)
	assert.NotNil(t, ids)
	assert.Empty(t, ids)
}

func TestApplyFilterDoesNotMutateInput(t *testing.T) {
	svc := newCatalog(&stubCatalogRepo{}, nil)

	input := catalogFixture()
	first := input[0].ID
	_ = svc.ApplyFilter(input, models.CatalogFilter{SortBy: models.SortPopular})
	assert.Equal(t, first, input[0].ID)
}
