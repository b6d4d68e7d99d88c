package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/esprim/pfe-catalog-api/internal/dto"
	"github.com/esprim/pfe-catalog-api/internal/models"
	appErrors "github.com/esprim/pfe-catalog-api/pkg/errors"
)

const catalogCacheKey = "catalog:validated"

type catalogReportRepository interface {
	ListValidated(ctx context.Context) ([]models.Report, error)
}

type favoriteRepository interface {
	ListReportIDs(ctx context.Context, userID string) ([]string, error)
	Exists(ctx context.Context, userID, reportID string) (bool, error)
	Create(ctx context.Context, userID, reportID string) error
	Delete(ctx context.Context, userID, reportID string) error
}

// CatalogService serves the public catalog. It loads the full validated
// set once (optionally through the cache) and applies filtering,
// searching, and sorting in memory, mirroring how readers refine the
// same result set interactively.
type CatalogService struct {
	reports      catalogReportRepository
	favorites    favoriteRepository
	cache        *CacheService
	collator     *collate.Collator
	logger       *zap.Logger
	cacheTTL     time.Duration
	popularLimit int
}

// CatalogConfig tunes caching and the popularity shelf.
type CatalogConfig struct {
	CacheTTL     time.Duration
	PopularLimit int
}

// NewCatalogService constructs a CatalogService instance. Titles sort
// with French collation; report titles at ESPRIM are predominantly
// French and byte order misplaces accented initials.
func NewCatalogService(reports catalogReportRepository, favorites favoriteRepository, cache *CacheService, logger *zap.Logger, config CatalogConfig) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.PopularLimit <= 0 {
		config.PopularLimit = 10
	}
	if config.CacheTTL <= 0 {
		config.CacheTTL = 5 * time.Minute
	}
	return &CatalogService{
		reports:      reports,
		favorites:    favorites,
		cache:        cache,
		collator:     collate.New(language.French, collate.IgnoreCase),
		logger:       logger,
		cacheTTL:     config.CacheTTL,
		popularLimit: config.PopularLimit,
	}
}

// Browse returns the validated reports matching the query.
func (s *CatalogService) Browse(ctx context.Context, query dto.CatalogQuery) ([]models.Report, error) {
	filter, err := parseCatalogQuery(query)
	if err != nil {
		return nil, err
	}
	reports, err := s.loadValidated(ctx)
	if err != nil {
		return nil, err
	}
	return s.ApplyFilter(reports, filter), nil
}

// Years returns the distinct academic years present in the catalog,
// newest first, for the year filter dropdown.
func (s *CatalogService) Years(ctx context.Context) ([]string, error) {
	reports, err := s.loadValidated(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(reports))
	years := make([]string, 0, 8)
	for _, r := range reports {
		if _, ok := seen[r.AcademicYear]; ok {
			continue
		}
		seen[r.AcademicYear] = struct{}{}
		years = append(years, r.AcademicYear)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(years)))
	return years, nil
}

// Popular returns the most-viewed validated reports, capped at the
// configured shelf size.
func (s *CatalogService) Popular(ctx context.Context) ([]models.Report, error) {
	reports, err := s.loadValidated(ctx)
	if err != nil {
		return nil, err
	}
	ranked := s.ApplyFilter(reports, models.CatalogFilter{SortBy: models.SortPopular})
	if len(ranked) > s.popularLimit {
		ranked = ranked[:s.popularLimit]
	}
	return ranked, nil
}

// Favorites returns the ids of reports the user has bookmarked, as a
// set for cheap membership checks client-side.
func (s *CatalogService) Favorites(ctx context.Context, userID string) ([]string, error) {
	ids, err := s.favorites.ListReportIDs(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list favorites")
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

// ToggleFavorite flips the bookmark for one (user, report) pair and
// reports the resulting state. The unique constraint absorbs races
// between concurrent toggles of the same pair.
func (s *CatalogService) ToggleFavorite(ctx context.Context, userID, reportID string) (bool, error) {
	exists, err := s.favorites.Exists(ctx, userID, reportID)
	if err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check favorite")
	}
	if exists {
		if err := s.favorites.Delete(ctx, userID, reportID); err != nil {
			return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to remove favorite")
		}
		return false, nil
	}
	if err := s.favorites.Create(ctx, userID, reportID); err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to add favorite")
	}
	return true, nil
}

// ApplyFilter runs the in-memory catalog pipeline: year and specialty
// filters, substring search, then a stable sort. The input slice is
// never mutated.
func (s *CatalogService) ApplyFilter(reports []models.Report, filter models.CatalogFilter) []models.Report {
	out := make([]models.Report, 0, len(reports))
	term := strings.ToLower(strings.TrimSpace(filter.SearchTerm))
	for _, r := range reports {
		if filter.AcademicYear != "" && r.AcademicYear != filter.AcademicYear {
			continue
		}
		if filter.Specialty != "" && r.Specialty != filter.Specialty {
			continue
		}
		if term != "" && !matchesCatalog(r, term) {
			continue
		}
		out = append(out, r)
	}

	switch filter.SortBy {
	case models.SortPopular:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].ViewsCount > out[j].ViewsCount
		})
	case models.SortTitle:
		sort.SliceStable(out, func(i, j int) bool {
			return s.collator.CompareString(out[i].Title, out[j].Title) < 0
		})
	default:
		sort.SliceStable(out, func(i, j int) bool {
			return publishedAt(out[i]).After(publishedAt(out[j]))
		})
	}
	return out
}

func (s *CatalogService) loadValidated(ctx context.Context) ([]models.Report, error) {
	if s.cache != nil && s.cache.Enabled() {
		var cached []models.Report
		if hit, err := s.cache.Get(ctx, catalogCacheKey, &cached); err == nil && hit {
			return cached, nil
		}
	}

	reports, err := s.reports.ListValidated(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load catalog")
	}

	if s.cache != nil && s.cache.Enabled() {
		if err := s.cache.Set(ctx, catalogCacheKey, reports, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache catalog", zap.Error(err))
		}
	}
	return reports, nil
}

func parseCatalogQuery(query dto.CatalogQuery) (models.CatalogFilter, error) {
	filter := models.CatalogFilter{
		AcademicYear: strings.TrimSpace(query.AcademicYear),
		Specialty:    strings.TrimSpace(query.Specialty),
		SearchTerm:   query.Search,
	}
	switch query.SortBy {
	case "", string(models.SortDateDesc):
		filter.SortBy = models.SortDateDesc
	case string(models.SortPopular):
		filter.SortBy = models.SortPopular
	case string(models.SortTitle):
		filter.SortBy = models.SortTitle
	default:
		return filter, appErrors.Clone(appErrors.ErrValidation, "sort_by must be one of date_desc, popular, title")
	}
	return filter, nil
}

// publishedAt is the ordering timestamp for date sorting. Reports
// validated before the timestamp column existed fall back to their
// creation time.
func publishedAt(r models.Report) time.Time {
	if r.ValidatedAt != nil {
		return *r.ValidatedAt
	}
	return r.CreatedAt
}

func matchesCatalog(r models.Report, term string) bool {
	if strings.Contains(strings.ToLower(r.Title), term) {
		return true
	}
	if strings.Contains(strings.ToLower(r.Abstract), term) {
		return true
	}
	for _, kw := range r.Keywords {
		if strings.Contains(strings.ToLower(kw), term) {
			return true
		}
	}
	return false
}
