package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/esprim/pfe-catalog-api/internal/models"
	appErrors "github.com/esprim/pfe-catalog-api/pkg/errors"
)

type draftRepository interface {
	FindByUser(ctx context.Context, userID string) (*models.Draft, error)
	Save(ctx context.Context, userID string, data json.RawMessage) (string, error)
	DeleteByUser(ctx context.Context, userID string) error
}

// DraftService manages submission drafts: one per user, created lazily
// on first save and replaced in place on subsequent saves.
type DraftService struct {
	repo    draftRepository
	logger  *zap.Logger
	metrics *MetricsService
}

// NewDraftService constructs a DraftService instance.
func NewDraftService(repo draftRepository, logger *zap.Logger, metrics *MetricsService) *DraftService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DraftService{repo: repo, logger: logger, metrics: metrics}
}

// Load returns the user's draft. A missing draft is not an error for
// the caller; it maps to ErrNotFound so handlers can answer 404.
func (s *DraftService) Load(ctx context.Context, userID string) (*models.Draft, error) {
	draft, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no draft found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load draft")
	}
	return draft, nil
}

// Save persists the draft synchronously. Manual saves surface failures
// to the caller, unlike the background autosave path.
func (s *DraftService) Save(ctx context.Context, userID string, data json.RawMessage) (string, error) {
	if len(data) == 0 || !json.Valid(data) {
		return "", appErrors.Clone(appErrors.ErrValidation, "draft payload must be a JSON document")
	}
	id, err := s.repo.Save(ctx, userID, data)
	if err != nil {
		s.metrics.RecordAutosave("manual_error")
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save draft")
	}
	s.metrics.RecordAutosave("manual")
	return id, nil
}

// Delete discards the user's draft. Deleting an absent draft is a no-op.
func (s *DraftService) Delete(ctx context.Context, userID string) error {
	if err := s.repo.DeleteByUser(ctx, userID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete draft")
	}
	return nil
}

// Autosaver periodically flushes buffered draft snapshots to storage.
// Clients push the latest form state into the buffer; every interval
// the dirty entries are written out. Flush failures are logged and the
// snapshot stays dirty for the next tick, so the user never loses an
// editing session to a transient storage error.
type Autosaver struct {
	service  *DraftService
	logger   *zap.Logger
	metrics  *MetricsService
	interval time.Duration

	mu      sync.Mutex
	pending map[string]json.RawMessage
}

// NewAutosaver constructs an Autosaver flushing at the given interval.
func NewAutosaver(service *DraftService, logger *zap.Logger, metrics *MetricsService, interval time.Duration) *Autosaver {
	if logger == nil {
		logger = zap.NewNop()
	}
	if interval <= 0 {
		interval = 120 * time.Second
	}
	return &Autosaver{
		service:  service,
		logger:   logger,
		metrics:  metrics,
		interval: interval,
		pending:  make(map[string]json.RawMessage),
	}
}

// Buffer records the latest draft snapshot for a user. Later snapshots
// replace earlier ones; only the newest state is flushed.
func (a *Autosaver) Buffer(userID string, data json.RawMessage) error {
	if len(data) == 0 || !json.Valid(data) {
		return appErrors.Clone(appErrors.ErrValidation, "draft payload must be a JSON document")
	}
	a.mu.Lock()
	a.pending[userID] = data
	a.mu.Unlock()
	return nil
}

// Discard drops any buffered snapshot for the user, typically after a
// successful submission or an explicit draft delete.
func (a *Autosaver) Discard(userID string) {
	a.mu.Lock()
	delete(a.pending, userID)
	a.mu.Unlock()
}

// Start launches the flush loop. It stops when the context is done.
func (a *Autosaver) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(a.interval)
		defer ticker.Stop()
		a.logger.Info("draft autosaver started", zap.Duration("interval", a.interval))
		for {
			select {
			case <-ctx.Done():
				a.logger.Info("draft autosaver stopped")
				return
			case <-ticker.C:
				a.Flush(ctx)
			}
		}
	}()
}

// Flush writes every dirty snapshot. Entries that fail are put back so
// the next tick retries them, unless a newer snapshot arrived meanwhile.
func (a *Autosaver) Flush(ctx context.Context) {
	a.mu.Lock()
	if len(a.pending) == 0 {
		a.mu.Unlock()
		return
	}
	batch := a.pending
	a.pending = make(map[string]json.RawMessage)
	a.mu.Unlock()

	for userID, data := range batch {
		if _, err := a.service.repo.Save(ctx, userID, data); err != nil {
			a.logger.Warn("autosave flush failed",
				zap.String("user_id", userID),
				zap.Error(err))
			a.metrics.RecordAutosave("error")
			a.mu.Lock()
			if _, newer := a.pending[userID]; !newer {
				a.pending[userID] = data
			}
			a.mu.Unlock()
			continue
		}
		a.metrics.RecordAutosave("auto")
	}
}
