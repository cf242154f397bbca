// Package service coordinates catalog builds with the snapshot served to
// the API.
package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/playgrid/youtube-catalog-go/internal/catalog"
	"github.com/playgrid/youtube-catalog-go/internal/metrics"
)

// ErrRefreshInProgress is returned when a rebuild is requested while one
// is already running.
var ErrRefreshInProgress = errors.New("catalog refresh already in progress")

// SnapshotBuilder produces a fresh catalog snapshot.
type SnapshotBuilder interface {
	Build(ctx context.Context) (*catalog.Snapshot, error)
}

// SnapshotStore persists and restores snapshots.
type SnapshotStore interface {
	Save(snap *catalog.Snapshot) error
	Load() (*catalog.Snapshot, error)
}

// QuotaReporter reports remote API quota units consumed so far.
type QuotaReporter interface {
	QuotaUsed() int64
}

// Refresher owns the snapshot the API serves. It rebuilds on a fixed
// interval and on demand; a failed rebuild keeps the previous snapshot in
// place and records the error for the status endpoint.
type Refresher struct {
	builder SnapshotBuilder
	store   SnapshotStore
	metrics *metrics.Metrics
	logger  *zap.Logger
	quota   QuotaReporter

	buildMu sync.Mutex // serializes builds

	mu      sync.RWMutex
	current *catalog.Snapshot
	lastErr error
}

// NewRefresher creates a Refresher serving the empty snapshot until
// LoadInitial or Refresh replaces it.
func NewRefresher(builder SnapshotBuilder, store SnapshotStore, m *metrics.Metrics, logger *zap.Logger) *Refresher {
	return &Refresher{
		builder: builder,
		store:   store,
		metrics: m,
		logger:  logger,
		current: catalog.EmptySnapshot(),
	}
}

// SetQuotaReporter attaches quota accounting to build metrics.
func (r *Refresher) SetQuotaReporter(q QuotaReporter) {
	r.quota = q
}

// LoadInitial restores the persisted snapshot, if any, so the API serves
// data immediately after a restart.
func (r *Refresher) LoadInitial() error {
	snap, err := r.store.Load()
	if err != nil {
		return err
	}

	r.swap(snap)

	if snap.IsEmpty() {
		r.logger.Info("no persisted catalog found, serving empty snapshot")
	} else {
		r.logger.Info("persisted catalog loaded",
			zap.Int("videos", len(snap.Videos)),
			zap.Int("playlists", len(snap.Playlists)),
			zap.Time("last_updated", snap.LastUpdated),
		)
	}
	return nil
}

// Snapshot returns the snapshot currently served. The returned value is
// immutable; callers must not modify it.
func (r *Refresher) Snapshot() *catalog.Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// LastError returns the error of the most recent failed refresh, or nil
// when the last refresh succeeded.
func (r *Refresher) LastError() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lastErr
}

// Refresh rebuilds the catalog, persists the result and swaps it in. On
// failure the previous snapshot stays in place. Only one build runs at a
// time; concurrent calls fail fast with ErrRefreshInProgress.
func (r *Refresher) Refresh(ctx context.Context) (*catalog.Snapshot, error) {
	if !r.buildMu.TryLock() {
		return nil, ErrRefreshInProgress
	}
	defer r.buildMu.Unlock()

	start := time.Now()
	quotaBefore := r.quotaUsed()

	snap, err := r.builder.Build(ctx)
	r.metrics.ObserveBuild(err, time.Since(start), r.quotaUsed()-quotaBefore)

	if err != nil {
		r.setError(err)
		r.logger.Error("catalog refresh failed, keeping previous snapshot", zap.Error(err))
		return nil, err
	}

	if err := r.store.Save(snap); err != nil {
		r.setError(err)
		r.logger.Error("catalog snapshot save failed", zap.Error(err))
		return nil, err
	}

	r.swap(snap)
	r.logger.Info("catalog refreshed",
		zap.Int("videos", len(snap.Videos)),
		zap.Int("playlists", len(snap.Playlists)),
	)
	return snap, nil
}

// Run refreshes on the given interval until ctx is canceled. An immediate
// refresh happens first when nothing is being served yet.
func (r *Refresher) Run(ctx context.Context, interval time.Duration) {
	if r.Snapshot().IsEmpty() {
		if _, err := r.Refresh(ctx); err != nil {
			r.logger.Warn("initial catalog build failed", zap.Error(err))
		}
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("refresher stopping", zap.Error(ctx.Err()))
			return
		case <-ticker.C:
			if _, err := r.Refresh(ctx); err != nil && !errors.Is(err, ErrRefreshInProgress) {
				r.logger.Warn("scheduled catalog refresh failed", zap.Error(err))
			}
		}
	}
}

func (r *Refresher) swap(snap *catalog.Snapshot) {
	r.mu.Lock()
	r.current = snap
	r.lastErr = nil
	r.mu.Unlock()

	r.metrics.SetCatalogSize(len(snap.Videos), len(snap.Playlists))
}

func (r *Refresher) setError(err error) {
	r.mu.Lock()
	r.lastErr = err
	r.mu.Unlock()
}

func (r *Refresher) quotaUsed() int64 {
	if r.quota == nil {
		return 0
	}
	return r.quota.QuotaUsed()
}
