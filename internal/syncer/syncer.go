// Package syncer reconciles the local mirror against the remote
// collections: full or incremental per kind, identity-keyed merge, and
// watermark bookkeeping.
package syncer

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"github.com/tmercier/pressroom/internal/config"
	"github.com/tmercier/pressroom/internal/errors"
	"github.com/tmercier/pressroom/internal/item"
	"github.com/tmercier/pressroom/internal/store"
)

// Source is the remote side of a sync. *notion.Client satisfies it.
type Source interface {
	QueryContent(ctx context.Context, since *time.Time) ([]item.ContentItem, error)
	QueryPersonas(ctx context.Context, since *time.Time) ([]item.Persona, error)
	QueryModels(ctx context.Context, since *time.Time) ([]item.ModelProfile, error)
}

// SyncState holds the per-kind watermarks a run starts from. It is
// loaded explicitly and passed in, never read ambiently mid-run.
type SyncState struct {
	LastIncremental map[item.Kind]*time.Time
	LastFull        map[item.Kind]*time.Time
}

// LoadState reads the persisted watermarks for every kind.
func LoadState(db *sql.DB) (*SyncState, error) {
	state := &SyncState{
		LastIncremental: make(map[item.Kind]*time.Time),
		LastFull:        make(map[item.Kind]*time.Time),
	}
	for _, kind := range item.Kinds {
		incremental, full, err := store.Watermarks(db, kind)
		if err != nil {
			return nil, err
		}
		state.LastIncremental[kind] = incremental
		state.LastFull[kind] = full
	}
	return state, nil
}

// ScopeResult is the outcome of one kind's reconciliation.
type ScopeResult struct {
	Kind    item.Kind
	Full    bool
	Fetched int
	Err     error
}

// Result is the outcome of a run. Scopes commit independently, so some
// may have succeeded even when Err is set on others.
type Result struct {
	Skipped bool // another run was already in flight
	Scopes  []ScopeResult
}

// Syncer runs reconciliations. Safe for concurrent use; overlapping
// runs collapse to one.
type Syncer struct {
	db         *sql.DB
	source     Source
	fullResync time.Duration
	now        func() time.Time
	busy       atomic.Bool
}

// New creates a syncer over the mirror and a remote source.
func New(db *sql.DB, source Source, cfg *config.Config) *Syncer {
	hours := cfg.FullResyncHours
	if hours <= 0 {
		hours = config.DefaultFullResyncHours
	}
	return &Syncer{
		db:         db,
		source:     source,
		fullResync: time.Duration(hours) * time.Hour,
		now:        time.Now,
	}
}

// Run reconciles all three kinds concurrently. Each kind decides
// full-vs-incremental on its own watermarks and commits its rows and
// watermarks independently; a failing scope never rolls back a
// succeeded one. If a run is already in flight the call is a no-op.
func (s *Syncer) Run(ctx context.Context) (*Result, error) {
	if !s.busy.CompareAndSwap(false, true) {
		return &Result{Skipped: true}, nil
	}
	defer s.busy.Store(false)

	state, err := LoadState(s.db)
	if err != nil {
		return nil, err
	}

	results := make(chan ScopeResult, len(item.Kinds))
	go func() {
		results <- syncScope(ctx, s, item.KindContent, state, s.source.QueryContent, sortContent)
	}()
	go func() {
		results <- syncScope(ctx, s, item.KindContexts, state, s.source.QueryPersonas, nil)
	}()
	go func() {
		results <- syncScope(ctx, s, item.KindModels, state, s.source.QueryModels, nil)
	}()

	res := &Result{}
	for range item.Kinds {
		res.Scopes = append(res.Scopes, <-results)
	}
	sort.Slice(res.Scopes, func(i, j int) bool { return res.Scopes[i].Kind < res.Scopes[j].Kind })

	var failed []ScopeResult
	for _, sc := range res.Scopes {
		if sc.Err != nil {
			failed = append(failed, sc)
		}
	}
	switch len(failed) {
	case 0:
		return res, nil
	case 1:
		return res, failed[0].Err
	}
	msg := fmt.Sprintf("%d sync scopes failed", len(failed))
	for _, sc := range failed {
		msg += fmt.Sprintf("; %s: %v", sc.Kind, sc.Err)
	}
	return res, errors.NewRemoteUnavailable(0, fmt.Errorf("%s", msg))
}

// syncScope reconciles a single kind. A full fetch replaces the cached
// collection and stamps both watermarks; an incremental fetch merges the
// delta over the cache and stamps only the incremental watermark. The
// watermark value is the instant the fetch started, so edits made while
// it ran are picked up next time.
func syncScope[T store.Entity](
	ctx context.Context,
	s *Syncer,
	kind item.Kind,
	state *SyncState,
	fetch func(context.Context, *time.Time) ([]T, error),
	post func([]T) []T,
) ScopeResult {
	started := s.now()
	full := needsFull(state.LastFull[kind], started, s.fullResync)

	var since *time.Time
	if !full {
		since = state.LastIncremental[kind]
	}

	fetched, err := fetch(ctx, since)
	if err != nil {
		return ScopeResult{Kind: kind, Full: full, Err: err}
	}

	merged := fetched
	if !full {
		cached, err := store.GetAll[T](s.db, kind)
		if err != nil {
			return ScopeResult{Kind: kind, Full: full, Err: err}
		}
		merged = mergeByKey(cached, fetched)
	}
	if post != nil {
		merged = post(merged)
	}

	if err := store.ReplaceAll(s.db, kind, merged); err != nil {
		return ScopeResult{Kind: kind, Full: full, Err: err}
	}

	var fullMark *time.Time
	if full {
		fullMark = &started
	}
	if err := store.SetWatermarks(s.db, kind, &started, fullMark); err != nil {
		return ScopeResult{Kind: kind, Full: full, Err: err}
	}
	return ScopeResult{Kind: kind, Full: full, Fetched: len(fetched)}
}

// needsFull reports whether the full watermark is missing or older than
// the resync threshold.
func needsFull(lastFull *time.Time, now time.Time, threshold time.Duration) bool {
	return lastFull == nil || now.Sub(*lastFull) > threshold
}

// mergeByKey overlays a delta onto the cached collection: existing rows
// are replaced in place, new rows append in delta order, rows absent
// from the delta are retained.
func mergeByKey[T store.Entity](cached, delta []T) []T {
	if len(delta) == 0 {
		return cached
	}
	index := make(map[string]int, len(cached))
	merged := make([]T, len(cached))
	copy(merged, cached)
	for i, it := range merged {
		index[it.Key()] = i
	}
	for _, it := range delta {
		if i, ok := index[it.Key()]; ok {
			merged[i] = it
			continue
		}
		index[it.Key()] = len(merged)
		merged = append(merged, it)
	}
	return merged
}

// sortContent orders content newest edit first; items without a
// timestamp go last, keeping their relative order.
func sortContent(items []item.ContentItem) []item.ContentItem {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i].LastEdited, items[j].LastEdited
		if a.IsZero() {
			return false
		}
		if b.IsZero() {
			return true
		}
		return a.After(b)
	})
	return items
}
