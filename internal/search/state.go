package search

import (
	"context"
	"sync"

	"go-hris-admin/internal/notify"
	"go-hris-admin/internal/shared/response"

	"go.uber.org/zap"
)

// Result is one page returned by the backend.
type Result[T any] struct {
	Items      []T
	Pagination *response.PaginationInfo
}

// QueryFunc runs a search request.
type QueryFunc[F any, T any] func(ctx context.Context, c Criteria[F]) (Result[T], error)

type StateConfig[F any, T any] struct {
	Defaults Criteria[F]
	Query    QueryFunc[F, T]
	Notifier notify.Notifier
	// LoadError is the notification text when a load fails,
	// e.g. "Failed to load departments".
	LoadError string
}

// State holds the criteria of one list session and the last loaded page.
// Loads are sequence guarded: a load that finishes after a newer one was
// started is dropped.
type State[F any, T Record[T]] struct {
	defaults  Criteria[F]
	query     QueryFunc[F, T]
	notifier  notify.Notifier
	loadError string
	logger    *zap.Logger

	mu         sync.RWMutex
	criteria   Criteria[F]
	results    Results[T]
	pagination *response.PaginationInfo
	seq        uint64
	loading    bool
}

func NewState[F any, T Record[T]](cfg StateConfig[F, T], logger ...*zap.Logger) *State[F, T] {
	l := zap.L().Named("search.state")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("search.state")
	}
	if cfg.Defaults.Size <= 0 {
		cfg.Defaults.Size = DefaultSize
	}
	if cfg.LoadError == "" {
		cfg.LoadError = "Failed to load data"
	}
	return &State[F, T]{
		defaults:  cfg.Defaults,
		query:     cfg.Query,
		notifier:  cfg.Notifier,
		loadError: cfg.LoadError,
		logger:    l,
		criteria:  cfg.Defaults,
		results:   NewResults[T](nil),
	}
}

// Search restarts pagination at page 0 and loads with the current filters.
func (s *State[F, T]) Search(ctx context.Context) error {
	s.mu.Lock()
	s.criteria.Page.Page = 0
	s.mu.Unlock()
	return s.Reload(ctx)
}

// ChangePage moves to the page containing offset, keeping the filters.
func (s *State[F, T]) ChangePage(ctx context.Context, offset, size int) error {
	if size <= 0 {
		return ErrInvalidSize
	}
	if offset < 0 {
		return ErrInvalidPage
	}
	s.mu.Lock()
	s.criteria.Page.Page = offset / size
	s.criteria.Size = size
	s.mu.Unlock()
	return s.Reload(ctx)
}

// ResetFilters restores the entity defaults and reloads.
func (s *State[F, T]) ResetFilters(ctx context.Context) error {
	s.mu.Lock()
	s.criteria = s.defaults
	s.mu.Unlock()
	return s.Reload(ctx)
}

// SetFilters replaces the filters without loading.
func (s *State[F, T]) SetFilters(f F) {
	s.mu.Lock()
	s.criteria.Filters = f
	s.mu.Unlock()
}

func (s *State[F, T]) SetSort(by string, dir Direction) {
	s.mu.Lock()
	s.criteria.SortBy = by
	s.criteria.SortDirection = dir
	s.mu.Unlock()
}

func (s *State[F, T]) Filters() F {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.criteria.Filters
}

func (s *State[F, T]) Criteria() Criteria[F] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.criteria
}

// Reload queries with the current criteria as they are.
func (s *State[F, T]) Reload(ctx context.Context) error {
	s.mu.Lock()
	s.seq++
	seq := s.seq
	criteria := s.criteria
	s.loading = true
	s.mu.Unlock()

	res, err := s.query(ctx, criteria)

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		s.logger.Debug("dropping superseded load", zap.Uint64("seq", seq))
		return nil
	}
	s.loading = false

	if err != nil {
		s.logger.Warn("load failed", zap.Error(err))
		if s.notifier != nil {
			notify.Error(s.notifier, s.loadError)
		}
		return err
	}

	s.results = NewResults(res.Items)
	s.pagination = res.Pagination
	if res.Pagination != nil && res.Pagination.Size > 0 {
		s.criteria.Size = res.Pagination.Size
	}
	return nil
}

func (s *State[F, T]) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *State[F, T]) Items() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.results.Items()
}

func (s *State[F, T]) Get(id int64) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.results.Get(id)
}

// Replace patches the row carrying item's id with item.
func (s *State[F, T]) Replace(item T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.results.replace(item)
}

func (s *State[F, T]) Pagination() (response.PaginationInfo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.pagination == nil {
		return response.PaginationInfo{}, false
	}
	return *s.pagination, true
}

// TotalRecords is totalElements, or the row count when the server sent no
// pagination.
func (s *State[F, T]) TotalRecords() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.pagination == nil {
		return int64(s.results.Len())
	}
	return s.pagination.TotalElements
}

// DisplayedItemsCount is min((page+1)*size, totalElements) for "showing X of
// Y"; ok is false until pagination has been loaded.
func (s *State[F, T]) DisplayedItemsCount() (int64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p := s.pagination
	if p == nil {
		return 0, false
	}
	return min(int64(p.Page+1)*int64(p.Size), p.TotalElements), true
}
