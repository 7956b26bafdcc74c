package search_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"go-hris-admin/internal/notify"
	"go-hris-admin/internal/search"
	"go-hris-admin/internal/shared/response"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"isActive"`
}

func (r row) RecordID() int64       { return r.ID }
func (r row) DisplayName() string   { return r.Name }
func (r row) Active() bool          { return r.IsActive }
func (r row) WithActive(a bool) row { r.IsActive = a; return r }

type filters struct {
	Name     *string `json:"name,omitempty"`
	IsActive *bool   `json:"isActive,omitempty"`
}

func strPtr(s string) *string { return &s }

var defaults = search.Criteria[filters]{
	Page: search.Page{Page: 0, Size: 10, SortBy: "name", SortDirection: search.ASC},
}

type fakeQuery struct {
	mu    sync.Mutex
	calls []search.Criteria[filters]
	Fn    func(ctx context.Context, c search.Criteria[filters]) (search.Result[row], error)
}

func (f *fakeQuery) Query(ctx context.Context, c search.Criteria[filters]) (search.Result[row], error) {
	f.mu.Lock()
	f.calls = append(f.calls, c)
	f.mu.Unlock()
	return f.Fn(ctx, c)
}

func (f *fakeQuery) Calls() []search.Criteria[filters] {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]search.Criteria[filters](nil), f.calls...)
}

type recordingNotifier struct {
	mu   sync.Mutex
	msgs []notify.Message
}

func (n *recordingNotifier) Notify(m notify.Message) {
	n.mu.Lock()
	n.msgs = append(n.msgs, m)
	n.mu.Unlock()
}

func (n *recordingNotifier) Messages() []notify.Message {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notify.Message(nil), n.msgs...)
}

func pageOf(items []row, page, size int, total int64) search.Result[row] {
	p := response.NewPaginationInfo(total, page, size)
	return search.Result[row]{Items: items, Pagination: &p}
}

func setupState(t *testing.T, fn func(context.Context, search.Criteria[filters]) (search.Result[row], error)) (*search.State[filters, row], *fakeQuery, *recordingNotifier) {
	t.Helper()
	q := &fakeQuery{Fn: fn}
	n := &recordingNotifier{}
	s := search.NewState(search.StateConfig[filters, row]{
		Defaults:  defaults,
		Query:     q.Query,
		Notifier:  n,
		LoadError: "Failed to load departments",
	})
	return s, q, n
}

func TestCriteria_JSON(t *testing.T) {
	active := true
	c := search.Criteria[filters]{
		Filters: filters{Name: strPtr("Jo"), IsActive: &active},
		Page:    search.Page{Page: 1, Size: 20, SortBy: "createdAt", SortDirection: search.DESC},
	}

	b, err := json.Marshal(c)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Jo","isActive":true,"page":1,"size":20,"sortBy":"createdAt","sortDirection":"DESC"}`, string(b))

	var back search.Criteria[filters]
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, c, back)
}

func TestState_Pagination(t *testing.T) {
	ok := func(_ context.Context, c search.Criteria[filters]) (search.Result[row], error) {
		return pageOf([]row{{ID: 1, Name: "HR"}}, c.Page.Page, c.Size, 100), nil
	}

	t.Run("search resets page to zero", func(t *testing.T) {
		s, q, _ := setupState(t, ok)
		require.NoError(t, s.ChangePage(context.Background(), 30, 10))
		assert.Equal(t, 3, s.Criteria().Page.Page)

		s.SetFilters(filters{Name: strPtr("Jo")})
		require.NoError(t, s.Search(context.Background()))

		calls := q.Calls()
		last := calls[len(calls)-1]
		assert.Equal(t, 0, last.Page.Page)
		assert.Equal(t, "Jo", *last.Filters.Name)
	})

	t.Run("change page keeps filters", func(t *testing.T) {
		s, q, _ := setupState(t, ok)
		s.SetFilters(filters{Name: strPtr("Jo")})

		require.NoError(t, s.ChangePage(context.Background(), 20, 10))

		got := q.Calls()[0]
		assert.Equal(t, 2, got.Page.Page)
		assert.Equal(t, 10, got.Size)
		assert.Equal(t, "Jo", *got.Filters.Name)
		assert.Equal(t, "name", got.SortBy)
	})

	t.Run("rejects non-positive size", func(t *testing.T) {
		s, q, _ := setupState(t, ok)

		assert.ErrorIs(t, s.ChangePage(context.Background(), 0, 0), search.ErrInvalidSize)
		assert.ErrorIs(t, s.ChangePage(context.Background(), -10, 10), search.ErrInvalidPage)
		assert.Empty(t, q.Calls())
		assert.Equal(t, defaults, s.Criteria())
	})

	t.Run("reset restores defaults", func(t *testing.T) {
		s, q, _ := setupState(t, ok)
		s.SetFilters(filters{Name: strPtr("Jo")})
		s.SetSort("code", search.DESC)
		require.NoError(t, s.ChangePage(context.Background(), 50, 25))

		require.NoError(t, s.ResetFilters(context.Background()))

		calls := q.Calls()
		assert.Equal(t, defaults, calls[len(calls)-1])
	})
}

func TestState_ScenarioA(t *testing.T) {
	s, _, _ := setupState(t, func(_ context.Context, c search.Criteria[filters]) (search.Result[row], error) {
		return pageOf([]row{{ID: 1, Name: "John"}, {ID: 2, Name: "Joan"}}, 0, 10, 2), nil
	})

	_, loaded := s.DisplayedItemsCount()
	assert.False(t, loaded)

	s.SetFilters(filters{Name: strPtr("Jo")})
	require.NoError(t, s.Search(context.Background()))

	assert.Len(t, s.Items(), 2)
	p, ok := s.Pagination()
	require.True(t, ok)
	assert.Equal(t, response.PaginationInfo{Page: 0, Size: 10, TotalElements: 2, TotalPages: 1, First: true, Last: true}, p)

	count, ok := s.DisplayedItemsCount()
	assert.True(t, ok)
	assert.Equal(t, int64(2), count)
}

func TestState_DisplayedItemsCount(t *testing.T) {
	tests := []struct {
		name  string
		page  int
		size  int
		total int64
		want  int64
	}{
		{name: "full first page", page: 0, size: 10, total: 25, want: 10},
		{name: "short last page", page: 2, size: 10, total: 25, want: 25},
		{name: "empty", page: 0, size: 10, total: 0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _, _ := setupState(t, func(context.Context, search.Criteria[filters]) (search.Result[row], error) {
				return pageOf(nil, tt.page, tt.size, tt.total), nil
			})
			require.NoError(t, s.Reload(context.Background()))

			got, ok := s.DisplayedItemsCount()
			assert.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestState_LoadFailure(t *testing.T) {
	fail := false
	s, _, n := setupState(t, func(context.Context, search.Criteria[filters]) (search.Result[row], error) {
		if fail {
			return search.Result[row]{}, errors.New("connection refused")
		}
		return pageOf([]row{{ID: 1, Name: "HR"}}, 0, 10, 1), nil
	})
	require.NoError(t, s.Search(context.Background()))

	fail = true
	err := s.ChangePage(context.Background(), 10, 10)
	assert.Error(t, err)

	assert.Equal(t, []row{{ID: 1, Name: "HR"}}, s.Items())
	assert.False(t, s.Loading())
	require.Len(t, n.Messages(), 1)
	assert.Equal(t, notify.Message{Severity: notify.SeverityError, Summary: "Error", Detail: "Failed to load departments"}, n.Messages()[0])
}

func TestState_SupersededLoad(t *testing.T) {
	slowStarted := make(chan struct{})
	releaseSlow := make(chan struct{})

	s, _, _ := setupState(t, func(_ context.Context, c search.Criteria[filters]) (search.Result[row], error) {
		if c.Page.Page == 5 {
			close(slowStarted)
			<-releaseSlow
			return pageOf([]row{{ID: 50, Name: "Stale"}}, 5, 10, 100), nil
		}
		return pageOf([]row{{ID: 1, Name: "Fresh"}}, 0, 10, 100), nil
	})

	done := make(chan error, 1)
	go func() { done <- s.ChangePage(context.Background(), 50, 10) }()
	<-slowStarted

	require.NoError(t, s.Search(context.Background()))
	close(releaseSlow)
	require.NoError(t, <-done)

	assert.Equal(t, []row{{ID: 1, Name: "Fresh"}}, s.Items())
	p, _ := s.Pagination()
	assert.Equal(t, 0, p.Page)
}
