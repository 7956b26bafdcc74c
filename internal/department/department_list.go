package department

import (
	"go-hris-admin/internal/audit"
	"go-hris-admin/internal/notify"
	"go-hris-admin/internal/search"

	"go.uber.org/zap"
)

type (
	State = search.State[Filters, Department]
	List  = search.List[Filters, Department]
)

// NewState starts a list session with the department defaults (name ASC).
func NewState(svc Service, n notify.Notifier, logger ...*zap.Logger) *State {
	return search.NewState(search.StateConfig[Filters, Department]{
		Defaults:  DefaultCriteria(),
		Query:     svc.Search,
		Notifier:  n,
		LoadError: "Failed to load departments",
	}, logger...)
}

func NewList(svc Service, state *State, c notify.Confirmer, n notify.Notifier, a audit.Logger, logger ...*zap.Logger) *List {
	return search.NewList(search.ListConfig[Filters, Department]{
		Noun:      "department",
		State:     state,
		Remote:    svc,
		Confirmer: c,
		Notifier:  n,
		Audit:     a,
	}, logger...)
}
