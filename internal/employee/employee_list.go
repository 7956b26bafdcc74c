package employee

import (
	"go-hris-admin/internal/audit"
	"go-hris-admin/internal/notify"
	"go-hris-admin/internal/search"

	"go.uber.org/zap"
)

type (
	State = search.State[Filters, Employee]
	List  = search.List[Filters, Employee]
)

// NewState starts a list session with the employee defaults (createdAt DESC).
func NewState(svc Service, n notify.Notifier, logger ...*zap.Logger) *State {
	return search.NewState(search.StateConfig[Filters, Employee]{
		Defaults:  DefaultCriteria(),
		Query:     svc.Search,
		Notifier:  n,
		LoadError: "Failed to load employees",
	}, logger...)
}

func NewList(svc Service, state *State, c notify.Confirmer, n notify.Notifier, a audit.Logger, logger ...*zap.Logger) *List {
	return search.NewList(search.ListConfig[Filters, Employee]{
		Noun:      "employee",
		State:     state,
		Remote:    svc,
		Confirmer: c,
		Notifier:  n,
		Audit:     a,
	}, logger...)
}
