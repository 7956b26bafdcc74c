package app

import (
	"context"

	"go-hris-admin/internal/department"
	"go-hris-admin/internal/duplicate"
	"go-hris-admin/internal/employee"

	"go.uber.org/zap"
)

type departmentModule struct {
	State *department.State
	List  *department.List
	Form  *department.Form
}

type employeeModule struct {
	State *employee.State
	List  *employee.List
	Form  *employee.Form
}

func (a *App) checkOptions() duplicate.Options {
	return duplicate.Options{
		Debounce:  a.Config.Check.Debounce,
		Timeout:   a.Config.Check.Timeout,
		MinLength: a.Config.Check.MinLength,
	}
}

// registerDepartments wires one department list session and its form. A
// saved form reloads the list.
func (a *App) registerDepartments() *departmentModule {
	state := department.NewState(a.Departments, a.Notifier, a.Logger)
	list := department.NewList(a.Departments, state, a.Confirmer, a.Notifier, a.Audit, a.Logger)
	f := department.NewForm(a.Departments, department.FormConfig{
		Check:    a.checkOptions(),
		Notifier: a.Notifier,
		Audit:    a.Audit,
		OnSaved: func(ctx context.Context, saved department.Department) {
			if err := list.Saved(ctx); err != nil {
				a.Logger.Warn("reload after save failed", zap.String("entity", "department"), zap.Int64("id", saved.ID), zap.Error(err))
			}
		},
	}, a.Logger)
	return &departmentModule{State: state, List: list, Form: f}
}

func (a *App) registerEmployees() *employeeModule {
	state := employee.NewState(a.Employees, a.Notifier, a.Logger)
	list := employee.NewList(a.Employees, state, a.Confirmer, a.Notifier, a.Audit, a.Logger)
	f := employee.NewForm(a.Employees, employee.FormConfig{
		Check:       a.checkOptions(),
		Departments: a.Options,
		Notifier:    a.Notifier,
		Audit:       a.Audit,
		OnSaved: func(ctx context.Context, saved employee.Employee) {
			if err := list.Saved(ctx); err != nil {
				a.Logger.Warn("reload after save failed", zap.String("entity", "employee"), zap.Int64("id", saved.ID), zap.Error(err))
			}
		},
	}, a.Logger)
	return &employeeModule{State: state, List: list, Form: f}
}
