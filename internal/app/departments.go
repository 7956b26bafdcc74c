package app

import (
	"context"
	"fmt"

	"go-hris-admin/internal/department"
	"go-hris-admin/internal/form"
	"go-hris-admin/internal/shared/format"

	departmenterrors "go-hris-admin/internal/department/errors"

	"github.com/spf13/cobra"
)

var departmentFlags = []flagField{
	{flag: "code", field: department.FieldCode},
	{flag: "name", field: department.FieldName},
	{flag: "description", field: department.FieldDescription},
	{flag: "active", field: department.FieldIsActive},
}

func newDepartmentsCommand(app func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "departments",
		Aliases: []string{"department", "dept"},
		Short:   "List and maintain departments",
	}
	cmd.AddCommand(
		newDepartmentListCommand(app),
		newDepartmentFormCommand(app, form.ModeAdd),
		newDepartmentFormCommand(app, form.ModeEdit),
		newDepartmentViewCommand(app),
		newDepartmentActionCommand(app, "delete", "Soft delete a department", (*department.List).Delete),
		newDepartmentActionCommand(app, "restore", "Restore a deleted department", (*department.List).Restore),
		newDepartmentActionCommand(app, "toggle", "Activate or deactivate a department", (*department.List).ToggleStatus),
		newDepartmentOptionsCommand(app),
	)
	return cmd
}

func newDepartmentListCommand(app func() *App) *cobra.Command {
	var (
		p                       pageFlags
		code, name, description string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Search departments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := app()
			m := a.registerDepartments()

			active, err := statusFilter(p.status)
			if err != nil {
				return err
			}
			m.State.SetFilters(department.Filters{
				Code:        optional(code),
				Name:        optional(name),
				Description: optional(description),
				IsActive:    active,
			})
			applySort(m.State, &p)
			if err := m.State.ChangePage(cmd.Context(), p.offset(), p.size); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if err := renderDepartments(out, m.State.Items()); err != nil {
				return err
			}
			shown, ok := m.State.DisplayedItemsCount()
			renderSummary(out, shown, ok, m.State.TotalRecords(), "department")
			return nil
		},
	}
	p.bind(cmd)
	cmd.Flags().StringVar(&code, "code", "", "filter by code")
	cmd.Flags().StringVar(&name, "name", "", "filter by name")
	cmd.Flags().StringVar(&description, "description", "", "filter by description")
	return cmd
}

// newDepartmentFormCommand is "add" or "edit ID". Only the flags given are
// written into the form; edit starts from the stored record.
func newDepartmentFormCommand(app func() *App, mode form.Mode) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a department",
		Args:  cobra.NoArgs,
	}
	if mode == form.ModeEdit {
		cmd.Use, cmd.Short, cmd.Args = "edit ID", "Update a department", cobra.ExactArgs(1)
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a := app()
		m := a.registerDepartments()
		defer m.Form.Stop()

		var target *department.Department
		if mode == form.ModeEdit {
			d, err := findDepartment(ctx, a.Departments, args[0])
			if err != nil {
				return err
			}
			target = &d
		}
		if err := m.Form.Open(mode, target); err != nil {
			return err
		}
		if err := applyFlags(cmd, m.Form, departmentFlags); err != nil {
			return err
		}
		if err := m.Form.Wait(ctx); err != nil {
			return err
		}

		saved, err := m.Form.Submit(ctx)
		if err != nil {
			renderFieldErrors(cmd.ErrOrStderr(), err)
			return err
		}
		return renderDepartments(cmd.OutOrStdout(), []department.Department{saved})
	}
	cmd.Flags().String("code", "", "department code")
	cmd.Flags().String("name", "", "department name")
	cmd.Flags().String("description", "", "description")
	cmd.Flags().Bool("active", true, "active status")
	return cmd
}

func newDepartmentViewCommand(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "view ID",
		Short: "Show one department",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			d, err := findDepartment(cmd.Context(), a.Departments, args[0])
			if err != nil {
				return err
			}
			m := a.registerDepartments()
			defer m.Form.Stop()
			if err := m.Form.Open(form.ModeView, &d); err != nil {
				return err
			}
			status, _ := format.Status(d.IsActive)
			return renderFields(cmd.OutOrStdout(), m.Form.Title(), m.Form.Fields(),
				[]string{department.FieldIsActive},
				[2]string{"Status", status},
				[2]string{"Created", format.Date(d.CreatedAt)},
				[2]string{"Updated", format.Date(d.UpdatedAt)},
			)
		},
	}
}

type departmentAction func(l *department.List, ctx context.Context, d department.Department) (bool, error)

func newDepartmentActionCommand(app func() *App, use, short string, action departmentAction) *cobra.Command {
	return &cobra.Command{
		Use:   use + " ID",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			d, err := findDepartment(cmd.Context(), a.Departments, args[0])
			if err != nil {
				return err
			}
			done, err := action(a.registerDepartments().List, cmd.Context(), d)
			if err != nil {
				return err
			}
			cancelled(cmd, done)
			return nil
		},
	}
}

func newDepartmentOptionsCommand(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "options",
		Short: "List the active departments offered to employee forms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			depts, err := app().Options.Active(cmd.Context())
			if err != nil {
				return err
			}
			tw := newTable(cmd.OutOrStdout())
			for _, d := range depts {
				fmt.Fprintf(tw, "%d\t%s\t%s\n", d.ID, d.Code, d.Name)
			}
			return tw.Flush()
		},
	}
}

// findDepartment looks id up in the full list; the backend has no single
// record endpoint.
func findDepartment(ctx context.Context, svc department.Service, arg string) (department.Department, error) {
	id, err := parseID(arg)
	if err != nil {
		return department.Department{}, err
	}
	all, err := svc.List(ctx)
	if err != nil {
		return department.Department{}, err
	}
	for _, d := range all {
		if d.ID == id {
			return d, nil
		}
	}
	return department.Department{}, departmenterrors.ErrDepartmentNotFound
}
