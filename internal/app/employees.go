package app

import (
	"context"
	"fmt"
	"os"

	"go-hris-admin/internal/employee"
	"go-hris-admin/internal/form"
	"go-hris-admin/internal/shared/format"

	employeeerrors "go-hris-admin/internal/employee/errors"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var employeeFlags = []flagField{
	{flag: "code", field: employee.FieldCode},
	{flag: "name", field: employee.FieldName},
	{flag: "dob", field: employee.FieldDateOfBirth},
	{flag: "address", field: employee.FieldAddress},
	{flag: "mobile", field: employee.FieldMobile},
	{flag: "salary", field: employee.FieldSalary},
	{flag: "department", field: employee.FieldDepartmentID},
	{flag: "active", field: employee.FieldIsActive},
}

func newEmployeesCommand(app func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "employees",
		Aliases: []string{"employee", "emp"},
		Short:   "List and maintain employees",
	}
	cmd.AddCommand(
		newEmployeeListCommand(app),
		newEmployeeFormCommand(app, form.ModeAdd),
		newEmployeeFormCommand(app, form.ModeEdit),
		newEmployeeViewCommand(app),
		newEmployeeActionCommand(app, "delete", "Soft delete an employee", (*employee.List).Delete),
		newEmployeeActionCommand(app, "restore", "Restore a deleted employee", (*employee.List).Restore),
		newEmployeeActionCommand(app, "toggle", "Activate or deactivate an employee", (*employee.List).ToggleStatus),
		newEmployeeImageCommand(app),
	)
	return cmd
}

func newEmployeeListCommand(app func() *App) *cobra.Command {
	var (
		p                                     pageFlags
		code, name, mobile, minSalary, maxSal string
		departmentID                          int64
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Search employees",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a := app()
			m := a.registerEmployees()

			active, err := statusFilter(p.status)
			if err != nil {
				return err
			}
			filters := employee.Filters{
				Code:     optional(code),
				Name:     optional(name),
				Mobile:   optional(mobile),
				IsActive: active,
			}
			if departmentID > 0 {
				filters.DepartmentID = &departmentID
			}
			if filters.MinSalary, err = optionalDecimal("min-salary", minSalary); err != nil {
				return err
			}
			if filters.MaxSalary, err = optionalDecimal("max-salary", maxSal); err != nil {
				return err
			}
			m.State.SetFilters(filters)
			applySort(m.State, &p)
			if err := m.State.ChangePage(ctx, p.offset(), p.size); err != nil {
				return err
			}

			options, _ := m.Form.Departments(ctx)
			out := cmd.OutOrStdout()
			if err := renderEmployees(out, m.State.Items(), options); err != nil {
				return err
			}
			shown, ok := m.State.DisplayedItemsCount()
			renderSummary(out, shown, ok, m.State.TotalRecords(), "employee")
			return nil
		},
	}
	p.bind(cmd)
	cmd.Flags().StringVar(&code, "code", "", "filter by code")
	cmd.Flags().StringVar(&name, "name", "", "filter by name")
	cmd.Flags().StringVar(&mobile, "mobile", "", "filter by mobile number")
	cmd.Flags().Int64Var(&departmentID, "department", 0, "filter by department id")
	cmd.Flags().StringVar(&minSalary, "min-salary", "", "lowest salary")
	cmd.Flags().StringVar(&maxSal, "max-salary", "", "highest salary")
	return cmd
}

// newEmployeeFormCommand is "add" or "edit ID". The photo is uploaded after
// the record is saved; a failed upload is reported as a warning.
func newEmployeeFormCommand(app func() *App, mode form.Mode) *cobra.Command {
	var (
		imagePath  string
		clearImage bool
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create an employee",
		Args:  cobra.NoArgs,
	}
	if mode == form.ModeEdit {
		cmd.Use, cmd.Short, cmd.Args = "edit ID", "Update an employee", cobra.ExactArgs(1)
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a := app()
		m := a.registerEmployees()
		defer m.Form.Stop()

		var target *employee.Employee
		if mode == form.ModeEdit {
			e, err := findEmployee(ctx, a.Employees, args[0])
			if err != nil {
				return err
			}
			target = &e
		}
		if err := m.Form.Open(mode, target); err != nil {
			return err
		}
		if err := applyFlags(cmd, m.Form, employeeFlags); err != nil {
			return err
		}
		switch {
		case imagePath != "":
			img, err := employee.LoadImage(imagePath)
			if err != nil {
				return err
			}
			if err := m.Form.StageImage(img); err != nil {
				return err
			}
		case clearImage:
			if err := m.Form.ClearImage(); err != nil {
				return err
			}
		}
		if err := m.Form.Wait(ctx); err != nil {
			return err
		}

		saved, err := m.Form.Submit(ctx)
		if err != nil {
			renderFieldErrors(cmd.ErrOrStderr(), err)
			return err
		}
		// the notifier has already shown any photo failure
		_ = m.Form.Drain(ctx)

		options, _ := m.Form.Departments(ctx)
		return renderEmployees(cmd.OutOrStdout(), []employee.Employee{saved}, options)
	}
	cmd.Flags().String("code", "", "employee code")
	cmd.Flags().String("name", "", "full name")
	cmd.Flags().String("dob", "", "date of birth, YYYY-MM-DD")
	cmd.Flags().String("address", "", "address")
	cmd.Flags().String("mobile", "", "mobile number")
	cmd.Flags().String("salary", "", "monthly salary")
	cmd.Flags().String("department", "", "department id")
	cmd.Flags().Bool("active", true, "active status")
	cmd.Flags().StringVar(&imagePath, "image", "", "photo to upload")
	if mode == form.ModeEdit {
		cmd.Flags().BoolVar(&clearImage, "clear-image", false, "remove the stored photo")
		cmd.MarkFlagsMutuallyExclusive("image", "clear-image")
	}
	return cmd
}

func newEmployeeViewCommand(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "view ID",
		Short: "Show one employee",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a := app()
			e, err := findEmployee(ctx, a.Employees, args[0])
			if err != nil {
				return err
			}
			m := a.registerEmployees()
			defer m.Form.Stop()
			if err := m.Form.Open(form.ModeView, &e); err != nil {
				return err
			}

			options, _ := m.Form.Departments(ctx)
			status, _ := format.Status(e.IsActive)
			return renderFields(cmd.OutOrStdout(), m.Form.Title(), m.Form.Fields(),
				[]string{employee.FieldIsActive, employee.FieldSalary, employee.FieldDepartmentID},
				[2]string{"Salary", format.Currency(e.Salary)},
				[2]string{"Department", employee.DepartmentName(e, options)},
				[2]string{"Status", status},
				[2]string{"Photo", employee.Photo(a.Employees, e)},
				[2]string{"Created", format.Date(e.CreatedAt)},
			)
		},
	}
}

type employeeAction func(l *employee.List, ctx context.Context, e employee.Employee) (bool, error)

func newEmployeeActionCommand(app func() *App, use, short string, action employeeAction) *cobra.Command {
	return &cobra.Command{
		Use:   use + " ID",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			e, err := findEmployee(cmd.Context(), a.Employees, args[0])
			if err != nil {
				return err
			}
			done, err := action(a.registerEmployees().List, cmd.Context(), e)
			if err != nil {
				return err
			}
			cancelled(cmd, done)
			return nil
		},
	}
}

func newEmployeeImageCommand(app func() *App) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "image FILENAME",
		Short: "Download a stored employee photo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, contentType, err := app().Employees.DownloadImage(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if output == "" {
				output = args[0]
			}
			if err := os.WriteFile(output, content, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s (%s, %d bytes)\n", output, contentType, len(content))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "destination file, defaults to FILENAME")
	return cmd
}

func findEmployee(ctx context.Context, svc employee.Service, arg string) (employee.Employee, error) {
	id, err := parseID(arg)
	if err != nil {
		return employee.Employee{}, err
	}
	all, err := svc.List(ctx)
	if err != nil {
		return employee.Employee{}, err
	}
	for _, e := range all {
		if e.ID == id {
			return e, nil
		}
	}
	return employee.Employee{}, employeeerrors.ErrEmployeeNotFound
}

func optionalDecimal(flag, s string) (*decimal.Decimal, error) {
	if s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("--%s: %w", flag, err)
	}
	return &d, nil
}
