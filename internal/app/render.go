package app

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"text/tabwriter"

	"go-hris-admin/internal/department"
	"go-hris-admin/internal/employee"
	"go-hris-admin/internal/form"
	"go-hris-admin/internal/shared/apperror"
	"go-hris-admin/internal/shared/format"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func renderDepartments(w io.Writer, items []department.Department) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tCODE\tNAME\tDESCRIPTION\tSTATUS\tCREATED")
	for _, d := range items {
		status, _ := format.Status(d.IsActive)
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			d.ID, d.Code, d.Name, format.Or(d.Description), status, format.Date(d.CreatedAt))
	}
	return tw.Flush()
}

func renderEmployees(w io.Writer, items []employee.Employee, options []department.Department) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tCODE\tNAME\tDEPARTMENT\tSALARY\tMOBILE\tSTATUS")
	for _, e := range items {
		status, _ := format.Status(e.IsActive)
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			e.ID, e.Code, e.Name, employee.DepartmentName(e, options),
			format.Currency(e.Salary), format.Or(e.Mobile), status)
	}
	return tw.Flush()
}

// renderSummary prints the "Showing 10 of 42 departments" footer.
func renderSummary(w io.Writer, shown int64, ok bool, total int64, noun string) {
	if !ok {
		return
	}
	fmt.Fprintf(w, "Showing %d of %d %ss\n", shown, total, noun)
}

// renderFields prints a form in view mode: one "Label: value" row per
// field not in hide, then the extra rows.
func renderFields(w io.Writer, title string, fields *form.Group, hide []string, extra ...[2]string) error {
	fmt.Fprintln(w, title)
	tw := newTable(w)
	for _, name := range fields.Names() {
		if slices.Contains(hide, name) {
			continue
		}
		f := fields.Field(name)
		fmt.Fprintf(tw, "  %s:\t%s\n", f.Label(), format.Or(f.Value()))
	}
	for _, kv := range extra {
		fmt.Fprintf(tw, "  %s:\t%s\n", kv[0], format.Or(kv[1]))
	}
	return tw.Flush()
}

// renderFieldErrors lists the per-field messages of a rejected submit.
func renderFieldErrors(w io.Writer, err error) {
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		return
	}
	details, ok := appErr.Details.(map[string]string)
	if !ok {
		return
	}
	for _, name := range slices.Sorted(maps.Keys(details)) {
		fmt.Fprintf(w, "  %s: %s\n", name, details[name])
	}
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.InvalidField("ID")
	}
	return id, nil
}
