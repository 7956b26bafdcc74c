package employee

import (
	"fmt"

	"go-hris-admin/internal/department"
	"go-hris-admin/internal/shared/format"
)

// DepartmentName prefers the name embedded in the record, then the picker
// options, then a synthetic "Dept #id".
func DepartmentName(e Employee, options []department.Department) string {
	if e.DepartmentName != "" {
		return e.DepartmentName
	}
	if e.DepartmentID == 0 {
		return format.Placeholder
	}
	for _, d := range options {
		if d.ID == e.DepartmentID {
			return d.Name
		}
	}
	return fmt.Sprintf("Dept #%d", e.DepartmentID)
}

// Photo is the stored image URL, or a generated initials avatar.
func Photo(svc Service, e Employee) string {
	if e.ImageURL != "" {
		return svc.ImageURL(e.ImageURL)
	}
	return format.Avatar(e.Name)
}
