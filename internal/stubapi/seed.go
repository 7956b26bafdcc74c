package stubapi

import (
	"fmt"

	"go-hris-admin/internal/department"
	"go-hris-admin/internal/employee"

	"github.com/shopspring/decimal"
)

// Seed loads a few demo records so a fresh stub has something to list.
func Seed(s *Store) error {
	depts := []department.Department{
		{Code: "HR", Name: "Human Resources", Description: "People operations", IsActive: true},
		{Code: "IT", Name: "Information Technology", Description: "Systems and support", IsActive: true},
		{Code: "FIN", Name: "Finance", IsActive: true},
	}
	ids := make([]int64, 0, len(depts))
	for _, d := range depts {
		saved, err := s.CreateDepartment(d)
		if err != nil {
			return fmt.Errorf("seed department %s: %w", d.Code, err)
		}
		ids = append(ids, saved.ID)
	}

	emps := []employee.Employee{
		{Code: "EMP01", Name: "Joan Smith", DateOfBirth: "1988-04-12", Mobile: "01712345678", Salary: decimal.RequireFromString("4200.00"), DepartmentID: ids[0], IsActive: true},
		{Code: "EMP02", Name: "John Carter", DateOfBirth: "1992-09-30", Salary: decimal.RequireFromString("5100.50"), DepartmentID: ids[1], IsActive: true},
		{Code: "EMP03", Name: "Amal Farouk", Address: "12 Nile St.", Salary: decimal.RequireFromString("3900.00"), DepartmentID: ids[2], IsActive: true},
	}
	for _, e := range emps {
		if _, err := s.CreateEmployee(e); err != nil {
			return fmt.Errorf("seed employee %s: %w", e.Code, err)
		}
	}
	return nil
}
