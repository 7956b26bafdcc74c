package employee

import "github.com/shopspring/decimal"

// Employee mirrors the backend record. ImageURL holds only the stored file
// name; see Service.ImageURL.
type Employee struct {
	ID             int64           `json:"id,omitempty"`
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	DateOfBirth    string          `json:"dateOfBirth,omitempty"`
	Address        string          `json:"address,omitempty"`
	Mobile         string          `json:"mobile,omitempty"`
	Salary         decimal.Decimal `json:"salary"`
	DepartmentID   int64           `json:"departmentId"`
	DepartmentName string          `json:"departmentName,omitempty"`
	DepartmentCode string          `json:"departmentCode,omitempty"`
	ImageURL       string          `json:"imageUrl,omitempty"`
	IsActive       bool            `json:"isActive"`
	CreatedAt      string          `json:"createdAt,omitempty"`
	UpdatedAt      string          `json:"updatedAt,omitempty"`
}

func (e Employee) RecordID() int64     { return e.ID }
func (e Employee) DisplayName() string { return e.Name }
func (e Employee) Active() bool        { return e.IsActive }

func (e Employee) WithActive(active bool) Employee {
	e.IsActive = active
	return e
}
