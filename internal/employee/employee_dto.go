package employee

import (
	"go-hris-admin/internal/search"

	"github.com/shopspring/decimal"
)

type Filters struct {
	Code         *string          `json:"code,omitempty"`
	Name         *string          `json:"name,omitempty"`
	Mobile       *string          `json:"mobile,omitempty"`
	IsActive     *bool            `json:"isActive,omitempty"`
	DepartmentID *int64           `json:"departmentId,omitempty"`
	MinSalary    *decimal.Decimal `json:"minSalary,omitempty"`
	MaxSalary    *decimal.Decimal `json:"maxSalary,omitempty"`
}

type Criteria = search.Criteria[Filters]

func DefaultCriteria() Criteria {
	return Criteria{
		Page: search.Page{
			Page:          0,
			Size:          search.DefaultSize,
			SortBy:        "createdAt",
			SortDirection: search.DESC,
		},
	}
}
