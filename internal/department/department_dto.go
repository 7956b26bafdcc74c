package department

import "go-hris-admin/internal/search"

// Filters are the optional search fields; nil means "not filtered".
type Filters struct {
	Code        *string `json:"code,omitempty"`
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	IsActive    *bool   `json:"isActive,omitempty"`
}

type Criteria = search.Criteria[Filters]

func DefaultCriteria() Criteria {
	return Criteria{
		Page: search.Page{
			Page:          0,
			Size:          search.DefaultSize,
			SortBy:        "name",
			SortDirection: search.ASC,
		},
	}
}
