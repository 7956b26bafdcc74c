package department

// Department mirrors the backend record. ID is zero until persisted.
type Department struct {
	ID          int64  `json:"id,omitempty"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	IsActive    bool   `json:"isActive"`
	CreatedAt   string `json:"createdAt,omitempty"`
	UpdatedAt   string `json:"updatedAt,omitempty"`
}

func (d Department) RecordID() int64     { return d.ID }
func (d Department) DisplayName() string { return d.Name }
func (d Department) Active() bool        { return d.IsActive }

func (d Department) WithActive(active bool) Department {
	d.IsActive = active
	return d
}
