package search

import (
	"encoding/json"
	"fmt"
)

type Direction string

const (
	ASC  Direction = "ASC"
	DESC Direction = "DESC"
)

const DefaultSize = 10

// Page is the pagination and sort half of a search request.
type Page struct {
	Page          int       `json:"page"`
	Size          int       `json:"size"`
	SortBy        string    `json:"sortBy,omitempty"`
	SortDirection Direction `json:"sortDirection,omitempty"`
}

// Criteria combines entity filters F with the page cursor. On the wire both
// halves are flattened into one JSON object.
type Criteria[F any] struct {
	Filters F
	Page
}

func (c Criteria[F]) MarshalJSON() ([]byte, error) {
	out := map[string]json.RawMessage{}
	for _, part := range []any{c.Filters, c.Page} {
		b, err := json.Marshal(part)
		if err != nil {
			return nil, err
		}
		fields := map[string]json.RawMessage{}
		if err := json.Unmarshal(b, &fields); err != nil {
			return nil, fmt.Errorf("criteria part must encode as an object: %w", err)
		}
		for k, v := range fields {
			out[k] = v
		}
	}
	return json.Marshal(out)
}

func (c *Criteria[F]) UnmarshalJSON(b []byte) error {
	if err := json.Unmarshal(b, &c.Filters); err != nil {
		return err
	}
	return json.Unmarshal(b, &c.Page)
}
