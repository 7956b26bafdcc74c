package response

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/gin-gonic/gin"
)

type PaginationInfo struct {
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	First         bool  `json:"first"`
	Last          bool  `json:"last"`
}

// NewPaginationInfo builds the metadata for a 0-based page.
func NewPaginationInfo(total int64, page, size int) PaginationInfo {
	totalPages := 0
	if size > 0 {
		// ceil(total / size)
		totalPages = int((total + int64(size) - 1) / int64(size))
	}

	return PaginationInfo{
		Page:          page,
		Size:          size,
		TotalElements: total,
		TotalPages:    totalPages,
		First:         page == 0,
		Last:          page >= totalPages-1,
	}
}

// Envelope is the uniform body of every backend response.
type Envelope[T any] struct {
	Success    bool            `json:"success"`
	Message    string          `json:"message,omitempty"`
	Data       T               `json:"data,omitempty"`
	Errors     []string        `json:"errors,omitempty"`
	Pagination *PaginationInfo `json:"pagination,omitempty"`
}

type RawEnvelope = Envelope[json.RawMessage]

// Page is the spring-style wrapper some search endpoints return as data.
type Page[T any] struct {
	Content []T `json:"content"`
}

// DecodeItems accepts either `{"content":[...]}` or a bare array.
func DecodeItems[T any](raw json.RawMessage) ([]T, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []T{}, nil
	}

	switch trimmed[0] {
	case '[':
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, err
		}
		return items, nil
	case '{':
		var page Page[T]
		if err := json.Unmarshal(trimmed, &page); err != nil {
			return nil, err
		}
		if page.Content == nil {
			page.Content = []T{}
		}
		return page.Content, nil
	default:
		return nil, fmt.Errorf("unexpected search payload starting with %q", trimmed[0])
	}
}

func Success(c *gin.Context, status int, data any, message string, pagination *PaginationInfo) {
	c.JSON(status, Envelope[any]{
		Success:    true,
		Message:    message,
		Data:       data,
		Pagination: pagination,
	})
}

func Error(c *gin.Context, status int, message string, errs ...string) {
	c.JSON(status, Envelope[any]{
		Success: false,
		Message: message,
		Errors:  errs,
	})
}
