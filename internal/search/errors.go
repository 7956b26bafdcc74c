package search

import "go-hris-admin/internal/shared/apperror"

var (
	ErrInvalidPage = apperror.New(
		apperror.CodeValidation,
		"Page must not be negative",
		0,
	)
	ErrInvalidSize = apperror.New(
		apperror.CodeValidation,
		"Page size must be greater than zero",
		0,
	)
)
