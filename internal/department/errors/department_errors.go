package departmenterrors

import (
	"go-hris-admin/internal/shared/apperror"
	"net/http"
)

var (
	ErrDepartmentNotFound = apperror.New(
		apperror.CodeNotFound,
		"Department not found",
		http.StatusNotFound,
	)
	ErrCodeExists = apperror.New(
		apperror.CodeConflict,
		"Department code already exists",
		http.StatusConflict,
	)
	ErrNameExists = apperror.New(
		apperror.CodeConflict,
		"Department name already exists",
		http.StatusConflict,
	)
	ErrInvalidDepartmentID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid department ID",
		http.StatusBadRequest,
	)
	ErrAlreadyActive = apperror.New(
		apperror.CodeInvalidState,
		"Department is already active",
		http.StatusBadRequest,
	)
)
