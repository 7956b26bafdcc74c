package employeeerrors

import (
	"go-hris-admin/internal/shared/apperror"
	"net/http"
)

var (
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Employee not found",
		http.StatusNotFound,
	)
	ErrCodeExists = apperror.New(
		apperror.CodeConflict,
		"Employee code already exists",
		http.StatusConflict,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid employee ID",
		http.StatusBadRequest,
	)
	ErrDepartmentNotFound = apperror.New(
		apperror.CodeInvalidInput,
		"Department does not exist",
		http.StatusBadRequest,
	)
	ErrImageTooLarge = apperror.New(
		apperror.CodeInvalidInput,
		"File size should not exceed 2MB",
		http.StatusBadRequest,
	)
	ErrNotAnImage = apperror.New(
		apperror.CodeInvalidInput,
		"Please select an image file",
		http.StatusBadRequest,
	)
	ErrUnsupportedImageType = apperror.New(
		apperror.CodeInvalidInput,
		"Only JPEG, PNG, GIF and WEBP images are allowed",
		http.StatusBadRequest,
	)
	ErrAlreadyActive = apperror.New(
		apperror.CodeInvalidState,
		"Employee is already active",
		http.StatusBadRequest,
	)
	ErrDepartmentInactive = apperror.New(
		apperror.CodeInvalidInput,
		"Department is inactive",
		http.StatusBadRequest,
	)
	ErrTooYoung = apperror.New(
		apperror.CodeInvalidInput,
		"Employee must be at least 18 years old",
		http.StatusBadRequest,
	)
	ErrInvalidSalary = apperror.New(
		apperror.CodeInvalidInput,
		"Salary must be greater than 0",
		http.StatusBadRequest,
	)
	ErrEmptyFile = apperror.New(
		apperror.CodeInvalidInput,
		"File is empty",
		http.StatusBadRequest,
	)
	ErrUploadTooLarge = apperror.New(
		apperror.CodeInvalidInput,
		"File size must be less than 5MB",
		http.StatusBadRequest,
	)
	ErrImageNotFound = apperror.New(
		apperror.CodeNotFound,
		"Image not found",
		http.StatusNotFound,
	)
)
