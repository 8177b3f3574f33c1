package employeeerrors

import (
	"ems-sync/internal/shared/apperror"
	"net/http"
)

var (
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Employee not found",
		http.StatusNotFound,
	)
	ErrEmptyPatch = apperror.New(
		apperror.CodeInvalidInput,
		"At least one field must be provided",
		http.StatusBadRequest,
	)
	ErrInvalidPagination = apperror.New(
		apperror.CodeInvalidInput,
		"page and page_size must be positive integers",
		http.StatusBadRequest,
	)
)
