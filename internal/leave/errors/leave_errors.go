package leaveerrors

import (
	"net/http"

	"go-empms/internal/shared/apperror"
)

var (
	ErrLeaveNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave request not found",
		http.StatusNotFound,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"start_date must be before or equal end_date",
		http.StatusBadRequest,
	)
	ErrLeaveOverlap = apperror.New(
		apperror.CodeConflict,
		"leave request overlaps an existing one",
		http.StatusConflict,
	)
	ErrNotPending = apperror.New(
		apperror.CodeInvalidState,
		"leave request is not pending",
		http.StatusBadRequest,
	)
)
