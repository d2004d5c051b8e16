package payrollerrors

import (
	"net/http"

	"go-empms/internal/shared/apperror"
)

var (
	ErrInvalidPeriod = apperror.New(
		apperror.CodeInvalidInput,
		"month must be 1-12 and year must be a valid calendar year",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee not found",
		http.StatusNotFound,
	)
	ErrEmployeeInactive = apperror.New(
		apperror.CodeInvalidState,
		"employee is not active",
		http.StatusBadRequest,
	)
	ErrPayrollNotFound = apperror.New(
		apperror.CodeNotFound,
		"payroll not found",
		http.StatusNotFound,
	)
	ErrPayrollExists = apperror.New(
		apperror.CodeConflict,
		"payroll already exists for this employee and period",
		http.StatusConflict,
	)
	ErrRecomputeReasonRequired = apperror.New(
		apperror.CodeInvalidInput,
		"recompute_reason is required when recompute is requested",
		http.StatusBadRequest,
	)
	ErrAdjustReasonRequired = apperror.New(
		apperror.CodeInvalidInput,
		"reason is required for payroll adjustment",
		http.StatusBadRequest,
	)
	ErrAdjustPaid = apperror.New(
		apperror.CodeInvalidState,
		"a paid payroll cannot be adjusted",
		http.StatusBadRequest,
	)
	ErrFinalizedRequiresSuperadmin = apperror.New(
		apperror.CodeForbidden,
		"only a superadmin may modify a finalized payroll",
		http.StatusForbidden,
	)
	ErrNotOwnPayroll = apperror.New(
		apperror.CodeForbidden,
		"employees may only view their own payroll records",
		http.StatusForbidden,
	)
	ErrPayslipNotGenerated = apperror.New(
		apperror.CodeNotFound,
		"payslip is not generated yet",
		http.StatusNotFound,
	)
)
