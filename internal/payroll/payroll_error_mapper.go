package payroll

import (
	"errors"
	"strings"

	payrollerrors "go-empms/internal/payroll/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return payrollerrors.ErrPayrollNotFound
	}

	if isDuplicatePeriod(err) {
		return payrollerrors.ErrPayrollExists
	}

	return err
}

// isDuplicatePeriod detects a unique violation on the employee-period
// constraint. Concurrent process calls for the same employee and period
// race on this constraint; the loser sees 23505.
func isDuplicatePeriod(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == "uq_payroll_period"
	}

	// Drivers that do not surface PgError still mention the constraint.
	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_payroll_period")
}
