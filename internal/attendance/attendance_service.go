package attendance

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"go-empms/internal/domain"
	"go-empms/internal/shared/apperror"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	statusPresent = "PRESENT"
	statusLate    = "LATE"
)

var (
	errAlreadyClockedIn = apperror.New(
		apperror.CodeConflict,
		"already clocked in for today",
		http.StatusConflict,
	)
	errNotClockedIn = apperror.New(
		apperror.CodeInvalidState,
		"no open attendance for today",
		http.StatusBadRequest,
	)
	errAlreadyClockedOut = apperror.New(
		apperror.CodeInvalidState,
		"already clocked out for today",
		http.StatusBadRequest,
	)
)

//go:generate mockgen -source=attendance_service.go -destination=mock/attendance_service_mock.go -package=mock
type Service interface {
	ClockIn(ctx context.Context, employeeID string, req ClockInRequest) (AttendanceResponse, error)
	ClockOut(ctx context.Context, employeeID string, req ClockOutRequest) (AttendanceResponse, error)
	GetAll(ctx context.Context, actor domain.Actor) ([]AttendanceResponse, error)

	// WorkedHours is the payroll-facing aggregator: total recorded hours
	// for one employee over an inclusive date range. An employee with no
	// attendance in range yields 0, not an error.
	WorkedHours(ctx context.Context, employeeID string, start, end time.Time) (float64, error)
}

type service struct {
	db   *sql.DB
	repo Repository
}

func NewService(db *sql.DB, repo Repository) Service {
	return &service{db: db, repo: repo}
}

func (s *service) ClockIn(ctx context.Context, employeeID string, req ClockInRequest) (AttendanceResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	now := time.Now().UTC()
	today := now.Truncate(24 * time.Hour)

	existing, err := qtx.FindByEmployeeAndDate(ctx, employeeID, today)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return AttendanceResponse{}, err
	}
	if err == nil && existing != nil {
		return AttendanceResponse{}, errAlreadyClockedIn
	}

	status := statusPresent
	if now.Hour() > 9 || (now.Hour() == 9 && now.Minute() > 15) {
		status = statusLate
	}

	row := &Attendance{
		ID:             uuid.New(),
		EmployeeID:     uuid.MustParse(employeeID),
		AttendanceDate: today,
		ClockIn:        now,
		Status:         status,
		Notes:          req.Notes,
	}

	if err := qtx.Create(ctx, row); err != nil {
		return AttendanceResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return AttendanceResponse{}, err
	}

	return mapToResponse(*row), nil
}

func (s *service) ClockOut(ctx context.Context, employeeID string, req ClockOutRequest) (AttendanceResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	now := time.Now().UTC()
	today := now.Truncate(24 * time.Hour)

	row, err := qtx.FindByEmployeeAndDate(ctx, employeeID, today)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AttendanceResponse{}, errNotClockedIn
		}
		return AttendanceResponse{}, err
	}
	if row.ClockOut != nil {
		return AttendanceResponse{}, errAlreadyClockedOut
	}

	row.ClockOut = &now
	row.TotalHours = now.Sub(row.ClockIn).Hours()
	if row.TotalHours < 0 {
		row.TotalHours = 0
	}
	if req.Notes != nil {
		row.Notes = req.Notes
	}

	if err := qtx.Update(ctx, row); err != nil {
		return AttendanceResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return AttendanceResponse{}, err
	}

	return mapToResponse(*row), nil
}

func (s *service) GetAll(ctx context.Context, actor domain.Actor) ([]AttendanceResponse, error) {
	var (
		rows []Attendance
		err  error
	)

	if actor.IsPayrollAdmin() {
		rows, err = s.repo.FindAll(ctx)
	} else {
		rows, err = s.repo.FindAllByEmployee(ctx, actor.EmployeeID)
	}
	if err != nil {
		return nil, err
	}

	res := make([]AttendanceResponse, len(rows))
	for i, a := range rows {
		res[i] = mapToResponse(a)
	}
	return res, nil
}

func (s *service) WorkedHours(ctx context.Context, employeeID string, start, end time.Time) (float64, error) {
	rows, err := s.repo.FindByEmployeeInRange(ctx, employeeID, start, end)
	if err != nil {
		return 0, err
	}
	return SumWorkedHours(rows), nil
}

func mapToResponse(a Attendance) AttendanceResponse {
	resp := AttendanceResponse{
		ID:             a.ID.String(),
		EmployeeID:     a.EmployeeID.String(),
		AttendanceDate: a.AttendanceDate.Format("2006-01-02"),
		ClockIn:        a.ClockIn.Format(time.RFC3339),
		TotalHours:     a.TotalHours,
		Status:         a.Status,
		Notes:          a.Notes,
	}
	if a.ClockOut != nil {
		v := a.ClockOut.Format(time.RFC3339)
		resp.ClockOut = &v
	}
	return resp
}
