package attendance_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"go-empms/internal/attendance"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeAttendanceRepository struct {
	createFn                func(ctx context.Context, a *attendance.Attendance) error
	findByEmployeeAndDateFn func(ctx context.Context, employeeID string, date time.Time) (*attendance.Attendance, error)
	findByEmployeeInRangeFn func(ctx context.Context, employeeID string, start, end time.Time) ([]attendance.Attendance, error)
	updateFn                func(ctx context.Context, a *attendance.Attendance) error
}

func (f *fakeAttendanceRepository) WithTx(tx *sql.Tx) attendance.Repository { return f }

func (f *fakeAttendanceRepository) Create(ctx context.Context, a *attendance.Attendance) error {
	if f.createFn != nil {
		return f.createFn(ctx, a)
	}
	return nil
}

func (f *fakeAttendanceRepository) FindByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
	if f.findByEmployeeAndDateFn != nil {
		return f.findByEmployeeAndDateFn(ctx, employeeID, date)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAttendanceRepository) FindByEmployeeInRange(ctx context.Context, employeeID string, start, end time.Time) ([]attendance.Attendance, error) {
	if f.findByEmployeeInRangeFn != nil {
		return f.findByEmployeeInRangeFn(ctx, employeeID, start, end)
	}
	return nil, nil
}

func (f *fakeAttendanceRepository) FindAll(ctx context.Context) ([]attendance.Attendance, error) {
	return nil, nil
}

func (f *fakeAttendanceRepository) FindAllByEmployee(ctx context.Context, employeeID string) ([]attendance.Attendance, error) {
	return nil, nil
}

func (f *fakeAttendanceRepository) Update(ctx context.Context, a *attendance.Attendance) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, a)
	}
	return nil
}

func setupAttendanceServiceTest(t *testing.T) (attendance.Service, *fakeAttendanceRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := &fakeAttendanceRepository{}
	return attendance.NewService(db, repo), repo, sqlMock
}

func TestAttendanceService_ClockIn_Duplicate(t *testing.T) {
	svc, repo, sqlMock := setupAttendanceServiceTest(t)
	employeeID := uuid.NewString()

	repo.findByEmployeeAndDateFn = func(ctx context.Context, eid string, date time.Time) (*attendance.Attendance, error) {
		return &attendance.Attendance{ID: uuid.New()}, nil
	}

	sqlMock.ExpectBegin()
	sqlMock.ExpectRollback()

	_, err := svc.ClockIn(context.Background(), employeeID, attendance.ClockInRequest{})

	assert.Error(t, err)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestAttendanceService_ClockOut(t *testing.T) {
	t.Run("computes total hours", func(t *testing.T) {
		svc, repo, sqlMock := setupAttendanceServiceTest(t)
		employeeID := uuid.NewString()

		clockIn := time.Now().UTC().Add(-8 * time.Hour)
		repo.findByEmployeeAndDateFn = func(ctx context.Context, eid string, date time.Time) (*attendance.Attendance, error) {
			return &attendance.Attendance{
				ID:         uuid.New(),
				EmployeeID: uuid.MustParse(employeeID),
				ClockIn:    clockIn,
			}, nil
		}

		var saved *attendance.Attendance
		repo.updateFn = func(ctx context.Context, a *attendance.Attendance) error {
			saved = a
			return nil
		}

		sqlMock.ExpectBegin()
		sqlMock.ExpectCommit()

		resp, err := svc.ClockOut(context.Background(), employeeID, attendance.ClockOutRequest{})

		assert.NoError(t, err)
		assert.NotNil(t, saved.ClockOut)
		assert.InDelta(t, 8.0, saved.TotalHours, 0.01)
		assert.InDelta(t, 8.0, resp.TotalHours, 0.01)
		assert.NoError(t, sqlMock.ExpectationsWereMet())
	})

	t.Run("without clock-in", func(t *testing.T) {
		svc, _, sqlMock := setupAttendanceServiceTest(t)

		sqlMock.ExpectBegin()
		sqlMock.ExpectRollback()

		_, err := svc.ClockOut(context.Background(), uuid.NewString(), attendance.ClockOutRequest{})

		assert.Error(t, err)
		assert.NoError(t, sqlMock.ExpectationsWereMet())
	})

	t.Run("twice on the same day", func(t *testing.T) {
		svc, repo, sqlMock := setupAttendanceServiceTest(t)

		out := time.Now().UTC()
		repo.findByEmployeeAndDateFn = func(ctx context.Context, eid string, date time.Time) (*attendance.Attendance, error) {
			return &attendance.Attendance{ID: uuid.New(), ClockOut: &out}, nil
		}

		sqlMock.ExpectBegin()
		sqlMock.ExpectRollback()

		_, err := svc.ClockOut(context.Background(), uuid.NewString(), attendance.ClockOutRequest{})

		assert.Error(t, err)
		assert.NoError(t, sqlMock.ExpectationsWereMet())
	})
}

func TestAttendanceService_WorkedHours(t *testing.T) {
	svc, repo, _ := setupAttendanceServiceTest(t)
	employeeID := uuid.NewString()

	t.Run("sums rows in range", func(t *testing.T) {
		repo.findByEmployeeInRangeFn = func(ctx context.Context, eid string, start, end time.Time) ([]attendance.Attendance, error) {
			assert.Equal(t, employeeID, eid)
			return []attendance.Attendance{
				{TotalHours: 8},
				{TotalHours: 7.5},
				{TotalHours: 0}, // not clocked out
			}, nil
		}

		hours, err := svc.WorkedHours(context.Background(), employeeID, time.Now().AddDate(0, -1, 0), time.Now())

		assert.NoError(t, err)
		assert.Equal(t, 15.5, hours)
	})

	t.Run("no attendance means zero", func(t *testing.T) {
		repo.findByEmployeeInRangeFn = func(ctx context.Context, eid string, start, end time.Time) ([]attendance.Attendance, error) {
			return nil, nil
		}

		hours, err := svc.WorkedHours(context.Background(), employeeID, time.Now().AddDate(0, -1, 0), time.Now())

		assert.NoError(t, err)
		assert.Zero(t, hours)
	})

	t.Run("store failure propagates", func(t *testing.T) {
		repo.findByEmployeeInRangeFn = func(ctx context.Context, eid string, start, end time.Time) ([]attendance.Attendance, error) {
			return nil, errors.New("connection reset")
		}

		_, err := svc.WorkedHours(context.Background(), employeeID, time.Now().AddDate(0, -1, 0), time.Now())

		assert.Error(t, err)
	})
}

func TestSumWorkedHours(t *testing.T) {
	assert.Zero(t, attendance.SumWorkedHours(nil))

	rows := []attendance.Attendance{
		{TotalHours: 8.25},
		{TotalHours: -1}, // never produced by clock-out, skipped anyway
		{TotalHours: 9},
	}
	assert.Equal(t, 17.25, attendance.SumWorkedHours(rows))
}
