package employee

import (
	"context"
	"database/sql"
	"testing"

	"go-empms/internal/domain"
	employeeerrors "go-empms/internal/employee/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeEmployeeRepository struct {
	createFn     func(ctx context.Context, e *Employee) error
	findAllFn    func(ctx context.Context) ([]Employee, error)
	findActiveFn func(ctx context.Context, filter ActiveFilter) ([]Employee, error)
	findByIDFn   func(ctx context.Context, id string) (*Employee, error)
	updateFn     func(ctx context.Context, e *Employee) error
}

func (f *fakeEmployeeRepository) WithTx(tx *sql.Tx) Repository { return f }

func (f *fakeEmployeeRepository) Create(ctx context.Context, e *Employee) error {
	if f.createFn != nil {
		return f.createFn(ctx, e)
	}
	return nil
}

func (f *fakeEmployeeRepository) FindAll(ctx context.Context) ([]Employee, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx)
	}
	return nil, nil
}

func (f *fakeEmployeeRepository) FindActive(ctx context.Context, filter ActiveFilter) ([]Employee, error) {
	if f.findActiveFn != nil {
		return f.findActiveFn(ctx, filter)
	}
	return nil, nil
}

func (f *fakeEmployeeRepository) FindByID(ctx context.Context, id string) (*Employee, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEmployeeRepository) Update(ctx context.Context, e *Employee) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, e)
	}
	return nil
}

func setupEmployeeServiceTest(t *testing.T, repo Repository) (Service, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewService(db, repo), mock
}

func TestEmployeeService_Create(t *testing.T) {
	var created *Employee
	repo := &fakeEmployeeRepository{
		createFn: func(ctx context.Context, e *Employee) error {
			created = e
			return nil
		},
	}
	svc, mock := setupEmployeeServiceTest(t, repo)

	mock.ExpectBegin()
	mock.ExpectCommit()

	resp, err := svc.Create(context.Background(), CreateEmployeeRequest{
		FullName:      "Nadia Rahma",
		Email:         "nadia@example.com",
		MonthlySalary: 60000,
	})

	assert.NoError(t, err)
	assert.NotNil(t, created)
	assert.True(t, created.IsActive)
	assert.Equal(t, int64(60000), resp.MonthlySalary)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeService_Create_NegativeSalary(t *testing.T) {
	svc, mock := setupEmployeeServiceTest(t, &fakeEmployeeRepository{})

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := svc.Create(context.Background(), CreateEmployeeRequest{
		FullName:      "Nadia Rahma",
		Email:         "nadia@example.com",
		MonthlySalary: -1,
	})

	assert.ErrorIs(t, err, employeeerrors.ErrNegativeSalary)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeService_Create_InvalidDepartmentID(t *testing.T) {
	svc, mock := setupEmployeeServiceTest(t, &fakeEmployeeRepository{})

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := svc.Create(context.Background(), CreateEmployeeRequest{
		FullName:      "Nadia Rahma",
		Email:         "nadia@example.com",
		MonthlySalary: 60000,
		DepartmentID:  "not-a-uuid",
	})

	assert.ErrorIs(t, err, employeeerrors.ErrInvalidDepartmentID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeService_GetByID_OwnRecordOnly(t *testing.T) {
	empID := uuid.New()
	repo := &fakeEmployeeRepository{
		findByIDFn: func(ctx context.Context, id string) (*Employee, error) {
			return &Employee{ID: empID, FullName: "Nadia Rahma", IsActive: true}, nil
		},
	}
	svc, _ := setupEmployeeServiceTest(t, repo)

	self := domain.Actor{UserID: uuid.New().String(), EmployeeID: empID.String(), Role: domain.RoleEmployee}
	resp, err := svc.GetByID(context.Background(), self, empID.String())
	assert.NoError(t, err)
	assert.Equal(t, empID.String(), resp.ID)

	other := domain.Actor{UserID: uuid.New().String(), EmployeeID: uuid.New().String(), Role: domain.RoleEmployee}
	_, err = svc.GetByID(context.Background(), other, empID.String())
	assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)

	admin := domain.Actor{UserID: uuid.New().String(), EmployeeID: uuid.New().String(), Role: domain.RoleAdmin}
	_, err = svc.GetByID(context.Background(), admin, empID.String())
	assert.NoError(t, err)
}

func TestEmployeeService_Update_MergesOnlySuppliedFields(t *testing.T) {
	empID := uuid.New()
	var updated *Employee
	repo := &fakeEmployeeRepository{
		findByIDFn: func(ctx context.Context, id string) (*Employee, error) {
			return &Employee{
				ID:            empID,
				FullName:      "Nadia Rahma",
				Email:         "nadia@example.com",
				MonthlySalary: 60000,
				IsActive:      true,
			}, nil
		},
		updateFn: func(ctx context.Context, e *Employee) error {
			updated = e
			return nil
		},
	}
	svc, mock := setupEmployeeServiceTest(t, repo)

	mock.ExpectBegin()
	mock.ExpectCommit()

	inactive := false
	_, err := svc.Update(context.Background(), empID.String(), UpdateEmployeeRequest{
		IsActive: &inactive,
	})

	assert.NoError(t, err)
	assert.NotNil(t, updated)
	assert.False(t, updated.IsActive)
	assert.Equal(t, "Nadia Rahma", updated.FullName)
	assert.Equal(t, int64(60000), updated.MonthlySalary)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeService_Update_NotFound(t *testing.T) {
	svc, mock := setupEmployeeServiceTest(t, &fakeEmployeeRepository{})

	mock.ExpectBegin()
	mock.ExpectRollback()

	name := "Renamed"
	_, err := svc.Update(context.Background(), uuid.New().String(), UpdateEmployeeRequest{FullName: &name})

	assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
