package department_test

import (
	"context"
	"errors"
	"testing"

	"go-empms/internal/department"
	"go-empms/internal/department/mock"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestDepartmentService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := mock.NewMockRepository(ctrl)
	svc := department.NewService(db, repo)

	sqlMock.ExpectBegin()
	repo.EXPECT().WithTx(gomock.Any()).Return(repo)
	repo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, d *department.Department) error {
			assert.Equal(t, "Engineering", d.Name)
			return nil
		})
	sqlMock.ExpectCommit()

	resp, err := svc.Create(context.Background(), department.CreateDepartmentRequest{Name: "Engineering"})

	assert.NoError(t, err)
	assert.Equal(t, "Engineering", resp.Name)
	assert.NotEmpty(t, resp.ID)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestDepartmentService_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := mock.NewMockRepository(ctrl)
	svc := department.NewService(db, repo)

	id := uuid.New()

	sqlMock.ExpectBegin()
	repo.EXPECT().WithTx(gomock.Any()).Return(repo)
	repo.EXPECT().
		FindByID(gomock.Any(), id.String()).
		Return(&department.Department{ID: id, Name: "Old"}, nil)
	repo.EXPECT().
		Update(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, d *department.Department) error {
			assert.Equal(t, "People Ops", d.Name)
			return nil
		})
	sqlMock.ExpectCommit()

	resp, err := svc.Update(context.Background(), id.String(), department.UpdateDepartmentRequest{Name: "People Ops"})

	assert.NoError(t, err)
	assert.Equal(t, "People Ops", resp.Name)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestDepartmentService_GetAll_Propagates(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	db, _, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := mock.NewMockRepository(ctrl)
	svc := department.NewService(db, repo)

	repo.EXPECT().FindAll(gomock.Any()).Return(nil, errors.New("db down"))

	_, err = svc.GetAll(context.Background())
	assert.Error(t, err)
}
