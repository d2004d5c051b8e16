package employee

import (
	"context"
	"database/sql"

	"go-empms/internal/shared/connection"

	"gorm.io/gorm"
)

// ActiveFilter narrows FindActive; zero value means all active employees.
type ActiveFilter struct {
	DepartmentID string
}

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, e *Employee) error
	FindAll(ctx context.Context) ([]Employee, error)
	FindActive(ctx context.Context, filter ActiveFilter) ([]Employee, error)
	FindByID(ctx context.Context, id string) (*Employee, error)
	Update(ctx context.Context, e *Employee) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: connection.BindTx(r.db, tx)}
}

func (r *repository) Create(ctx context.Context, e *Employee) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *repository) FindAll(ctx context.Context) ([]Employee, error) {
	var rows []Employee
	err := r.db.WithContext(ctx).
		Order("full_name ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindActive(ctx context.Context, filter ActiveFilter) ([]Employee, error) {
	db := r.db.WithContext(ctx).
		Where("is_active = ?", true)

	if filter.DepartmentID != "" {
		db = db.Where("department_id = ?", filter.DepartmentID)
	}

	var rows []Employee
	err := db.Order("full_name ASC").Find(&rows).Error
	return rows, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Employee, error) {
	var e Employee
	err := r.db.WithContext(ctx).
		First(&e, "id = ?", id).Error
	return &e, err
}

func (r *repository) Update(ctx context.Context, e *Employee) error {
	return r.db.WithContext(ctx).Save(e).Error
}
