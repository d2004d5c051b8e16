package payroll

import (
	"context"
	"database/sql"

	"go-empms/internal/shared/connection"

	"gorm.io/gorm"
)

// ListFilter narrows FindAll; zero values are ignored.
type ListFilter struct {
	EmployeeID string
	Month      int
	Year       int
	Status     string
}

// PeriodStats is the repository-level aggregate for one period.
type PeriodStats struct {
	Count        int64
	TotalPayout  int64
	StatusCounts map[string]int64
}

//go:generate mockgen -source=payroll_repo.go -destination=mock/payroll_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, p *Payroll) error
	FindByID(ctx context.Context, id string) (*Payroll, error)
	FindByEmployeeAndPeriod(ctx context.Context, employeeID string, month, year int) (*Payroll, error)
	Update(ctx context.Context, p *Payroll) error
	FindAll(ctx context.Context, filter ListFilter) ([]Payroll, error)
	Stats(ctx context.Context, month, year int) (PeriodStats, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// WithTx binds every statement of the returned repository to tx, so writes
// commit or roll back with the caller's transaction.
func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: connection.BindTx(r.db, tx)}
}

func (r *repository) Create(ctx context.Context, p *Payroll) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Payroll, error) {
	var p Payroll
	err := r.db.WithContext(ctx).
		Preload("Employee").
		First(&p, "id = ?", id).Error
	return &p, err
}

func (r *repository) FindByEmployeeAndPeriod(ctx context.Context, employeeID string, month, year int) (*Payroll, error) {
	var p Payroll
	err := r.db.WithContext(ctx).
		First(&p, "employee_id = ? AND month = ? AND year = ?", employeeID, month, year).Error
	return &p, err
}

func (r *repository) Update(ctx context.Context, p *Payroll) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *repository) FindAll(ctx context.Context, filter ListFilter) ([]Payroll, error) {
	db := r.db.WithContext(ctx).
		Preload("Employee").
		Model(&Payroll{})

	if filter.EmployeeID != "" {
		db = db.Where("employee_id = ?", filter.EmployeeID)
	}
	if filter.Month != 0 {
		db = db.Where("month = ?", filter.Month)
	}
	if filter.Year != 0 {
		db = db.Where("year = ?", filter.Year)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}

	var payrolls []Payroll
	err := db.Order("year DESC, month DESC, created_at DESC").Find(&payrolls).Error
	return payrolls, err
}

func (r *repository) Stats(ctx context.Context, month, year int) (PeriodStats, error) {
	stats := PeriodStats{StatusCounts: make(map[string]int64)}

	rows, err := r.db.WithContext(ctx).
		Model(&Payroll{}).
		Select("status, COUNT(*) AS cnt, COALESCE(SUM(net_salary), 0) AS payout").
		Where("month = ? AND year = ?", month, year).
		Group("status").
		Rows()
	if err != nil {
		return PeriodStats{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var cnt, payout int64
		if err := rows.Scan(&status, &cnt, &payout); err != nil {
			return PeriodStats{}, err
		}
		stats.StatusCounts[status] = cnt
		stats.Count += cnt
		stats.TotalPayout += payout
	}

	return stats, rows.Err()
}
