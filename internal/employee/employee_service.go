package employee

import (
	"context"
	"database/sql"

	"go-empms/internal/domain"
	employeeerrors "go-empms/internal/employee/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetAll(ctx context.Context) ([]EmployeeResponse, error)
	GetByID(ctx context.Context, actor domain.Actor, id string) (EmployeeResponse, error)
	Update(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

func (s *service) Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if req.MonthlySalary < 0 {
		return EmployeeResponse{}, employeeerrors.ErrNegativeSalary
	}

	var departmentID *uuid.UUID
	if req.DepartmentID != "" {
		deptUUID, err := uuid.Parse(req.DepartmentID)
		if err != nil {
			return EmployeeResponse{}, employeeerrors.ErrInvalidDepartmentID
		}
		departmentID = &deptUUID
	}

	emp := &Employee{
		ID:            uuid.New(),
		DepartmentID:  departmentID,
		FullName:      req.FullName,
		Email:         req.Email,
		MonthlySalary: req.MonthlySalary,
		IsActive:      true,
	}

	if err := qtx.Create(ctx, emp); err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return EmployeeResponse{}, err
	}

	s.logger.Info("employee created", zap.String("employee_id", emp.ID.String()))

	return mapToResponse(*emp), nil
}

func (s *service) GetAll(ctx context.Context) ([]EmployeeResponse, error) {
	rows, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	return mapToListResponse(rows), nil
}

func (s *service) GetByID(ctx context.Context, actor domain.Actor, id string) (EmployeeResponse, error) {
	// Non-admins may only read their own record.
	if !actor.IsPayrollAdmin() && actor.EmployeeID != id {
		return EmployeeResponse{}, employeeerrors.ErrEmployeeNotFound
	}

	emp, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*emp), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	emp, err := qtx.FindByID(ctx, id)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if req.FullName != nil {
		emp.FullName = *req.FullName
	}
	if req.DepartmentID != nil {
		deptUUID, err := uuid.Parse(*req.DepartmentID)
		if err != nil {
			return EmployeeResponse{}, employeeerrors.ErrInvalidDepartmentID
		}
		emp.DepartmentID = &deptUUID
	}
	if req.MonthlySalary != nil {
		if *req.MonthlySalary < 0 {
			return EmployeeResponse{}, employeeerrors.ErrNegativeSalary
		}
		emp.MonthlySalary = *req.MonthlySalary
	}
	if req.IsActive != nil {
		emp.IsActive = *req.IsActive
	}

	if err := qtx.Update(ctx, emp); err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return EmployeeResponse{}, err
	}

	return mapToResponse(*emp), nil
}

func mapToResponse(e Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:            e.ID.String(),
		FullName:      e.FullName,
		Email:         e.Email,
		MonthlySalary: e.MonthlySalary,
		IsActive:      e.IsActive,
	}
	if e.DepartmentID != nil {
		v := e.DepartmentID.String()
		resp.DepartmentID = &v
	}
	return resp
}

func mapToListResponse(rows []Employee) []EmployeeResponse {
	res := make([]EmployeeResponse, len(rows))
	for i, e := range rows {
		res[i] = mapToResponse(e)
	}
	return res
}
