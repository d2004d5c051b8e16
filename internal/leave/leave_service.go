package leave

import (
	"context"
	"database/sql"
	"time"

	"go-empms/internal/domain"
	leaveerrors "go-empms/internal/leave/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	StatusPending   = "PENDING"
	StatusApproved  = "APPROVED"
	StatusRejected  = "REJECTED"
	StatusCancelled = "CANCELLED"
)

const (
	TypeAnnual    = "ANNUAL"
	TypeSick      = "SICK"
	TypePersonal  = "PERSONAL"
	TypeMaternity = "MATERNITY"
	TypePaternity = "PATERNITY"
	TypeEmergency = "EMERGENCY"
)

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actor domain.Actor, req CreateLeaveRequest) (LeaveResponse, error)
	GetAll(ctx context.Context, actor domain.Actor) ([]LeaveResponse, error)
	Approve(ctx context.Context, actor domain.Actor, id string) (LeaveResponse, error)
	Reject(ctx context.Context, actor domain.Actor, id string, req RejectLeaveRequest) (LeaveResponse, error)

	// ApprovedLeave is the payroll-facing aggregator: approved leave
	// overlapping the inclusive range, partitioned paid/unpaid.
	ApprovedLeave(ctx context.Context, employeeID string, start, end time.Time) (Breakdown, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

func (s *service) Create(ctx context.Context, actor domain.Actor, req CreateLeaveRequest) (LeaveResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return LeaveResponse{}, err
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return LeaveResponse{}, err
	}
	if startDate.After(endDate) {
		return LeaveResponse{}, leaveerrors.ErrInvalidDateRange
	}

	overlap, err := qtx.HasOverlappingPeriod(ctx, actor.EmployeeID, startDate, endDate, nil)
	if err != nil {
		s.logger.Error("leave overlap check failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if overlap {
		return LeaveResponse{}, leaveerrors.ErrLeaveOverlap
	}

	totalDays := int(endDate.Sub(startDate).Hours()/24) + 1
	l := &Leave{
		ID:         uuid.New(),
		EmployeeID: uuid.MustParse(actor.EmployeeID),
		LeaveType:  req.LeaveType,
		StartDate:  startDate,
		EndDate:    endDate,
		TotalDays:  totalDays,
		Reason:     req.Reason,
		Status:     StatusPending,
	}

	if err := qtx.Create(ctx, l); err != nil {
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return LeaveResponse{}, err
	}

	s.logger.Info("leave requested",
		zap.String("leave_id", l.ID.String()),
		zap.String("employee_id", actor.EmployeeID),
		zap.String("type", req.LeaveType),
	)

	return mapToResponse(*l), nil
}

func (s *service) GetAll(ctx context.Context, actor domain.Actor) ([]LeaveResponse, error) {
	var (
		leaves []Leave
		err    error
	)

	if actor.IsPayrollAdmin() {
		leaves, err = s.repo.FindAll(ctx)
	} else {
		leaves, err = s.repo.FindAllByEmployee(ctx, actor.EmployeeID)
	}
	if err != nil {
		return nil, err
	}

	res := make([]LeaveResponse, len(leaves))
	for i, l := range leaves {
		res[i] = mapToResponse(l)
	}
	return res, nil
}

func (s *service) Approve(ctx context.Context, actor domain.Actor, id string) (LeaveResponse, error) {
	return s.decide(ctx, actor, id, StatusApproved, nil)
}

func (s *service) Reject(ctx context.Context, actor domain.Actor, id string, req RejectLeaveRequest) (LeaveResponse, error) {
	return s.decide(ctx, actor, id, StatusRejected, &req.Reason)
}

func (s *service) decide(ctx context.Context, actor domain.Actor, id, status string, rejectionReason *string) (LeaveResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByID(ctx, id)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
	}
	if l.Status != StatusPending {
		return LeaveResponse{}, leaveerrors.ErrNotPending
	}

	now := time.Now().UTC()
	approver := uuid.MustParse(actor.EmployeeID)
	l.Status = status
	l.ApprovedBy = &approver
	l.ApprovedAt = &now
	l.RejectionReason = rejectionReason

	if err := qtx.Update(ctx, l); err != nil {
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return LeaveResponse{}, err
	}

	return mapToResponse(*l), nil
}

func (s *service) ApprovedLeave(ctx context.Context, employeeID string, start, end time.Time) (Breakdown, error) {
	leaves, err := s.repo.FindApprovedOverlapping(ctx, employeeID, start, end)
	if err != nil {
		return Breakdown{}, err
	}
	return Partition(leaves), nil
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func mapToResponse(l Leave) LeaveResponse {
	resp := LeaveResponse{
		ID:              l.ID.String(),
		EmployeeID:      l.EmployeeID.String(),
		LeaveType:       l.LeaveType,
		StartDate:       l.StartDate.Format("2006-01-02"),
		EndDate:         l.EndDate.Format("2006-01-02"),
		TotalDays:       l.TotalDays,
		Reason:          l.Reason,
		Status:          l.Status,
		RejectionReason: l.RejectionReason,
	}
	if l.ApprovedBy != nil {
		v := l.ApprovedBy.String()
		resp.ApprovedBy = &v
	}
	return resp
}
