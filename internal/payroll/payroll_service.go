package payroll

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go-empms/internal/domain"
	"go-empms/internal/employee"
	"go-empms/internal/events"
	"go-empms/internal/leave"
	kafkaoutbox "go-empms/internal/messaging/kafka"
	payrollerrors "go-empms/internal/payroll/errors"
	"go-empms/internal/shared/apperror"
	"go-empms/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// EmployeeStore is the slice of the employee repository payroll needs.
type EmployeeStore interface {
	FindActive(ctx context.Context, filter employee.ActiveFilter) ([]employee.Employee, error)
	FindByID(ctx context.Context, id string) (*employee.Employee, error)
}

// HoursProvider aggregates worked hours for an employee over a period.
type HoursProvider interface {
	WorkedHours(ctx context.Context, employeeID string, start, end time.Time) (float64, error)
}

// LeaveProvider aggregates approved leave days for an employee over a
// period, partitioned by payroll effect.
type LeaveProvider interface {
	ApprovedLeave(ctx context.Context, employeeID string, start, end time.Time) (leave.Breakdown, error)
}

// AuditLogger records payroll mutations for the audit trail.
type AuditLogger interface {
	Record(ctx context.Context, action, actorID, subject string, fields map[string]any)
}

//go:generate mockgen -source=payroll_service.go -destination=mock/payroll_service_mock.go -package=mock
type Service interface {
	Process(ctx context.Context, actor domain.Actor, req ProcessPayrollRequest) (ProcessPayrollResponse, error)
	Adjust(ctx context.Context, actor domain.Actor, id string, req AdjustPayrollRequest) (PayrollResponse, error)
	Finalize(ctx context.Context, actor domain.Actor, id string, req FinalizePayrollRequest) (PayrollResponse, error)
	MarkPaid(ctx context.Context, actor domain.Actor, id string) (PayrollResponse, error)
	GetAll(ctx context.Context, actor domain.Actor, filter GetPayrollsFilterRequest) ([]PayrollResponse, error)
	GetByID(ctx context.Context, actor domain.Actor, id string) (PayrollResponse, error)
	Stats(ctx context.Context, req StatsFilterRequest) (PayrollStatsResponse, error)
	RenderPayslipPDF(ctx context.Context, actor domain.Actor, id string) ([]byte, error)
	GeneratePayslip(ctx context.Context, payrollID string, requestedBy string) error
}

// Dependencies wires the service. Outbox and Audit may be nil in tests;
// payslip generation then skips event publishing and audit records.
type Dependencies struct {
	DB         *sql.DB
	Repo       Repository
	Employees  EmployeeStore
	Attendance HoursProvider
	Leaves     LeaveProvider
	Outbox     kafkaoutbox.Outbox
	Audit      AuditLogger
	PayslipDir string
	Logger     *zap.Logger
}

type service struct {
	db         *sql.DB
	repo       Repository
	employees  EmployeeStore
	attendance HoursProvider
	leaves     LeaveProvider
	outbox     kafkaoutbox.Outbox
	audit      AuditLogger
	payslipDir string
	logger     *zap.Logger
	sf         singleflight.Group
}

func NewService(deps Dependencies) Service {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &service{
		db:         deps.DB,
		repo:       deps.Repo,
		employees:  deps.Employees,
		attendance: deps.Attendance,
		leaves:     deps.Leaves,
		outbox:     deps.Outbox,
		audit:      deps.Audit,
		payslipDir: deps.PayslipDir,
		logger:     logger.Named("payroll.service"),
	}
}

// periodBounds returns the first and last calendar day of the period.
func periodBounds(month, year int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	return start, end
}

func validPeriod(month, year int) bool {
	return month >= 1 && month <= 12 && year >= 2000 && year <= 2100
}

func (s *service) Process(
	ctx context.Context,
	actor domain.Actor,
	req ProcessPayrollRequest,
) (ProcessPayrollResponse, error) {
	if !validPeriod(req.Month, req.Year) {
		return ProcessPayrollResponse{}, payrollerrors.ErrInvalidPeriod
	}
	if req.Recompute && req.RecomputeReason == "" {
		return ProcessPayrollResponse{}, payrollerrors.ErrRecomputeReasonRequired
	}

	actorUUID, err := uuid.Parse(actor.UserID)
	if err != nil {
		return ProcessPayrollResponse{}, payrollerrors.ErrInvalidActorID
	}

	employees, err := s.targetEmployees(ctx, req.EmployeeID, req.DepartmentID)
	if err != nil {
		return ProcessPayrollResponse{}, err
	}

	resp := ProcessPayrollResponse{Month: req.Month, Year: req.Year}

	// One transaction per employee: a single failed computation must never
	// abort the rest of the batch.
	for _, emp := range employees {
		result, blocked := s.processOne(ctx, actor, actorUUID, emp, req)
		if blocked != nil {
			resp.BlockedRecomputes = append(resp.BlockedRecomputes, *blocked)
			continue
		}
		resp.Results = append(resp.Results, result)
	}

	s.recordAudit(ctx, "payroll.process", actor.UserID, fmt.Sprintf("%d-%02d", req.Year, req.Month), map[string]any{
		"employees": len(employees),
		"recompute": req.Recompute,
	})

	contextutil.GetLogger(ctx, s.logger).Info("payroll run completed",
		zap.Int("month", req.Month),
		zap.Int("year", req.Year),
		zap.Int("employees", len(employees)),
		zap.Int("blocked", len(resp.BlockedRecomputes)),
	)

	return resp, nil
}

func (s *service) targetEmployees(ctx context.Context, employeeID, departmentID string) ([]employee.Employee, error) {
	if employeeID == "" {
		return s.employees.FindActive(ctx, employee.ActiveFilter{DepartmentID: departmentID})
	}

	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, payrollerrors.ErrInvalidEmployeeID
	}

	emp, err := s.employees.FindByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, payrollerrors.ErrEmployeeNotFound
		}
		return nil, err
	}
	if !emp.IsActive {
		return nil, payrollerrors.ErrEmployeeInactive
	}

	return []employee.Employee{*emp}, nil
}

func (s *service) processOne(
	ctx context.Context,
	actor domain.Actor,
	actorUUID uuid.UUID,
	emp employee.Employee,
	req ProcessPayrollRequest,
) (EmployeeResult, *BlockedRecompute) {
	employeeID := emp.ID.String()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errorResult(employeeID, err), nil
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	existing, err := qtx.FindByEmployeeAndPeriod(ctx, employeeID, req.Month, req.Year)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return errorResult(employeeID, err), nil
	}

	if err == nil {
		if !req.Recompute {
			return EmployeeResult{EmployeeID: employeeID, Status: ResultExists}, nil
		}

		if lockedStatus(existing.Status) && !actor.IsSuperadmin() {
			return EmployeeResult{}, &BlockedRecompute{
				EmployeeID: employeeID,
				Status:     existing.Status,
				Reason:     fmt.Sprintf("recompute of a %s payroll requires superadmin", existing.Status),
			}
		}

		breakdown, err := s.compute(ctx, emp, req)
		if err != nil {
			return errorResult(employeeID, err), nil
		}

		now := time.Now().UTC()
		existing.applyBreakdown(breakdown)
		existing.Status = StatusProcessed
		existing.Notes = req.Notes
		existing.RecomputedBy = &actorUUID
		existing.RecomputedAt = &now
		reason := req.RecomputeReason
		existing.RecomputeReason = &reason

		if err := qtx.Update(ctx, existing); err != nil {
			return errorResult(employeeID, mapRepositoryError(err)), nil
		}
		if err := tx.Commit(); err != nil {
			return errorResult(employeeID, err), nil
		}

		return EmployeeResult{EmployeeID: employeeID, Status: ResultRecomputed}, nil
	}

	breakdown, err := s.compute(ctx, emp, req)
	if err != nil {
		return errorResult(employeeID, err), nil
	}

	record := &Payroll{
		ID:          uuid.New(),
		EmployeeID:  emp.ID,
		Month:       req.Month,
		Year:        req.Year,
		Status:      StatusProcessed,
		Notes:       req.Notes,
		ProcessedBy: actorUUID,
	}
	record.applyBreakdown(breakdown)

	if err := qtx.Create(ctx, record); err != nil {
		// The unique constraint is the authority against concurrent
		// duplicate process calls; the losing writer reports "exists".
		if isDuplicatePeriod(err) {
			return EmployeeResult{EmployeeID: employeeID, Status: ResultExists}, nil
		}
		return errorResult(employeeID, err), nil
	}
	if err := tx.Commit(); err != nil {
		return errorResult(employeeID, err), nil
	}

	return EmployeeResult{EmployeeID: employeeID, Status: ResultCreated}, nil
}

// compute runs the aggregators and the calculator for one employee.
func (s *service) compute(ctx context.Context, emp employee.Employee, req ProcessPayrollRequest) (Breakdown, error) {
	start, end := periodBounds(req.Month, req.Year)

	worked, err := s.attendance.WorkedHours(ctx, emp.ID.String(), start, end)
	if err != nil {
		return Breakdown{}, err
	}

	leaveDays, err := s.leaves.ApprovedLeave(ctx, emp.ID.String(), start, end)
	if err != nil {
		return Breakdown{}, err
	}

	input := CalculatorInput{
		MonthlySalary:   emp.MonthlySalary,
		WorkedHours:     worked,
		UnpaidLeaveDays: leaveDays.UnpaidDays,
	}
	if req.Bonus != nil {
		input.Bonus = *req.Bonus
	}
	if req.Allowances != nil {
		input.Allowances = *req.Allowances
	}

	return Calculate(input), nil
}

func errorResult(employeeID string, err error) EmployeeResult {
	return EmployeeResult{EmployeeID: employeeID, Status: ResultError, Message: err.Error()}
}

// lockedStatus reports whether a record requires superadmin to recompute
// or adjust.
func lockedStatus(status string) bool {
	return status == StatusFinalized || status == StatusPaid
}

func (s *service) Adjust(
	ctx context.Context,
	actor domain.Actor,
	id string,
	req AdjustPayrollRequest,
) (PayrollResponse, error) {
	if req.Reason == "" {
		return PayrollResponse{}, payrollerrors.ErrAdjustReasonRequired
	}

	actorUUID, err := uuid.Parse(actor.UserID)
	if err != nil {
		return PayrollResponse{}, payrollerrors.ErrInvalidActorID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PayrollResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	record, err := qtx.FindByID(ctx, id)
	if err != nil {
		return PayrollResponse{}, mapRepositoryError(err)
	}

	if record.Status == StatusPaid {
		return PayrollResponse{}, payrollerrors.ErrAdjustPaid
	}
	if record.Status == StatusFinalized && !actor.IsSuperadmin() {
		return PayrollResponse{}, payrollerrors.ErrFinalizedRequiresSuperadmin
	}

	applyAdjustment(record, req)

	now := time.Now().UTC()
	record.Status = StatusProcessed
	record.RecomputedBy = &actorUUID
	record.RecomputedAt = &now
	reason := req.Reason
	record.RecomputeReason = &reason
	record.deriveTotals()

	if err := qtx.Update(ctx, record); err != nil {
		return PayrollResponse{}, mapRepositoryError(err)
	}
	if err := tx.Commit(); err != nil {
		return PayrollResponse{}, err
	}

	s.recordAudit(ctx, "payroll.adjust", actor.UserID, record.ID.String(), map[string]any{
		"reason": req.Reason,
	})

	return mapToResponse(*record), nil
}

// applyAdjustment merges only the supplied fields onto the record. Nil
// pointers keep the stored value; negative inputs are floored at zero.
func applyAdjustment(record *Payroll, req AdjustPayrollRequest) {
	if req.Bonus != nil {
		record.Bonus = clampMoney(*req.Bonus)
	}
	if req.AllowanceHousing != nil {
		record.AllowanceHousing = clampMoney(*req.AllowanceHousing)
	}
	if req.AllowanceTransport != nil {
		record.AllowanceTransport = clampMoney(*req.AllowanceTransport)
	}
	if req.AllowanceMeal != nil {
		record.AllowanceMeal = clampMoney(*req.AllowanceMeal)
	}
	if req.AllowanceOther != nil {
		record.AllowanceOther = clampMoney(*req.AllowanceOther)
	}
	if req.DeductionInsurance != nil {
		record.DeductionInsurance = clampMoney(*req.DeductionInsurance)
	}
	if req.DeductionPension != nil {
		record.DeductionPension = clampMoney(*req.DeductionPension)
	}
	if req.Note != nil {
		record.Notes = req.Note
	}
}

func (s *service) Finalize(
	ctx context.Context,
	actor domain.Actor,
	id string,
	req FinalizePayrollRequest,
) (PayrollResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PayrollResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	record, err := qtx.FindByID(ctx, id)
	if err != nil {
		return PayrollResponse{}, mapRepositoryError(err)
	}

	if record.Status != StatusProcessed {
		return PayrollResponse{}, apperror.New(
			apperror.CodeInvalidState,
			fmt.Sprintf("payroll can only be finalized from %s, current status is %s", StatusProcessed, record.Status),
			http.StatusBadRequest,
		)
	}

	if req.Notes != nil {
		record.Notes = req.Notes
	}
	record.Status = StatusFinalized

	if err := qtx.Update(ctx, record); err != nil {
		return PayrollResponse{}, mapRepositoryError(err)
	}

	// Payslip rendering is deferred to the consumer; the outbox row
	// commits atomically with the status change.
	if s.outbox != nil {
		if err := s.enqueuePayslipEvent(ctx, tx, record, actor.UserID); err != nil {
			return PayrollResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return PayrollResponse{}, err
	}

	s.recordAudit(ctx, "payroll.finalize", actor.UserID, record.ID.String(), nil)

	return mapToResponse(*record), nil
}

func (s *service) enqueuePayslipEvent(ctx context.Context, tx *sql.Tx, record *Payroll, actorID string) error {
	event := events.PayrollPayslipRequestedEvent{
		EventType:   "payroll.payslip.requested",
		PayrollID:   record.ID.String(),
		RequestedBy: actorID,
		OccurredAt:  time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return s.outbox.Enqueue(ctx, tx, kafkaoutbox.OutboxMessage{
		ID:          uuid.NewString(),
		RequestID:   contextutil.GetRequestID(ctx),
		Aggregate:   "payroll",
		AggregateID: record.ID.String(),
		Type:        event.EventType,
		Topic:       events.PayrollPayslipRequestedTopic,
		Payload:     payload,
		Status:      kafkaoutbox.StatusPending,
	})
}

func (s *service) MarkPaid(
	ctx context.Context,
	actor domain.Actor,
	id string,
) (PayrollResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PayrollResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	record, err := qtx.FindByID(ctx, id)
	if err != nil {
		return PayrollResponse{}, mapRepositoryError(err)
	}

	// Idempotent: paying an already-paid record re-stamps the date.
	now := time.Now().UTC()
	record.Status = StatusPaid
	record.PaymentDate = &now

	if err := qtx.Update(ctx, record); err != nil {
		return PayrollResponse{}, mapRepositoryError(err)
	}
	if err := tx.Commit(); err != nil {
		return PayrollResponse{}, err
	}

	s.recordAudit(ctx, "payroll.pay", actor.UserID, record.ID.String(), nil)

	return mapToResponse(*record), nil
}

func (s *service) GetAll(
	ctx context.Context,
	actor domain.Actor,
	filter GetPayrollsFilterRequest,
) ([]PayrollResponse, error) {
	repoFilter := ListFilter{
		EmployeeID: filter.EmployeeID,
		Month:      filter.Month,
		Year:       filter.Year,
		Status:     filter.Status,
	}

	// Employees only ever see their own records, whatever the filter says.
	if !actor.IsPayrollAdmin() {
		repoFilter.EmployeeID = actor.EmployeeID
	}

	payrolls, err := s.repo.FindAll(ctx, repoFilter)
	if err != nil {
		return nil, err
	}

	return mapToListResponse(payrolls), nil
}

func (s *service) GetByID(
	ctx context.Context,
	actor domain.Actor,
	id string,
) (PayrollResponse, error) {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return PayrollResponse{}, mapRepositoryError(err)
	}

	if !actor.IsPayrollAdmin() && record.EmployeeID.String() != actor.EmployeeID {
		return PayrollResponse{}, payrollerrors.ErrNotOwnPayroll
	}

	return mapToResponse(*record), nil
}

func (s *service) Stats(
	ctx context.Context,
	req StatsFilterRequest,
) (PayrollStatsResponse, error) {
	if !validPeriod(req.Month, req.Year) {
		return PayrollStatsResponse{}, payrollerrors.ErrInvalidPeriod
	}

	key := fmt.Sprintf("payroll-stats:%d-%02d", req.Year, req.Month)
	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		return s.repo.Stats(ctx, req.Month, req.Year)
	})
	if err != nil {
		return PayrollStatsResponse{}, err
	}

	stats := v.(PeriodStats)
	return PayrollStatsResponse{
		Month:        req.Month,
		Year:         req.Year,
		Count:        stats.Count,
		TotalPayout:  stats.TotalPayout,
		StatusCounts: stats.StatusCounts,
	}, nil
}

func (s *service) RenderPayslipPDF(
	ctx context.Context,
	actor domain.Actor,
	id string,
) ([]byte, error) {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	if !actor.IsPayrollAdmin() && record.EmployeeID.String() != actor.EmployeeID {
		return nil, payrollerrors.ErrNotOwnPayroll
	}

	return buildSimplePayslipPDF(payslipLines(record))
}

// GeneratePayslip renders the payslip document to disk and stamps the
// record. Called by the event consumer after finalize.
func (s *service) GeneratePayslip(ctx context.Context, payrollID string, requestedBy string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	record, err := qtx.FindByID(ctx, payrollID)
	if err != nil {
		return mapRepositoryError(err)
	}

	pdf, err := buildSimplePayslipPDF(payslipLines(record))
	if err != nil {
		return err
	}

	dir := s.payslipDir
	if dir == "" {
		dir = "payslips"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	filename := fmt.Sprintf("payslip_%s_%d_%02d.pdf", record.ID, record.Year, record.Month)
	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, pdf, 0o644); err != nil {
		return err
	}

	now := time.Now().UTC()
	url := "/files/payslips/" + filename
	record.PayslipURL = &url
	record.PayslipGeneratedAt = &now

	if err := qtx.Update(ctx, record); err != nil {
		return mapRepositoryError(err)
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	s.logger.Info("payslip generated",
		zap.String("payroll_id", payrollID),
		zap.String("requested_by", requestedBy),
		zap.String("path", path),
	)

	return nil
}

func (s *service) recordAudit(ctx context.Context, action, actorID, subject string, fields map[string]any) {
	if s.audit == nil {
		return
	}
	s.audit.Record(ctx, action, actorID, subject, fields)
}

func mapToResponse(p Payroll) PayrollResponse {
	resp := PayrollResponse{
		ID:         p.ID.String(),
		EmployeeID: p.EmployeeID.String(),
		Month:      p.Month,
		Year:       p.Year,

		BasicSalary: p.BasicSalary,
		Allowances: Allowances{
			Housing:   p.AllowanceHousing,
			Transport: p.AllowanceTransport,
			Meal:      p.AllowanceMeal,
			Other:     p.AllowanceOther,
		},
		Bonus:          p.Bonus,
		OvertimeHours:  p.OvertimeHours,
		OvertimeAmount: p.OvertimeAmount,
		Deductions: Deductions{
			Tax:       p.DeductionTax,
			Insurance: p.DeductionInsurance,
			Pension:   p.DeductionPension,
			Other:     p.DeductionOther,
		},
		TotalEarnings:   p.TotalEarnings,
		TotalDeductions: p.TotalDeductions,
		NetSalary:       p.NetSalary,

		Status: p.Status,
		Notes:  p.Notes,

		ProcessedBy:     p.ProcessedBy.String(),
		RecomputeReason: p.RecomputeReason,
		PayslipURL:      p.PayslipURL,
	}

	if p.Employee != nil {
		resp.EmployeeName = p.Employee.FullName
	}
	if p.RecomputedBy != nil {
		v := p.RecomputedBy.String()
		resp.RecomputedBy = &v
	}
	if p.RecomputedAt != nil {
		v := p.RecomputedAt.Format(time.RFC3339)
		resp.RecomputedAt = &v
	}
	if p.PaymentDate != nil {
		v := p.PaymentDate.Format(time.RFC3339)
		resp.PaymentDate = &v
	}
	if p.PayslipGeneratedAt != nil {
		v := p.PayslipGeneratedAt.Format(time.RFC3339)
		resp.PayslipGeneratedAt = &v
	}

	return resp
}

func mapToListResponse(payrolls []Payroll) []PayrollResponse {
	resp := make([]PayrollResponse, len(payrolls))
	for i, p := range payrolls {
		resp[i] = mapToResponse(p)
	}
	return resp
}
