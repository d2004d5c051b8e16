package payroll

// ProcessPayrollRequest runs the batch (or single-employee) payroll
// computation for one period. DepartmentID narrows the batch to one
// department and is ignored when EmployeeID is set. Recompute overwrites
// existing records and requires a reason for the audit trail.
type ProcessPayrollRequest struct {
	Month           int         `json:"month" binding:"required,min=1,max=12"`
	Year            int         `json:"year" binding:"required,min=2000,max=2100"`
	EmployeeID      string      `json:"employee_id"`
	DepartmentID    string      `json:"department_id" binding:"omitempty,uuid"`
	Notes           *string     `json:"notes"`
	Recompute       bool        `json:"recompute"`
	RecomputeReason string      `json:"recompute_reason"`
	Bonus           *int64      `json:"bonus"`
	Allowances      *Allowances `json:"allowances"`
}

const (
	ResultCreated    = "created"
	ResultExists     = "exists"
	ResultRecomputed = "recomputed"
	ResultError      = "error"
)

type EmployeeResult struct {
	EmployeeID string `json:"employee_id"`
	Status     string `json:"status"`
	Message    string `json:"message,omitempty"`
}

type BlockedRecompute struct {
	EmployeeID string `json:"employee_id"`
	Status     string `json:"status"`
	Reason     string `json:"reason"`
}

type ProcessPayrollResponse struct {
	Month             int                `json:"month"`
	Year              int                `json:"year"`
	Results           []EmployeeResult   `json:"results"`
	BlockedRecomputes []BlockedRecompute `json:"blocked_recomputes,omitempty"`
}

// AdjustPayrollRequest patches only the supplied fields; nil means
// "keep the stored value". Tax (deduction_tax) and the unpaid-leave
// deduction (deduction_other) are system-computed, so the request does
// not expose them.
type AdjustPayrollRequest struct {
	Bonus              *int64  `json:"bonus"`
	AllowanceHousing   *int64  `json:"allowance_housing"`
	AllowanceTransport *int64  `json:"allowance_transport"`
	AllowanceMeal      *int64  `json:"allowance_meal"`
	AllowanceOther     *int64  `json:"allowance_other"`
	DeductionInsurance *int64  `json:"deduction_insurance"`
	DeductionPension   *int64  `json:"deduction_pension"`
	Note               *string `json:"note"`
	Reason             string  `json:"reason" binding:"required"`
}

type FinalizePayrollRequest struct {
	Notes *string `json:"notes"`
}

type GetPayrollsFilterRequest struct {
	EmployeeID string `form:"employee_id"`
	Month      int    `form:"month" binding:"omitempty,min=1,max=12"`
	Year       int    `form:"year" binding:"omitempty,min=2000,max=2100"`
	Status     string `form:"status" binding:"omitempty,oneof=PROCESSED FINALIZED PAID"`
}

type StatsFilterRequest struct {
	Month int `form:"month" binding:"required,min=1,max=12"`
	Year  int `form:"year" binding:"required,min=2000,max=2100"`
}

type PayrollResponse struct {
	ID           string `json:"id"`
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name,omitempty"`
	Month        int    `json:"month"`
	Year         int    `json:"year"`

	BasicSalary     int64      `json:"basic_salary"`
	Allowances      Allowances `json:"allowances"`
	Bonus           int64      `json:"bonus"`
	OvertimeHours   float64    `json:"overtime_hours"`
	OvertimeAmount  int64      `json:"overtime_amount"`
	Deductions      Deductions `json:"deductions"`
	TotalEarnings   int64      `json:"total_earnings"`
	TotalDeductions int64      `json:"total_deductions"`
	NetSalary       int64      `json:"net_salary"`

	Status string  `json:"status"`
	Notes  *string `json:"notes,omitempty"`

	ProcessedBy     string  `json:"processed_by"`
	RecomputedBy    *string `json:"recomputed_by,omitempty"`
	RecomputedAt    *string `json:"recomputed_at,omitempty"`
	RecomputeReason *string `json:"recompute_reason,omitempty"`

	PaymentDate        *string `json:"payment_date,omitempty"`
	PayslipURL         *string `json:"payslip_url,omitempty"`
	PayslipGeneratedAt *string `json:"payslip_generated_at,omitempty"`
}

type PayrollStatsResponse struct {
	Month        int              `json:"month"`
	Year         int              `json:"year"`
	Count        int64            `json:"count"`
	TotalPayout  int64            `json:"total_payout"`
	StatusCounts map[string]int64 `json:"status_counts"`
}
