package payroll

import (
	"time"

	"github.com/google/uuid"
)

const (
	// StatusPending is a logical pre-state only; records are persisted
	// directly in PROCESSED.
	StatusPending   = "PENDING"
	StatusProcessed = "PROCESSED"
	StatusFinalized = "FINALIZED"
	StatusPaid      = "PAID"
)

type Payroll struct {
	ID         uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:uq_payroll_period"`
	Employee   *PayrollEmployee `gorm:"foreignKey:EmployeeID;references:ID"`

	Month int `gorm:"not null;uniqueIndex:uq_payroll_period"`
	Year  int `gorm:"not null;uniqueIndex:uq_payroll_period;index:idx_payroll_year_month"`

	// Monetary amounts are whole currency units. BasicSalary is a snapshot
	// of the employee salary at computation time.
	BasicSalary        int64   `gorm:"type:bigint;not null;default:0"`
	AllowanceHousing   int64   `gorm:"type:bigint;not null;default:0"`
	AllowanceTransport int64   `gorm:"type:bigint;not null;default:0"`
	AllowanceMeal      int64   `gorm:"type:bigint;not null;default:0"`
	AllowanceOther     int64   `gorm:"type:bigint;not null;default:0"`
	Bonus              int64   `gorm:"type:bigint;not null;default:0"`
	OvertimeHours      float64 `gorm:"not null;default:0"`
	OvertimeAmount     int64   `gorm:"type:bigint;not null;default:0"`
	DeductionTax       int64   `gorm:"type:bigint;not null;default:0"`
	DeductionInsurance int64   `gorm:"type:bigint;not null;default:0"`
	DeductionPension   int64   `gorm:"type:bigint;not null;default:0"`
	DeductionOther     int64   `gorm:"type:bigint;not null;default:0"`

	// Derived, always recomputed from the components before persisting.
	TotalEarnings   int64 `gorm:"type:bigint;not null;default:0"`
	TotalDeductions int64 `gorm:"type:bigint;not null;default:0"`
	NetSalary       int64 `gorm:"type:bigint;not null;default:0"`

	Status string  `gorm:"type:varchar(20);not null;default:'PROCESSED';index"`
	Notes  *string `gorm:"type:text"`

	// Audit trail
	ProcessedBy     uuid.UUID  `gorm:"type:uuid;not null"`
	RecomputedBy    *uuid.UUID `gorm:"type:uuid"`
	RecomputedAt    *time.Time
	RecomputeReason *string `gorm:"type:text"`

	PaymentDate        *time.Time `gorm:"index"`
	PayslipURL         *string
	PayslipGeneratedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// applyBreakdown writes calculator output into the record and re-derives
// the totals.
func (p *Payroll) applyBreakdown(b Breakdown) {
	p.BasicSalary = b.BasicSalary
	p.AllowanceHousing = b.Allowances.Housing
	p.AllowanceTransport = b.Allowances.Transport
	p.AllowanceMeal = b.Allowances.Meal
	p.AllowanceOther = b.Allowances.Other
	p.Bonus = b.Bonus
	p.OvertimeHours = b.OvertimeHours
	p.OvertimeAmount = b.OvertimeAmount
	p.DeductionTax = b.Deductions.Tax
	p.DeductionInsurance = b.Deductions.Insurance
	p.DeductionPension = b.Deductions.Pension
	p.DeductionOther = b.Deductions.Other
	p.TotalEarnings = b.TotalEarnings
	p.TotalDeductions = b.TotalDeductions
	p.NetSalary = b.NetSalary
}

// breakdown reconstructs the calculator view of a stored record.
func (p *Payroll) breakdown() Breakdown {
	return Breakdown{
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
	}
}

// deriveTotals re-derives the stored totals from the component columns.
// Must run after any component mutation, before persisting.
func (p *Payroll) deriveTotals() {
	b := p.breakdown()
	b.DeriveTotals()
	p.TotalEarnings = b.TotalEarnings
	p.TotalDeductions = b.TotalDeductions
	p.NetSalary = b.NetSalary
}

// PayrollEmployee is a narrow projection of the employees table used for
// eager loading the name onto payroll reads.
type PayrollEmployee struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	FullName string    `gorm:"column:full_name"`
}

func (PayrollEmployee) TableName() string {
	return "employees"
}
