package payroll

import "math"

// Fixed payroll policy. These are deliberate constants, not configuration:
// changing them changes every net salary in the system.
const (
	WorkingDaysPerMonth  = 22
	HoursPerDay          = 8
	StandardMonthlyHours = WorkingDaysPerMonth * HoursPerDay
	OvertimeMultiplier   = 1.25
)

// Progressive tax brackets applied to the monthly basic salary, not net
// income. Upper bound is inclusive.
var taxBrackets = []struct {
	UpTo int64
	Rate float64
}{
	{25000, 0},
	{50000, 0.05},
	{100000, 0.10},
	{math.MaxInt64, 0.15},
}

// Allowances are administrator-settable earnings on top of base salary.
type Allowances struct {
	Housing   int64 `json:"housing"`
	Transport int64 `json:"transport"`
	Meal      int64 `json:"meal"`
	Other     int64 `json:"other"`
}

func (a Allowances) Sum() int64 {
	return a.Housing + a.Transport + a.Meal + a.Other
}

// Deductions subtracted from total earnings. Tax and Other (the unpaid
// leave deduction) are system-computed; Insurance and Pension default to
// zero and are set via adjustment.
type Deductions struct {
	Tax       int64 `json:"tax"`
	Insurance int64 `json:"insurance"`
	Pension   int64 `json:"pension"`
	Other     int64 `json:"other"`
}

func (d Deductions) Sum() int64 {
	return d.Tax + d.Insurance + d.Pension + d.Other
}

// CalculatorInput is everything a single employee-period computation
// needs. WorkedHours and UnpaidLeaveDays come from the attendance and
// leave aggregators; Bonus and Allowances are administrator overrides.
type CalculatorInput struct {
	MonthlySalary   int64
	WorkedHours     float64
	UnpaidLeaveDays int
	Bonus           int64
	Allowances      Allowances
}

// Breakdown is the full earnings/deductions picture for one period.
// TotalEarnings, TotalDeductions and NetSalary are derived from the
// component fields and must be re-derived after any component mutation.
type Breakdown struct {
	BasicSalary     int64
	Allowances      Allowances
	Bonus           int64
	OvertimeHours   float64
	OvertimeAmount  int64
	Deductions      Deductions
	TotalEarnings   int64
	TotalDeductions int64
	NetSalary       int64
}

// Calculate is a pure function: no I/O, no clock, deterministic for a
// given input. Every intermediate monetary value is rounded to the
// nearest whole unit before summing, and no component ever goes negative.
func Calculate(in CalculatorInput) Breakdown {
	salary := clampMoney(in.MonthlySalary)
	worked := math.Max(in.WorkedHours, 0)
	unpaidDays := in.UnpaidLeaveDays
	if unpaidDays < 0 {
		unpaidDays = 0
	}

	overtimeHours := math.Max(worked-StandardMonthlyHours, 0)
	overtimeRate := float64(salary) / StandardMonthlyHours * OvertimeMultiplier
	overtimeAmount := roundMoney(overtimeHours * overtimeRate)

	perDayRate := float64(salary) / WorkingDaysPerMonth
	unpaidLeaveDeduction := roundMoney(float64(unpaidDays) * perDayRate)

	b := Breakdown{
		BasicSalary: salary,
		Allowances: Allowances{
			Housing:   clampMoney(in.Allowances.Housing),
			Transport: clampMoney(in.Allowances.Transport),
			Meal:      clampMoney(in.Allowances.Meal),
			Other:     clampMoney(in.Allowances.Other),
		},
		Bonus:          clampMoney(in.Bonus),
		OvertimeHours:  overtimeHours,
		OvertimeAmount: overtimeAmount,
		Deductions: Deductions{
			Tax:       taxFor(salary),
			Insurance: 0,
			Pension:   0,
			Other:     unpaidLeaveDeduction,
		},
	}
	b.DeriveTotals()
	return b
}

// DeriveTotals recomputes the three derived fields from the stored
// components. Calling it again on an already-derived breakdown is a
// no-op.
func (b *Breakdown) DeriveTotals() {
	b.TotalEarnings = b.BasicSalary + b.Allowances.Sum() + b.OvertimeAmount + b.Bonus
	b.TotalDeductions = b.Deductions.Sum()
	net := b.TotalEarnings - b.TotalDeductions
	if net < 0 {
		net = 0
	}
	b.NetSalary = net
}

func taxFor(monthlySalary int64) int64 {
	for _, bracket := range taxBrackets {
		if monthlySalary <= bracket.UpTo {
			return roundMoney(float64(monthlySalary) * bracket.Rate)
		}
	}
	return 0
}

// roundMoney rounds half away from zero and floors negatives at zero.
func roundMoney(v float64) int64 {
	if v <= 0 {
		return 0
	}
	return int64(math.Round(v))
}

func clampMoney(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}
