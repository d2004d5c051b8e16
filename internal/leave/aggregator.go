package leave

// Breakdown partitions approved leave days by payroll effect. Paid-type
// days are already covered by base salary; only unpaid-type days feed the
// deduction calculation.
type Breakdown struct {
	PaidDays   int
	UnpaidDays int
}

// paidTypes are compensated by base salary and carry no payroll deduction.
var paidTypes = map[string]bool{
	TypeAnnual:    true,
	TypeSick:      true,
	TypeMaternity: true,
	TypePaternity: true,
}

// Partition splits a set of approved leaves into paid and unpaid day
// totals. Non-positive day counts are skipped.
func Partition(leaves []Leave) Breakdown {
	var b Breakdown
	for _, l := range leaves {
		if l.TotalDays <= 0 {
			continue
		}
		if paidTypes[l.LeaveType] {
			b.PaidDays += l.TotalDays
		} else {
			b.UnpaidDays += l.TotalDays
		}
	}
	return b
}
