package payroll

import (
	"bytes"
	"fmt"
	"strings"
	"time"
)

// payslipLines flattens a payroll record into the text lines printed on
// the payslip document.
func payslipLines(p *Payroll) []string {
	name := p.EmployeeID.String()
	if p.Employee != nil && p.Employee.FullName != "" {
		name = p.Employee.FullName
	}

	lines := []string{
		fmt.Sprintf("Payslip %d-%02d", p.Year, p.Month),
		fmt.Sprintf("Employee: %s", name),
		fmt.Sprintf("Status: %s", p.Status),
		"",
		fmt.Sprintf("Basic salary: %d", p.BasicSalary),
		fmt.Sprintf("Allowances (housing/transport/meal/other): %d / %d / %d / %d",
			p.AllowanceHousing, p.AllowanceTransport, p.AllowanceMeal, p.AllowanceOther),
		fmt.Sprintf("Overtime: %.2f h = %d", p.OvertimeHours, p.OvertimeAmount),
		fmt.Sprintf("Bonus: %d", p.Bonus),
		fmt.Sprintf("Total earnings: %d", p.TotalEarnings),
		"",
		fmt.Sprintf("Tax: %d", p.DeductionTax),
		fmt.Sprintf("Insurance: %d", p.DeductionInsurance),
		fmt.Sprintf("Pension: %d", p.DeductionPension),
		fmt.Sprintf("Unpaid leave: %d", p.DeductionOther),
		fmt.Sprintf("Total deductions: %d", p.TotalDeductions),
		"",
		fmt.Sprintf("NET SALARY: %d", p.NetSalary),
	}

	if p.PaymentDate != nil {
		lines = append(lines, fmt.Sprintf("Paid on: %s", p.PaymentDate.Format(time.DateOnly)))
	}

	return lines
}

// buildSimplePayslipPDF writes a minimal single-page PDF by hand. The
// format is deliberately tiny: one Helvetica text block, no compression,
// so the output stays deterministic and dependency-free.
func buildSimplePayslipPDF(lines []string) ([]byte, error) {
	if len(lines) == 0 {
		lines = []string{"Payslip"}
	}

	var content strings.Builder
	content.WriteString("BT\n/F1 12 Tf\n14 TL\n50 800 Td\n")
	for i, line := range lines {
		escaped := pdfEscape(line)
		if i == 0 {
			content.WriteString(fmt.Sprintf("(%s) Tj\n", escaped))
			continue
		}
		content.WriteString(fmt.Sprintf("T* (%s) Tj\n", escaped))
	}
	content.WriteString("ET")

	stream := content.String()
	objects := []string{
		"1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n",
		"2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n",
		"3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] /Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>\nendobj\n",
		"4 0 obj\n<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>\nendobj\n",
		fmt.Sprintf("5 0 obj\n<< /Length %d >>\nstream\n%s\nendstream\nendobj\n", len(stream), stream),
	}

	var out bytes.Buffer
	out.WriteString("%PDF-1.4\n")
	offsets := make([]int, 0, len(objects)+1)
	offsets = append(offsets, 0)

	for _, obj := range objects {
		offsets = append(offsets, out.Len())
		out.WriteString(obj)
	}

	xrefStart := out.Len()
	out.WriteString(fmt.Sprintf("xref\n0 %d\n", len(offsets)))
	out.WriteString("0000000000 65535 f \n")
	for i := 1; i < len(offsets); i++ {
		out.WriteString(fmt.Sprintf("%010d 00000 n \n", offsets[i]))
	}
	out.WriteString(fmt.Sprintf("trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF", len(offsets), xrefStart))

	return out.Bytes(), nil
}

func pdfEscape(v string) string {
	replacer := strings.NewReplacer("\\", "\\\\", "(", "\\(", ")", "\\)")
	return replacer.Replace(v)
}
