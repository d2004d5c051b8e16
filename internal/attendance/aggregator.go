package attendance

// SumWorkedHours totals the recorded hours of a set of attendance rows.
// Rows without a clock-out carry zero hours; stored negatives (which the
// clock-out path never produces) are skipped so the sum stays non-negative.
func SumWorkedHours(rows []Attendance) float64 {
	var total float64
	for _, a := range rows {
		if a.TotalHours <= 0 {
			continue
		}
		total += a.TotalHours
	}
	return total
}
