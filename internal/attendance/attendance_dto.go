package attendance

type ClockInRequest struct {
	Notes *string `json:"notes"`
}

type ClockOutRequest struct {
	Notes *string `json:"notes"`
}

type AttendanceResponse struct {
	ID             string  `json:"id"`
	EmployeeID     string  `json:"employee_id"`
	AttendanceDate string  `json:"attendance_date"`
	ClockIn        string  `json:"clock_in"`
	ClockOut       *string `json:"clock_out,omitempty"`
	TotalHours     float64 `json:"total_hours"`
	Status         string  `json:"status"`
	Notes          *string `json:"notes,omitempty"`
}
