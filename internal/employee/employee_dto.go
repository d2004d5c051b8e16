package employee

type CreateEmployeeRequest struct {
	FullName      string `json:"full_name" binding:"required"`
	Email         string `json:"email" binding:"required,email"`
	DepartmentID  string `json:"department_id"`
	MonthlySalary int64  `json:"monthly_salary" binding:"min=0"`
}

type UpdateEmployeeRequest struct {
	FullName      *string `json:"full_name"`
	DepartmentID  *string `json:"department_id"`
	MonthlySalary *int64  `json:"monthly_salary"`
	IsActive      *bool   `json:"is_active"`
}

type EmployeeResponse struct {
	ID            string  `json:"id"`
	FullName      string  `json:"full_name"`
	Email         string  `json:"email"`
	DepartmentID  *string `json:"department_id,omitempty"`
	MonthlySalary int64   `json:"monthly_salary"`
	IsActive      bool    `json:"is_active"`
}
