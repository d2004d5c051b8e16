package employee

import (
	"time"

	"github.com/google/uuid"
)

// Employee is the HR master record. Payroll snapshots MonthlySalary at
// computation time instead of referencing it live.
type Employee struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DepartmentID *uuid.UUID `gorm:"type:uuid;index"`
	FullName     string     `gorm:"type:varchar(120);not null"`
	Email        string     `gorm:"type:varchar(255);not null;uniqueIndex:uq_employee_email"`
	// MonthlySalary is in whole currency units.
	MonthlySalary int64 `gorm:"type:bigint;not null;default:0"`
	IsActive      bool  `gorm:"not null;default:true;index"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (Employee) TableName() string {
	return "employees"
}
