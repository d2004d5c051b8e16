package domain

const (
	RoleEmployee   = "employee"
	RoleAdmin      = "admin"
	RoleSuperadmin = "superadmin"
)

// Actor is the authenticated caller as extracted from the JWT claims.
type Actor struct {
	UserID     string
	EmployeeID string
	Role       string
}

func (a Actor) IsSuperadmin() bool {
	return a.Role == RoleSuperadmin
}

// IsPayrollAdmin reports whether the actor may run payroll mutations at all.
func (a Actor) IsPayrollAdmin() bool {
	return a.Role == RoleAdmin || a.Role == RoleSuperadmin
}
