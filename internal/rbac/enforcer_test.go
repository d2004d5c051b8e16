package rbac

import (
	"testing"

	"go-empms/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestNewEnforcer_Grants(t *testing.T) {
	e, err := NewEnforcer()
	assert.NoError(t, err)

	cases := []struct {
		name     string
		role     string
		resource string
		action   string
		allowed  bool
	}{
		{"employee reads own payroll surface", domain.RoleEmployee, "payroll", "read", true},
		{"employee cannot process payroll", domain.RoleEmployee, "payroll", "process", false},
		{"employee cannot approve leave", domain.RoleEmployee, "leave", "approve", false},
		{"admin processes payroll", domain.RoleAdmin, "payroll", "process", true},
		{"admin finalizes payroll", domain.RoleAdmin, "payroll", "finalize", true},
		{"admin inherits employee grants", domain.RoleAdmin, "attendance", "clock", true},
		{"superadmin inherits admin grants", domain.RoleSuperadmin, "payroll", "adjust", true},
		{"superadmin inherits employee grants", domain.RoleSuperadmin, "leave", "read", true},
		{"unknown role gets nothing", "auditor", "payroll", "read", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			allowed, err := e.Enforce(tc.role, tc.resource, tc.action)
			assert.NoError(t, err)
			assert.Equal(t, tc.allowed, allowed)
		})
	}
}
