package rbac

import (
	"go-empms/internal/domain"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

// grants is the static permission table. Roles are a fixed enum, so the
// policy ships with the binary instead of living in the database.
var grants = []struct {
	role     string
	resource string
	action   string
}{
	{domain.RoleEmployee, "payroll", "read"},
	{domain.RoleEmployee, "attendance", "clock"},
	{domain.RoleEmployee, "attendance", "read"},
	{domain.RoleEmployee, "leave", "create"},
	{domain.RoleEmployee, "leave", "read"},
	{domain.RoleEmployee, "employee", "read"},

	{domain.RoleAdmin, "payroll", "process"},
	{domain.RoleAdmin, "payroll", "adjust"},
	{domain.RoleAdmin, "payroll", "finalize"},
	{domain.RoleAdmin, "payroll", "pay"},
	{domain.RoleAdmin, "payroll", "stats"},
	{domain.RoleAdmin, "employee", "create"},
	{domain.RoleAdmin, "employee", "update"},
	{domain.RoleAdmin, "department", "create"},
	{domain.RoleAdmin, "department", "read"},
	{domain.RoleAdmin, "leave", "approve"},
}

// roleInheritance: each role also holds every grant of the role it extends.
var roleInheritance = [][2]string{
	{domain.RoleAdmin, domain.RoleEmployee},
	{domain.RoleSuperadmin, domain.RoleAdmin},
}

// NewEnforcer builds a casbin enforcer preloaded with the static policy.
func NewEnforcer() (*casbin.Enforcer, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, err
	}

	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	for _, g := range grants {
		if _, err := e.AddPolicy(g.role, g.resource, g.action); err != nil {
			return nil, err
		}
	}
	for _, inh := range roleInheritance {
		if _, err := e.AddGroupingPolicy(inh[0], inh[1]); err != nil {
			return nil, err
		}
	}

	return e, nil
}
