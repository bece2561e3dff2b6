package policy

import (
	"testing"

	"paysecure/internal/core/domain"
)

func TestAllows(t *testing.T) {
	cases := []struct {
		role domain.Role
		cap  Capability
		want bool
	}{
		{domain.RoleEmployee, ProcessPayments, true},
		{domain.RoleEmployee, ViewPaymentHistory, true},
		{domain.RoleEmployee, ManageEmployees, false},
		{domain.RoleAdmin, ProcessPayments, true},
		{domain.RoleAdmin, ManageEmployees, true},
		{domain.RoleUser, ProcessPayments, false},
		{domain.Role(""), ProcessPayments, false},
	}
	for _, tc := range cases {
		if got := Allows(tc.role, tc.cap); got != tc.want {
			t.Errorf("Allows(%q, %s) = %v, want %v", tc.role, tc.cap, got, tc.want)
		}
	}
}

func TestSuperAdminAndGrants(t *testing.T) {
	creator := uint(1)

	if !IsSuperAdmin(domain.RoleAdmin, nil) {
		t.Error("admin without creator is the super admin")
	}
	if IsSuperAdmin(domain.RoleAdmin, &creator) {
		t.Error("created admin is not the super admin")
	}
	if IsSuperAdmin(domain.RoleEmployee, nil) {
		t.Error("employees are never super admin")
	}

	if !CanGrantRole(domain.RoleAdmin, nil, domain.RoleAdmin) {
		t.Error("super admin may grant admin")
	}
	if CanGrantRole(domain.RoleAdmin, &creator, domain.RoleAdmin) {
		t.Error("regular admin may not grant admin")
	}
	if !CanGrantRole(domain.RoleAdmin, &creator, domain.RoleEmployee) {
		t.Error("regular admin may grant employee")
	}
	if CanGrantRole(domain.RoleEmployee, nil, domain.RoleEmployee) {
		t.Error("employees may not create staff")
	}
	if CanGrantRole(domain.RoleAdmin, nil, domain.Role("root")) {
		t.Error("unknown roles are never granted")
	}
}
