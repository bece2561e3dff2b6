// Package policy resolves what each role may do. Routes ask for a capability
// instead of listing roles.
package policy

import "paysecure/internal/core/domain"

// Capability is a permission checked by the role gate
type Capability string

const (
	ProcessPayments    Capability = "process_payments"
	ViewPaymentHistory Capability = "view_payment_history"
	ManageEmployees    Capability = "manage_employees"
)

var grants = map[domain.Role]map[Capability]bool{
	domain.RoleEmployee: {
		ProcessPayments:    true,
		ViewPaymentHistory: true,
	},
	domain.RoleAdmin: {
		ProcessPayments:    true,
		ViewPaymentHistory: true,
		ManageEmployees:    true,
	},
}

// Allows reports whether role holds capability
func Allows(role domain.Role, capability Capability) bool {
	return grants[role][capability]
}

// IsSuperAdmin reports whether a staff record is the super admin: an admin
// with no creator.
func IsSuperAdmin(role domain.Role, createdBy *uint) bool {
	return role == domain.RoleAdmin && createdBy == nil
}

// CanGrantRole reports whether an actor may create an employee with role
func CanGrantRole(actorRole domain.Role, actorCreatedBy *uint, role domain.Role) bool {
	switch role {
	case domain.RoleEmployee:
		return Allows(actorRole, ManageEmployees)
	case domain.RoleAdmin:
		return IsSuperAdmin(actorRole, actorCreatedBy)
	}
	return false
}
