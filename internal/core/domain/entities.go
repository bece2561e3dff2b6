package domain

// Role represents a principal's role in the system
type Role string

const (
	RoleUser     Role = "user"
	RoleEmployee Role = "employee"
	RoleAdmin    Role = "admin"
)

// ValidStaff reports whether r is a staff role that can be stored on an employee
func (r Role) ValidStaff() bool {
	return r == RoleEmployee || r == RoleAdmin
}

// PaymentStatus is the lifecycle state of a payment
type PaymentStatus string

const (
	StatusPending   PaymentStatus = "pending"
	StatusApproved  PaymentStatus = "approved"
	StatusDenied    PaymentStatus = "denied"
	StatusCompleted PaymentStatus = "completed"
	StatusFailed    PaymentStatus = "failed"
	StatusRefunded  PaymentStatus = "refunded"
)

// AllStatuses lists every payment status
var AllStatuses = []PaymentStatus{
	StatusPending, StatusApproved, StatusDenied,
	StatusCompleted, StatusFailed, StatusRefunded,
}

// PaymentMethod enumerates accepted payment methods
type PaymentMethod string

const (
	MethodCreditCard   PaymentMethod = "credit_card"
	MethodDebitCard    PaymentMethod = "debit_card"
	MethodBankTransfer PaymentMethod = "bank_transfer"
	MethodPayPal       PaymentMethod = "paypal"
	MethodSwift        PaymentMethod = "swift"
)

// DefaultCurrency is used when a payment omits its currency
const DefaultCurrency = "USD"

// Actor identifies which workflow is driving a status change
type Actor string

const (
	ActorStaff Actor = "staff"
	ActorOwner Actor = "owner"
)

// ProcessAction is a staff decision on a pending payment
type ProcessAction string

const (
	ActionApprove ProcessAction = "approve"
	ActionDeny    ProcessAction = "deny"
)

// Target returns the status an action moves a payment to
func (a ProcessAction) Target() (PaymentStatus, bool) {
	switch a {
	case ActionApprove:
		return StatusApproved, true
	case ActionDeny:
		return StatusDenied, true
	}
	return "", false
}

// transitions is the single table both workflows consult.
// Staff decide pending payments; owners settle or refund them.
var transitions = map[Actor]map[PaymentStatus][]PaymentStatus{
	ActorStaff: {
		StatusPending: {StatusApproved, StatusDenied},
	},
	ActorOwner: {
		StatusPending:   {StatusCompleted, StatusFailed, StatusRefunded},
		StatusApproved:  {StatusCompleted, StatusFailed},
		StatusCompleted: {StatusRefunded},
	},
}

// CanTransition reports whether actor may move a payment from -> to
func CanTransition(actor Actor, from, to PaymentStatus) bool {
	for _, allowed := range transitions[actor][from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// SourcesFor returns the statuses from which actor may reach to, in
// AllStatuses order
func SourcesFor(actor Actor, to PaymentStatus) []PaymentStatus {
	var out []PaymentStatus
	for _, from := range AllStatuses {
		if CanTransition(actor, from, to) {
			out = append(out, from)
		}
	}
	return out
}
