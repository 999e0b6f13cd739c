package models

type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   interface{} `json:"error,omitempty"`
}

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleCoach    Role = "coach"
	RoleCustomer Role = "customer"
)

// DemoStatus values are persisted verbatim; dashboards filter on the exact
// strings, so case and underscores are significant.
type DemoStatus string

const (
	DemoPending        DemoStatus = "PENDING"
	DemoScheduled      DemoStatus = "SCHEDULED"
	DemoAttended       DemoStatus = "ATTENDED"
	DemoNoShow         DemoStatus = "NO_SHOW"
	DemoInterested     DemoStatus = "INTERESTED"
	DemoPaymentPending DemoStatus = "PAYMENT_PENDING"
	DemoConverted      DemoStatus = "CONVERTED"
	DemoRejected       DemoStatus = "REJECTED"
)

// Terminal reports whether a demo in this status can still move.
func (s DemoStatus) Terminal() bool {
	switch s {
	case DemoNoShow, DemoConverted, DemoRejected:
		return true
	}
	return false
}

type DemoOutcome string

const (
	OutcomeAttended   DemoOutcome = "ATTENDED"
	OutcomeNoShow     DemoOutcome = "NO_SHOW"
	OutcomeInterested DemoOutcome = "INTERESTED"
	OutcomeRejected   DemoOutcome = "REJECTED"
)

// StatusForOutcome maps a judged outcome onto the demo status it produces.
func StatusForOutcome(o DemoOutcome) (DemoStatus, bool) {
	switch o {
	case OutcomeAttended:
		return DemoAttended, true
	case OutcomeNoShow:
		return DemoNoShow, true
	case OutcomeInterested:
		return DemoInterested, true
	case OutcomeRejected:
		return DemoRejected, true
	}
	return "", false
}

type BillingCycle string

const (
	BillingMonthly   BillingCycle = "MONTHLY"
	BillingQuarterly BillingCycle = "QUARTERLY"
	BillingYearly    BillingCycle = "YEARLY"
)

const (
	StudentActive       = "ACTIVE"
	StudentSourceDemo   = "DEMO_CONVERSION"
	SubscriptionActive  = "ACTIVE"
	SubscriptionPending = "PENDING_APPROVAL"
	ApplicationPending  = "PENDING"
	ApplicationApproved = "APPROVED"
	PaymentUnverified   = "PENDING_VERIFICATION"
	PaymentVerified     = "VERIFIED"
	ContactInquiryNew   = "NEW"
)
