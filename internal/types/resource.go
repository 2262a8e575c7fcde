package types

import (
	"strings"

	"github.com/samber/lo"
)

// ResourceKind is the closed set of provider resources mirrored locally
type ResourceKind string

const (
	ResourceKindPlan          ResourceKind = "plan"
	ResourceKindAgreement     ResourceKind = "agreement"
	ResourceKindPayment       ResourceKind = "payment"
	ResourceKindSale          ResourceKind = "sale"
	ResourceKindAuthorization ResourceKind = "authorization"
	ResourceKindCapture       ResourceKind = "capture"
	ResourceKindRefund        ResourceKind = "refund"
)

// NotificationKinds are the kinds a provider notification may carry.
// Payments only change through the synchronous create/execute flows.
var NotificationKinds = []ResourceKind{
	ResourceKindPlan,
	ResourceKindAgreement,
	ResourceKindSale,
	ResourceKindAuthorization,
	ResourceKindCapture,
	ResourceKindRefund,
}

// ParseNotificationKind lower-cases raw and matches it against NotificationKinds
func ParseNotificationKind(raw string) (ResourceKind, bool) {
	kind := ResourceKind(strings.ToLower(strings.TrimSpace(raw)))
	return kind, lo.Contains(NotificationKinds, kind)
}

func (k ResourceKind) String() string {
	return string(k)
}

// Plan states
const (
	PlanStateCreated  = "CREATED"
	PlanStateActive   = "ACTIVE"
	PlanStateInactive = "INACTIVE"
	PlanStateDeleted  = "DELETED"
)

// Agreement states
const (
	AgreementStateCreated     = "Created"
	AgreementStatePending     = "Pending"
	AgreementStateActive      = "Active"
	AgreementStateSuspended   = "Suspended"
	AgreementStateReactivated = "Reactivated"
	AgreementStateCancelled   = "Cancelled"
	AgreementStateCompleted   = "Completed"
)

// Payment states
const (
	PaymentStateCreated  = "created"
	PaymentStateApproved = "approved"
	PaymentStateFailed   = "failed"
)

// Sale states
const (
	SaleStateCompleted        = "completed"
	SaleStatePartiallyRefused = "partially_refused"
	SaleStatePending          = "pending"
	SaleStateRefunded         = "refunded"
	SaleStateDenied           = "denied"
)

// Authorization states
const (
	AuthorizationStateCreated    = "created"
	AuthorizationStateAuthorized = "authorized"
	AuthorizationStateCaptured   = "captured"
	AuthorizationStateExpired    = "expired"
	AuthorizationStateVoided     = "voided"
)

// Capture states
const (
	CaptureStateCompleted = "completed"
	CaptureStatePending   = "pending"
	CaptureStateRefunded  = "refunded"
)

// Refund states
const (
	RefundStatePending   = "pending"
	RefundStateCompleted = "completed"
	RefundStateFailed    = "failed"
)

var terminalStates = map[ResourceKind][]string{
	ResourceKindPlan:      {strings.ToLower(PlanStateDeleted)},
	ResourceKindAgreement: {strings.ToLower(AgreementStateCancelled), strings.ToLower(AgreementStateCompleted)},
}

// IsTerminalState reports whether state is final for kind. Provider casing varies so the match is case-insensitive.
func IsTerminalState(kind ResourceKind, state string) bool {
	return lo.Contains(terminalStates[kind], strings.ToLower(state))
}

// SameState compares provider state labels ignoring case
func SameState(a, b string) bool {
	return strings.EqualFold(a, b)
}
