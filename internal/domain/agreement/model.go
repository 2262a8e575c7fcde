package agreement

import (
	"time"

	ierr "github.com/flexprice/paymirror/internal/errors"
	"github.com/flexprice/paymirror/internal/types"
)

// Agreement mirrors a provider billing agreement. Before execution it is
// addressable only by PaymentToken; execution assigns ProviderID once.
type Agreement struct {
	ID                 string      `db:"id" json:"id"`
	ProviderID         *string     `db:"provider_id" json:"provider_id,omitempty"`
	PaymentToken       *string     `db:"payment_token" json:"payment_token,omitempty"`
	ClientID           *string     `db:"client_id" json:"client_id,omitempty"`
	PlanID             string      `db:"plan_id" json:"plan_id"`
	Name               string      `db:"name" json:"name"`
	Description        string      `db:"description" json:"description"`
	State              string      `db:"state" json:"state"`
	PaymentMethod      *string     `db:"payment_method" json:"payment_method,omitempty"`
	PayerID            *string     `db:"payer_id" json:"payer_id,omitempty"`
	PayerEmail         *string     `db:"payer_email" json:"payer_email,omitempty"`
	PayerStatus        *string     `db:"payer_status" json:"payer_status,omitempty"`
	CyclesCompleted    *int        `db:"cycles_completed" json:"cycles_completed,omitempty"`
	CyclesRemaining    *int        `db:"cycles_remaining" json:"cycles_remaining,omitempty"`
	FailedPaymentCount *int        `db:"failed_payment_count" json:"failed_payment_count,omitempty"`
	StartDate          *time.Time  `db:"start_date" json:"start_date,omitempty"`
	RawPayload         types.JSONB `db:"raw_payload" json:"-"`
	// SupersededBy is set on a pending record whose identity was merged into
	// an executed record. Such a record is no longer addressable.
	SupersededBy *string `db:"superseded_by" json:"superseded_by,omitempty"`

	// PlanProviderID is the plan reference carried by the body, resolved to PlanID on write
	PlanProviderID *string `db:"-" json:"-"`

	types.BaseModel
}

// IsSuperseded reports whether another record took over this one
func (a *Agreement) IsSuperseded() bool {
	return a.SupersededBy != nil
}

// IsExecuted reports whether the provider has assigned the post-execution id
func (a *Agreement) IsExecuted() bool {
	return a.ProviderID != nil && *a.ProviderID != ""
}

// Validate checks a body projected for the executed phase
func (a *Agreement) Validate() error {
	if !a.IsExecuted() {
		return ierr.NewError("agreement id is missing").
			WithHint("Agreement body must carry an id").
			Mark(ierr.ErrMalformedPayload)
	}
	return nil
}

// ValidatePending checks a body returned by agreement creation
func (a *Agreement) ValidatePending() error {
	if a.PaymentToken == nil || *a.PaymentToken == "" {
		return ierr.NewError("agreement payment token is missing").
			WithHint("Agreement creation response carries no approval token").
			Mark(ierr.ErrMalformedPayload)
	}
	return nil
}

// InheritIdentity keeps the local identity of prev. The payment token and
// plan linkage survive bodies that omit them.
func (a *Agreement) InheritIdentity(prev *Agreement) {
	a.ID = prev.ID
	a.CreatedAt = prev.CreatedAt
	if prev.IsExecuted() {
		a.ProviderID = prev.ProviderID
	}
	if a.PaymentToken == nil {
		a.PaymentToken = prev.PaymentToken
	}
	if a.ClientID == nil {
		a.ClientID = prev.ClientID
	}
	if a.PlanID == "" {
		a.PlanID = prev.PlanID
	}
}
