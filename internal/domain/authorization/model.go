package authorization

import (
	"time"

	ierr "github.com/flexprice/paymirror/internal/errors"
	"github.com/flexprice/paymirror/internal/types"
	"github.com/shopspring/decimal"
)

// Authorization mirrors a provider hold on funds for a payment
type Authorization struct {
	ID                     string           `db:"id" json:"id"`
	ProviderID             string           `db:"provider_id" json:"provider_id"`
	State                  string           `db:"state" json:"state"`
	AmountValue            *decimal.Decimal `db:"amount_value" json:"amount_value,omitempty"`
	AmountCurrency         *string          `db:"amount_currency" json:"amount_currency,omitempty"`
	PaymentMode            *string          `db:"payment_mode" json:"payment_mode,omitempty"`
	ReasonCode             *string          `db:"reason_code" json:"reason_code,omitempty"`
	ProtectionEligibility  *string          `db:"protection_eligibility" json:"protection_eligibility,omitempty"`
	ProtectionEligibleType *string          `db:"protection_eligibility_type" json:"protection_eligibility_type,omitempty"`
	ParentPaymentRef       *string          `db:"parent_payment_ref" json:"parent_payment,omitempty"`
	PaymentID              string           `db:"payment_id" json:"payment_local_id"`
	ValidUntil             *time.Time       `db:"valid_until" json:"valid_until,omitempty"`
	ProviderCreatedAt      *time.Time       `db:"provider_created_at" json:"provider_created_at,omitempty"`
	ProviderUpdatedAt      *time.Time       `db:"provider_updated_at" json:"provider_updated_at,omitempty"`
	RawPayload             types.JSONB      `db:"raw_payload" json:"-"`

	types.BaseModel
}

func (a *Authorization) Validate() error {
	if a.ProviderID == "" {
		return ierr.NewError("authorization id is missing").
			WithHint("Authorization body must carry an id").
			Mark(ierr.ErrMalformedPayload)
	}
	if a.ParentPaymentRef == nil {
		return ierr.NewError("authorization declares no parent payment").
			WithHint("Authorization body must carry parent_payment").
			WithReportableDetails(map[string]any{"authorization_id": a.ProviderID}).
			Mark(ierr.ErrMalformedPayload)
	}
	return nil
}

// EffectiveState is the recorded state, or expired once valid_until has passed
func (a *Authorization) EffectiveState(now time.Time) string {
	if a.ValidUntil != nil && now.After(*a.ValidUntil) {
		return types.AuthorizationStateExpired
	}
	return a.State
}

func (a *Authorization) InheritIdentity(prev *Authorization) {
	a.ID = prev.ID
	a.ProviderID = prev.ProviderID
	a.CreatedAt = prev.CreatedAt
}
