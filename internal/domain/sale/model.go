package sale

import (
	"time"

	ierr "github.com/flexprice/paymirror/internal/errors"
	"github.com/flexprice/paymirror/internal/types"
	"github.com/shopspring/decimal"
)

// Sale mirrors a completed provider transaction. It belongs to either an
// agreement (recurring charge) or a payment (one-off charge), never both.
type Sale struct {
	ID                     string           `db:"id" json:"id"`
	ProviderID             string           `db:"provider_id" json:"provider_id"`
	State                  string           `db:"state" json:"state"`
	AmountValue            *decimal.Decimal `db:"amount_value" json:"amount_value,omitempty"`
	AmountCurrency         *string          `db:"amount_currency" json:"amount_currency,omitempty"`
	TransactionFeeValue    *decimal.Decimal `db:"transaction_fee_value" json:"transaction_fee_value,omitempty"`
	TransactionFeeCurrency *string          `db:"transaction_fee_currency" json:"transaction_fee_currency,omitempty"`
	PaymentMode            *string          `db:"payment_mode" json:"payment_mode,omitempty"`
	ReasonCode             *string          `db:"reason_code" json:"reason_code,omitempty"`
	ProtectionEligibility  *string          `db:"protection_eligibility" json:"protection_eligibility,omitempty"`
	ProtectionEligibleType *string          `db:"protection_eligibility_type" json:"protection_eligibility_type,omitempty"`

	// Linkage as declared by the provider
	BillingAgreementRef *string `db:"billing_agreement_ref" json:"billing_agreement_id,omitempty"`
	ParentPaymentRef    *string `db:"parent_payment_ref" json:"parent_payment,omitempty"`
	// Local parent, exactly one is set
	AgreementID *string `db:"agreement_id" json:"agreement_local_id,omitempty"`
	PaymentID   *string `db:"payment_id" json:"payment_local_id,omitempty"`

	ProviderCreatedAt *time.Time  `db:"provider_created_at" json:"provider_created_at,omitempty"`
	ProviderUpdatedAt *time.Time  `db:"provider_updated_at" json:"provider_updated_at,omitempty"`
	RawPayload        types.JSONB `db:"raw_payload" json:"-"`

	types.BaseModel
}

func (s *Sale) Validate() error {
	if s.ProviderID == "" {
		return ierr.NewError("sale id is missing").
			WithHint("Sale body must carry an id").
			Mark(ierr.ErrMalformedPayload)
	}
	if s.BillingAgreementRef == nil && s.ParentPaymentRef == nil {
		return ierr.NewError("sale declares no parent").
			WithHint("Sale body must carry billing_agreement_id or parent_payment").
			WithReportableDetails(map[string]any{"sale_id": s.ProviderID}).
			Mark(ierr.ErrMalformedPayload)
	}
	return nil
}

func (s *Sale) InheritIdentity(prev *Sale) {
	s.ID = prev.ID
	s.ProviderID = prev.ProviderID
	s.CreatedAt = prev.CreatedAt
}
