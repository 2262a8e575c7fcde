package capture

import (
	"time"

	ierr "github.com/flexprice/paymirror/internal/errors"
	"github.com/flexprice/paymirror/internal/types"
	"github.com/shopspring/decimal"
)

// Capture mirrors funds captured against an authorization
type Capture struct {
	ID                     string           `db:"id" json:"id"`
	ProviderID             string           `db:"provider_id" json:"provider_id"`
	State                  string           `db:"state" json:"state"`
	AmountValue            *decimal.Decimal `db:"amount_value" json:"amount_value,omitempty"`
	AmountCurrency         *string          `db:"amount_currency" json:"amount_currency,omitempty"`
	IsFinalCapture         bool             `db:"is_final_capture" json:"is_final_capture"`
	ReasonCode             *string          `db:"reason_code" json:"reason_code,omitempty"`
	TransactionFeeValue    *decimal.Decimal `db:"transaction_fee_value" json:"transaction_fee_value,omitempty"`
	TransactionFeeCurrency *string          `db:"transaction_fee_currency" json:"transaction_fee_currency,omitempty"`

	AuthorizationRef *string `db:"authorization_ref" json:"authorization_id,omitempty"`
	ParentPaymentRef *string `db:"parent_payment_ref" json:"parent_payment,omitempty"`
	AuthorizationID  *string `db:"authorization_id" json:"authorization_local_id,omitempty"`
	PaymentID        *string `db:"payment_id" json:"payment_local_id,omitempty"`

	ProviderCreatedAt *time.Time  `db:"provider_created_at" json:"provider_created_at,omitempty"`
	ProviderUpdatedAt *time.Time  `db:"provider_updated_at" json:"provider_updated_at,omitempty"`
	RawPayload        types.JSONB `db:"raw_payload" json:"-"`

	types.BaseModel
}

func (c *Capture) Validate() error {
	if c.ProviderID == "" {
		return ierr.NewError("capture id is missing").
			WithHint("Capture body must carry an id").
			Mark(ierr.ErrMalformedPayload)
	}
	if c.AuthorizationRef == nil && c.ParentPaymentRef == nil {
		return ierr.NewError("capture declares no parent").
			WithHint("Capture body must link its authorization or carry parent_payment").
			WithReportableDetails(map[string]any{"capture_id": c.ProviderID}).
			Mark(ierr.ErrMalformedPayload)
	}
	return nil
}

func (c *Capture) InheritIdentity(prev *Capture) {
	c.ID = prev.ID
	c.ProviderID = prev.ProviderID
	c.CreatedAt = prev.CreatedAt
}
