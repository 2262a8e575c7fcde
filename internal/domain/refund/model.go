package refund

import (
	"time"

	ierr "github.com/flexprice/paymirror/internal/errors"
	"github.com/flexprice/paymirror/internal/types"
	"github.com/shopspring/decimal"
)

// Refund mirrors money returned against a sale or a capture
type Refund struct {
	ID             string           `db:"id" json:"id"`
	ProviderID     string           `db:"provider_id" json:"provider_id"`
	State          string           `db:"state" json:"state"`
	AmountValue    *decimal.Decimal `db:"amount_value" json:"amount_value,omitempty"`
	AmountCurrency *string          `db:"amount_currency" json:"amount_currency,omitempty"`
	Description    *string          `db:"description" json:"description,omitempty"`
	Reason         *string          `db:"reason" json:"reason,omitempty"`
	InvoiceNumber  *string          `db:"invoice_number" json:"invoice_number,omitempty"`
	Custom         *string          `db:"custom" json:"custom,omitempty"`

	SaleRef          *string `db:"sale_ref" json:"sale_id,omitempty"`
	CaptureRef       *string `db:"capture_ref" json:"capture_id,omitempty"`
	ParentPaymentRef *string `db:"parent_payment_ref" json:"parent_payment,omitempty"`
	SaleID           *string `db:"sale_id" json:"sale_local_id,omitempty"`
	CaptureID        *string `db:"capture_id" json:"capture_local_id,omitempty"`

	ProviderCreatedAt *time.Time  `db:"provider_created_at" json:"provider_created_at,omitempty"`
	ProviderUpdatedAt *time.Time  `db:"provider_updated_at" json:"provider_updated_at,omitempty"`
	RawPayload        types.JSONB `db:"raw_payload" json:"-"`

	types.BaseModel
}

func (r *Refund) Validate() error {
	if r.ProviderID == "" {
		return ierr.NewError("refund id is missing").
			WithHint("Refund body must carry an id").
			Mark(ierr.ErrMalformedPayload)
	}
	if r.SaleRef == nil && r.CaptureRef == nil {
		return ierr.NewError("refund declares no parent").
			WithHint("Refund body must carry sale_id or capture_id").
			WithReportableDetails(map[string]any{"refund_id": r.ProviderID}).
			Mark(ierr.ErrMalformedPayload)
	}
	return nil
}

func (r *Refund) InheritIdentity(prev *Refund) {
	r.ID = prev.ID
	r.ProviderID = prev.ProviderID
	r.CreatedAt = prev.CreatedAt
}
