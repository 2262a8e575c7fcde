package payment

import (
	"time"

	ierr "github.com/flexprice/paymirror/internal/errors"
	"github.com/flexprice/paymirror/internal/types"
	"github.com/shopspring/decimal"
)

// Payment mirrors a provider one-off payment
type Payment struct {
	ID                string      `db:"id" json:"id"`
	ProviderID        string      `db:"provider_id" json:"provider_id"`
	ClientID          *string     `db:"client_id" json:"client_id,omitempty"`
	Intent            string      `db:"intent" json:"intent"`
	State             string      `db:"state" json:"state"`
	PaymentMethod     string      `db:"payment_method" json:"payment_method"`
	NoteToPayer       *string     `db:"note_to_payer" json:"note_to_payer,omitempty"`
	ApprovalURL       *string     `db:"approval_url" json:"approval_url,omitempty"`
	ReturnURL         *string     `db:"return_url" json:"return_url,omitempty"`
	CancelURL         *string     `db:"cancel_url" json:"cancel_url,omitempty"`
	ProviderCreatedAt *time.Time  `db:"provider_created_at" json:"provider_created_at,omitempty"`
	ProviderUpdatedAt *time.Time  `db:"provider_updated_at" json:"provider_updated_at,omitempty"`
	RawPayload        types.JSONB `db:"raw_payload" json:"-"`

	Transactions []*Transaction `db:"-" json:"transactions,omitempty"`

	types.BaseModel
}

// Transaction is one purchase unit of a payment
type Transaction struct {
	ID             string           `db:"id" json:"id"`
	PaymentID      string           `db:"payment_id" json:"payment_id"`
	AmountValue    *decimal.Decimal `db:"amount_value" json:"amount_value,omitempty"`
	AmountCurrency *string          `db:"amount_currency" json:"amount_currency,omitempty"`
	AmountDetails  types.JSONB      `db:"amount_details" json:"amount_details,omitempty"`
	Description    *string          `db:"description" json:"description,omitempty"`
	Custom         *string          `db:"custom" json:"custom,omitempty"`
	InvoiceNumber  *string          `db:"invoice_number" json:"invoice_number,omitempty"`
	SoftDescriptor *string          `db:"soft_descriptor" json:"soft_descriptor,omitempty"`
	ItemList       types.JSONB      `db:"item_list" json:"item_list,omitempty"`
	RawPayload     types.JSONB      `db:"raw_payload" json:"-"`

	types.BaseModel
}

const DefaultPaymentMethod = "paypal"

func (p *Payment) Validate() error {
	if p.ProviderID == "" {
		return ierr.NewError("payment id is missing").
			WithHint("Payment body must carry an id").
			Mark(ierr.ErrMalformedPayload)
	}
	return nil
}

// InheritIdentity keeps the local identity of prev. Redirect and approval
// urls are only returned on creation so they survive later bodies.
func (p *Payment) InheritIdentity(prev *Payment) {
	p.ID = prev.ID
	p.ProviderID = prev.ProviderID
	p.CreatedAt = prev.CreatedAt
	if p.ClientID == nil {
		p.ClientID = prev.ClientID
	}
	if p.ApprovalURL == nil {
		p.ApprovalURL = prev.ApprovalURL
	}
	if p.ReturnURL == nil {
		p.ReturnURL = prev.ReturnURL
	}
	if p.CancelURL == nil {
		p.CancelURL = prev.CancelURL
	}
	if p.NoteToPayer == nil {
		p.NoteToPayer = prev.NoteToPayer
	}
}
