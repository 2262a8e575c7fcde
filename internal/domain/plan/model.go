package plan

import (
	"time"

	ierr "github.com/flexprice/paymirror/internal/errors"
	"github.com/flexprice/paymirror/internal/types"
	"github.com/shopspring/decimal"
)

// Plan mirrors a provider billing plan
type Plan struct {
	ID                string           `db:"id" json:"id"`
	ProviderID        string           `db:"provider_id" json:"provider_id"`
	ClientID          *string          `db:"client_id" json:"client_id,omitempty"`
	Name              string           `db:"name" json:"name"`
	Description       string           `db:"description" json:"description"`
	Type              string           `db:"type" json:"type"`
	State             string           `db:"state" json:"state"`
	SetupFeeValue     *decimal.Decimal `db:"setup_fee_value" json:"setup_fee_value,omitempty"`
	SetupFeeCurrency  *string          `db:"setup_fee_currency" json:"setup_fee_currency,omitempty"`
	ReturnURL         *string          `db:"return_url" json:"return_url,omitempty"`
	CancelURL         *string          `db:"cancel_url" json:"cancel_url,omitempty"`
	NotifyURL         *string          `db:"notify_url" json:"notify_url,omitempty"`
	ProviderCreatedAt *time.Time       `db:"provider_created_at" json:"provider_created_at,omitempty"`
	ProviderUpdatedAt *time.Time       `db:"provider_updated_at" json:"provider_updated_at,omitempty"`
	RawPayload        types.JSONB      `db:"raw_payload" json:"-"`

	// Definitions as carried by the body this plan was projected from.
	// Persisted separately through the repository.
	Definitions []*PaymentDefinition `db:"-" json:"payment_definitions,omitempty"`

	types.BaseModel
}

// PaymentDefinition is one billing cycle definition of a plan (trial or regular)
type PaymentDefinition struct {
	ID                string           `db:"id" json:"id"`
	PlanID            string           `db:"plan_id" json:"plan_id"`
	DefinitionID      string           `db:"definition_id" json:"definition_id"`
	Name              string           `db:"name" json:"name"`
	Type              string           `db:"type" json:"type"`
	Frequency         string           `db:"frequency" json:"frequency"`
	FrequencyInterval *int             `db:"frequency_interval" json:"frequency_interval,omitempty"`
	Cycles            *int             `db:"cycles" json:"cycles,omitempty"`
	ChargeModels      types.JSONB      `db:"charge_models" json:"charge_models,omitempty"`
	AmountValue       *decimal.Decimal `db:"amount_value" json:"amount_value,omitempty"`
	AmountCurrency    *string          `db:"amount_currency" json:"amount_currency,omitempty"`
	RawPayload        types.JSONB      `db:"raw_payload" json:"-"`

	types.BaseModel
}

func (p *Plan) Validate() error {
	if p.ProviderID == "" {
		return ierr.NewError("plan id is missing").
			WithHint("Plan body must carry an id").
			Mark(ierr.ErrMalformedPayload)
	}
	for _, d := range p.Definitions {
		if d.DefinitionID == "" {
			return ierr.NewError("payment definition id is missing").
				WithHint("Every payment definition must carry an id").
				WithReportableDetails(map[string]any{"plan_id": p.ProviderID}).
				Mark(ierr.ErrMalformedPayload)
		}
	}
	return nil
}

// InheritIdentity keeps the local identity of prev on a freshly projected plan
// so that saving p overwrites only the mutable fields.
func (p *Plan) InheritIdentity(prev *Plan) {
	p.ID = prev.ID
	p.ProviderID = prev.ProviderID
	p.CreatedAt = prev.CreatedAt
	if p.ClientID == nil {
		p.ClientID = prev.ClientID
	}
}

func (d *PaymentDefinition) InheritIdentity(prev *PaymentDefinition) {
	d.ID = prev.ID
	d.PlanID = prev.PlanID
	d.DefinitionID = prev.DefinitionID
	d.CreatedAt = prev.CreatedAt
}
