package projection

import (
	"github.com/flexprice/paymirror/internal/domain/plan"
	"github.com/flexprice/paymirror/internal/types"
	jsoniter "github.com/json-iterator/go"
)

// Plan projects a billing plan body including its payment definitions
func Plan(raw []byte) (*plan.Plan, error) {
	body, err := object(raw, types.ResourceKindPlan)
	if err != nil {
		return nil, err
	}

	prefs := body.Get("merchant_preferences")
	setupFee, setupCurrency := money(prefs.Get("setup_fee"), "value")

	p := &plan.Plan{
		ProviderID:        str(body.Get("id")),
		Name:              str(body.Get("name")),
		Description:       str(body.Get("description")),
		Type:              str(body.Get("type")),
		State:             str(body.Get("state")),
		SetupFeeValue:     setupFee,
		SetupFeeCurrency:  setupCurrency,
		ReturnURL:         optStr(prefs.Get("return_url")),
		CancelURL:         optStr(prefs.Get("cancel_url")),
		NotifyURL:         optStr(prefs.Get("notify_url")),
		ProviderCreatedAt: optTime(body.Get("create_time")),
		ProviderUpdatedAt: optTime(body.Get("update_time")),
		RawPayload:        types.JSONB(raw),
	}

	each(body.Get("payment_definitions"), func(item jsoniter.Any) {
		p.Definitions = append(p.Definitions, paymentDefinition(item))
	})

	return p, nil
}

func paymentDefinition(item jsoniter.Any) *plan.PaymentDefinition {
	value, currency := money(item.Get("amount"), "value")
	return &plan.PaymentDefinition{
		DefinitionID:      str(item.Get("id")),
		Name:              str(item.Get("name")),
		Type:              str(item.Get("type")),
		Frequency:         str(item.Get("frequency")),
		FrequencyInterval: optInt(item.Get("frequency_interval")),
		Cycles:            optInt(item.Get("cycles")),
		ChargeModels:      rawJSON(item.Get("charge_models")),
		AmountValue:       value,
		AmountCurrency:    currency,
		RawPayload:        rawJSON(item),
	}
}
