package projection

import (
	"github.com/flexprice/paymirror/internal/domain/agreement"
	"github.com/flexprice/paymirror/internal/types"
	"github.com/samber/lo"
)

const relApprovalURL = "approval_url"

// Agreement projects a billing agreement body. Creation responses carry no
// id yet; their approval link yields the payment token instead.
func Agreement(raw []byte) (*agreement.Agreement, error) {
	body, err := object(raw, types.ResourceKindAgreement)
	if err != nil {
		return nil, err
	}

	payer := body.Get("payer")
	payerInfo := payer.Get("payer_info")
	details := body.Get("agreement_details")

	a := &agreement.Agreement{
		ProviderID:         optStr(body.Get("id")),
		Name:               str(body.Get("name")),
		Description:        str(body.Get("description")),
		State:              str(body.Get("state")),
		PaymentMethod:      optStr(payer.Get("payment_method")),
		PayerID:            optStr(payerInfo.Get("payer_id")),
		PayerEmail:         optStr(payerInfo.Get("email")),
		PayerStatus:        optStr(payer.Get("status")),
		CyclesCompleted:    optInt(details.Get("cycles_completed")),
		CyclesRemaining:    optInt(details.Get("cycles_remaining")),
		FailedPaymentCount: optInt(details.Get("failed_payment_count")),
		StartDate:          optTime(body.Get("start_date")),
		PlanProviderID:     optStr(body.Get("plan", "id")),
		RawPayload:         types.JSONB(raw),
	}

	if href := linkHref(body.Get("links"), relApprovalURL); href != nil {
		if token := TokenFromApprovalURL(*href); token != "" {
			a.PaymentToken = lo.ToPtr(token)
		}
	}

	return a, nil
}
