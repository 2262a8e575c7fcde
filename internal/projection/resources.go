package projection

import (
	"github.com/flexprice/paymirror/internal/domain/authorization"
	"github.com/flexprice/paymirror/internal/domain/capture"
	"github.com/flexprice/paymirror/internal/domain/refund"
	"github.com/flexprice/paymirror/internal/domain/sale"
	"github.com/flexprice/paymirror/internal/types"
	"github.com/samber/lo"
)

const relAuthorization = "authorization"

func Sale(raw []byte) (*sale.Sale, error) {
	body, err := object(raw, types.ResourceKindSale)
	if err != nil {
		return nil, err
	}

	value, currency := money(body.Get("amount"), "total")
	fee, feeCurrency := money(body.Get("transaction_fee"), "value")

	return &sale.Sale{
		ProviderID:             str(body.Get("id")),
		State:                  str(body.Get("state")),
		AmountValue:            value,
		AmountCurrency:         currency,
		TransactionFeeValue:    fee,
		TransactionFeeCurrency: feeCurrency,
		PaymentMode:            optStr(body.Get("payment_mode")),
		ReasonCode:             optStr(body.Get("reason_code")),
		ProtectionEligibility:  optStr(body.Get("protection_eligibility")),
		ProtectionEligibleType: optStr(body.Get("protection_eligibility_type")),
		BillingAgreementRef:    optStr(body.Get("billing_agreement_id")),
		ParentPaymentRef:       optStr(body.Get("parent_payment")),
		ProviderCreatedAt:      optTime(body.Get("create_time")),
		ProviderUpdatedAt:      optTime(body.Get("update_time")),
		RawPayload:             types.JSONB(raw),
	}, nil
}

func Authorization(raw []byte) (*authorization.Authorization, error) {
	body, err := object(raw, types.ResourceKindAuthorization)
	if err != nil {
		return nil, err
	}

	value, currency := money(body.Get("amount"), "total")

	return &authorization.Authorization{
		ProviderID:             str(body.Get("id")),
		State:                  str(body.Get("state")),
		AmountValue:            value,
		AmountCurrency:         currency,
		PaymentMode:            optStr(body.Get("payment_mode")),
		ReasonCode:             optStr(body.Get("reason_code")),
		ProtectionEligibility:  optStr(body.Get("protection_eligibility")),
		ProtectionEligibleType: optStr(body.Get("protection_eligibility_type")),
		ParentPaymentRef:       optStr(body.Get("parent_payment")),
		ValidUntil:             optTime(body.Get("valid_until")),
		ProviderCreatedAt:      optTime(body.Get("create_time")),
		ProviderUpdatedAt:      optTime(body.Get("update_time")),
		RawPayload:             types.JSONB(raw),
	}, nil
}

// Capture projects a capture body. The parent authorization comes from the
// authorization link; update_time falls back to create_time.
func Capture(raw []byte) (*capture.Capture, error) {
	body, err := object(raw, types.ResourceKindCapture)
	if err != nil {
		return nil, err
	}

	value, currency := money(body.Get("amount"), "total")
	fee, feeCurrency := money(body.Get("transaction_fee"), "value")

	reason := optStr(body.Get("reasonCode"))
	if reason == nil {
		reason = optStr(body.Get("reason_code"))
	}

	c := &capture.Capture{
		ProviderID:             str(body.Get("id")),
		State:                  str(body.Get("state")),
		AmountValue:            value,
		AmountCurrency:         currency,
		IsFinalCapture:         optBool(body.Get("is_final_capture")),
		ReasonCode:             reason,
		TransactionFeeValue:    fee,
		TransactionFeeCurrency: feeCurrency,
		ParentPaymentRef:       optStr(body.Get("parent_payment")),
		ProviderCreatedAt:      optTime(body.Get("create_time")),
		ProviderUpdatedAt:      optTime(body.Get("update_time")),
		RawPayload:             types.JSONB(raw),
	}
	if c.ProviderUpdatedAt == nil {
		c.ProviderUpdatedAt = c.ProviderCreatedAt
	}
	if href := linkHref(body.Get("links"), relAuthorization); href != nil {
		if id := lastPathSegment(*href); id != "" {
			c.AuthorizationRef = lo.ToPtr(id)
		}
	}

	return c, nil
}

func Refund(raw []byte) (*refund.Refund, error) {
	body, err := object(raw, types.ResourceKindRefund)
	if err != nil {
		return nil, err
	}

	value, currency := money(body.Get("amount"), "total")

	return &refund.Refund{
		ProviderID:        str(body.Get("id")),
		State:             str(body.Get("state")),
		AmountValue:       value,
		AmountCurrency:    currency,
		Description:       optStr(body.Get("description")),
		Reason:            optStr(body.Get("reason")),
		InvoiceNumber:     optStr(body.Get("invoice_number")),
		Custom:            optStr(body.Get("custom")),
		SaleRef:           optStr(body.Get("sale_id")),
		CaptureRef:        optStr(body.Get("capture_id")),
		ParentPaymentRef:  optStr(body.Get("parent_payment")),
		ProviderCreatedAt: optTime(body.Get("create_time")),
		ProviderUpdatedAt: optTime(body.Get("update_time")),
		RawPayload:        types.JSONB(raw),
	}, nil
}
