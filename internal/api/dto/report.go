package dto

import (
	"github.com/flexprice/paymirror/internal/domain/agreement"
	"github.com/flexprice/paymirror/internal/domain/payment"
	"github.com/flexprice/paymirror/internal/types"
)

type AgreementResponse struct {
	*agreement.Agreement
}

type PaymentResponse struct {
	*payment.Payment
}

// ListAgreementsResponse represents the response for listing agreements
type ListAgreementsResponse = types.ListResponse[*AgreementResponse]

// ListPaymentsResponse represents the response for listing payments
type ListPaymentsResponse = types.ListResponse[*PaymentResponse]
