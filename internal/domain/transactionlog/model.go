package transactionlog

import (
	"time"

	"github.com/flexprice/paymirror/internal/types"
)

type TransactionType string

const (
	TransactionTypeInfo    TransactionType = "info"
	TransactionTypeExecute TransactionType = "execute"
)

// Log records a provider call made on behalf of a payment, request first and
// response once the call returns.
type Log struct {
	ID              string          `db:"id" json:"id"`
	PaymentRef      string          `db:"payment_ref" json:"payment_id"`
	TransactionType TransactionType `db:"transaction_type" json:"transaction_type"`
	RequestPayload  types.JSONB     `db:"request_payload" json:"request_payload,omitempty"`
	ResponsePayload types.JSONB     `db:"response_payload" json:"response_payload,omitempty"`
	ResponseStatus  *int            `db:"response_status" json:"response_status,omitempty"`

	types.BaseModel
}

func NewLog(paymentRef string, txnType TransactionType, request []byte) *Log {
	return &Log{
		ID:              types.GenerateUUIDWithPrefix(types.UUID_PREFIX_TRANSACTION_LOG),
		PaymentRef:      paymentRef,
		TransactionType: txnType,
		RequestPayload:  types.JSONB(request),
		BaseModel:       types.GetDefaultBaseModel(),
	}
}

// Complete attaches the provider response
func (l *Log) Complete(status int, response []byte) {
	l.ResponseStatus = &status
	l.ResponsePayload = types.JSONB(response)
	l.UpdatedAt = time.Now().UTC()
}
