package projection

import (
	"github.com/flexprice/paymirror/internal/domain/payment"
	"github.com/flexprice/paymirror/internal/types"
	jsoniter "github.com/json-iterator/go"
)

// Payment projects a payment body and its transactions
func Payment(raw []byte) (*payment.Payment, error) {
	body, err := object(raw, types.ResourceKindPayment)
	if err != nil {
		return nil, err
	}

	method := str(body.Get("payer", "payment_method"))
	if method == "" {
		method = payment.DefaultPaymentMethod
	}

	p := &payment.Payment{
		ProviderID:        str(body.Get("id")),
		Intent:            str(body.Get("intent")),
		State:             str(body.Get("state")),
		PaymentMethod:     method,
		NoteToPayer:       optStr(body.Get("note_to_payer")),
		ApprovalURL:       linkHref(body.Get("links"), relApprovalURL),
		ReturnURL:         optStr(body.Get("redirect_urls", "return_url")),
		CancelURL:         optStr(body.Get("redirect_urls", "cancel_url")),
		ProviderCreatedAt: optTime(body.Get("create_time")),
		ProviderUpdatedAt: optTime(body.Get("update_time")),
		RawPayload:        types.JSONB(raw),
	}

	each(body.Get("transactions"), func(item jsoniter.Any) {
		p.Transactions = append(p.Transactions, transaction(item))
	})

	return p, nil
}

func transaction(item jsoniter.Any) *payment.Transaction {
	amount := item.Get("amount")
	value, currency := money(amount, "total")
	return &payment.Transaction{
		AmountValue:    value,
		AmountCurrency: currency,
		AmountDetails:  rawJSON(amount.Get("details")),
		Description:    optStr(item.Get("description")),
		Custom:         optStr(item.Get("custom")),
		InvoiceNumber:  optStr(item.Get("invoice_number")),
		SoftDescriptor: optStr(item.Get("soft_descriptor")),
		ItemList:       rawJSON(item.Get("item_list")),
		RawPayload:     rawJSON(item),
	}
}

// Related is a resource nested under a payment's transactions
type Related struct {
	Kind types.ResourceKind
	Body []byte
}

var relatedKinds = []types.ResourceKind{
	types.ResourceKindSale,
	types.ResourceKindAuthorization,
	types.ResourceKindCapture,
	types.ResourceKindRefund,
}

// RelatedResources lists transactions[].related_resources[] of a payment body
// in document order. Each entry is an object keyed by the resource kind.
func RelatedResources(raw []byte) []Related {
	body := json.Get(raw)
	var out []Related
	each(body.Get("transactions"), func(txn jsoniter.Any) {
		each(txn.Get("related_resources"), func(rel jsoniter.Any) {
			for _, kind := range relatedKinds {
				if nested := rel.Get(string(kind)); present(nested) && nested.ValueType() == jsoniter.ObjectValue {
					out = append(out, Related{Kind: kind, Body: []byte(nested.ToString())})
				}
			}
		})
	})
	return out
}
