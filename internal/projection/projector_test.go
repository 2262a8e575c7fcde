package projection

import (
	"testing"
	"time"

	ierr "github.com/flexprice/paymirror/internal/errors"
	"github.com/flexprice/paymirror/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotAnObject(t *testing.T) {
	for _, raw := range []string{``, `null`, `[]`, `"plan"`, `{broken`} {
		_, err := Plan([]byte(raw))
		require.Error(t, err, raw)
		assert.True(t, ierr.IsMalformedPayload(err), raw)
	}
}

func TestPlan(t *testing.T) {
	raw := []byte(`{
		"id": "P-1",
		"name": "Gold",
		"description": "Gold monthly",
		"type": "FIXED",
		"state": "CREATED",
		"create_time": "2024-01-02T03:04:05Z",
		"merchant_preferences": {
			"setup_fee": {"value": "1.50", "currency": "USD"},
			"return_url": "https://example.com/ok",
			"cancel_url": "https://example.com/cancel"
		},
		"payment_definitions": [
			{"id": "PD-1", "name": "Regular", "type": "REGULAR", "frequency": "MONTH",
			 "frequency_interval": "1", "cycles": "12", "amount": {"value": "10.00", "currency": "USD"},
			 "charge_models": [{"type": "TAX", "amount": {"value": "1", "currency": "USD"}}]},
			{"id": "PD-2", "name": "Trial", "type": "TRIAL", "frequency": "WEEK", "amount": {"value": "3"}}
		]
	}`)

	p, err := Plan(raw)
	require.NoError(t, err)
	require.NoError(t, p.Validate())

	assert.Equal(t, "P-1", p.ProviderID)
	assert.Equal(t, "CREATED", p.State)
	assert.True(t, decimal.RequireFromString("1.5").Equal(*p.SetupFeeValue))
	assert.Equal(t, "USD", *p.SetupFeeCurrency)
	assert.Equal(t, "https://example.com/ok", *p.ReturnURL)
	assert.Nil(t, p.NotifyURL)
	assert.Equal(t, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), *p.ProviderCreatedAt)
	assert.Nil(t, p.ProviderUpdatedAt)
	assert.Equal(t, raw, []byte(p.RawPayload))
	assert.Empty(t, p.ID)

	require.Len(t, p.Definitions, 2)
	first := p.Definitions[0]
	assert.Equal(t, "PD-1", first.DefinitionID)
	assert.Equal(t, 1, *first.FrequencyInterval)
	assert.Equal(t, 12, *first.Cycles)
	assert.True(t, decimal.RequireFromString("10").Equal(*first.AmountValue))
	assert.NotEmpty(t, first.ChargeModels)

	// value without currency is not split across sub-objects
	second := p.Definitions[1]
	assert.Nil(t, second.AmountValue)
	assert.Nil(t, second.AmountCurrency)
	assert.Nil(t, second.Cycles)
}

func TestPlanMissingOptionalObjects(t *testing.T) {
	p, err := Plan([]byte(`{"id": "P-2", "state": "ACTIVE"}`))
	require.NoError(t, err)
	assert.Nil(t, p.SetupFeeValue)
	assert.Nil(t, p.SetupFeeCurrency)
	assert.Nil(t, p.ReturnURL)
	assert.Empty(t, p.Definitions)
}

func TestPlanMissingID(t *testing.T) {
	p, err := Plan([]byte(`{"state": "ACTIVE"}`))
	require.NoError(t, err)
	assert.True(t, ierr.IsMalformedPayload(p.Validate()))
}

func TestAgreement(t *testing.T) {
	raw := []byte(`{
		"id": "I-9",
		"name": "Gold",
		"state": "Active",
		"plan": {"id": "P-1"},
		"payer": {"payment_method": "paypal", "status": "verified",
			"payer_info": {"email": "a@example.com", "payer_id": "PAYER1"}},
		"agreement_details": {"cycles_completed": "2", "cycles_remaining": 10, "failed_payment_count": "0"},
		"start_date": "2024-02-01T00:00:00Z"
	}`)

	a, err := Agreement(raw)
	require.NoError(t, err)
	require.NoError(t, a.Validate())
	assert.Equal(t, "I-9", *a.ProviderID)
	assert.Equal(t, "P-1", *a.PlanProviderID)
	assert.Equal(t, "paypal", *a.PaymentMethod)
	assert.Equal(t, "PAYER1", *a.PayerID)
	assert.Equal(t, "a@example.com", *a.PayerEmail)
	assert.Equal(t, "verified", *a.PayerStatus)
	assert.Equal(t, 2, *a.CyclesCompleted)
	assert.Equal(t, 10, *a.CyclesRemaining)
	assert.Equal(t, 0, *a.FailedPaymentCount)
	assert.Nil(t, a.PaymentToken)
}

func TestAgreementCreationResponse(t *testing.T) {
	a, err := Agreement([]byte(`{
		"name": "Gold",
		"state": "Pending",
		"links": [
			{"rel": "approval_url", "href": "https://www.sandbox.paypal.com/cgi-bin/webscr?cmd=_express-checkout&token=EC-1"},
			{"rel": "execute", "href": "https://api.sandbox.paypal.com/v1/payments/billing-agreements/EC-1/agreement-execute"}
		]
	}`))
	require.NoError(t, err)
	assert.False(t, a.IsExecuted())
	assert.True(t, ierr.IsMalformedPayload(a.Validate()))
	require.NoError(t, a.ValidatePending())
	assert.Equal(t, "EC-1", *a.PaymentToken)
}

func TestTokenFromApprovalURL(t *testing.T) {
	tests := []struct {
		name string
		href string
		want string
	}{
		{"token param", "https://paypal.test/webscr?token=EC-1&cmd=x", "EC-1"},
		{"last param", "https://paypal.test/webscr?cmd=x&ba_token=BA-7", "BA-7"},
		{"no query", "https://paypal.test/webscr", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TokenFromApprovalURL(tt.href))
		})
	}
}

func TestPayment(t *testing.T) {
	raw := []byte(`{
		"id": "PAY-1",
		"intent": "sale",
		"state": "created",
		"redirect_urls": {"return_url": "https://example.com/r", "cancel_url": "https://example.com/c"},
		"links": [{"rel": "approval_url", "href": "https://paypal.test/checkout?token=EC-2"}],
		"transactions": [
			{"amount": {"total": "7.47", "currency": "USD", "details": {"subtotal": "7.41"}},
			 "description": "order", "custom": "c-1", "invoice_number": "PM-1",
			 "item_list": {"items": []},
			 "related_resources": [
				{"sale": {"id": "S-1", "state": "completed", "parent_payment": "PAY-1"}},
				{"refund": {"id": "R-1", "sale_id": "S-1"}}
			 ]}
		]
	}`)

	p, err := Payment(raw)
	require.NoError(t, err)
	assert.Equal(t, "PAY-1", p.ProviderID)
	assert.Equal(t, "paypal", p.PaymentMethod)
	assert.Equal(t, "https://paypal.test/checkout?token=EC-2", *p.ApprovalURL)
	assert.Equal(t, "https://example.com/c", *p.CancelURL)
	require.Len(t, p.Transactions, 1)
	txn := p.Transactions[0]
	assert.True(t, decimal.RequireFromString("7.47").Equal(*txn.AmountValue))
	assert.Equal(t, "USD", *txn.AmountCurrency)
	assert.JSONEq(t, `{"subtotal": "7.41"}`, string(txn.AmountDetails))
	assert.Equal(t, "PM-1", *txn.InvoiceNumber)
	assert.Nil(t, txn.SoftDescriptor)

	related := RelatedResources(raw)
	require.Len(t, related, 2)
	assert.Equal(t, types.ResourceKindSale, related[0].Kind)
	assert.Equal(t, types.ResourceKindRefund, related[1].Kind)

	s, err := Sale(related[0].Body)
	require.NoError(t, err)
	assert.Equal(t, "PAY-1", *s.ParentPaymentRef)
}

func TestSale(t *testing.T) {
	s, err := Sale([]byte(`{
		"id": "S-1",
		"state": "completed",
		"amount": {"total": "5.00", "currency": "EUR"},
		"transaction_fee": {"value": "0.30", "currency": "EUR"},
		"billing_agreement_id": "I-9",
		"payment_mode": "INSTANT_TRANSFER",
		"protection_eligibility": "ELIGIBLE"
	}`))
	require.NoError(t, err)
	require.NoError(t, s.Validate())
	assert.Equal(t, "I-9", *s.BillingAgreementRef)
	assert.Nil(t, s.ParentPaymentRef)
	assert.True(t, decimal.RequireFromString("0.3").Equal(*s.TransactionFeeValue))
	assert.Equal(t, "EUR", *s.TransactionFeeCurrency)
	assert.Nil(t, s.ReasonCode)

	orphan, err := Sale([]byte(`{"id": "S-2", "state": "completed"}`))
	require.NoError(t, err)
	assert.True(t, ierr.IsMalformedPayload(orphan.Validate()))
}

func TestAuthorization(t *testing.T) {
	a, err := Authorization([]byte(`{
		"id": "A-1",
		"state": "authorized",
		"parent_payment": "PAY-1",
		"amount": {"total": "9.99", "currency": "USD"},
		"valid_until": "2024-03-01T00:00:00Z"
	}`))
	require.NoError(t, err)
	require.NoError(t, a.Validate())
	assert.Equal(t, "authorized", a.EffectiveState(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, types.AuthorizationStateExpired, a.EffectiveState(time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)))
}

func TestCapture(t *testing.T) {
	c, err := Capture([]byte(`{
		"id": "C-1",
		"state": "completed",
		"is_final_capture": true,
		"reasonCode": "NONE",
		"create_time": "2024-01-01T00:00:00Z",
		"links": [
			{"rel": "self", "href": "https://api.paypal.test/v1/payments/capture/C-1"},
			{"rel": "authorization", "href": "https://api.paypal.test/v1/payments/authorization/A-1"}
		]
	}`))
	require.NoError(t, err)
	require.NoError(t, c.Validate())
	assert.True(t, c.IsFinalCapture)
	assert.Equal(t, "NONE", *c.ReasonCode)
	assert.Equal(t, "A-1", *c.AuthorizationRef)
	assert.Nil(t, c.ParentPaymentRef)
	assert.Equal(t, *c.ProviderCreatedAt, *c.ProviderUpdatedAt)
}

func TestRefund(t *testing.T) {
	r, err := Refund([]byte(`{"id": "R-1", "capture_id": "C-1", "state": "completed", "amount": {"total": "-1.00", "currency": "USD"}}`))
	require.NoError(t, err)
	require.NoError(t, r.Validate())
	assert.Nil(t, r.SaleRef)
	assert.Equal(t, "C-1", *r.CaptureRef)

	r, err = Refund([]byte(`{"id": "R-2", "state": "completed"}`))
	require.NoError(t, err)
	assert.True(t, ierr.IsMalformedPayload(r.Validate()))
}

func TestEnvelope(t *testing.T) {
	raw := []byte(`{
		"id": "WH-1",
		"create_time": "2024-03-01T10:00:00Z",
		"resource_type": "sale",
		"event_type": "PAYMENT.SALE.COMPLETED",
		"summary": "Payment completed",
		"resource": {"id": "S-1", "state": "completed"}
	}`)

	n, err := Envelope(raw)
	require.NoError(t, err)
	assert.Equal(t, "WH-1", n.EventID)
	assert.Equal(t, "sale", n.ResourceType)
	assert.Equal(t, "PAYMENT.SALE.COMPLETED", n.EventType)
	assert.Equal(t, "Payment completed", *n.Summary)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), *n.CreateTime)
	assert.JSONEq(t, `{"id": "S-1", "state": "completed"}`, string(n.Resource))

	n, err = Envelope([]byte(`{"id": "WH-2", "resource": "nope"}`))
	require.NoError(t, err)
	assert.Nil(t, n.Resource)
	assert.Empty(t, n.ResourceType)

	_, err = Envelope([]byte(`[1,2]`))
	assert.True(t, ierr.IsMalformedPayload(err))
}
