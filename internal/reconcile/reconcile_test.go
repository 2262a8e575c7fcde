package reconcile

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/flexprice/paymirror/internal/domain/agreement"
	ierr "github.com/flexprice/paymirror/internal/errors"
	"github.com/flexprice/paymirror/internal/testutil"
	"github.com/flexprice/paymirror/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type ReconcileSuite struct {
	testutil.BaseServiceTestSuite

	plan          *PlanReconciler
	agreement     *AgreementReconciler
	payment       *PaymentReconciler
	sale          *SaleReconciler
	authorization *AuthorizationReconciler
	capture       *CaptureReconciler
	refund        *RefundReconciler
	dispatcher    *Dispatcher
}

func TestReconcile(t *testing.T) {
	suite.Run(t, new(ReconcileSuite))
}

func (s *ReconcileSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()

	stores := s.GetStores()
	p := Params{
		Logger:            s.GetLogger(),
		Locker:            s.GetLocker(),
		PlanRepo:          stores.PlanRepo,
		AgreementRepo:     stores.AgreementRepo,
		PaymentRepo:       stores.PaymentRepo,
		SaleRepo:          stores.SaleRepo,
		AuthorizationRepo: stores.AuthorizationRepo,
		CaptureRepo:       stores.CaptureRepo,
		RefundRepo:        stores.RefundRepo,
	}
	s.plan = NewPlanReconciler(p)
	s.agreement = NewAgreementReconciler(p)
	s.payment = NewPaymentReconciler(p)
	s.sale = NewSaleReconciler(p)
	s.authorization = NewAuthorizationReconciler(p)
	s.capture = NewCaptureReconciler(p)
	s.refund = NewRefundReconciler(p)
	s.dispatcher = NewDispatcher(s.plan, s.agreement, s.sale, s.authorization, s.capture, s.refund, s.GetLogger())
}

func planBody(id, state string, definitions ...string) []byte {
	defs := ""
	for i, d := range definitions {
		if i > 0 {
			defs += ","
		}
		defs += d
	}
	return []byte(fmt.Sprintf(`{"id":%q,"name":"Gold","type":"FIXED","state":%q,"payment_definitions":[%s]}`, id, state, defs))
}

func definitionBody(id, amount string) string {
	return fmt.Sprintf(`{"id":%q,"name":"Regular","type":"REGULAR","frequency":"MONTH","frequency_interval":"1","cycles":"12","amount":{"value":%q,"currency":"USD"}}`, id, amount)
}

func agreementBody(id, state string) []byte {
	return []byte(fmt.Sprintf(`{"id":%q,"name":"Gold","state":%q,"plan":{"id":"P-1"}}`, id, state))
}

func (s *ReconcileSuite) seedPlan() {
	_, err := s.plan.Reconcile(s.GetContext(), planBody("P-1", types.PlanStateActive, definitionBody("PD-1", "5.00")))
	s.Require().NoError(err)
}

func (s *ReconcileSuite) TestInsertThenUpdateConvergence() {
	ctx := s.GetContext()

	first, err := s.plan.Reconcile(ctx, planBody("P-1", types.PlanStateCreated))
	s.Require().NoError(err)
	s.Equal(OutcomeInserted, first.Outcome)
	s.NotEmpty(first.ID)

	created, err := s.GetStores().PlanRepo.GetByProviderID(ctx, "P-1")
	s.Require().NoError(err)

	time.Sleep(time.Millisecond)
	later := planBody("P-1", types.PlanStateActive)
	second, err := s.plan.Reconcile(ctx, later)
	s.Require().NoError(err)
	s.Equal(OutcomeUpdated, second.Outcome)
	s.Equal(first.ID, second.ID)

	s.Len(s.GetStores().PlanRepo.All(), 1)
	got, err := s.GetStores().PlanRepo.GetByProviderID(ctx, "P-1")
	s.Require().NoError(err)
	s.Equal(types.PlanStateActive, got.State)
	s.True(created.CreatedAt.Equal(got.CreatedAt))
	s.True(got.UpdatedAt.After(created.UpdatedAt))
	s.Equal(later, []byte(got.RawPayload))
}

func (s *ReconcileSuite) TestPlanDefinitionMerge() {
	ctx := s.GetContext()

	_, err := s.plan.Reconcile(ctx, planBody("P-1", types.PlanStateCreated,
		definitionBody("PD-1", "5.00"),
		definitionBody("PD-2", "7.00"),
	))
	s.Require().NoError(err)

	stored, err := s.GetStores().PlanRepo.GetByProviderID(ctx, "P-1")
	s.Require().NoError(err)
	before := s.GetStores().PlanRepo.DefinitionsByID(stored.ID)
	s.Require().Len(before, 2)

	_, err = s.plan.Reconcile(ctx, planBody("P-1", types.PlanStateCreated, definitionBody("PD-1", "10.00")))
	s.Require().NoError(err)

	after := s.GetStores().PlanRepo.DefinitionsByID(stored.ID)
	s.Require().Len(after, 2)
	s.True(decimal.RequireFromString("10").Equal(*after["PD-1"].AmountValue))
	s.Equal("USD", *after["PD-1"].AmountCurrency)
	s.Equal(before["PD-1"].ID, after["PD-1"].ID)
	s.True(decimal.RequireFromString("7").Equal(*after["PD-2"].AmountValue))
}

func (s *ReconcileSuite) TestPlanTerminalState() {
	ctx := s.GetContext()

	_, err := s.plan.Reconcile(ctx, planBody("P-1", types.PlanStateDeleted))
	s.Require().NoError(err)

	_, err = s.plan.Reconcile(ctx, planBody("P-1", types.PlanStateActive))
	s.True(ierr.IsTerminalState(err))

	// restating the terminal state is accepted
	res, err := s.plan.Reconcile(ctx, planBody("P-1", types.PlanStateDeleted))
	s.Require().NoError(err)
	s.Equal(OutcomeUpdated, res.Outcome)

	_, err = s.plan.Activate(ctx, "P-1")
	s.True(ierr.IsTerminalState(err))
}

func (s *ReconcileSuite) TestPlanActivate() {
	ctx := s.GetContext()

	_, err := s.plan.Activate(ctx, "P-404")
	s.True(ierr.IsNotFound(err))

	_, err = s.plan.Reconcile(ctx, planBody("P-1", types.PlanStateCreated))
	s.Require().NoError(err)

	res, err := s.plan.Activate(ctx, "P-1")
	s.Require().NoError(err)
	s.Equal(OutcomeUpdated, res.Outcome)

	got, err := s.GetStores().PlanRepo.GetByProviderID(ctx, "P-1")
	s.Require().NoError(err)
	s.Equal(types.PlanStateActive, got.State)
}

func (s *ReconcileSuite) TestAgreementTerminalMonotonicity() {
	ctx := s.GetContext()
	s.seedPlan()

	for _, terminal := range []string{types.AgreementStateCancelled, types.AgreementStateCompleted} {
		id := "I-" + terminal
		_, err := s.agreement.Reconcile(ctx, agreementBody(id, types.AgreementStateActive))
		s.Require().NoError(err)
		_, err = s.agreement.Reconcile(ctx, agreementBody(id, terminal))
		s.Require().NoError(err)

		for _, next := range []string{types.AgreementStateActive, types.AgreementStateSuspended, types.AgreementStateReactivated} {
			_, err = s.agreement.Reconcile(ctx, agreementBody(id, next))
			s.True(ierr.IsTerminalState(err), "%s -> %s", terminal, next)
		}

		got, err := s.GetStores().AgreementRepo.GetByProviderID(ctx, id)
		s.Require().NoError(err)
		s.Equal(terminal, got.State)
	}
}

func (s *ReconcileSuite) TestAgreementRequiresKnownPlan() {
	ctx := s.GetContext()

	_, err := s.agreement.Reconcile(ctx, agreementBody("I-1", types.AgreementStateActive))
	s.True(ierr.IsParentNotFound(err))

	_, err = s.agreement.Reconcile(ctx, []byte(`{"id":"I-2","state":"Active"}`))
	s.True(ierr.IsMalformedPayload(err))

	s.Empty(s.GetStores().AgreementRepo.All())
}

func (s *ReconcileSuite) TestAgreementExecutionPromotesPendingRecord() {
	ctx := s.GetContext()
	s.seedPlan()

	pending := &agreement.Agreement{
		Name:           "Gold",
		State:          types.AgreementStatePending,
		PaymentToken:   lo.ToPtr("EC-1"),
		ClientID:       lo.ToPtr(testutil.TestClientID),
		PlanProviderID: lo.ToPtr("P-1"),
	}
	created, err := s.agreement.CreatePending(ctx, pending)
	s.Require().NoError(err)
	s.Equal(OutcomeInserted, created.Outcome)

	executed, err := s.agreement.Execute(ctx, "EC-1", []byte(`{
		"id": "I-9",
		"state": "Active",
		"plan": {"id": "P-1"},
		"payer": {"payment_method": "paypal", "payer_info": {"payer_id": "PAYER1", "email": "a@example.com"}}
	}`))
	s.Require().NoError(err)
	s.Equal(OutcomeUpdated, executed.Outcome)
	s.Equal(created.ID, executed.ID)

	all := s.GetStores().AgreementRepo.All()
	s.Require().Len(all, 1)

	got, err := s.GetStores().AgreementRepo.GetByProviderID(ctx, "I-9")
	s.Require().NoError(err)
	s.Equal(created.ID, got.ID)
	s.Equal("EC-1", lo.FromPtr(got.PaymentToken))
	s.Equal(types.AgreementStateActive, got.State)
	s.Equal("paypal", lo.FromPtr(got.PaymentMethod))
	s.Equal("PAYER1", lo.FromPtr(got.PayerID))
	s.Equal(testutil.TestClientID, lo.FromPtr(got.ClientID))

	_, err = s.GetStores().AgreementRepo.GetPendingByToken(ctx, "EC-1")
	s.True(ierr.IsNotFound(err))
}

func (s *ReconcileSuite) TestAgreementExecutionAfterNotification() {
	ctx := s.GetContext()
	s.seedPlan()

	// the notification for I-9 arrives before the execute response
	_, err := s.agreement.Reconcile(ctx, agreementBody("I-9", types.AgreementStateActive))
	s.Require().NoError(err)

	res, err := s.agreement.Execute(ctx, "EC-1", agreementBody("I-9", types.AgreementStateActive))
	s.Require().NoError(err)
	s.Equal(OutcomeUpdated, res.Outcome)

	got, err := s.GetStores().AgreementRepo.GetByProviderID(ctx, "I-9")
	s.Require().NoError(err)
	s.Equal("EC-1", lo.FromPtr(got.PaymentToken))
	s.Len(s.GetStores().AgreementRepo.All(), 1)
}

func (s *ReconcileSuite) TestAgreementExecutionMergesPendingIntoNotifiedRecord() {
	ctx := s.GetContext()
	s.seedPlan()

	created, err := s.agreement.CreatePending(ctx, &agreement.Agreement{
		Name:           "Gold",
		State:          types.AgreementStatePending,
		PaymentToken:   lo.ToPtr("EC-1"),
		ClientID:       lo.ToPtr(testutil.TestClientID),
		PlanProviderID: lo.ToPtr("P-1"),
	})
	s.Require().NoError(err)
	pendingRow, err := s.GetStores().AgreementRepo.GetPendingByToken(ctx, "EC-1")
	s.Require().NoError(err)

	// the notification for I-9 is handled while the execute call is in flight
	time.Sleep(time.Millisecond)
	notified, err := s.agreement.Reconcile(ctx, agreementBody("I-9", types.AgreementStateActive))
	s.Require().NoError(err)
	s.Equal(OutcomeInserted, notified.Outcome)

	res, err := s.agreement.Execute(ctx, "EC-1", agreementBody("I-9", types.AgreementStateActive))
	s.Require().NoError(err)
	s.Equal(OutcomeUpdated, res.Outcome)
	s.Equal(notified.ID, res.ID)

	store := s.GetStores().AgreementRepo
	s.Require().Len(store.Addressable(), 1)

	got, err := store.GetByProviderID(ctx, "I-9")
	s.Require().NoError(err)
	s.Equal(notified.ID, got.ID)
	s.Equal("EC-1", lo.FromPtr(got.PaymentToken))
	s.Equal(testutil.TestClientID, lo.FromPtr(got.ClientID))
	s.True(pendingRow.CreatedAt.Equal(got.CreatedAt))

	_, err = store.GetPendingByToken(ctx, "EC-1")
	s.True(ierr.IsNotFound(err))

	listed, err := store.List(ctx, &types.ReportFilter{ClientID: testutil.TestClientID})
	s.Require().NoError(err)
	s.Require().Len(listed, 1)
	s.Equal(notified.ID, listed[0].ID)

	// the pending record is retired, not removed
	s.Len(store.All(), 2)
	for _, a := range store.All() {
		if a.ID == created.ID {
			s.Equal(notified.ID, lo.FromPtr(a.SupersededBy))
			s.Nil(a.PaymentToken)
		}
	}
}

func (s *ReconcileSuite) TestTerminalRecordRejectsStatelessBody() {
	ctx := s.GetContext()
	s.seedPlan()

	cancelled := agreementBody("I-1", types.AgreementStateCancelled)
	_, err := s.agreement.Reconcile(ctx, agreementBody("I-1", types.AgreementStateActive))
	s.Require().NoError(err)
	_, err = s.agreement.Reconcile(ctx, cancelled)
	s.Require().NoError(err)

	_, err = s.agreement.Reconcile(ctx, []byte(`{"id":"I-1","name":"Changed","plan":{"id":"P-1"}}`))
	s.True(ierr.IsTerminalState(err))

	got, err := s.GetStores().AgreementRepo.GetByProviderID(ctx, "I-1")
	s.Require().NoError(err)
	s.Equal(types.AgreementStateCancelled, got.State)
	s.Equal("Gold", got.Name)
	s.Equal(cancelled, []byte(got.RawPayload))

	// a stateless body still keeps the state of a live record
	_, err = s.plan.Reconcile(ctx, []byte(`{"id":"P-1","name":"Platinum"}`))
	s.Require().NoError(err)
	plan, err := s.GetStores().PlanRepo.GetByProviderID(ctx, "P-1")
	s.Require().NoError(err)
	s.Equal(types.PlanStateActive, plan.State)
	s.Equal("Platinum", plan.Name)
}

func (s *ReconcileSuite) TestRefundParentResolution() {
	ctx := s.GetContext()

	_, err := s.refund.Reconcile(ctx, []byte(`{"id":"R-1","state":"completed","sale_id":"S-404","capture_id":"C-404","amount":{"total":"1.00","currency":"USD"}}`))
	s.True(ierr.IsParentNotFound(err))
	s.Empty(s.GetStores().RefundRepo.All())

	_, err = s.refund.Reconcile(ctx, []byte(`{"id":"R-2","state":"completed"}`))
	s.True(ierr.IsMalformedPayload(err))

	_, err = s.payment.Reconcile(ctx, []byte(`{"id":"PAY-1","intent":"sale","state":"approved"}`))
	s.Require().NoError(err)
	saleRes, err := s.sale.Reconcile(ctx, []byte(`{"id":"S-1","state":"completed","parent_payment":"PAY-1","amount":{"total":"1.00","currency":"USD"}}`))
	s.Require().NoError(err)

	res, err := s.refund.Reconcile(ctx, []byte(`{"id":"R-1","state":"completed","sale_id":"S-1","capture_id":"C-404"}`))
	s.Require().NoError(err)
	s.Equal(OutcomeInserted, res.Outcome)

	got, err := s.GetStores().RefundRepo.GetByProviderID(ctx, "R-1")
	s.Require().NoError(err)
	s.Equal(saleRes.ID, lo.FromPtr(got.SaleID))
	s.Nil(got.CaptureID)
}

func (s *ReconcileSuite) TestSaleParents() {
	ctx := s.GetContext()
	s.seedPlan()

	_, err := s.sale.Reconcile(ctx, []byte(`{"id":"S-1","state":"completed","billing_agreement_id":"I-1"}`))
	s.True(ierr.IsParentNotFound(err))

	agr, err := s.agreement.Reconcile(ctx, agreementBody("I-1", types.AgreementStateActive))
	s.Require().NoError(err)

	res, err := s.sale.Reconcile(ctx, []byte(`{"id":"S-1","state":"pending","billing_agreement_id":"I-1"}`))
	s.Require().NoError(err)
	s.Equal(OutcomeInserted, res.Outcome)

	res, err = s.sale.Reconcile(ctx, []byte(`{"id":"S-1","state":"completed","billing_agreement_id":"I-1"}`))
	s.Require().NoError(err)
	s.Equal(OutcomeUpdated, res.Outcome)

	got, err := s.GetStores().SaleRepo.GetByProviderID(ctx, "S-1")
	s.Require().NoError(err)
	s.Equal(agr.ID, lo.FromPtr(got.AgreementID))
	s.Nil(got.PaymentID)
	s.Equal(types.SaleStateCompleted, got.State)
}

func (s *ReconcileSuite) TestCaptureParentFallback() {
	ctx := s.GetContext()

	pay, err := s.payment.Reconcile(ctx, []byte(`{"id":"PAY-1","intent":"authorize","state":"approved"}`))
	s.Require().NoError(err)

	capture := []byte(`{
		"id": "C-1",
		"state": "completed",
		"is_final_capture": true,
		"parent_payment": "PAY-1",
		"amount": {"total": "4.00", "currency": "USD"},
		"links": [{"rel": "authorization", "href": "https://api.sandbox.paypal.com/v1/payments/authorization/A-1"}]
	}`)

	// authorization not recorded, parent payment is
	res, err := s.capture.Reconcile(ctx, capture)
	s.Require().NoError(err)
	s.Equal(OutcomeInserted, res.Outcome)

	got, err := s.GetStores().CaptureRepo.GetByProviderID(ctx, "C-1")
	s.Require().NoError(err)
	s.Equal(pay.ID, lo.FromPtr(got.PaymentID))
	s.Nil(got.AuthorizationID)

	auth, err := s.authorization.Reconcile(ctx, []byte(`{"id":"A-1","state":"authorized","parent_payment":"PAY-1"}`))
	s.Require().NoError(err)

	res, err = s.capture.Reconcile(ctx, capture)
	s.Require().NoError(err)
	s.Equal(OutcomeUpdated, res.Outcome)

	got, err = s.GetStores().CaptureRepo.GetByProviderID(ctx, "C-1")
	s.Require().NoError(err)
	s.Equal(auth.ID, lo.FromPtr(got.AuthorizationID))

	_, err = s.capture.Reconcile(ctx, []byte(`{"id":"C-2","state":"completed"}`))
	s.True(ierr.IsMalformedPayload(err))
}

func (s *ReconcileSuite) TestAuthorizationRequiresPayment() {
	ctx := s.GetContext()

	_, err := s.authorization.Reconcile(ctx, []byte(`{"id":"A-1","state":"authorized","parent_payment":"PAY-404"}`))
	s.True(ierr.IsParentNotFound(err))
	s.Empty(s.GetStores().AuthorizationRepo.All())
}

func (s *ReconcileSuite) TestPaymentTransactions() {
	ctx := s.GetContext()
	body := []byte(`{
		"id": "PAY-1",
		"intent": "sale",
		"state": "created",
		"transactions": [
			{"amount": {"total": "12.00", "currency": "USD"}, "description": "one"},
			{"amount": {"total": "3.00", "currency": "USD"}, "description": "two"}
		]
	}`)

	first, err := s.payment.Reconcile(ctx, body)
	s.Require().NoError(err)
	_, err = s.payment.Reconcile(ctx, body)
	s.Require().NoError(err)

	txns, err := s.GetStores().PaymentRepo.ListTransactions(ctx, first.ID)
	s.Require().NoError(err)
	s.Len(txns, 2)
}

func (s *ReconcileSuite) TestDispatch() {
	ctx := s.GetContext()

	res, err := s.dispatcher.Dispatch(ctx, "PLAN", planBody("P-1", types.PlanStateCreated))
	s.Require().NoError(err)
	s.Equal(types.ResourceKindPlan, res.Kind)
	s.Equal(OutcomeInserted, res.Outcome)

	for _, unknown := range []string{"invoice", "payment", ""} {
		res, err = s.dispatcher.Dispatch(ctx, unknown, []byte(`{"id":"X"}`))
		s.Require().NoError(err)
		s.Equal(OutcomeUnrecognized, res.Outcome, unknown)
		s.Empty(res.ID)
	}

	res, err = s.dispatcher.Dispatch(ctx, " Invoice ", []byte(`{"id":"X"}`))
	s.Require().NoError(err)
	s.Equal(types.ResourceKind("invoice"), res.Kind)
}

func (s *ReconcileSuite) TestStoreFailureIsNotRejection() {
	ctx := s.GetContext()
	s.GetStores().PlanRepo.FailWith(ierr.NewError("connection reset").Mark(ierr.ErrStoreUnavailable))

	_, err := s.plan.Reconcile(ctx, planBody("P-1", types.PlanStateCreated))
	s.Require().Error(err)
	s.True(ierr.IsStoreUnavailable(err))
	s.False(ierr.IsReconcileRejection(err))
}

func (s *ReconcileSuite) TestConcurrentNotificationsSameResource() {
	ctx := s.GetContext()
	s.seedPlan()

	states := []string{
		types.AgreementStateActive,
		types.AgreementStateSuspended,
		types.AgreementStateReactivated,
		types.AgreementStateActive,
	}

	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func(state string) {
			defer wg.Done()
			_, err := s.agreement.Reconcile(ctx, agreementBody("I-1", state))
			s.NoError(err)
		}(states[i%len(states)])
	}
	wg.Wait()

	all := s.GetStores().AgreementRepo.All()
	s.Require().Len(all, 1)
	s.Contains(states, all[0].State)
	// state and payload always come from the same body
	s.Equal(agreementBody("I-1", all[0].State), []byte(all[0].RawPayload))
}
