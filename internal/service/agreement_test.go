package service

import (
	"net/http"
	"testing"

	"github.com/flexprice/paymirror/internal/api/dto"
	ierr "github.com/flexprice/paymirror/internal/errors"
	"github.com/flexprice/paymirror/internal/testutil"
	"github.com/flexprice/paymirror/internal/types"
	"github.com/samber/lo"
	"github.com/stretchr/testify/suite"
)

type AgreementServiceSuite struct {
	testutil.BaseServiceTestSuite
	service AgreementService
	params  ServiceParams
}

func TestAgreementService(t *testing.T) {
	suite.Run(t, new(AgreementServiceSuite))
}

func (s *AgreementServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.params = newTestServiceParams(&s.BaseServiceTestSuite, newRecordingArchiver())
	s.service = NewAgreementService(s.params)
}

const pendingAgreement = `{
	"name": "Gold membership",
	"description": "Monthly",
	"start_date": "2024-04-01T00:00:00Z",
	"links": [
		{"href": "https://www.sandbox.paypal.com/cgi-bin/webscr?cmd=_express-checkout&token=EC-1", "rel": "approval_url", "method": "REDIRECT"},
		{"href": "https://api.sandbox.paypal.com/v1/payments/billing-agreements/EC-1/agreement-execute", "rel": "execute", "method": "POST"}
	]
}`

const executedAgreement = `{
	"id": "I-9",
	"state": "Active",
	"description": "Monthly",
	"payer": {"payment_method": "paypal", "status": "verified", "payer_info": {"email": "buyer@example.com", "payer_id": "PAYER-1"}},
	"plan": {"id": "P-1"},
	"agreement_details": {"cycles_completed": "0", "cycles_remaining": "12", "failed_payment_count": "0"}
}`

func (s *AgreementServiceSuite) seedPlan() {
	_, err := s.params.PlanReconciler.Reconcile(s.GetContext(), []byte(`{"id":"P-1","name":"Gold","state":"ACTIVE"}`))
	s.Require().NoError(err)
}

func (s *AgreementServiceSuite) request(body string) *dto.ProviderRequest {
	req, err := dto.NewProviderRequest([]byte(body))
	s.Require().NoError(err)
	return req
}

func (s *AgreementServiceSuite) TestCreateThenExecute() {
	ctx := s.GetContext()
	s.seedPlan()

	s.GetGateway().OnCreate(types.ResourceKindAgreement, http.StatusCreated, pendingAgreement)
	created, err := s.service.CreateAgreement(ctx, s.request(`{"name":"Gold membership","plan":{"id":"P-1"}}`))
	s.Require().NoError(err)
	s.Equal(http.StatusCreated, created.StatusCode)

	pending, err := s.GetStores().AgreementRepo.GetPendingByToken(ctx, "EC-1")
	s.Require().NoError(err)
	s.Equal(created.LocalID, pending.ID)
	s.False(pending.IsExecuted())
	s.Equal(testutil.TestClientID, lo.FromPtr(pending.ClientID))

	s.GetGateway().OnExecute(types.ResourceKindAgreement, "EC-1", http.StatusOK, executedAgreement)
	executed, err := s.service.ExecuteAgreement(ctx, "EC-1")
	s.Require().NoError(err)
	s.Equal(created.LocalID, executed.LocalID)

	s.Len(s.GetStores().AgreementRepo.All(), 1)
	got, err := s.GetStores().AgreementRepo.GetByProviderID(ctx, "I-9")
	s.Require().NoError(err)
	s.Equal(created.LocalID, got.ID)
	s.Equal("EC-1", lo.FromPtr(got.PaymentToken))
	s.Equal(types.AgreementStateActive, got.State)
	s.Equal("PAYER-1", lo.FromPtr(got.PayerID))
	s.Equal(testutil.TestClientID, lo.FromPtr(got.ClientID))
}

func (s *AgreementServiceSuite) TestCreateRequiresKnownPlan() {
	s.GetGateway().OnCreate(types.ResourceKindAgreement, http.StatusCreated, pendingAgreement)

	_, err := s.service.CreateAgreement(s.GetContext(), s.request(`{"name":"Gold membership","plan":{"id":"P-404"}}`))
	s.True(ierr.IsParentNotFound(err))
	s.Empty(s.GetStores().AgreementRepo.All())
}

func (s *AgreementServiceSuite) TestExecuteProviderError() {
	s.GetGateway().OnExecute(types.ResourceKindAgreement, "EC-1", http.StatusBadRequest, `{"name":"PAYMENT_NOT_APPROVED"}`)

	resp, err := s.service.ExecuteAgreement(s.GetContext(), "EC-1")
	s.Require().NoError(err)
	s.Equal(http.StatusBadRequest, resp.StatusCode)
	s.Empty(s.GetStores().AgreementRepo.All())

	_, err = s.service.ExecuteAgreement(s.GetContext(), "")
	s.True(ierr.IsValidation(err))
}
