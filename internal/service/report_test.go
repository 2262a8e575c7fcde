package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/flexprice/paymirror/internal/domain/agreement"
	"github.com/flexprice/paymirror/internal/domain/payment"
	ierr "github.com/flexprice/paymirror/internal/errors"
	"github.com/flexprice/paymirror/internal/testutil"
	"github.com/flexprice/paymirror/internal/types"
	"github.com/samber/lo"
	"github.com/stretchr/testify/suite"
)

type ReportServiceSuite struct {
	testutil.BaseServiceTestSuite
	service ReportService
}

func TestReportService(t *testing.T) {
	suite.Run(t, new(ReportServiceSuite))
}

func (s *ReportServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewReportService(newTestServiceParams(&s.BaseServiceTestSuite, newRecordingArchiver()))
}

func (s *ReportServiceSuite) seedPayments(clientID string, n int) {
	for i := 0; i < n; i++ {
		p := &payment.Payment{
			ID:         types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PAYMENT),
			ProviderID: fmt.Sprintf("PAY-%s-%d", clientID, i),
			ClientID:   lo.ToPtr(clientID),
			Intent:     "sale",
			State:      types.PaymentStateCreated,
			BaseModel:  types.GetDefaultBaseModel(),
		}
		p.CreatedAt = s.GetNow().Add(time.Duration(i) * time.Second)
		s.Require().NoError(s.GetStores().PaymentRepo.Create(s.GetContext(), p))
	}
}

func (s *ReportServiceSuite) TestListPayments() {
	s.seedPayments(testutil.TestClientID, 3)
	s.seedPayments("other_client", 2)

	filter := types.NewDefaultReportFilter(testutil.TestClientID)
	filter.Limit = 2

	resp, err := s.service.ListPayments(s.GetContext(), filter)
	s.Require().NoError(err)
	s.Len(resp.Items, 2)
	s.Equal(3, resp.Pagination.Total)
	s.Equal(2, resp.Pagination.Limit)
	for _, item := range resp.Items {
		s.Equal(testutil.TestClientID, lo.FromPtr(item.ClientID))
	}

	filter.Offset = 2
	resp, err = s.service.ListPayments(s.GetContext(), filter)
	s.Require().NoError(err)
	s.Len(resp.Items, 1)
}

func (s *ReportServiceSuite) TestListAgreements() {
	ctx := s.GetContext()
	for i, clientID := range []string{testutil.TestClientID, "other_client"} {
		a := &agreement.Agreement{
			ID:           types.GenerateUUIDWithPrefix(types.UUID_PREFIX_AGREEMENT),
			PaymentToken: lo.ToPtr(fmt.Sprintf("EC-%d", i)),
			ClientID:     lo.ToPtr(clientID),
			PlanID:       "plan_1",
			State:        types.AgreementStatePending,
			BaseModel:    types.GetDefaultBaseModel(),
		}
		s.Require().NoError(s.GetStores().AgreementRepo.Create(ctx, a))
	}

	resp, err := s.service.ListAgreements(ctx, types.NewDefaultReportFilter(testutil.TestClientID))
	s.Require().NoError(err)
	s.Require().Len(resp.Items, 1)
	s.Equal("EC-0", lo.FromPtr(resp.Items[0].PaymentToken))
	s.Equal(1, resp.Pagination.Total)
}

func (s *ReportServiceSuite) TestListRequiresClient() {
	_, err := s.service.ListPayments(s.GetContext(), &types.ReportFilter{})
	s.True(ierr.IsValidation(err))

	_, err = s.service.ListAgreements(s.GetContext(), &types.ReportFilter{})
	s.True(ierr.IsValidation(err))
}

func (s *ReportServiceSuite) TestStoreFailure() {
	s.GetStores().PaymentRepo.FailWith(ierr.NewError("connection refused").Mark(ierr.ErrDatabase))

	_, err := s.service.ListPayments(s.GetContext(), types.NewDefaultReportFilter(testutil.TestClientID))
	s.Error(err)
}
