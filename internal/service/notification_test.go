package service

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"testing"

	"github.com/ThreeDotsLabs/watermill/message"
	ierr "github.com/flexprice/paymirror/internal/errors"
	"github.com/flexprice/paymirror/internal/reconcile"
	"github.com/flexprice/paymirror/internal/testutil"
	"github.com/flexprice/paymirror/internal/types"
	"github.com/stretchr/testify/suite"
)

type NotificationServiceSuite struct {
	testutil.BaseServiceTestSuite
	service  NotificationService
	consumer NotificationConsumer
	archiver *recordingArchiver
}

func TestNotificationService(t *testing.T) {
	suite.Run(t, new(NotificationServiceSuite))
}

func (s *NotificationServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.archiver = newRecordingArchiver()
	params := newTestServiceParams(&s.BaseServiceTestSuite, s.archiver)
	s.service = NewNotificationService(params)
	s.consumer = NewNotificationConsumer(params, s.service)
}

func notification(eventID, resourceType, resource string) []byte {
	return []byte(fmt.Sprintf(`{
		"id": %q,
		"create_time": "2024-03-01T10:00:00Z",
		"resource_type": %q,
		"event_type": "TEST.EVENT",
		"summary": "test",
		"resource": %s
	}`, eventID, resourceType, resource))
}

func (s *NotificationServiceSuite) TestIngestIsIdempotent() {
	ctx := s.GetContext()
	raw := notification("WH-1", "plan", `{"id":"P-1","name":"Gold","state":"CREATED"}`)

	first, err := s.service.Ingest(ctx, raw)
	s.Require().NoError(err)
	s.Equal(reconcile.OutcomeInserted, first.Outcome)
	s.Equal(types.ResourceKindPlan, first.Kind)
	s.NotEmpty(first.ID)

	second, err := s.service.Ingest(ctx, raw)
	s.Require().NoError(err)
	s.Equal(reconcile.OutcomeDuplicate, second.Outcome)

	s.Len(s.GetStores().PlanRepo.All(), 1)
	s.Equal(1, s.archiver.count())

	event, err := s.GetStores().WebhookEventRepo.Get(ctx, "WH-1")
	s.Require().NoError(err)
	s.Equal("plan", event.ResourceType)
	s.Equal("TEST.EVENT", event.EventType)
	s.Equal("test", *event.Summary)
}

func (s *NotificationServiceSuite) TestConcurrentDeliveriesApplyOnce() {
	ctx := s.GetContext()
	raw := notification("WH-1", "plan", `{"id":"P-1","name":"Gold","state":"CREATED"}`)

	const deliveries = 20
	outcomes := make(chan reconcile.Outcome, deliveries)
	var wg sync.WaitGroup
	for i := 0; i < deliveries; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := s.service.Ingest(ctx, raw)
			if err != nil {
				outcomes <- ""
				return
			}
			outcomes <- res.Outcome
		}()
	}
	wg.Wait()
	close(outcomes)

	counts := make(map[reconcile.Outcome]int)
	for o := range outcomes {
		counts[o]++
	}
	s.Equal(1, counts[reconcile.OutcomeInserted])
	s.Equal(deliveries-1, counts[reconcile.OutcomeDuplicate])
	s.Len(s.GetStores().PlanRepo.All(), 1)
	s.Equal(1, s.archiver.count())
}

func (s *NotificationServiceSuite) TestDuplicateDetectedWithoutCache() {
	ctx := s.GetContext()
	raw := notification("WH-1", "plan", `{"id":"P-1","state":"CREATED"}`)

	_, err := s.service.Ingest(ctx, raw)
	s.Require().NoError(err)
	s.GetCache().Flush(ctx)

	// a later body under the same event id must not be applied
	res, err := s.service.Ingest(ctx, notification("WH-1", "plan", `{"id":"P-1","state":"ACTIVE"}`))
	s.Require().NoError(err)
	s.Equal(reconcile.OutcomeDuplicate, res.Outcome)

	got, err := s.GetStores().PlanRepo.GetByProviderID(ctx, "P-1")
	s.Require().NoError(err)
	s.Equal(types.PlanStateCreated, got.State)
}

func (s *NotificationServiceSuite) TestUnrecognizedTypeIsRecorded() {
	ctx := s.GetContext()

	res, err := s.service.Ingest(ctx, notification("WH-1", "Invoice", `{"id":"INV-1"}`))
	s.Require().NoError(err)
	s.Equal(reconcile.OutcomeUnrecognized, res.Outcome)
	s.Equal(types.ResourceKind("invoice"), res.Kind)

	seen, err := s.GetStores().WebhookEventRepo.Exists(ctx, "WH-1")
	s.Require().NoError(err)
	s.True(seen)
}

func (s *NotificationServiceSuite) TestRejectionsAreAcknowledged() {
	ctx := s.GetContext()

	res, err := s.service.Ingest(ctx, notification("WH-1", "refund", `{"id":"R-1","state":"completed","sale_id":"S-404"}`))
	s.Require().NoError(err)
	s.Equal(reconcile.OutcomeRejected, res.Outcome)
	s.Equal(ierr.ErrCodeParentNotFound, res.Reason)
	s.Empty(s.GetStores().RefundRepo.All())

	// the event is still recorded so a redelivery is a duplicate
	res, err = s.service.Ingest(ctx, notification("WH-1", "refund", `{"id":"R-1","state":"completed","sale_id":"S-404"}`))
	s.Require().NoError(err)
	s.Equal(reconcile.OutcomeDuplicate, res.Outcome)

	res, err = s.service.Ingest(ctx, notification("WH-2", "sale", `"not an object"`))
	s.Require().NoError(err)
	s.Equal(reconcile.OutcomeRejected, res.Outcome)
	s.Equal(ierr.ErrCodeMalformedPayload, res.Reason)
}

func (s *NotificationServiceSuite) TestTerminalAgreementIsNotReopened() {
	ctx := s.GetContext()

	_, err := s.service.Ingest(ctx, notification("WH-1", "plan", `{"id":"P-1","state":"ACTIVE"}`))
	s.Require().NoError(err)
	_, err = s.service.Ingest(ctx, notification("WH-2", "agreement", `{"id":"I-1","state":"Cancelled","plan":{"id":"P-1"}}`))
	s.Require().NoError(err)

	res, err := s.service.Ingest(ctx, notification("WH-3", "agreement", `{"id":"I-1","state":"Active","plan":{"id":"P-1"}}`))
	s.Require().NoError(err)
	s.Equal(reconcile.OutcomeRejected, res.Outcome)
	s.Equal(ierr.ErrCodeTerminalState, res.Reason)

	got, err := s.GetStores().AgreementRepo.GetByProviderID(ctx, "I-1")
	s.Require().NoError(err)
	s.Equal(types.AgreementStateCancelled, got.State)
}

func (s *NotificationServiceSuite) TestMissingEventID() {
	res, err := s.service.Ingest(s.GetContext(), []byte(`{"resource_type":"sale","resource":{"id":"S-1"}}`))
	s.Require().NoError(err)
	s.Equal(reconcile.OutcomeRejected, res.Outcome)
	s.Equal(ierr.ErrCodeMalformedPayload, res.Reason)
	s.Empty(s.GetStores().SaleRepo.All())
}

func (s *NotificationServiceSuite) TestBodyNotAnObject() {
	_, err := s.service.Ingest(s.GetContext(), []byte(`[1,2,3]`))
	s.True(ierr.IsMalformedPayload(err))
}

func (s *NotificationServiceSuite) TestStoreFailureIsNotAcknowledged() {
	ctx := s.GetContext()
	s.GetStores().WebhookEventRepo.FailWith(ierr.NewError("connection refused").Mark(ierr.ErrDatabase))

	_, err := s.service.Ingest(ctx, notification("WH-1", "plan", `{"id":"P-1","state":"CREATED"}`))
	s.Require().Error(err)
	s.True(ierr.IsStoreUnavailable(err))
	s.Equal(http.StatusServiceUnavailable, ierr.HTTPStatusFromErr(err))
	s.Equal(0, s.archiver.count())
}

func (s *NotificationServiceSuite) TestConsumerAcksAllButStoreFailures() {
	ok := message.NewMessage("m-1", notification("WH-1", "plan", `{"id":"P-1","state":"CREATED"}`))
	s.NoError(s.consumer.ProcessMessage(ok))
	s.Len(s.GetStores().PlanRepo.All(), 1)

	unreadable := message.NewMessage("m-2", []byte(`not json`))
	s.NoError(s.consumer.ProcessMessage(unreadable))

	s.GetStores().WebhookEventRepo.FailWith(ierr.NewError("connection refused").Mark(ierr.ErrDatabase))
	failing := message.NewMessage("m-3", notification("WH-2", "plan", `{"id":"P-2","state":"CREATED"}`))
	failing.SetContext(context.Background())
	s.Error(s.consumer.ProcessMessage(failing))
}
