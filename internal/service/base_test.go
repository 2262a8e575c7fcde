package service

import (
	"context"
	"sync"

	"github.com/flexprice/paymirror/internal/ledger"
	"github.com/flexprice/paymirror/internal/pyroscope"
	"github.com/flexprice/paymirror/internal/reconcile"
	"github.com/flexprice/paymirror/internal/sentry"
	"github.com/flexprice/paymirror/internal/testutil"
)

// recordingArchiver keeps archived bodies by event id
type recordingArchiver struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newRecordingArchiver() *recordingArchiver {
	return &recordingArchiver{objects: make(map[string][]byte)}
}

func (a *recordingArchiver) Archive(_ context.Context, resourceType, eventID string, body []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.objects[eventID] = body
	return nil
}

func (a *recordingArchiver) count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.objects)
}

// newTestServiceParams wires ServiceParams over the suite's in-memory stores
func newTestServiceParams(s *testutil.BaseServiceTestSuite, archiver *recordingArchiver) ServiceParams {
	stores := s.GetStores()
	cfg := s.GetConfig()
	log := s.GetLogger()

	p := reconcile.Params{
		Logger:            log,
		Locker:            s.GetLocker(),
		PlanRepo:          stores.PlanRepo,
		AgreementRepo:     stores.AgreementRepo,
		PaymentRepo:       stores.PaymentRepo,
		SaleRepo:          stores.SaleRepo,
		AuthorizationRepo: stores.AuthorizationRepo,
		CaptureRepo:       stores.CaptureRepo,
		RefundRepo:        stores.RefundRepo,
	}
	planReconciler := reconcile.NewPlanReconciler(p)
	agreementReconciler := reconcile.NewAgreementReconciler(p)
	paymentReconciler := reconcile.NewPaymentReconciler(p)
	dispatcher := reconcile.NewDispatcher(
		planReconciler,
		agreementReconciler,
		reconcile.NewSaleReconciler(p),
		reconcile.NewAuthorizationReconciler(p),
		reconcile.NewCaptureReconciler(p),
		reconcile.NewRefundReconciler(p),
		log,
	)

	return NewServiceParams(
		log,
		cfg,
		s.GetDB(),
		sentry.NewSentryService(cfg, log),
		pyroscope.NewPyroscopeService(cfg, log),
		archiver,
		stores.PlanRepo,
		stores.AgreementRepo,
		stores.PaymentRepo,
		stores.TransactionLogRepo,
		ledger.New(stores.WebhookEventRepo, s.GetCache(), cfg, log),
		dispatcher,
		planReconciler,
		agreementReconciler,
		paymentReconciler,
		s.GetGateway(),
	)
}
