package service

import (
	"github.com/flexprice/paymirror/internal/config"
	"github.com/flexprice/paymirror/internal/domain/agreement"
	"github.com/flexprice/paymirror/internal/domain/payment"
	"github.com/flexprice/paymirror/internal/domain/plan"
	"github.com/flexprice/paymirror/internal/domain/transactionlog"
	ierr "github.com/flexprice/paymirror/internal/errors"
	"github.com/flexprice/paymirror/internal/gateway"
	"github.com/flexprice/paymirror/internal/ledger"
	"github.com/flexprice/paymirror/internal/logger"
	"github.com/flexprice/paymirror/internal/postgres"
	"github.com/flexprice/paymirror/internal/pyroscope"
	"github.com/flexprice/paymirror/internal/reconcile"
	"github.com/flexprice/paymirror/internal/s3"
	"github.com/flexprice/paymirror/internal/sentry"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger    *logger.Logger
	Config    *config.Configuration
	DB        postgres.IClient
	Sentry    *sentry.Service
	Pyroscope *pyroscope.Service
	Archiver  s3.Archiver

	// Repositories
	PlanRepo           plan.Repository
	AgreementRepo      agreement.Repository
	PaymentRepo        payment.Repository
	TransactionLogRepo transactionlog.Repository

	// Reconciliation
	Ledger              *ledger.Ledger
	Dispatcher          *reconcile.Dispatcher
	PlanReconciler      *reconcile.PlanReconciler
	AgreementReconciler *reconcile.AgreementReconciler
	PaymentReconciler   *reconcile.PaymentReconciler

	// Provider
	Gateway gateway.Gateway
}

// Common service params
func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	db postgres.IClient,
	sentry *sentry.Service,
	pyroscope *pyroscope.Service,
	archiver s3.Archiver,
	planRepo plan.Repository,
	agreementRepo agreement.Repository,
	paymentRepo payment.Repository,
	transactionLogRepo transactionlog.Repository,
	ledger *ledger.Ledger,
	dispatcher *reconcile.Dispatcher,
	planReconciler *reconcile.PlanReconciler,
	agreementReconciler *reconcile.AgreementReconciler,
	paymentReconciler *reconcile.PaymentReconciler,
	gateway gateway.Gateway,
) ServiceParams {
	return ServiceParams{
		Logger:              logger,
		Config:              config,
		DB:                  db,
		Sentry:              sentry,
		Pyroscope:           pyroscope,
		Archiver:            archiver,
		PlanRepo:            planRepo,
		AgreementRepo:       agreementRepo,
		PaymentRepo:         paymentRepo,
		TransactionLogRepo:  transactionLogRepo,
		Ledger:              ledger,
		Dispatcher:          dispatcher,
		PlanReconciler:      planReconciler,
		AgreementReconciler: agreementReconciler,
		PaymentReconciler:   paymentReconciler,
		Gateway:             gateway,
	}
}

// storeUnavailable classifies err as a transient store failure. Callers use
// it for any failure that is neither a rejection nor already classified.
func storeUnavailable(err error, hint string) error {
	if ierr.Is(err, ierr.ErrStoreUnavailable) {
		return err
	}
	return ierr.WithError(err).
		WithHint(hint).
		Mark(ierr.ErrStoreUnavailable)
}
