package repository

import (
	"github.com/flexprice/paymirror/internal/domain/agreement"
	"github.com/flexprice/paymirror/internal/domain/authorization"
	"github.com/flexprice/paymirror/internal/domain/capture"
	"github.com/flexprice/paymirror/internal/domain/payment"
	"github.com/flexprice/paymirror/internal/domain/plan"
	"github.com/flexprice/paymirror/internal/domain/refund"
	"github.com/flexprice/paymirror/internal/domain/sale"
	"github.com/flexprice/paymirror/internal/domain/transactionlog"
	"github.com/flexprice/paymirror/internal/domain/webhookevent"
	"github.com/flexprice/paymirror/internal/logger"
	"github.com/flexprice/paymirror/internal/postgres"
	postgresRepo "github.com/flexprice/paymirror/internal/repository/postgres"
	"go.uber.org/fx"
)

// Module provides every postgres backed repository
func Module() fx.Option {
	return fx.Provide(
		NewWebhookEventRepository,
		NewPlanRepository,
		NewAgreementRepository,
		NewPaymentRepository,
		NewSaleRepository,
		NewAuthorizationRepository,
		NewCaptureRepository,
		NewRefundRepository,
		NewTransactionLogRepository,
	)
}

func NewWebhookEventRepository(db *postgres.DB, logger *logger.Logger) webhookevent.Repository {
	return postgresRepo.NewWebhookEventRepository(db, logger)
}

func NewPlanRepository(db *postgres.DB, logger *logger.Logger) plan.Repository {
	return postgresRepo.NewPlanRepository(db, logger)
}

func NewAgreementRepository(db *postgres.DB, logger *logger.Logger) agreement.Repository {
	return postgresRepo.NewAgreementRepository(db, logger)
}

func NewPaymentRepository(db *postgres.DB, logger *logger.Logger) payment.Repository {
	return postgresRepo.NewPaymentRepository(db, logger)
}

func NewSaleRepository(db *postgres.DB, logger *logger.Logger) sale.Repository {
	return postgresRepo.NewSaleRepository(db, logger)
}

func NewAuthorizationRepository(db *postgres.DB, logger *logger.Logger) authorization.Repository {
	return postgresRepo.NewAuthorizationRepository(db, logger)
}

func NewCaptureRepository(db *postgres.DB, logger *logger.Logger) capture.Repository {
	return postgresRepo.NewCaptureRepository(db, logger)
}

func NewRefundRepository(db *postgres.DB, logger *logger.Logger) refund.Repository {
	return postgresRepo.NewRefundRepository(db, logger)
}

func NewTransactionLogRepository(db *postgres.DB, logger *logger.Logger) transactionlog.Repository {
	return postgresRepo.NewTransactionLogRepository(db, logger)
}
